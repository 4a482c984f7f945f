package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024 // 512 KB

	sendBufferSize = 256
)

// Session represents one live transport connection. It owns the websocket
// handle exclusively: the read pump is the only reader, the write pump the
// only writer (control frames excepted, which gorilla permits concurrently).
//
// authenticated and userID are mutated exclusively from the read pump
// goroutine (Dispatch runs synchronously inside it), so they need no lock.
type Session struct {
	conn     *websocket.Conn
	send     chan []byte
	registry *Registry

	dispatcher *Dispatcher
	logger     *logger.Logger

	// sendMu guards send against queueing after the channel is closed.
	sendMu     sync.Mutex
	sendClosed bool
	closeMsg   []byte

	authenticated bool
	userID        int64
}

// NewSession wraps an upgraded connection. The session is unauthenticated
// until the AUTH handshake succeeds.
func NewSession(conn *websocket.Conn, dispatcher *Dispatcher, registry *Registry, logger *logger.Logger) *Session {
	return &Session{
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		registry:   registry,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Start launches the read and write pumps. It returns immediately.
func (s *Session) Start(ctx context.Context) {
	go s.writePump()
	go s.readPump(ctx)
}

// Send queues a frame for delivery. When the outbound buffer is saturated the
// frame is dropped and logged; a slow consumer must not block broadcasts to
// its siblings. Frames queued after the session started closing are dropped.
func (s *Session) Send(frame []byte) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.sendClosed {
		return
	}

	select {
	case s.send <- frame:
	default:
		s.logger.Warn().Int64("user_id", s.userID).Msg("session send buffer full, dropping frame")
	}
}

// ClosePolicyViolation shuts the session down with a policy-violation close
// frame. Used when the AUTH handshake fails. The close travels through the
// send channel so the write pump delivers every already-queued frame (the
// ERROR reply in particular) before the close frame goes out.
func (s *Session) ClosePolicyViolation(reason string) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.sendClosed {
		return
	}
	s.sendClosed = true
	s.closeMsg = websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	close(s.send)
}

// readPump reads frames from the connection and hands them to the dispatcher
// until the connection dies. On exit it removes the session from the registry
// (if it ever authenticated) and closes the transport.
func (s *Session) readPump(ctx context.Context) {
	defer func() {
		if s.authenticated {
			s.registry.Unregister(s.userID, s)
		}
		_ = s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Error().Err(err).Msg("failed to set read deadline")
		return
	}

	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.ClosePolicyViolation) {
				s.logger.Debug().Err(err).Msg("unexpected websocket close")
			}
			return
		}

		s.dispatcher.Dispatch(ctx, s, frame)
	}
}

// writePump pumps queued frames to the connection and keeps it alive with
// transport-level pings.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.logger.Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				msg := s.closeMsg
				if msg == nil {
					msg = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
				}
				_ = s.conn.WriteMessage(websocket.CloseMessage, msg)
				return
			}

			if err := s.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				s.logger.Debug().Err(err).Msg("failed to write frame")
				return
			}

		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
