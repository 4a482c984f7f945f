package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/config"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/store"
	syncer "github.com/mizulegendsstudios/mizu-notes-sub000/internal/sync"
	"github.com/mizulegendsstudios/mizu-notes-sub000/models"
)

const (
	clientWriteWait = 10 * time.Second
	dialTimeout     = 10 * time.Second
)

// frameHandler consumes the payload of one inbound frame.
type frameHandler func(ctx context.Context, payload []byte) error

// App is the local-first sync client. It owns the WebSocket connection, the
// opcode handler map, the pending mutation set, and the SQLite note mirror.
type App struct {
	adapter ServerAdapter
	cache   store.LocalNoteCache
	logger  *logger.Logger

	wsURL   string
	backoff *backoff
	pending *pendingSet

	handlers map[syncer.Opcode]frameHandler

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewApp builds the client from its configuration: a resty REST adapter for
// the credential exchange, the local SQLite mirror, and the default opcode
// handlers.
func NewApp(cfg config.Client, logger *logger.Logger) (*App, error) {
	cache, err := store.NewLocalNoteCache(cfg.LocalCachePath)
	if err != nil {
		return nil, fmt.Errorf("create local note cache: %w", err)
	}

	a := &App{
		adapter: NewHTTPServerAdapter(cfg.ServerURL, 15*time.Second),
		cache:   cache,
		logger:  logger,
		wsURL:   wsEndpoint(cfg.ServerURL),
		backoff: newBackoff(defaultBackoffBase, maxReconnectTries),
		pending: newPendingSet(),
	}
	a.handlers = map[syncer.Opcode]frameHandler{
		syncer.OpPong:       a.onPong,
		syncer.OpAck:        a.onAck,
		syncer.OpError:      a.onError,
		syncer.OpNoteList:   a.onNoteList,
		syncer.OpNoteCreate: a.onNoteUpsert,
		syncer.OpNoteUpdate: a.onNoteUpdate,
		syncer.OpNoteDelete: a.onNoteDelete,
	}

	return a, nil
}

// Register creates an account and stores the returned token for the
// WebSocket handshake.
func (a *App) Register(ctx context.Context, login, password, name string) error {
	_, err := a.adapter.Register(ctx, models.User{Login: login, Password: password, Name: name})
	return err
}

// Login exchanges credentials for a token used by the WebSocket handshake.
func (a *App) Login(ctx context.Context, login, password string) error {
	_, err := a.adapter.Login(ctx, models.User{Login: login, Password: password})
	return err
}

// Run holds the sync connection until ctx is cancelled. Lost connections are
// re-established on a doubling backoff; once the schedule is exhausted Run
// returns [ErrServerGaveUp] and the app keeps serving local reads.
//
// The backoff schedule is reset only when a session proves usable (the
// server's authenticated ACK, see onAck). A dial that succeeds but dies at
// the handshake still burns a retry slot, so a server that accepts upgrades
// only to reject the token cannot trap the client in a tight redial loop.
func (a *App) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		conn, err := a.dial(ctx)
		if err == nil {
			a.setConn(conn)

			if err = a.authenticate(); err != nil {
				a.logger.Err(err).Msg("websocket handshake failed")
			} else {
				a.readLoop(ctx)
			}
			a.dropConn()
		} else {
			a.logger.Info().Err(err).Msg("connect failed")
		}

		if ctx.Err() != nil {
			return nil
		}

		delay, ok := a.backoff.Next()
		if !ok {
			a.logger.Warn().Msg("reconnect attempts exhausted, switching to local-only mode")
			return ErrServerGaveUp
		}

		a.logger.Info().Dur("retry_in", delay).Msg("will retry connection")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

// Notes returns the local mirror of the user's notes. It works regardless of
// connection state.
func (a *App) Notes(ctx context.Context) ([]models.Note, error) {
	return a.cache.Notes(ctx)
}

// CreateNote asks the server to create a note. Creation needs a
// server-assigned ID, so it cannot be queued offline.
func (a *App) CreateNote(_ context.Context, title, content string) error {
	body, err := json.Marshal(models.CreateNoteRequest{Title: title, Content: content})
	if err != nil {
		return fmt.Errorf("marshal create request: %w", err)
	}
	return a.send(syncer.Encode(syncer.OpNoteCreate, body))
}

// UpdateNote sends a partial note update. When the connection is down the
// frame joins the pending set and is replayed on reconnect.
func (a *App) UpdateNote(_ context.Context, noteID string, title, content *string) error {
	body, err := json.Marshal(models.UpdateNoteRequest{NoteID: noteID, Title: title, Content: content})
	if err != nil {
		return fmt.Errorf("marshal update request: %w", err)
	}

	frame := syncer.Encode(syncer.OpNoteUpdate, body)
	if err = a.send(frame); err != nil {
		a.pending.Add("update:"+noteID, frame)
		a.logger.Info().Str("note_id", noteID).Msg("update queued until reconnect")
	}
	return nil
}

// DeleteNote sends a deletion, queueing it like UpdateNote when offline.
func (a *App) DeleteNote(_ context.Context, noteID string) error {
	body, err := json.Marshal(models.DeleteNoteRequest{NoteID: noteID})
	if err != nil {
		return fmt.Errorf("marshal delete request: %w", err)
	}

	frame := syncer.Encode(syncer.OpNoteDelete, body)
	if err = a.send(frame); err != nil {
		a.pending.Add("delete:"+noteID, frame)
		a.logger.Info().Str("note_id", noteID).Msg("delete queued until reconnect")
	}
	return nil
}

// Close tears down the connection and the local cache.
func (a *App) Close() error {
	a.dropConn()
	return a.cache.Close()
}

func (a *App) dial(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, resp, err := websocket.DefaultDialer.DialContext(dialCtx, a.wsURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", a.wsURL, err)
	}
	return conn, nil
}

// authenticate sends the token as the AUTH frame payload. The server replies
// ACK on success; that reply triggers the pending flush and a fresh list.
func (a *App) authenticate() error {
	token := a.adapter.Token()
	if token == "" {
		return ErrUnauthorized
	}
	return a.send(syncer.Encode(syncer.OpAuth, []byte(token)))
}

func (a *App) readLoop(ctx context.Context) {
	conn := a.currentConn()
	if conn == nil {
		return
	}

	for {
		if ctx.Err() != nil {
			return
		}

		_, frame, err := conn.ReadMessage()
		if err != nil {
			a.logger.Info().Err(err).Msg("connection lost")
			return
		}

		a.handleFrame(ctx, frame)
	}
}

func (a *App) handleFrame(ctx context.Context, frame []byte) {
	op, payload, err := syncer.Decode(frame)
	if err != nil {
		a.logger.Warn().Err(err).Msg("dropping malformed frame")
		return
	}

	handler, ok := a.handlers[op]
	if !ok {
		a.logger.Warn().Str("opcode", op.String()).Msg("no handler registered for opcode")
		return
	}

	if err = handler(ctx, payload); err != nil {
		a.logger.Err(err).Str("opcode", op.String()).Msg("frame handler failed")
	}
}

func (a *App) onPong(context.Context, []byte) error {
	a.logger.Debug().Msg("pong received")
	return nil
}

func (a *App) onAck(_ context.Context, payload []byte) error {
	var ack models.AckReply
	if err := json.Unmarshal(payload, &ack); err != nil {
		return fmt.Errorf("decode ack: %w", err)
	}

	a.logger.Info().Str("message", ack.Message).Msg("server ack")

	if ack.Message == "authenticated" {
		// the session is proven usable only now; fresh reconnect budget
		a.backoff.Reset()
		a.flushPending()
		return a.send(syncer.Encode(syncer.OpNoteList, nil))
	}
	return nil
}

func (a *App) onError(_ context.Context, payload []byte) error {
	var reply models.ErrorReply
	if err := json.Unmarshal(payload, &reply); err != nil {
		return fmt.Errorf("decode error reply: %w", err)
	}

	a.logger.Warn().Str("reason", reply.Error).Msg("server reported error")
	return nil
}

func (a *App) onNoteList(ctx context.Context, payload []byte) error {
	var notes []models.Note
	if err := json.Unmarshal(payload, &notes); err != nil {
		return fmt.Errorf("decode note list: %w", err)
	}

	for _, note := range notes {
		if err := a.cache.UpsertNote(ctx, note); err != nil {
			return fmt.Errorf("mirror note %s: %w", note.NoteID, err)
		}
	}

	a.logger.Info().Int("count", len(notes)).Msg("note list synced")
	return nil
}

func (a *App) onNoteUpsert(ctx context.Context, payload []byte) error {
	var note models.Note
	if err := json.Unmarshal(payload, &note); err != nil {
		return fmt.Errorf("decode note: %w", err)
	}

	if err := a.cache.UpsertNote(ctx, note); err != nil {
		return fmt.Errorf("mirror note %s: %w", note.NoteID, err)
	}

	a.logger.Info().Str("note_id", note.NoteID).Int64("version", note.Version).Msg("note synced")
	return nil
}

func (a *App) onNoteUpdate(ctx context.Context, payload []byte) error {
	var note models.Note
	if err := json.Unmarshal(payload, &note); err != nil {
		return fmt.Errorf("decode note: %w", err)
	}

	a.pending.Remove("update:" + note.NoteID)

	if err := a.cache.UpsertNote(ctx, note); err != nil {
		return fmt.Errorf("mirror note %s: %w", note.NoteID, err)
	}

	a.logger.Info().Str("note_id", note.NoteID).Int64("version", note.Version).Msg("note updated")
	return nil
}

func (a *App) onNoteDelete(ctx context.Context, payload []byte) error {
	var req models.DeleteNoteRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("decode deletion: %w", err)
	}

	a.pending.Remove("delete:" + req.NoteID)

	if err := a.cache.DeleteNote(ctx, req.NoteID); err != nil {
		return fmt.Errorf("drop mirrored note %s: %w", req.NoteID, err)
	}

	a.logger.Info().Str("note_id", req.NoteID).Msg("note deleted")
	return nil
}

// flushPending replays mutations issued while offline, oldest first. Frames
// that fail to send go straight back into the set.
func (a *App) flushPending() {
	frames := a.pending.TakeAll()
	if len(frames) == 0 {
		return
	}

	a.logger.Info().Int("count", len(frames)).Msg("flushing pending mutations")
	for _, pf := range frames {
		if err := a.send(pf.frame); err != nil {
			a.pending.Add(pf.key, pf.frame)
			a.logger.Err(err).Str("key", pf.key).Msg("pending flush interrupted")
			return
		}
	}
}

func (a *App) send(frame []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn == nil {
		return ErrNotConnected
	}

	_ = a.conn.SetWriteDeadline(time.Now().Add(clientWriteWait))
	if err := a.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (a *App) setConn(conn *websocket.Conn) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.conn = conn
}

func (a *App) currentConn() *websocket.Conn {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.conn
}

func (a *App) dropConn() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn != nil {
		_ = a.conn.Close()
		a.conn = nil
	}
}

// wsEndpoint converts the REST base URL into the sync endpoint URL,
// switching the scheme to ws/wss.
func wsEndpoint(serverURL string) string {
	base := strings.TrimRight(serverURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	case base == "":
		base = "ws://localhost:8080"
	}
	return base + "/api/ws"
}
