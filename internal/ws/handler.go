package ws

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
)

// Handler upgrades inbound HTTP requests to WebSocket sessions. It is mounted
// on the chi router at /api/ws. The connection arrives unauthenticated; the
// AUTH handshake happens over the socket itself, so no HTTP auth middleware
// applies here.
type Handler struct {
	upgrader   websocket.Upgrader
	dispatcher *Dispatcher
	registry   *Registry

	logger *logger.Logger
}

// NewHandler constructs the upgrade handler.
func NewHandler(dispatcher *Dispatcher, registry *Registry, logger *logger.Logger) *Handler {
	logger.Info().Msg("websocket handler created")
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The browser front end is served from arbitrary local origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		dispatcher: dispatcher,
		registry:   registry,
		logger:     logger,
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Err(err).Msg("websocket upgrade failed")
		return
	}

	// The request context dies with this handler; sessions outlive it, so
	// they run on a background context carrying the session logger.
	sessionLogger := h.logger.GetChildLogger()
	ctx := sessionLogger.WithContext(context.Background())

	session := NewSession(conn, h.dispatcher, h.registry, sessionLogger)
	session.Start(ctx)
}
