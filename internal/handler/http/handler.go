package http

import (
	"net/http"

	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/service"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/ws"
)

type Handler struct {
	services  *service.Services
	engine    ws.Enqueuer
	wsUpgrade http.Handler

	logger *logger.Logger
}

// NewHandler wires the REST controllers to the service layer, the sync queue
// (REST mutations fan out to WebSocket sessions through it), and the
// WebSocket upgrade handler mounted under the same router.
func NewHandler(services *service.Services, engine ws.Enqueuer, wsUpgrade http.Handler, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:  services,
		engine:    engine,
		wsUpgrade: wsUpgrade,
		logger:    logger,
	}
}
