package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/user/register", h.register)
		r.Post("/api/user/login", h.login)
	})

	// the websocket endpoint authenticates over the socket itself
	if h.wsUpgrade != nil {
		router.Handle("/api/ws", h.wsUpgrade)
	}

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/notes", h.listNotes)
		r.Post("/api/notes", h.createNote)
		r.Patch("/api/notes/{noteID}", h.updateNote)
		r.Delete("/api/notes/{noteID}", h.deleteNote)
	})

	return router
}
