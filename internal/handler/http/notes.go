package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
	syncer "github.com/mizulegendsstudios/mizu-notes-sub000/internal/sync"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/utils"
	"github.com/mizulegendsstudios/mizu-notes-sub000/models"
)

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Str("func", "*Handler.listNotes").Msg("no user id in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	notes, err := h.services.NoteService.GetUserNotes(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listNotes").Msg("error getting user notes")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, notes, http.StatusOK)
}

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Str("func", "*Handler.createNote").Msg("no user id in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.createNote").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	note, err := h.services.NoteService.CreateNote(ctx, userID, req.Title, req.Content)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createNote").Msg("error creating note")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, note, http.StatusCreated)
}

// updateNote applies the patch through the sync queue rather than touching
// storage directly, so that a REST mutation reaches the user's open
// WebSocket sessions the same way a socket-originated one does.
func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Str("func", "*Handler.updateNote").Msg("no user id in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	noteID := chi.URLParam(r, "noteID")
	if noteID == "" {
		http.Error(w, "note id is required", http.StatusBadRequest)
		return
	}

	var patch models.NotePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Err(err).Str("func", "*Handler.updateNote").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if patch.Empty() {
		http.Error(w, "empty patch", http.StatusBadRequest)
		return
	}

	if err := h.engine.Enqueue(syncer.UpdateOperation(userID, noteID, patch.Title, patch.Content)); err != nil {
		log.Err(err).Str("func", "*Handler.updateNote").Msg("error enqueueing note update")
		http.Error(w, "sync queue full", http.StatusServiceUnavailable)
		return
	}

	utils.WriteJSON(w, models.AckReply{Message: "update accepted"}, http.StatusAccepted)
}

// deleteNote enqueues the deletion for the same reason updateNote does.
func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Str("func", "*Handler.deleteNote").Msg("no user id in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	noteID := chi.URLParam(r, "noteID")
	if noteID == "" {
		http.Error(w, "note id is required", http.StatusBadRequest)
		return
	}

	if err := h.engine.Enqueue(syncer.DeleteOperation(userID, noteID)); err != nil {
		log.Err(err).Str("func", "*Handler.deleteNote").Msg("error enqueueing note deletion")
		http.Error(w, "sync queue full", http.StatusServiceUnavailable)
		return
	}

	utils.WriteJSON(w, models.AckReply{Message: "delete accepted"}, http.StatusAccepted)
}
