package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/config"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/store"
	"github.com/mizulegendsstudios/mizu-notes-sub000/models"
)

// noteService implements NoteService on top of the note repository with a
// cache-aside per-user note-list cache. Cache failures are logged and never
// surfaced: the database remains the source of truth.
type noteService struct {
	noteRepository store.NoteRepository

	// cache may be nil when Redis is not configured; every method treats a
	// nil cache as a permanent miss.
	cache    store.NoteCache
	cacheTTL time.Duration

	logger *logger.Logger
}

// NewNoteService constructs a NoteService wired to the given repository and
// (optionally nil) cache.
func NewNoteService(noteRepository store.NoteRepository, cache store.NoteCache, cfg config.Redis, logger *logger.Logger) NoteService {
	return &noteService{
		noteRepository: noteRepository,
		cache:          cache,
		cacheTTL:       cfg.TTL,
		logger:         logger,
	}
}

// noteListCacheKey builds the cache key for a user's full note list.
func noteListCacheKey(userID int64) string {
	return fmt.Sprintf("notes:%d", userID)
}

// GetUserNotes returns every note owned by userID, serving from the cache
// when possible and repopulating it after a database read.
func (s *noteService) GetUserNotes(ctx context.Context, userID int64) ([]models.Note, error) {
	log := logger.FromContext(ctx)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, noteListCacheKey(userID))
		switch {
		case err == nil:
			var notes []models.Note
			if err = json.Unmarshal(cached, &notes); err == nil {
				return notes, nil
			}
			// A corrupt entry falls through to the database read below.
			log.Warn().Err(err).Int64("user_id", userID).Msg("corrupt note list cache entry")
		case !errors.Is(err, store.ErrCacheMiss):
			log.Warn().Err(err).Int64("user_id", userID).Msg("note list cache read failed")
		}
	}

	notes, err := s.noteRepository.GetUserNotes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting user notes failed: %w", err)
	}

	s.cacheNoteList(ctx, userID, notes)

	return notes, nil
}

// CreateNote persists a new note with a generated UUID and version 1, then
// invalidates the owner's cached list.
func (s *noteService) CreateNote(ctx context.Context, userID int64, title, content string) (models.Note, error) {
	log := logger.FromContext(ctx)

	if title == "" && content == "" {
		log.Error().Int64("user_id", userID).Msg("empty note create request")
		return models.Note{}, ErrInvalidDataProvided
	}

	note := models.Note{
		NoteID:  uuid.NewString(),
		UserID:  userID,
		Title:   title,
		Content: content,
	}

	created, err := s.noteRepository.CreateNote(ctx, note)
	if err != nil {
		return models.Note{}, fmt.Errorf("note creation failed: %w", err)
	}

	s.invalidateNoteList(ctx, userID)

	return created, nil
}

// UpdateNote applies a partial update and returns the canonical result.
// Empty patches are rejected before touching storage.
func (s *noteService) UpdateNote(ctx context.Context, noteID string, userID int64, patch models.NotePatch) (models.Note, error) {
	if noteID == "" || patch.Empty() {
		return models.Note{}, ErrInvalidDataProvided
	}

	updated, err := s.noteRepository.UpdateNote(ctx, noteID, userID, patch)
	if err != nil {
		return models.Note{}, fmt.Errorf("note update failed: %w", err)
	}

	s.invalidateNoteList(ctx, userID)

	return updated, nil
}

// DeleteNote removes the note if it belongs to userID. A miss is reported as
// (false, nil), not an error.
func (s *noteService) DeleteNote(ctx context.Context, noteID string, userID int64) (bool, error) {
	if noteID == "" {
		return false, ErrInvalidDataProvided
	}

	deleted, err := s.noteRepository.DeleteNote(ctx, noteID, userID)
	if err != nil {
		return false, fmt.Errorf("note deletion failed: %w", err)
	}

	if deleted {
		s.invalidateNoteList(ctx, userID)
	}

	return deleted, nil
}

func (s *noteService) cacheNoteList(ctx context.Context, userID int64, notes []models.Note) {
	if s.cache == nil {
		return
	}

	body, err := json.Marshal(notes)
	if err != nil {
		return
	}

	if err = s.cache.Set(ctx, noteListCacheKey(userID), body, s.cacheTTL); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Int64("user_id", userID).Msg("note list cache write failed")
	}
}

func (s *noteService) invalidateNoteList(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, noteListCacheKey(userID)); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Int64("user_id", userID).Msg("note list cache invalidation failed")
	}
}
