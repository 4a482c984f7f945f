package store

import (
	"context"
	"time"

	"github.com/mizulegendsstudios/mizu-notes-sub000/models"
)

// UserRepository persists user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// NoteRepository persists notes. All operations are scoped to the owning
// user; a note id belonging to another user behaves as if it did not exist.
type NoteRepository interface {
	GetUserNotes(ctx context.Context, userID int64) ([]models.Note, error)
	CreateNote(ctx context.Context, note models.Note) (models.Note, error)

	// UpdateNote applies the non-nil fields of patch, bumps the version
	// counter, and returns the canonical row. Returns ErrNoteNotFound when
	// no row matches (noteID, userID).
	UpdateNote(ctx context.Context, noteID string, userID int64, patch models.NotePatch) (models.Note, error)

	// DeleteNote removes (noteID, userID). The boolean reports whether a
	// row was actually deleted.
	DeleteNote(ctx context.Context, noteID string, userID int64) (bool, error)
}

// NoteCache is the black-box cache contract consumed by the service layer:
// get/set/del on opaque string keys and byte values.
type NoteCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
