package service

import (
	"context"

	"github.com/mizulegendsstudios/mizu-notes-sub000/models"
)

// AuthService handles user registration, credential verification, and JWT
// token lifecycle. ParseToken is the credential verifier consumed by both
// the HTTP auth middleware and the WebSocket AUTH handshake.
type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// NoteService is the storage collaborator for all note operations. It wraps
// the repository with the cache-aside note-list cache and is consumed by the
// REST handlers, the WebSocket dispatcher, and the sync drain loop.
type NoteService interface {
	GetUserNotes(ctx context.Context, userID int64) ([]models.Note, error)
	CreateNote(ctx context.Context, userID int64, title, content string) (models.Note, error)
	UpdateNote(ctx context.Context, noteID string, userID int64, patch models.NotePatch) (models.Note, error)
	DeleteNote(ctx context.Context, noteID string, userID int64) (bool, error)
}
