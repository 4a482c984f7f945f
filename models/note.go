package models

import "time"

// Note represents a single user-owned note as stored on the server.
// The same structure travels over the wire inside NOTE_CREATE, NOTE_UPDATE
// and NOTE_LIST payloads, so JSON tags define the canonical wire form.
type Note struct {
	// NoteID is the opaque unique identifier of the note (UUID v4).
	NoteID string `json:"note_id"`

	// UserID is the internal identifier of the owning user.
	// It is never exposed via JSON; ownership is implied by the
	// authenticated connection the note is sent over.
	UserID int64 `json:"-"`

	// Title is the note heading shown in list views.
	Title string `json:"title"`

	// Content is the note body.
	Content string `json:"content"`

	// Version is a monotonically incrementing optimistic-lock token.
	// It starts at 1 on creation and grows by one per successful update.
	// Stale writes are not rejected; the later write simply wins.
	Version int64 `json:"version"`

	// CreatedAt is the server-side creation timestamp.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last successful update.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Note model.
func (n Note) TableName() string {
	return "notes"
}

// NotePatch describes a partial note update. Nil fields are left untouched.
type NotePatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Empty reports whether the patch carries no changes at all.
func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Content == nil
}
