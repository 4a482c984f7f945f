package models

// Wire payload shapes carried inside binary sync frames. Each request or
// reply body is UTF-8 JSON; the surrounding frame supplies the opcode.

// CreateNoteRequest is the NOTE_CREATE request payload.
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateNoteRequest is the NOTE_UPDATE request payload.
// Nil Title/Content fields are left untouched on the server.
type UpdateNoteRequest struct {
	NoteID  string  `json:"note_id"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// DeleteNoteRequest is the NOTE_DELETE request payload; the same shape is
// broadcast back to the owner's sessions after a successful delete.
type DeleteNoteRequest struct {
	NoteID string `json:"note_id"`
}

// ErrorReply is the ERROR payload sent to a client.
type ErrorReply struct {
	Error string `json:"error"`
}

// AckReply is the ACK payload confirming a successful handshake.
type AckReply struct {
	Message string `json:"message"`
}
