package sync

import "time"

// OperationKind discriminates the variants of [Operation].
type OperationKind int

const (
	// KindUpdate applies a partial note update and broadcasts the result.
	KindUpdate OperationKind = iota + 1

	// KindDelete removes a note and broadcasts the deletion.
	KindDelete
)

// String returns a short name for logging.
func (k OperationKind) String() string {
	switch k {
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Operation is an immutable record describing a pending mutation side effect.
// It is created when a mutation request arrives (over the wire or from the
// REST layer), consumed exactly once by the drain loop, and never mutated
// after creation.
//
// Title and Content are meaningful only for KindUpdate; nil pointers leave
// the corresponding field untouched.
type Operation struct {
	Kind       OperationKind
	UserID     int64
	NoteID     string
	Title      *string
	Content    *string
	EnqueuedAt time.Time
}

// UpdateOperation builds a KindUpdate operation stamped with the current time.
func UpdateOperation(userID int64, noteID string, title, content *string) Operation {
	return Operation{
		Kind:       KindUpdate,
		UserID:     userID,
		NoteID:     noteID,
		Title:      title,
		Content:    content,
		EnqueuedAt: time.Now(),
	}
}

// DeleteOperation builds a KindDelete operation stamped with the current time.
func DeleteOperation(userID int64, noteID string) Operation {
	return Operation{
		Kind:       KindDelete,
		UserID:     userID,
		NoteID:     noteID,
		EnqueuedAt: time.Now(),
	}
}
