package sync

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
	"github.com/mizulegendsstudios/mizu-notes-sub000/models"
)

// NoteStore is the storage collaborator the drain loop mutates through.
// Implemented by service.NoteService.
type NoteStore interface {
	// UpdateNote applies a partial update for (noteID, userID) and returns
	// the canonical resulting note.
	UpdateNote(ctx context.Context, noteID string, userID int64, patch models.NotePatch) (models.Note, error)

	// DeleteNote removes (noteID, userID). The boolean reports whether a row
	// owned by the user actually existed.
	DeleteNote(ctx context.Context, noteID string, userID int64) (bool, error)
}

// Broadcaster fans a finished frame out to every live session of a user.
// Implemented by ws.Registry.
type Broadcaster interface {
	Broadcast(userID int64, frame []byte)
}

// Engine is the synchronization queue and its drain loop. Operations are
// enqueued onto a bounded channel and consumed by exactly one goroutine, so
// at most one operation is ever in flight and FIFO order is preserved without
// explicit locking.
type Engine struct {
	ops         chan Operation
	notes       NoteStore
	broadcaster Broadcaster
	opTimeout   time.Duration
	logger      *logger.Logger
}

// NewEngine constructs an Engine with the given queue bound and per-operation
// timeout. queueSize and opTimeout must be positive; callers get them from
// config.Sync which applies defaults.
func NewEngine(notes NoteStore, broadcaster Broadcaster, queueSize int, opTimeout time.Duration, logger *logger.Logger) *Engine {
	logger.Debug().Int("queue_size", queueSize).Dur("op_timeout", opTimeout).Msg("creating sync engine")
	return &Engine{
		ops:         make(chan Operation, queueSize),
		notes:       notes,
		broadcaster: broadcaster,
		opTimeout:   opTimeout,
		logger:      logger,
	}
}

// Enqueue appends an operation to the tail of the queue without blocking the
// caller. When the bounded queue is full the operation is dropped and
// [ErrQueueFull] is returned; the caller decides whether to surface that to
// the client.
func (e *Engine) Enqueue(op Operation) error {
	select {
	case e.ops <- op:
		return nil
	default:
		e.logger.Warn().
			Str("kind", op.Kind.String()).
			Int64("user_id", op.UserID).
			Str("note_id", op.NoteID).
			Msg("sync queue full, dropping operation")
		return ErrQueueFull
	}
}

// Run drains the queue until ctx is cancelled. It implements workers.Worker.
//
// Per-operation failures are logged and swallowed: one bad operation must not
// halt draining of subsequent ones.
func (e *Engine) Run(ctx context.Context) {
	e.logger.Info().Msg("sync engine started")

	for {
		select {
		case <-ctx.Done():
			e.logger.Info().Msg("sync engine stopped")
			return
		case op := <-e.ops:
			e.process(ctx, op)
		}
	}
}

// process executes a single operation to completion: storage call first, then
// broadcast of the canonical result to all of the owner's sessions.
func (e *Engine) process(ctx context.Context, op Operation) {
	opCtx, cancel := context.WithTimeout(ctx, e.opTimeout)
	defer cancel()

	log := e.logger.With().
		Str("kind", op.Kind.String()).
		Int64("user_id", op.UserID).
		Str("note_id", op.NoteID).
		Logger()

	switch op.Kind {
	case KindUpdate:
		note, err := e.notes.UpdateNote(opCtx, op.NoteID, op.UserID, models.NotePatch{
			Title:   op.Title,
			Content: op.Content,
		})
		if err != nil {
			// No broadcast on failure: the client never receives a
			// confirmation and must re-request.
			log.Err(err).Msg("update operation failed")
			return
		}

		body, err := json.Marshal(note)
		if err != nil {
			log.Err(err).Msg("failed to marshal updated note")
			return
		}

		e.broadcaster.Broadcast(op.UserID, Encode(OpNoteUpdate, body))

	case KindDelete:
		deleted, err := e.notes.DeleteNote(opCtx, op.NoteID, op.UserID)
		if err != nil {
			log.Err(err).Msg("delete operation failed")
			return
		}
		if !deleted {
			// Row did not exist or did not belong to the user: silent no-op.
			log.Debug().Msg("delete matched no owned note, skipping broadcast")
			return
		}

		body, err := json.Marshal(models.DeleteNoteRequest{NoteID: op.NoteID})
		if err != nil {
			log.Err(err).Msg("failed to marshal delete notification")
			return
		}

		e.broadcaster.Broadcast(op.UserID, Encode(OpNoteDelete, body))

	default:
		log.Error().Msg("unknown operation kind, dropping")
	}
}
