package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
	"github.com/mizulegendsstudios/mizu-notes-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubNoteStore implements NoteStore with overridable function fields.
type stubNoteStore struct {
	updateFn func(ctx context.Context, noteID string, userID int64, patch models.NotePatch) (models.Note, error)
	deleteFn func(ctx context.Context, noteID string, userID int64) (bool, error)
}

func (s *stubNoteStore) UpdateNote(ctx context.Context, noteID string, userID int64, patch models.NotePatch) (models.Note, error) {
	return s.updateFn(ctx, noteID, userID, patch)
}

func (s *stubNoteStore) DeleteNote(ctx context.Context, noteID string, userID int64) (bool, error) {
	return s.deleteFn(ctx, noteID, userID)
}

// chanBroadcaster forwards every broadcast to a channel so tests can observe
// completion order without polling.
type chanBroadcaster struct {
	frames chan broadcastCall
}

type broadcastCall struct {
	userID int64
	frame  []byte
}

func newChanBroadcaster() *chanBroadcaster {
	return &chanBroadcaster{frames: make(chan broadcastCall, 64)}
}

func (b *chanBroadcaster) Broadcast(userID int64, frame []byte) {
	b.frames <- broadcastCall{userID: userID, frame: frame}
}

func (b *chanBroadcaster) next(t *testing.T) broadcastCall {
	t.Helper()
	select {
	case call := <-b.frames:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
		return broadcastCall{}
	}
}

func strPtr(s string) *string { return &s }

// TestEngine_FIFOOrder verifies that operations complete strictly in enqueue
// order even when the storage layer is slow: the single-consumer drain loop
// must never start operation N+1 before N finished.
func TestEngine_FIFOOrder(t *testing.T) {
	const total = 10

	store := &stubNoteStore{
		updateFn: func(_ context.Context, noteID string, userID int64, _ models.NotePatch) (models.Note, error) {
			// An artificial delay would reorder completions if operations
			// were processed concurrently.
			time.Sleep(5 * time.Millisecond)
			return models.Note{NoteID: noteID, UserID: userID, Version: 2}, nil
		},
	}
	broadcaster := newChanBroadcaster()

	engine := NewEngine(store, broadcaster, total, time.Second, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go engine.Run(ctx)

	for i := 0; i < total; i++ {
		noteID := fmt.Sprintf("note-%02d", i)
		require.NoError(t, engine.Enqueue(UpdateOperation(1, noteID, strPtr("t"), nil)))
	}

	for i := 0; i < total; i++ {
		call := broadcaster.next(t)

		op, payload, err := Decode(call.frame)
		require.NoError(t, err)
		require.Equal(t, OpNoteUpdate, op)

		var note models.Note
		require.NoError(t, json.Unmarshal(payload, &note))
		assert.Equal(t, fmt.Sprintf("note-%02d", i), note.NoteID)
	}
}

// A failing operation is logged and dropped; draining continues with the next
// one.
func TestEngine_FailureDoesNotHaltDrain(t *testing.T) {
	store := &stubNoteStore{
		updateFn: func(_ context.Context, noteID string, _ int64, _ models.NotePatch) (models.Note, error) {
			if noteID == "broken" {
				return models.Note{}, errors.New("storage unavailable")
			}
			return models.Note{NoteID: noteID, Version: 2}, nil
		},
	}
	broadcaster := newChanBroadcaster()

	engine := NewEngine(store, broadcaster, 8, time.Second, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go engine.Run(ctx)

	require.NoError(t, engine.Enqueue(UpdateOperation(1, "broken", strPtr("t"), nil)))
	require.NoError(t, engine.Enqueue(UpdateOperation(1, "healthy", strPtr("t"), nil)))

	call := broadcaster.next(t)
	_, payload, err := Decode(call.frame)
	require.NoError(t, err)

	var note models.Note
	require.NoError(t, json.Unmarshal(payload, &note))
	assert.Equal(t, "healthy", note.NoteID, "failed operation must not be broadcast")
}

// Deleting a note the user does not own is a silent no-op: no broadcast goes
// out for it.
func TestEngine_DeleteNotOwnedSkipsBroadcast(t *testing.T) {
	store := &stubNoteStore{
		deleteFn: func(_ context.Context, noteID string, _ int64) (bool, error) {
			return noteID == "mine", nil
		},
	}
	broadcaster := newChanBroadcaster()

	engine := NewEngine(store, broadcaster, 8, time.Second, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go engine.Run(ctx)

	require.NoError(t, engine.Enqueue(DeleteOperation(1, "not-mine")))
	require.NoError(t, engine.Enqueue(DeleteOperation(1, "mine")))

	call := broadcaster.next(t)
	op, payload, err := Decode(call.frame)
	require.NoError(t, err)
	require.Equal(t, OpNoteDelete, op)

	var req models.DeleteNoteRequest
	require.NoError(t, json.Unmarshal(payload, &req))
	assert.Equal(t, "mine", req.NoteID)

	select {
	case extra := <-broadcaster.frames:
		t.Fatalf("unexpected extra broadcast: %v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

// Enqueue never blocks: once the bounded queue is full the newest operation
// is rejected with ErrQueueFull.
func TestEngine_EnqueueFullQueue(t *testing.T) {
	store := &stubNoteStore{}
	broadcaster := newChanBroadcaster()

	// No Run goroutine: nothing drains the queue.
	engine := NewEngine(store, broadcaster, 1, time.Second, logger.Nop())

	require.NoError(t, engine.Enqueue(DeleteOperation(1, "a")))
	err := engine.Enqueue(DeleteOperation(1, "b"))
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestEngine_RunStopsOnContextCancel(t *testing.T) {
	engine := NewEngine(&stubNoteStore{}, newChanBroadcaster(), 1, time.Second, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		engine.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
