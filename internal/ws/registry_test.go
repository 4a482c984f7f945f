package ws

import (
	"testing"

	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBareSession() *Session {
	return NewSession(nil, nil, nil, logger.Nop())
}

func TestRegistry_RegisterUnregister(t *testing.T) {
	registry := NewRegistry(logger.Nop())

	s1 := newBareSession()
	s2 := newBareSession()

	registry.Register(7, s1)
	registry.Register(7, s2)
	assert.Equal(t, 2, registry.SessionCount(7))

	registry.Unregister(7, s1)
	assert.Equal(t, 1, registry.SessionCount(7))

	// removing the last session drops the user entry entirely
	registry.Unregister(7, s2)
	assert.Equal(t, 0, registry.SessionCount(7))
	assert.Empty(t, registry.sessions)
}

func TestRegistry_UnregisterUnknownIsNoOp(t *testing.T) {
	registry := NewRegistry(logger.Nop())

	registry.Unregister(1, newBareSession())
	assert.Equal(t, 0, registry.SessionCount(1))
}

// TestRegistry_BroadcastFanOut verifies that every session of the target user
// receives the frame and sessions of other users receive nothing.
func TestRegistry_BroadcastFanOut(t *testing.T) {
	registry := NewRegistry(logger.Nop())

	s1 := newBareSession()
	s2 := newBareSession()
	other := newBareSession()

	registry.Register(7, s1)
	registry.Register(7, s2)
	registry.Register(8, other)

	frame := []byte{0x11, 'x'}
	registry.Broadcast(7, frame)

	for _, s := range []*Session{s1, s2} {
		select {
		case got := <-s.send:
			assert.Equal(t, frame, got)
		default:
			t.Fatal("session did not receive broadcast")
		}
	}

	select {
	case <-other.send:
		t.Fatal("broadcast leaked to another user's session")
	default:
	}
}

func TestRegistry_BroadcastToAbsentUser(t *testing.T) {
	registry := NewRegistry(logger.Nop())

	// must not panic or block
	registry.Broadcast(42, []byte{0x11})
	require.Equal(t, 0, registry.SessionCount(42))
}

// A session with a saturated outbound buffer drops the frame instead of
// blocking the broadcaster.
func TestRegistry_BroadcastDoesNotBlockOnSlowSession(t *testing.T) {
	registry := NewRegistry(logger.Nop())

	slow := newBareSession()
	registry.Register(7, slow)

	for i := 0; i < sendBufferSize+10; i++ {
		registry.Broadcast(7, []byte{0x11})
	}

	assert.Len(t, slow.send, sendBufferSize)
}
