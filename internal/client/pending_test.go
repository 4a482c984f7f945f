package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingSet_PreservesInsertionOrder(t *testing.T) {
	p := newPendingSet()

	p.Add("update:a", []byte("1"))
	p.Add("update:b", []byte("2"))
	p.Add("delete:c", []byte("3"))

	frames := p.TakeAll()
	require.Len(t, frames, 3)
	assert.Equal(t, "update:a", frames[0].key)
	assert.Equal(t, "update:b", frames[1].key)
	assert.Equal(t, "delete:c", frames[2].key)

	assert.Zero(t, p.Len(), "TakeAll must drain the set")
}

// Re-adding an existing key replaces the frame but keeps the original slot.
func TestPendingSet_AddReplacesExistingKey(t *testing.T) {
	p := newPendingSet()

	p.Add("update:a", []byte("old"))
	p.Add("update:b", []byte("2"))
	p.Add("update:a", []byte("new"))

	require.Equal(t, 2, p.Len())

	frames := p.TakeAll()
	require.Len(t, frames, 2)
	assert.Equal(t, "update:a", frames[0].key)
	assert.Equal(t, []byte("new"), frames[0].frame)
}

func TestPendingSet_Remove(t *testing.T) {
	p := newPendingSet()

	p.Add("update:a", []byte("1"))
	p.Add("update:b", []byte("2"))

	p.Remove("update:a")
	require.Equal(t, 1, p.Len())

	// removing an absent key is a no-op
	p.Remove("update:ghost")

	frames := p.TakeAll()
	require.Len(t, frames, 1)
	assert.Equal(t, "update:b", frames[0].key)
}
