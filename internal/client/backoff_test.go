package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The schedule doubles on every attempt starting from the base delay.
func TestBackoff_Doubles(t *testing.T) {
	b := newBackoff(time.Second, 5)

	expected := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}

	for i, want := range expected {
		delay, ok := b.Next()
		require.True(t, ok, "attempt %d should be allowed", i)
		assert.Equal(t, want, delay)
	}
}

func TestBackoff_Exhausts(t *testing.T) {
	b := newBackoff(time.Millisecond, 3)

	for i := 0; i < 3; i++ {
		_, ok := b.Next()
		require.True(t, ok)
	}

	_, ok := b.Next()
	assert.False(t, ok, "schedule must be exhausted after maxTries attempts")
}

func TestBackoff_ResetRearms(t *testing.T) {
	b := newBackoff(time.Second, 2)

	b.Next()
	b.Next()
	_, ok := b.Next()
	require.False(t, ok)

	b.Reset()

	delay, ok := b.Next()
	require.True(t, ok)
	assert.Equal(t, time.Second, delay, "reset must restart from the base delay")
}

func TestBackoff_Defaults(t *testing.T) {
	b := newBackoff(0, 0)

	delay, ok := b.Next()
	require.True(t, ok)
	assert.Equal(t, defaultBackoffBase, delay)
	assert.Equal(t, maxReconnectTries, b.maxTries)
}
