package workers

import (
	"context"
	"sync"
	"testing"
	"time"
)

// mockWorker tracks Run invocations and signals when it has started.
type mockWorker struct {
	mu      sync.Mutex
	started chan struct{}
	runs    int
}

func newMockWorker() *mockWorker {
	return &mockWorker{started: make(chan struct{}, 1)}
}

func (m *mockWorker) Run(ctx context.Context) {
	m.mu.Lock()
	m.runs++
	m.mu.Unlock()

	select {
	case m.started <- struct{}{}:
	default:
	}

	<-ctx.Done()
}

func (m *mockWorker) runCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs
}

func waitStarted(t *testing.T, w *mockWorker) {
	t.Helper()
	select {
	case <-w.started:
	case <-time.After(time.Second):
		t.Fatal("worker did not start")
	}
}

func TestWorkers_Run_AllWorkersAreStarted(t *testing.T) {
	w1 := newMockWorker()
	w2 := newMockWorker()
	w3 := newMockWorker()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ws := NewWorkers(w1, w2, w3)
	ws.Run(ctx)

	for _, w := range []*mockWorker{w1, w2, w3} {
		waitStarted(t, w)
		if w.runCount() != 1 {
			t.Errorf("expected runCount=1, got %d", w.runCount())
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := NewWorkers()

	// Should not panic on empty workers list
	ws.Run(context.Background())
}

func TestWorkers_Run_Nil(t *testing.T) {
	ws := &Workers{}

	// Should not panic when workers field is nil
	ws.Run(context.Background())
}

// Run must return immediately even though every worker blocks until the
// context is cancelled.
func TestWorkers_Run_DoesNotBlock(t *testing.T) {
	w := newMockWorker()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		NewWorkers(w).Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run blocked instead of returning")
	}

	waitStarted(t, w)
}
