package workers

import "context"

type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker in its own goroutine and returns immediately.
// Workers stop when ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		go worker.Run(ctx)
	}
}
