package task

import (
	"context"
	"log/slog"
	"sync"
)

// Pool runs tasks on a fixed set of worker goroutines, bounding how
// many pipelines execute at once. When the queue is full, Spawn falls
// back to a dedicated goroutine so submission never blocks and no
// task is dropped.
type Pool struct {
	workers int
	tasks   chan func(ctx context.Context)
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewPool creates a pool with the given worker count and queue size
func NewPool(workers, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers: workers,
		tasks:   make(chan func(ctx context.Context), queueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start starts the worker goroutines
func (p *Pool) Start() {
	slog.Info("Starting task pool", "workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop drains the queue and waits for in-flight tasks to finish.
// Callers must stop accepting submissions before calling Stop.
func (p *Pool) Stop() {
	slog.Info("Stopping task pool")

	p.cancel()
	close(p.tasks)
	p.wg.Wait()

	slog.Info("Task pool stopped")
}

// Spawn queues fn for a worker, or runs it on its own goroutine when
// the queue is full or the pool is shutting down.
func (p *Pool) Spawn(fn func(ctx context.Context)) {
	select {
	case <-p.ctx.Done():
		go fn(context.Background())
		return
	default:
	}

	select {
	case p.tasks <- fn:
	default:
		go fn(context.Background())
	}
}

// QueueLength returns the current number of queued tasks
func (p *Pool) QueueLength() int {
	return len(p.tasks)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	slog.Debug("Task worker started", "worker_id", id)

	for fn := range p.tasks {
		fn(context.Background())
	}

	slog.Debug("Task worker stopped", "worker_id", id)
}
