// Package task provides the scheduling seam between accepting a job
// and processing it. Submission hands the pipeline to a Spawner and
// returns immediately; swapping the implementation changes how work is
// scheduled without touching the pipeline itself.
package task

import "context"

// Spawner schedules a function to run without blocking the caller.
// The context handed to fn is independent of the submitting request,
// so scheduled work outlives the request that created it.
type Spawner interface {
	Spawn(fn func(ctx context.Context))
}

// Go runs every task on its own goroutine with no concurrency bound.
// A stalled task ties up nothing but itself.
type Go struct{}

// Spawn starts fn on a new goroutine
func (Go) Spawn(fn func(ctx context.Context)) {
	go fn(context.Background())
}
