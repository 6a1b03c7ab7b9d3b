// Package registry is the single source of truth for job lifecycle state.
package registry

import (
	"context"
	"errors"

	"studyhub/internal/model"
)

// ErrNotFound is returned when a job id was never issued by this registry
var ErrNotFound = errors.New("job not found")

// ErrTerminal is returned when mutating a job that already reached done or error
var ErrTerminal = errors.New("job already in terminal state")

// Registry tracks jobs from creation through a terminal state. Implementations
// must guarantee that a status+result pair is never observable half-written:
// SetResult commits both in a single step.
type Registry interface {
	// Create allocates a fresh unique job id and inserts a queued record
	Create(ctx context.Context, correlationID string) (string, error)

	// Get returns a snapshot of the job, or ErrNotFound
	Get(ctx context.Context, id string) (model.Job, error)

	// SetStatus moves a job forward to a non-terminal status
	SetStatus(ctx context.Context, id string, status model.Status) error

	// SetResult atomically commits a terminal status together with its result
	SetResult(ctx context.Context, id string, status model.Status, result *model.Result) error

	// Counts returns the number of jobs per lifecycle status
	Counts(ctx context.Context) (map[model.Status]int, error)

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error

	// Name identifies the backend ("memory", "mongodb")
	Name() string
}
