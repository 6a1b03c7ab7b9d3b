package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"studyhub/internal/model"
)

// Memory is the in-memory Registry implementation. Records live for the
// process lifetime; nothing is evicted or persisted.
type Memory struct {
	mu   sync.RWMutex
	jobs map[string]*model.Job
}

// NewMemory creates an empty in-memory registry
func NewMemory() *Memory {
	return &Memory{
		jobs: make(map[string]*model.Job),
	}
}

// Create allocates a fresh job id and inserts a queued record
func (m *Memory) Create(ctx context.Context, correlationID string) (string, error) {
	now := time.Now().UTC()
	job := &model.Job{
		ID:            uuid.New().String(),
		Status:        model.StatusQueued,
		CorrelationID: correlationID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job

	return job.ID, nil
}

// Get returns a snapshot of the job. The result pointer is shared, which is
// safe: results are committed once and never mutated afterwards.
func (m *Memory) Get(ctx context.Context, id string) (model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[id]
	if !exists {
		return model.Job{}, ErrNotFound
	}
	return *job, nil
}

// SetStatus moves a job forward to a non-terminal status
func (m *Memory) SetStatus(ctx context.Context, id string, status model.Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status: %s", status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[id]
	if !exists {
		return ErrNotFound
	}
	if job.Status.Terminal() {
		return ErrTerminal
	}

	job.Status = status
	job.UpdatedAt = time.Now().UTC()
	return nil
}

// SetResult commits a terminal status and its result under one lock section,
// so readers observe either the old state or the full terminal state
func (m *Memory) SetResult(ctx context.Context, id string, status model.Status, result *model.Result) error {
	if !status.Terminal() {
		return fmt.Errorf("status %s is not terminal", status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[id]
	if !exists {
		return ErrNotFound
	}
	if job.Status.Terminal() {
		return ErrTerminal
	}

	job.Status = status
	job.Result = result
	job.UpdatedAt = time.Now().UTC()
	return nil
}

// Counts returns the number of jobs per lifecycle status
func (m *Memory) Counts(ctx context.Context) (map[model.Status]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[model.Status]int, 4)
	for _, job := range m.jobs {
		counts[job.Status]++
	}
	return counts, nil
}

// Ping always succeeds for the in-memory backend
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

// Name identifies the backend
func (m *Memory) Name() string {
	return "memory"
}
