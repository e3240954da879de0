package batch

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("batch not found")

// Status is the progress record of one ingestion batch. Created at batch
// start, retained until explicit cleanup.
type Status struct {
	BatchID   string    `json:"batch_id"`
	Total     int       `json:"total"`
	Completed int       `json:"completed"`
	Failed    int       `json:"failed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Done reports whether every document in the batch has been accounted for.
func (s Status) Done() bool {
	return s.Completed+s.Failed >= s.Total
}

// Tracker is the injected, explicitly-owned batch progress store. Callers
// decide the lifecycle; nothing here is process-global.
type Tracker interface {
	Create(ctx context.Context, batchID string, total int) error
	IncrementCompleted(ctx context.Context, batchID string) error
	IncrementFailed(ctx context.Context, batchID string) error
	Get(ctx context.Context, batchID string) (*Status, error)
	Delete(ctx context.Context, batchID string) error
}

// MemoryTracker keeps batch progress in memory. Suitable for single-process
// deployments and tests.
type MemoryTracker struct {
	mu      sync.Mutex
	batches map[string]*Status
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{batches: make(map[string]*Status)}
}

func (t *MemoryTracker) Create(ctx context.Context, batchID string, total int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now().UTC()
	t.batches[batchID] = &Status{BatchID: batchID, Total: total, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (t *MemoryTracker) IncrementCompleted(ctx context.Context, batchID string) error {
	return t.increment(batchID, func(s *Status) { s.Completed++ })
}

func (t *MemoryTracker) IncrementFailed(ctx context.Context, batchID string) error {
	return t.increment(batchID, func(s *Status) { s.Failed++ })
}

func (t *MemoryTracker) increment(batchID string, f func(*Status)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.batches[batchID]
	if !ok {
		return ErrNotFound
	}
	f(s)
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (t *MemoryTracker) Get(ctx context.Context, batchID string) (*Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.batches[batchID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (t *MemoryTracker) Delete(ctx context.Context, batchID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.batches, batchID)
	return nil
}
