// Package data provides the storage layer for the kodosumi-bridge job system.
package data

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/masumi-network/kodosumi-bridge/internal/core"
	"github.com/masumi-network/kodosumi-bridge/internal/domain/model"
)

// MemoryJobStore keeps job records in process memory for the process
// lifetime. Records are never deleted. A global lock guards the map; each
// record carries its own mutex so mutations to the same record serialize
// while different records proceed independently.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*jobEntry
}

type jobEntry struct {
	mu  sync.Mutex
	job model.Job
}

var _ core.JobStore = (*MemoryJobStore)(nil)

// NewMemoryJobStore constructs an empty store.
func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]*jobEntry)}
}

// Create inserts a new record, stamping creation time.
func (s *MemoryJobStore) Create(ctx context.Context, job *model.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if job == nil || job.ID == "" {
		return fmt.Errorf("job id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.ID]; ok {
		return fmt.Errorf("job %s: %w", job.ID, ErrDuplicateJob)
	}

	stored := *job
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = stored.CreatedAt
	s.jobs[job.ID] = &jobEntry{job: stored}
	return nil
}

// Get returns a copy of the record so readers never observe a mutation in
// progress.
func (s *MemoryJobStore) Get(ctx context.Context, id string) (*model.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	job := entry.job
	return &job, nil
}

// Update applies mutate to the record under its lock. When mutate returns an
// error the record is left untouched.
func (s *MemoryJobStore) Update(ctx context.Context, id string, mutate func(*model.Job) error) (*model.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if mutate == nil {
		return nil, fmt.Errorf("mutate func is required")
	}

	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.job
	if err := mutate(&working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now().UTC()
	entry.job = working

	job := working
	return &job, nil
}

// Len reports the number of records held, for stats and tests.
func (s *MemoryJobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func (s *MemoryJobStore) lookup(id string) (*jobEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, ErrJobNotFound)
	}
	return entry, nil
}
