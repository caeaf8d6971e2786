package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/stocktag-api/internal/domain"
)

// Constructor validation errors
var (
	ErrNilLogger = errors.New("logger cannot be nil")
	ErrNilJob    = errors.New("job cannot be nil")
)

// MemoryJobStore is a lock-guarded in-memory JobStore. Jobs do not survive a
// process restart; that is an accepted property of the engine.
type MemoryJobStore struct {
	mu     sync.RWMutex
	jobs   map[uuid.UUID]*domain.Job
	logger *slog.Logger
}

// NewMemoryJobStore creates an empty in-memory job registry.
func NewMemoryJobStore(logger *slog.Logger) (*MemoryJobStore, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &MemoryJobStore{
		jobs:   make(map[uuid.UUID]*domain.Job),
		logger: logger.With("component", "job_store"),
	}, nil
}

// Create registers a new job in the processing state.
func (s *MemoryJobStore) Create(ctx context.Context, job *domain.Job) error {
	if job == nil {
		return ErrNilJob
	}
	if err := job.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.ID]; ok {
		return ErrJobExists
	}

	s.jobs[job.ID] = job.Clone()
	s.logger.Debug("job created", "job_id", job.ID, "file_count", len(job.Filenames))
	return nil
}

// Get returns a snapshot of the current job state. Mutating the returned job
// does not affect the registry.
func (s *MemoryJobStore) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}

	return job.Clone(), nil
}

// Finalize transitions the job to completed and stores its results.
func (s *MemoryJobStore) Finalize(
	ctx context.Context,
	id uuid.UUID,
	results []domain.ItemResult,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if job.IsTerminal() {
		return ErrJobTerminal
	}

	job.Status = domain.JobStatusCompleted
	job.Results = append([]domain.ItemResult(nil), results...)
	job.UpdatedAt = time.Now().UTC()

	s.logger.Debug("job finalized", "job_id", id, "result_count", len(results))
	return nil
}

// Fail transitions the job to failed and stores the fault description.
func (s *MemoryJobStore) Fail(ctx context.Context, id uuid.UUID, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if job.IsTerminal() {
		return ErrJobTerminal
	}

	job.Status = domain.JobStatusFailed
	job.Error = errMsg
	job.UpdatedAt = time.Now().UTC()

	s.logger.Debug("job failed", "job_id", id, "error", errMsg)
	return nil
}
