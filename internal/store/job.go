// Package store defines persistence interfaces for annotation jobs and their
// in-memory implementation.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/stocktag-api/internal/domain"
)

// Common errors returned by JobStore implementations
var (
	// ErrJobNotFound is returned when the requested job does not exist.
	ErrJobNotFound = errors.New("job not found")

	// ErrJobExists is returned when creating a job whose ID is already
	// registered.
	ErrJobExists = errors.New("job already exists")

	// ErrJobTerminal is returned when finalizing or failing a job that has
	// already reached a terminal state. Status transitions are monotonic.
	ErrJobTerminal = errors.New("job already in a terminal state")
)

// JobStore is the lifecycle-scoped registry mapping a job ID to its state.
// At most one Finalize or Fail call happens per job.
type JobStore interface {
	// Create registers a new job in the processing state.
	Create(ctx context.Context, job *domain.Job) error

	// Get returns a snapshot of the current job state.
	Get(ctx context.Context, id uuid.UUID) (*domain.Job, error)

	// Finalize transitions the job to completed and stores its results.
	Finalize(ctx context.Context, id uuid.UUID, results []domain.ItemResult) error

	// Fail transitions the job to failed and stores the fault description.
	Fail(ctx context.Context, id uuid.UUID, errMsg string) error
}
