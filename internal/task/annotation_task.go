package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/stocktag-api/internal/domain"
)

// Common errors
var (
	ErrNilJob      = errors.New("job cannot be nil")
	ErrNilJobStore = errors.New("job store cannot be nil")
	ErrNilPool     = errors.New("worker pool cannot be nil")
	ErrNilLogger   = errors.New("logger cannot be nil")
)

// JobStore is the slice of the store the task needs to converge a job to a
// terminal state.
type JobStore interface {
	// Finalize transitions the job to completed and stores its results.
	Finalize(ctx context.Context, id uuid.UUID, results []domain.ItemResult) error

	// Fail transitions the job to failed and stores the fault description.
	Fail(ctx context.Context, id uuid.UUID, errMsg string) error
}

// AnnotationTask implements the Task interface for annotating one job's batch
// of images. It runs the per-job worker pool to completion and writes the
// aggregated results back into the job store exactly once.
type AnnotationTask struct {
	id         uuid.UUID
	job        *domain.Job
	contextMap map[string]string
	pool       *WorkerPool
	jobs       JobStore
	timeout    time.Duration
	logger     *slog.Logger
	status     TaskStatus
}

// NewAnnotationTask creates the background task for one submitted job.
// A zero timeout disables the per-job deadline.
func NewAnnotationTask(
	job *domain.Job,
	contextMap map[string]string,
	pool *WorkerPool,
	jobs JobStore,
	timeout time.Duration,
	logger *slog.Logger,
) (*AnnotationTask, error) {
	if job == nil {
		return nil, ErrNilJob
	}
	if pool == nil {
		return nil, ErrNilPool
	}
	if jobs == nil {
		return nil, ErrNilJobStore
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &AnnotationTask{
		id:         uuid.New(),
		job:        job,
		contextMap: contextMap,
		pool:       pool,
		jobs:       jobs,
		timeout:    timeout,
		logger:     logger.With("task_type", TaskTypeAnnotation, "job_id", job.ID),
		status:     TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *AnnotationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *AnnotationTask) Type() string {
	return TaskTypeAnnotation
}

// Status returns the current task status
func (t *AnnotationTask) Status() TaskStatus {
	return t.status
}

// Execute runs the annotation job to a terminal state. Partial item failures
// still finalize the job as completed; only a pool fault (cancellation or the
// job timeout) fails it.
func (t *AnnotationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting annotation job", "file_count", len(t.job.Filenames))

	runCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	results, err := t.pool.Run(runCtx, t.job.SessionID, t.job.Filenames, t.contextMap)
	if err != nil {
		// Store writes must succeed even though the run context is spent.
		storeCtx := context.WithoutCancel(ctx)

		t.status = TaskStatusFailed
		detail := fmt.Sprintf("annotation pool fault: %v", err)
		if failErr := t.jobs.Fail(storeCtx, t.job.ID, detail); failErr != nil {
			t.logger.Error("failed to record job fault", "error", failErr)
		}
		t.logger.Error("annotation job failed", "error", err)
		return fmt.Errorf("annotation pool fault: %w", err)
	}

	if err := t.jobs.Finalize(ctx, t.job.ID, results); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to finalize job", "error", err)
		return fmt.Errorf("failed to finalize job: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}

	t.status = TaskStatusCompleted
	t.logger.Info("annotation job completed",
		"result_count", len(results),
		"failed_items", failed)
	return nil
}
