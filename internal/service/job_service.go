// Package service contains the application services orchestrating the
// annotation job engine and the export flow.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/stocktag-api/internal/annotation"
	"github.com/phrazzld/stocktag-api/internal/config"
	"github.com/phrazzld/stocktag-api/internal/domain"
	"github.com/phrazzld/stocktag-api/internal/retry"
	"github.com/phrazzld/stocktag-api/internal/store"
	"github.com/phrazzld/stocktag-api/internal/task"
)

// Common errors
var (
	ErrNoImages         = errors.New("session contains no images")
	ErrNilJobStore      = errors.New("job store cannot be nil")
	ErrNilImageSource   = errors.New("image source cannot be nil")
	ErrNilTaskSubmitter = errors.New("task submitter cannot be nil")
	ErrNilAnnotators    = errors.New("annotator factory cannot be nil")
	ErrNilLogger        = errors.New("logger cannot be nil")
)

// ImageSource is the slice of image storage the orchestrator needs: listing a
// session's images at submit time and resolving bytes inside the pipeline.
type ImageSource interface {
	annotation.ImageReader

	List(ctx context.Context, sessionID uuid.UUID) ([]string, error)
}

// TaskSubmitter schedules background tasks for asynchronous execution.
type TaskSubmitter interface {
	Submit(ctx context.Context, t task.Task) error
}

// AnnotatorFactory builds an annotation client for a caller-supplied API key.
type AnnotatorFactory func(ctx context.Context, apiKey string) (annotation.Annotator, error)

// JobService owns the annotation job lifecycle: it creates the job record,
// schedules the worker pool asynchronously, and exposes job snapshots for
// polling. Submission never blocks on annotation work.
type JobService interface {
	// SubmitJob creates a job for every image of the session and schedules it.
	// It returns the job snapshot in the processing state immediately.
	SubmitJob(ctx context.Context, sessionID uuid.UUID, apiKey string, contextMap map[string]string) (*domain.Job, error)

	// GetJob returns the current snapshot of a job, or store.ErrJobNotFound.
	GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error)
}

type jobService struct {
	jobs       store.JobStore
	images     ImageSource
	runner     TaskSubmitter
	annotators AnnotatorFactory
	cfg        config.AnnotationConfig
	logger     *slog.Logger
}

// NewJobService creates the job orchestrator.
func NewJobService(
	jobs store.JobStore,
	images ImageSource,
	runner TaskSubmitter,
	annotators AnnotatorFactory,
	cfg config.AnnotationConfig,
	logger *slog.Logger,
) (JobService, error) {
	if jobs == nil {
		return nil, ErrNilJobStore
	}
	if images == nil {
		return nil, ErrNilImageSource
	}
	if runner == nil {
		return nil, ErrNilTaskSubmitter
	}
	if annotators == nil {
		return nil, ErrNilAnnotators
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &jobService{
		jobs:       jobs,
		images:     images,
		runner:     runner,
		annotators: annotators,
		cfg:        cfg,
		logger:     logger.With("component", "job_service"),
	}, nil
}

func (s *jobService) SubmitJob(
	ctx context.Context,
	sessionID uuid.UUID,
	apiKey string,
	contextMap map[string]string,
) (*domain.Job, error) {
	filenames, err := s.images.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session images: %w", err)
	}
	if len(filenames) == 0 {
		return nil, ErrNoImages
	}

	job, err := domain.NewJob(sessionID, filenames)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	annotator, err := s.annotators(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create annotator: %w", err)
	}

	policy := retry.DefaultPolicy(annotation.IsRateLimited)
	policy.MaxRetries = s.cfg.MaxRetries

	pipeline, err := annotation.NewPipeline(s.images, annotator, policy, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	pool, err := task.NewWorkerPool(pipeline, s.cfg.ItemConcurrency, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build worker pool: %w", err)
	}

	annTask, err := task.NewAnnotationTask(job, contextMap, pool, s.jobs, s.cfg.JobTimeout, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build annotation task: %w", err)
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to register job: %w", err)
	}

	if err := s.runner.Submit(ctx, annTask); err != nil {
		// The job record exists but no worker will ever touch it; fail it so
		// pollers see a terminal state instead of an eternal "processing".
		if failErr := s.jobs.Fail(ctx, job.ID, "failed to schedule annotation"); failErr != nil {
			s.logger.Error("failed to fail unscheduled job",
				"job_id", job.ID, "error", failErr)
		}
		return nil, fmt.Errorf("failed to schedule annotation task: %w", err)
	}

	s.logger.Info("annotation job submitted",
		"job_id", job.ID,
		"session_id", sessionID,
		"file_count", len(filenames))

	return job.Clone(), nil
}

func (s *jobService) GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	return s.jobs.Get(ctx, id)
}
