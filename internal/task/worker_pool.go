package task

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/stocktag-api/internal/domain"
)

// DefaultItemConcurrency is the per-job ceiling on concurrent annotation
// calls. Kept deliberately low: every worker shares the same API key quota.
const DefaultItemConcurrency = 3

// ItemPipeline annotates a single image, always producing exactly one result.
type ItemPipeline interface {
	AnnotateOne(ctx context.Context, sessionID uuid.UUID, filename, userContext string) domain.ItemResult
}

// Validation errors for the worker pool constructor
var ErrNilPipeline = errors.New("item pipeline cannot be nil")

// WorkerPool executes the per-item pipeline concurrently over all images of
// one job under a fixed concurrency ceiling.
type WorkerPool struct {
	pipeline    ItemPipeline
	concurrency int
	logger      *slog.Logger
}

// NewWorkerPool creates a per-job worker pool. A non-positive concurrency
// falls back to DefaultItemConcurrency.
func NewWorkerPool(pipeline ItemPipeline, concurrency int, logger *slog.Logger) (*WorkerPool, error) {
	if pipeline == nil {
		return nil, ErrNilPipeline
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	if concurrency <= 0 {
		logger.Warn("invalid item concurrency specified, using default",
			"specified", concurrency,
			"default", DefaultItemConcurrency)
		concurrency = DefaultItemConcurrency
	}

	return &WorkerPool{
		pipeline:    pipeline,
		concurrency: concurrency,
		logger:      logger,
	}, nil
}

// Run annotates every filename and returns one ItemResult per filename, in
// submission order. Item failures are contained by the pipeline and never
// abort sibling work; Run only returns an error when the execution substrate
// itself faults (context cancellation or deadline), which fails the job.
func (p *WorkerPool) Run(
	ctx context.Context,
	sessionID uuid.UUID,
	filenames []string,
	contextMap map[string]string,
) ([]domain.ItemResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]domain.ItemResult, len(filenames))
	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup

	for i, filename := range filenames {
		wg.Add(1)
		go func(i int, filename string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			// Each slot is written by exactly one goroutine, so indexing
			// preserves submission order without further locking.
			results[i] = p.pipeline.AnnotateOne(ctx, sessionID, filename, contextMap[filename])
		}(i, filename)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
