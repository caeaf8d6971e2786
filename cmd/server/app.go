package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/stocktag-api/internal/config"
	"github.com/phrazzld/stocktag-api/internal/export"
	"github.com/phrazzld/stocktag-api/internal/platform/gemini"
	"github.com/phrazzld/stocktag-api/internal/service"
	"github.com/phrazzld/stocktag-api/internal/storage"
	"github.com/phrazzld/stocktag-api/internal/store"
	"github.com/phrazzld/stocktag-api/internal/task"
)

// application holds the wired dependencies of the running server.
type application struct {
	config        *config.Config
	logger        *slog.Logger
	storage       *storage.FilesystemStorage
	jobStore      *store.MemoryJobStore
	runner        *task.TaskRunner
	jobService    service.JobService
	exportService service.ExportService
}

// newApplication builds every component and starts the background task
// runner.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	imageStorage, err := storage.NewFilesystemStorage(cfg.Storage.TempDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image storage: %w", err)
	}

	jobStore, err := store.NewMemoryJobStore(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize job store: %w", err)
	}

	runner := task.NewTaskRunner(task.TaskRunnerConfig{
		WorkerCount: cfg.Annotation.WorkerCount,
		QueueSize:   cfg.Annotation.QueueSize,
	}, logger)

	jobService, err := service.NewJobService(
		jobStore,
		imageStorage,
		runner,
		gemini.NewAnnotatorFactory(logger, cfg.Annotation.Model),
		cfg.Annotation,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize job service: %w", err)
	}

	embedder, err := export.NewExifToolEmbedder(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	uploader, err := export.NewFTPUploader(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize uploader: %w", err)
	}

	exportService, err := service.NewExportService(imageStorage, embedder, uploader, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize export service: %w", err)
	}

	runner.Start()

	return &application{
		config:        cfg,
		logger:        logger,
		storage:       imageStorage,
		jobStore:      jobStore,
		runner:        runner,
		jobService:    jobService,
		exportService: exportService,
	}, nil
}

// cleanup releases background resources during shutdown.
func (app *application) cleanup() {
	app.runner.Stop()
}
