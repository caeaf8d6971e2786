package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/stocktag-api/internal/domain"
	"github.com/phrazzld/stocktag-api/internal/export"
	"github.com/phrazzld/stocktag-api/internal/storage"
)

// Export status values reported to clients.
const (
	ExportStatusCompleted = "completed"
	ExportStatusFailed    = "failed"
)

// ExportService embeds finalized metadata into the session's image files,
// uploads them to the remote server, and schedules session cleanup. It runs
// strictly downstream of a completed job and never touches job state.
type ExportService interface {
	EmbedAndUpload(ctx context.Context, sessionID uuid.UUID, items []domain.ItemResult, creds export.Credentials) (*export.Report, error)
}

type exportService struct {
	files    export.SessionFiles
	embedder export.Embedder
	uploader export.Uploader
	logger   *slog.Logger
}

// NewExportService creates the export orchestrator.
func NewExportService(
	files export.SessionFiles,
	embedder export.Embedder,
	uploader export.Uploader,
	logger *slog.Logger,
) (ExportService, error) {
	if files == nil {
		return nil, export.ErrNilFiles
	}
	if embedder == nil {
		return nil, export.ErrNilEmbedder
	}
	if uploader == nil {
		return nil, export.ErrNilUploader
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &exportService{
		files:    files,
		embedder: embedder,
		uploader: uploader,
		logger:   logger.With("component", "export_service"),
	}, nil
}

// EmbedAndUpload writes each item's metadata into its image file, transfers
// the files, and schedules cleanup of the session directory. Items whose
// backing file is missing are skipped, matching the contract that export
// failures are reported independently rather than raised. Embed failures are
// collected but do not block the upload of the files that succeeded.
func (s *exportService) EmbedAndUpload(
	ctx context.Context,
	sessionID uuid.UUID,
	items []domain.ItemResult,
	creds export.Credentials,
) (*export.Report, error) {
	log := s.logger.With("session_id", sessionID)

	var embedErrs []string
	var paths []string

	for _, item := range items {
		path, err := s.files.Path(sessionID, item.Filename)
		if err != nil {
			if errors.Is(err, storage.ErrFileNotFound) {
				log.Warn("skipping missing file", "filename", item.Filename)
				continue
			}
			return nil, fmt.Errorf("failed to resolve %s: %w", item.Filename, err)
		}

		if err := s.embedder.Embed(ctx, path, item); err != nil {
			log.Error("metadata embedding failed", "filename", item.Filename, "error", err)
			embedErrs = append(embedErrs, err.Error())
		}

		// Upload whatever exists, embedded or not; partial metadata beats a
		// lost file.
		paths = append(paths, path)
	}

	uploaded, uploadErrs, err := s.uploader.Upload(ctx, creds, paths)
	if err != nil {
		log.Error("remote upload failed", "error", err)
		return &export.Report{
			Status:    ExportStatusFailed,
			EmbedErrs: embedErrs,
			Error:     err.Error(),
		}, nil
	}

	// Cleanup runs after the response is sent; a failure only costs disk.
	go func() {
		cleanupCtx := context.WithoutCancel(ctx)
		if err := s.files.RemoveSession(cleanupCtx, sessionID); err != nil {
			log.Error("session cleanup failed", "error", err)
		}
	}()

	log.Info("export completed",
		"uploaded_count", len(uploaded),
		"upload_error_count", len(uploadErrs),
		"embed_error_count", len(embedErrs))

	return &export.Report{
		Status:     ExportStatusCompleted,
		Uploaded:   uploaded,
		UploadErrs: uploadErrs,
		EmbedErrs:  embedErrs,
	}, nil
}
