package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/stocktag-api/internal/api/shared"
	"github.com/phrazzld/stocktag-api/internal/domain"
	"github.com/phrazzld/stocktag-api/internal/export"
	"github.com/phrazzld/stocktag-api/internal/service"
)

// ExportHandler handles embed-and-upload requests for finalized metadata.
type ExportHandler struct {
	exportService  service.ExportService
	defaultFTPHost string
	logger         *slog.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(
	exportService service.ExportService,
	defaultFTPHost string,
	logger *slog.Logger,
) *ExportHandler {
	return &ExportHandler{
		exportService:  exportService,
		defaultFTPHost: defaultFTPHost,
		logger:         logger,
	}
}

// Export handles POST /api/export requests: it embeds the submitted metadata
// into the session's image files, uploads them over FTP, and schedules the
// session's cleanup. The report always comes back 200; a connection-level
// upload failure is carried in the report's status, not an HTTP error.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: session_id, metadata, and FTP credentials are required")
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return
	}

	host := req.FTPHost
	if host == "" {
		host = h.defaultFTPHost
	}

	items := make([]domain.ItemResult, 0, len(req.Metadata))
	for _, m := range req.Metadata {
		items = append(items, domain.ItemResult{
			Filename:    m.Filename,
			Title:       m.Title,
			Description: m.Description,
			Keywords:    m.Keywords,
			Category:    m.Category,
		})
	}

	report, err := h.exportService.EmbedAndUpload(r.Context(), sessionID, items, export.Credentials{
		Host:     host,
		User:     req.FTPUser,
		Password: req.FTPPass,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}
