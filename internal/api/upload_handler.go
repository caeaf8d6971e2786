package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/stocktag-api/internal/api/shared"
	"github.com/phrazzld/stocktag-api/internal/storage"
)

// maxUploadMemory bounds how much of a multipart upload is buffered in memory.
const maxUploadMemory = 32 << 20 // 32 MiB

// UploadHandler handles image upload requests.
type UploadHandler struct {
	storage storage.ImageStorage
	logger  *slog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(store storage.ImageStorage, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		storage: store,
		logger:  logger,
	}
}

// CreateSession handles POST /api/sessions requests: it stores every uploaded
// file under a fresh session and returns the session ID with the stored
// filenames. A single file that fails to store is logged and skipped rather
// than failing the whole upload.
func (h *UploadHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart request")
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No files provided")
		return
	}

	sessionID, err := h.storage.CreateSession(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create session", err)
		return
	}

	stored := []string{}
	for _, header := range fileHeaders {
		f, err := header.Open()
		if err != nil {
			h.logger.Error("failed to open uploaded file",
				"filename", header.Filename, "error", err)
			continue
		}

		saveErr := h.storage.Save(r.Context(), sessionID, header.Filename, f)
		if cerr := f.Close(); cerr != nil {
			h.logger.Error("failed to close uploaded file",
				"filename", header.Filename, "error", cerr)
		}
		if saveErr != nil {
			h.logger.Error("failed to store uploaded file",
				"filename", header.Filename, "error", saveErr)
			continue
		}

		stored = append(stored, header.Filename)
	}

	h.logger.Info("upload session created",
		"session_id", sessionID,
		"file_count", len(stored))

	shared.RespondWithJSON(w, r, http.StatusCreated, UploadResponse{
		SessionID: sessionID.String(),
		Files:     stored,
	})
}
