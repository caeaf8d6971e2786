package api

import "github.com/phrazzld/stocktag-api/internal/domain"

// Common request/response structures

// UploadResponse is returned after a batch of images has been stored.
type UploadResponse struct {
	SessionID string   `json:"session_id"`
	Files     []string `json:"files"`
}

// SubmitJobRequest defines the payload for submitting an annotation job.
type SubmitJobRequest struct {
	SessionID  string            `json:"session_id"  validate:"required,uuid4"`
	APIKey     string            `json:"api_key"     validate:"required"`
	ContextMap map[string]string `json:"context_map"`
}

// SubmitJobResponse acknowledges an accepted annotation job.
type SubmitJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// JobResponse is a snapshot of a job returned to pollers.
type JobResponse struct {
	ID      string              `json:"id"`
	Status  string              `json:"status"`
	Results []domain.ItemResult `json:"results"`
	Error   string              `json:"error,omitempty"`
}

// MetadataItem is a single (possibly user-edited) annotation result submitted
// for export.
type MetadataItem struct {
	Filename    string `json:"filename" validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	Category    string `json:"category"`
}

// ExportRequest defines the payload for the embed-and-upload endpoint.
// FTPHost is optional; the configured default is used when empty.
type ExportRequest struct {
	SessionID string         `json:"session_id" validate:"required,uuid4"`
	Metadata  []MetadataItem `json:"metadata"   validate:"required,min=1,dive"`
	FTPUser   string         `json:"ftp_user"   validate:"required"`
	FTPPass   string         `json:"ftp_pass"   validate:"required"`
	FTPHost   string         `json:"ftp_host"`
}

// jobToResponse converts a domain.Job to its API representation.
func jobToResponse(job *domain.Job) JobResponse {
	results := job.Results
	if results == nil {
		results = []domain.ItemResult{}
	}

	return JobResponse{
		ID:      job.ID.String(),
		Status:  string(job.Status),
		Results: results,
		Error:   job.Error,
	}
}
