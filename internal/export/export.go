// Package export handles the downstream half of the workflow: embedding
// finalized metadata into image files and transferring them to a remote
// server. It consumes a completed job's results only and never mutates job
// state.
package export

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/stocktag-api/internal/domain"
)

// Common errors
var (
	// ErrConnectionFailed is returned when the remote server cannot be
	// reached or refuses the login.
	ErrConnectionFailed = errors.New("remote connection failed")

	ErrNilFiles    = errors.New("session files cannot be nil")
	ErrNilEmbedder = errors.New("embedder cannot be nil")
	ErrNilUploader = errors.New("uploader cannot be nil")
	ErrNilLogger   = errors.New("logger cannot be nil")
)

// Credentials identifies the remote upload target.
type Credentials struct {
	Host     string
	User     string
	Password string
}

// Embedder writes annotation metadata into an image file on disk.
type Embedder interface {
	Embed(ctx context.Context, path string, item domain.ItemResult) error
}

// Uploader transfers local files to a remote server. It returns the uploaded
// filenames and a description per file that failed; an error is returned only
// when the connection itself could not be established.
type Uploader interface {
	Upload(ctx context.Context, creds Credentials, paths []string) (uploaded []string, failures []string, err error)
}

// SessionFiles is the slice of image storage the export flow needs.
type SessionFiles interface {
	// Path resolves a session file to its on-disk path, or
	// storage.ErrFileNotFound.
	Path(sessionID uuid.UUID, filename string) (string, error)

	// RemoveSession deletes a session and all of its files.
	RemoveSession(ctx context.Context, sessionID uuid.UUID) error
}

// Report summarizes one embed-and-upload run.
type Report struct {
	Status     string   `json:"status"`
	Uploaded   []string `json:"uploaded"`
	UploadErrs []string `json:"upload_errors"`
	EmbedErrs  []string `json:"embed_errors"`
	Error      string   `json:"error,omitempty"`
}
