// Package storage provides the image storage collaborator: uploaded images
// live in per-session directories until they have been annotated, embedded,
// and exported.
package storage

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
)

// Common errors returned by image storage implementations
var (
	// ErrSessionNotFound is returned when the referenced upload session does
	// not exist.
	ErrSessionNotFound = errors.New("upload session not found")

	// ErrFileNotFound is returned when a filename has no backing file in its
	// session.
	ErrFileNotFound = errors.New("image file not found")
)

// ImageStorage defines access to uploaded image files grouped by session.
type ImageStorage interface {
	// CreateSession allocates a new empty upload session and returns its ID.
	CreateSession(ctx context.Context) (uuid.UUID, error)

	// Save stores one uploaded file under the given session.
	Save(ctx context.Context, sessionID uuid.UUID, filename string, r io.Reader) error

	// List returns the annotatable image filenames of a session in stable
	// (lexical) order.
	List(ctx context.Context, sessionID uuid.UUID) ([]string, error)

	// Read returns the bytes of one stored image.
	Read(ctx context.Context, sessionID uuid.UUID, filename string) ([]byte, error)

	// RemoveSession deletes a session and all of its files.
	RemoveSession(ctx context.Context, sessionID uuid.UUID) error
}
