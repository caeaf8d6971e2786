// Package annotation defines the core of the batch annotation engine: the
// boundary interface to the external vision model, the error taxonomy for a
// single annotation call, the prompt builder, the response parser, and the
// per-item pipeline composing them. This package serves as a boundary between
// the application core and external AI services.
package annotation

import (
	"context"

	"github.com/google/uuid"
)

// Image holds the encoded bytes of one image together with its MIME type.
type Image struct {
	Data     []byte
	MIMEType string
}

// Annotator issues one synchronous request to a vision-capable inference
// service and returns the raw textual payload. Implementations must not retry
// internally; retry policy belongs to the caller.
type Annotator interface {
	// Annotate sends the image and instruction to the model and returns the
	// raw text response, or a classified error (see errors.go).
	Annotate(ctx context.Context, img Image, prompt string) (string, error)
}

// ImageReader resolves the stored bytes for one image of an upload session.
type ImageReader interface {
	Read(ctx context.Context, sessionID uuid.UUID, filename string) ([]byte, error)
}
