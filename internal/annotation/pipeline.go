package annotation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/stocktag-api/internal/domain"
	"github.com/phrazzld/stocktag-api/internal/retry"
	"github.com/phrazzld/stocktag-api/internal/storage"
)

// Validation errors for the pipeline constructor
var (
	ErrNilImageReader = errors.New("image reader cannot be nil")
	ErrNilAnnotator   = errors.New("annotator cannot be nil")
	ErrNilLogger      = errors.New("logger cannot be nil")
)

// Pipeline composes image resolution, prompt building, the annotation client
// under retry, and response parsing into a single "annotate one image"
// operation. It always produces exactly one ItemResult and never returns an
// error; every failure path degrades to a tagged error result so that one
// image cannot abort its siblings.
type Pipeline struct {
	images    ImageReader
	annotator Annotator
	policy    retry.Policy
	logger    *slog.Logger
}

// NewPipeline creates a per-item annotation pipeline. The retry policy is
// applied around every annotator call; pass retry.DefaultPolicy(IsRateLimited)
// for the standard rate-limit-only behavior.
func NewPipeline(
	images ImageReader,
	annotator Annotator,
	policy retry.Policy,
	logger *slog.Logger,
) (*Pipeline, error) {
	if images == nil {
		return nil, ErrNilImageReader
	}
	if annotator == nil {
		return nil, ErrNilAnnotator
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &Pipeline{
		images:    images,
		annotator: annotator,
		policy:    policy,
		logger:    logger,
	}, nil
}

// AnnotateOne annotates a single image of the given session and returns its
// result. userContext is optional free text supplied by the uploader; when it
// conflicts with what the model sees, the model is instructed to prefer it.
func (p *Pipeline) AnnotateOne(
	ctx context.Context,
	sessionID uuid.UUID,
	filename string,
	userContext string,
) (result domain.ItemResult) {
	log := p.logger.With("session_id", sessionID, "filename", filename)

	// A misbehaving annotator implementation must not take the batch down.
	defer func() {
		if r := recover(); r != nil {
			log.Error("annotation pipeline panicked", "panic", r)
			result = domain.NewItemFailure(filename, domain.FailureUnknown,
				fmt.Sprintf("unexpected failure: %v", r))
		}
	}()

	data, err := p.images.Read(ctx, sessionID, filename)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			log.Warn("image missing from session storage")
			return domain.NewItemFailure(filename, domain.FailureFileNotFound, "file not found")
		}
		log.Error("failed to read image", "error", err)
		return domain.NewItemFailure(filename, domain.FailureUnknown,
			fmt.Sprintf("failed to read image: %v", err))
	}

	prompt, err := BuildPrompt(userContext)
	if err != nil {
		log.Error("failed to build prompt", "error", err)
		return domain.NewItemFailure(filename, domain.FailureUnknown,
			fmt.Sprintf("failed to build prompt: %v", err))
	}

	img := Image{Data: data, MIMEType: MIMETypeFor(filename)}

	raw, err := retry.Do(ctx, p.policy, func(ctx context.Context) (string, error) {
		return p.annotator.Annotate(ctx, img, prompt)
	})
	if err != nil {
		return p.failureFor(log, filename, err)
	}

	meta, err := ParseMetadata(raw)
	if err != nil {
		log.Warn("failed to parse model response", "error", err, "response_length", len(raw))
		return domain.NewItemFailure(filename, domain.FailureParse, "failed to parse JSON response")
	}

	log.Debug("image annotated",
		"title_length", len(meta.Title),
		"keyword_length", len(meta.Keywords))

	return domain.ItemResult{
		Filename:    filename,
		Title:       meta.Title,
		Description: meta.Description,
		Keywords:    meta.Keywords,
		Category:    meta.Category,
	}
}

// failureFor maps a classified annotator error onto the per-item failure
// taxonomy.
func (p *Pipeline) failureFor(log *slog.Logger, filename string, err error) domain.ItemResult {
	var httpErr *HTTPError

	switch {
	case errors.Is(err, retry.ErrExhausted) && errors.Is(err, ErrRateLimited):
		log.Error("rate limit retries exhausted", "error", err)
		return domain.NewItemFailure(filename, domain.FailureRateLimit,
			"rate limit exceeded after retries")

	case errors.Is(err, ErrRateLimited):
		log.Error("rate limited", "error", err)
		return domain.NewItemFailure(filename, domain.FailureRateLimit, err.Error())

	case errors.As(err, &httpErr):
		log.Error("annotation HTTP error", "status", httpErr.StatusCode)
		return domain.NewItemFailure(filename, domain.FailureHTTP,
			fmt.Sprintf("HTTP error: status %d", httpErr.StatusCode))

	case errors.Is(err, ErrMalformedResponse):
		log.Error("malformed annotation response", "error", err)
		return domain.NewItemFailure(filename, domain.FailureMalformedResponse, err.Error())

	case errors.Is(err, ErrTransport):
		log.Error("annotation transport error", "error", err)
		return domain.NewItemFailure(filename, domain.FailureTransport, err.Error())

	default:
		log.Error("annotation failed", "error", err)
		return domain.NewItemFailure(filename, domain.FailureUnknown, err.Error())
	}
}

// MIMETypeFor guesses the MIME type of an uploaded image from its extension.
// Uploads are restricted to JPEG and PNG, so everything else falls back to
// JPEG the way the upstream service expects.
func MIMETypeFor(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}
