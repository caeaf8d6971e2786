// Package gemini implements the annotation.Annotator interface using Google's
// Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/stocktag-api/internal/annotation"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when the configuration does not name
// one.
const DefaultModel = "gemini-2.0-flash"

// Error definitions for the gemini package.
var (
	// ErrEmptyImage is returned when an annotation call has no image bytes.
	ErrEmptyImage = errors.New("image data cannot be empty")

	// ErrEmptyPrompt is returned when an annotation call has no instruction.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrNilLogger is returned when the annotator is constructed without a
	// logger.
	ErrNilLogger = errors.New("logger cannot be nil")
)

// Annotator wraps one Gemini client for a caller-supplied API key. It issues
// exactly one generateContent call per Annotate invocation and never retries;
// backoff is the retrier's responsibility.
type Annotator struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

// NewAnnotator creates a Gemini-backed annotation client. The API key is
// per-caller state, not process configuration, so a new Annotator is built
// for every submitted job.
func NewAnnotator(ctx context.Context, logger *slog.Logger, apiKey, model string) (*Annotator, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}

	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", annotation.ErrInvalidConfig)
	}

	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			annotation.ErrInvalidConfig, err)
	}

	return &Annotator{
		logger: logger.With("component", "gemini_annotator", "model", model),
		client: client,
		model:  model,
	}, nil
}

// Annotate sends the image and instruction to Gemini and returns the raw text
// response. Failures are classified into the annotation error taxonomy.
func (a *Annotator) Annotate(ctx context.Context, img annotation.Image, prompt string) (string, error) {
	if len(img.Data) == 0 {
		return "", ErrEmptyImage
	}
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(img.Data, img.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	a.logger.DebugContext(ctx, "calling Gemini API",
		"image_bytes", len(img.Data),
		"mime_type", img.MIMEType)

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return "", classifyAPIError(err)
	}

	text, err := extractText(resp)
	if err != nil {
		a.logger.WarnContext(ctx, "Gemini response had no usable text", "error", err)
		return "", err
	}

	return text, nil
}

// classifyAPIError maps a genai call error onto the annotation error
// taxonomy: 429 becomes ErrRateLimited, other status codes become HTTPError,
// and everything else is a transport failure.
func classifyAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %s", annotation.ErrRateLimited, apiErr.Message)
		}
		return &annotation.HTTPError{StatusCode: apiErr.Code, Message: apiErr.Message}
	}

	return fmt.Errorf("%w: %v", annotation.ErrTransport, err)
}

// extractText pulls the concatenated text parts out of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", annotation.ErrMalformedResponse)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned", annotation.ErrMalformedResponse)
	}
	if resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty content in response", annotation.ErrMalformedResponse)
	}

	text := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text += part.Text
		}
	}

	if text == "" {
		return "", fmt.Errorf("%w: no text parts in response", annotation.ErrMalformedResponse)
	}

	return text, nil
}
