package gemini

import (
	"context"
	"log/slog"

	"github.com/phrazzld/stocktag-api/internal/annotation"
)

// NewAnnotatorFactory returns a constructor building one Annotator per
// caller-supplied API key. The orchestrator invokes it once per submitted
// job.
func NewAnnotatorFactory(
	logger *slog.Logger,
	model string,
) func(ctx context.Context, apiKey string) (annotation.Annotator, error) {
	return func(ctx context.Context, apiKey string) (annotation.Annotator, error) {
		return NewAnnotator(ctx, logger, apiKey, model)
	}
}
