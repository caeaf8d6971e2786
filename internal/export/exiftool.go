package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/barasher/go-exiftool"
	"github.com/phrazzld/stocktag-api/internal/domain"
)

// ExifToolEmbedder writes metadata into image files by driving the exiftool
// binary.
type ExifToolEmbedder struct {
	logger *slog.Logger
}

// NewExifToolEmbedder creates an exiftool-backed Embedder. Each Embed call
// spawns and tears down its own exiftool handle, keeping the embedder
// stateless between exports.
func NewExifToolEmbedder(logger *slog.Logger) (*ExifToolEmbedder, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &ExifToolEmbedder{
		logger: logger.With("component", "exiftool_embedder"),
	}, nil
}

// Embed writes the item's title, description, keywords, and category into the
// file at path, covering the EXIF, IPTC, and XMP namespaces stock agencies
// read from.
func (e *ExifToolEmbedder) Embed(ctx context.Context, path string, item domain.ItemResult) error {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return fmt.Errorf("failed to start exiftool: %w", err)
	}
	defer func() {
		if cerr := et.Close(); cerr != nil {
			e.logger.Error("failed to close exiftool", "error", cerr)
		}
	}()

	fm := exiftool.EmptyFileMetadata()
	fm.File = path
	fm.SetString("Title", item.Title)
	fm.SetString("Description", item.Description)
	fm.SetString("Keywords", item.Keywords)
	fm.SetString("Category", item.Category)
	fm.SetString("IPTC:Caption-Abstract", item.Description)
	fm.SetString("IPTC:Keywords", item.Keywords)
	fm.SetString("XMP:Title", item.Title)
	fm.SetString("XMP:Description", item.Description)
	fm.SetString("XMP:Subject", item.Keywords)

	metas := []exiftool.FileMetadata{fm}
	et.WriteMetadata(metas)

	if metas[0].Err != nil {
		return fmt.Errorf("exiftool failed for %s: %w", item.Filename, metas[0].Err)
	}

	e.logger.Debug("metadata embedded", "filename", item.Filename)
	return nil
}
