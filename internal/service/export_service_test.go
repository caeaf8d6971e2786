package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/stocktag-api/internal/domain"
	"github.com/phrazzld/stocktag-api/internal/export"
	"github.com/phrazzld/stocktag-api/internal/storage"
)

// fakeSessionFiles resolves paths for a scripted set of filenames.
type fakeSessionFiles struct {
	files map[string]bool

	mu      sync.Mutex
	removed []uuid.UUID
}

func (f *fakeSessionFiles) Path(sessionID uuid.UUID, filename string) (string, error) {
	if !f.files[filename] {
		return "", storage.ErrFileNotFound
	}
	return filepath.Join("/tmp/sessions", sessionID.String(), filename), nil
}

func (f *fakeSessionFiles) RemoveSession(ctx context.Context, sessionID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, sessionID)
	return nil
}

func (f *fakeSessionFiles) removedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.removed)
}

type fakeEmbedder struct {
	failFor map[string]error

	mu    sync.Mutex
	items []domain.ItemResult
}

func (f *fakeEmbedder) Embed(ctx context.Context, path string, item domain.ItemResult) error {
	f.mu.Lock()
	f.items = append(f.items, item)
	f.mu.Unlock()
	if err := f.failFor[filepath.Base(path)]; err != nil {
		return err
	}
	return nil
}

type fakeUploader struct {
	failures []string
	connErr  error

	mu    sync.Mutex
	paths []string
	creds export.Credentials
}

func (f *fakeUploader) Upload(ctx context.Context, creds export.Credentials, paths []string) ([]string, []string, error) {
	f.mu.Lock()
	f.paths = paths
	f.creds = creds
	f.mu.Unlock()

	if f.connErr != nil {
		return nil, nil, f.connErr
	}

	failed := make(map[string]bool, len(f.failures))
	for _, name := range f.failures {
		failed[name] = true
	}

	var uploaded []string
	var failures []string
	for _, path := range paths {
		name := filepath.Base(path)
		if failed[name] {
			failures = append(failures, name+": transfer aborted")
			continue
		}
		uploaded = append(uploaded, name)
	}
	return uploaded, failures, nil
}

func testCreds() export.Credentials {
	return export.Credentials{Host: "ftp.example.com", User: "contributor", Password: "secret"}
}

func TestNewExportServiceValidation(t *testing.T) {
	t.Parallel()

	files := &fakeSessionFiles{}
	embedder := &fakeEmbedder{}
	uploader := &fakeUploader{}

	_, err := NewExportService(nil, embedder, uploader, testLogger())
	assert.ErrorIs(t, err, export.ErrNilFiles)

	_, err = NewExportService(files, nil, uploader, testLogger())
	assert.ErrorIs(t, err, export.ErrNilEmbedder)

	_, err = NewExportService(files, embedder, nil, testLogger())
	assert.ErrorIs(t, err, export.ErrNilUploader)

	_, err = NewExportService(files, embedder, uploader, nil)
	assert.ErrorIs(t, err, ErrNilLogger)
}

func TestEmbedAndUpload(t *testing.T) {
	t.Parallel()

	files := &fakeSessionFiles{files: map[string]bool{"a.jpg": true, "b.jpg": true}}
	embedder := &fakeEmbedder{}
	uploader := &fakeUploader{}

	svc, err := NewExportService(files, embedder, uploader, testLogger())
	require.NoError(t, err)

	sessionID := uuid.New()
	items := []domain.ItemResult{
		{Filename: "a.jpg", Title: "First", Keywords: "one, two"},
		{Filename: "b.jpg", Title: "Second"},
	}

	report, err := svc.EmbedAndUpload(context.Background(), sessionID, items, testCreds())

	require.NoError(t, err)
	assert.Equal(t, ExportStatusCompleted, report.Status)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, report.Uploaded)
	assert.Empty(t, report.UploadErrs)
	assert.Empty(t, report.EmbedErrs)
	assert.Len(t, embedder.items, 2)
	assert.Equal(t, "contributor", uploader.creds.User)

	// Cleanup is fire-and-forget behind the response.
	require.Eventually(t, func() bool {
		return files.removedCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEmbedAndUploadSkipsMissingFiles(t *testing.T) {
	t.Parallel()

	files := &fakeSessionFiles{files: map[string]bool{"a.jpg": true}}
	embedder := &fakeEmbedder{}
	uploader := &fakeUploader{}

	svc, err := NewExportService(files, embedder, uploader, testLogger())
	require.NoError(t, err)

	items := []domain.ItemResult{
		{Filename: "a.jpg", Title: "Present"},
		{Filename: "gone.jpg", Title: "Vanished"},
	}

	report, err := svc.EmbedAndUpload(context.Background(), uuid.New(), items, testCreds())

	require.NoError(t, err)
	assert.Equal(t, ExportStatusCompleted, report.Status)
	assert.Equal(t, []string{"a.jpg"}, report.Uploaded)
	assert.Len(t, embedder.items, 1)
}

func TestEmbedFailureStillUploads(t *testing.T) {
	t.Parallel()

	files := &fakeSessionFiles{files: map[string]bool{"a.jpg": true, "b.jpg": true}}
	embedder := &fakeEmbedder{failFor: map[string]error{"a.jpg": errors.New("exiftool: corrupted header")}}
	uploader := &fakeUploader{}

	svc, err := NewExportService(files, embedder, uploader, testLogger())
	require.NoError(t, err)

	items := []domain.ItemResult{
		{Filename: "a.jpg", Title: "Broken"},
		{Filename: "b.jpg", Title: "Fine"},
	}

	report, err := svc.EmbedAndUpload(context.Background(), uuid.New(), items, testCreds())

	require.NoError(t, err)
	assert.Equal(t, ExportStatusCompleted, report.Status)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, report.Uploaded)
	require.Len(t, report.EmbedErrs, 1)
	assert.Contains(t, report.EmbedErrs[0], "corrupted header")
}

func TestPartialUploadFailuresReported(t *testing.T) {
	t.Parallel()

	files := &fakeSessionFiles{files: map[string]bool{"a.jpg": true, "b.jpg": true}}
	uploader := &fakeUploader{failures: []string{"b.jpg"}}

	svc, err := NewExportService(files, &fakeEmbedder{}, uploader, testLogger())
	require.NoError(t, err)

	items := []domain.ItemResult{
		{Filename: "a.jpg", Title: "Ok"},
		{Filename: "b.jpg", Title: "Dropped"},
	}

	report, err := svc.EmbedAndUpload(context.Background(), uuid.New(), items, testCreds())

	require.NoError(t, err)
	assert.Equal(t, ExportStatusCompleted, report.Status)
	assert.Equal(t, []string{"a.jpg"}, report.Uploaded)
	require.Len(t, report.UploadErrs, 1)
	assert.Contains(t, report.UploadErrs[0], "b.jpg")
}

func TestConnectionFailureReportedNotRaised(t *testing.T) {
	t.Parallel()

	files := &fakeSessionFiles{files: map[string]bool{"a.jpg": true}}
	connErr := fmt.Errorf("%w: dial tcp: connection refused", export.ErrConnectionFailed)
	uploader := &fakeUploader{connErr: connErr}

	svc, err := NewExportService(files, &fakeEmbedder{}, uploader, testLogger())
	require.NoError(t, err)

	items := []domain.ItemResult{{Filename: "a.jpg", Title: "Stranded"}}

	report, err := svc.EmbedAndUpload(context.Background(), uuid.New(), items, testCreds())

	require.NoError(t, err)
	assert.Equal(t, ExportStatusFailed, report.Status)
	assert.Contains(t, report.Error, "connection refused")
	assert.Empty(t, report.Uploaded)

	// The session must survive a failed upload for a retry.
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, files.removedCount())
}
