package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ErrNilLogger is returned when the storage is constructed without a logger.
var ErrNilLogger = errors.New("logger cannot be nil")

// imageExtensions are the upload types the annotation engine accepts.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// FilesystemStorage stores session images under root/<session-id>/<filename>.
type FilesystemStorage struct {
	root   string
	logger *slog.Logger
}

// NewFilesystemStorage creates the root directory if needed and returns a
// filesystem-backed ImageStorage.
func NewFilesystemStorage(root string, logger *slog.Logger) (*FilesystemStorage, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %s: %w", root, err)
	}

	return &FilesystemStorage{
		root:   root,
		logger: logger.With("component", "filesystem_storage"),
	}, nil
}

// Root returns the storage root directory. The HTTP layer serves session
// images statically from here for frontend previews.
func (s *FilesystemStorage) Root() string {
	return s.root
}

// CreateSession allocates a new empty upload session and returns its ID.
func (s *FilesystemStorage) CreateSession(ctx context.Context) (uuid.UUID, error) {
	sessionID := uuid.New()
	if err := os.MkdirAll(s.sessionDir(sessionID), 0o755); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	s.logger.Debug("session created", "session_id", sessionID)
	return sessionID, nil
}

// Save stores one uploaded file under the given session. The filename is
// reduced to its base name so uploads cannot escape the session directory.
func (s *FilesystemStorage) Save(
	ctx context.Context,
	sessionID uuid.UUID,
	filename string,
	r io.Reader,
) error {
	dir := s.sessionDir(sessionID)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to stat session directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, filepath.Base(filename)))
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filename, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Error("failed to close uploaded file", "filename", filename, "error", cerr)
		}
	}()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}

	return nil
}

// List returns the session's image filenames in lexical order. Non-image
// files are ignored.
func (s *FilesystemStorage) List(ctx context.Context, sessionID uuid.UUID) ([]string, error) {
	entries, err := os.ReadDir(s.sessionDir(sessionID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	var filenames []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			filenames = append(filenames, entry.Name())
		}
	}

	sort.Strings(filenames)
	return filenames, nil
}

// Read returns the bytes of one stored image.
func (s *FilesystemStorage) Read(
	ctx context.Context,
	sessionID uuid.UUID,
	filename string,
) ([]byte, error) {
	data, err := os.ReadFile(s.path(sessionID, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return data, nil
}

// Path returns the on-disk path of one stored image, or ErrFileNotFound if it
// does not exist. The export collaborators (exiftool, FTP) operate on paths.
func (s *FilesystemStorage) Path(sessionID uuid.UUID, filename string) (string, error) {
	path := s.path(sessionID, filename)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrFileNotFound
		}
		return "", fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	return path, nil
}

// RemoveSession deletes a session and all of its files.
func (s *FilesystemStorage) RemoveSession(ctx context.Context, sessionID uuid.UUID) error {
	if err := os.RemoveAll(s.sessionDir(sessionID)); err != nil {
		return fmt.Errorf("failed to remove session %s: %w", sessionID, err)
	}

	s.logger.Info("session cleaned up", "session_id", sessionID)
	return nil
}

func (s *FilesystemStorage) sessionDir(sessionID uuid.UUID) string {
	return filepath.Join(s.root, sessionID.String())
}

func (s *FilesystemStorage) path(sessionID uuid.UUID, filename string) string {
	return filepath.Join(s.sessionDir(sessionID), filepath.Base(filename))
}
