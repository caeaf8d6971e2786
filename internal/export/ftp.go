package export

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/jlaffaye/ftp"
)

// dialTimeout bounds how long connecting to the remote host may take.
const dialTimeout = 30 * time.Second

// FTPUploader transfers files to a remote FTP server, one connection per
// Upload call.
type FTPUploader struct {
	logger *slog.Logger
}

// NewFTPUploader creates an FTP-backed Uploader.
func NewFTPUploader(logger *slog.Logger) (*FTPUploader, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &FTPUploader{
		logger: logger.With("component", "ftp_uploader"),
	}, nil
}

// Upload stores every file at the root of the remote server. A connection or
// login failure aborts the whole run with ErrConnectionFailed; per-file
// failures are collected and do not stop the remaining transfers.
func (u *FTPUploader) Upload(
	ctx context.Context,
	creds Credentials,
	paths []string,
) ([]string, []string, error) {
	addr := creds.Host
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "21")
	}

	conn, err := ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(dialTimeout))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	defer func() {
		if qerr := conn.Quit(); qerr != nil {
			u.logger.Debug("failed to close FTP connection", "error", qerr)
		}
	}()

	if err := conn.Login(creds.User, creds.Password); err != nil {
		return nil, nil, fmt.Errorf("%w: login rejected: %v", ErrConnectionFailed, err)
	}

	var uploaded, failures []string
	for _, path := range paths {
		filename := filepath.Base(path)

		if err := u.store(conn, path, filename); err != nil {
			u.logger.Error("FTP upload failed", "filename", filename, "error", err)
			failures = append(failures, fmt.Sprintf("FTP upload failed for %s: %v", filename, err))
			continue
		}

		u.logger.Info("file uploaded", "filename", filename, "host", creds.Host)
		uploaded = append(uploaded, filename)
	}

	return uploaded, failures, nil
}

func (u *FTPUploader) store(conn *ftp.ServerConn, path, filename string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			u.logger.Error("failed to close file", "filename", filename, "error", cerr)
		}
	}()

	return conn.Stor(filename, f)
}
