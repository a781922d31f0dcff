// Package localstorage provides local file system storage implementation.
package localstorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sgaunet/tilefill/pkg/constants"
)

var (
	// ErrNotADirectory is returned when the target path exists but is not a directory.
	ErrNotADirectory = errors.New("not a directory")
	// ErrShortWrite is returned when fewer bytes than declared were written.
	ErrShortWrite = errors.New("short write")
)

// LocalStorage implements storage interface for local file system.
type LocalStorage struct {
	dirpath string
}

// NewLocalStorage creates a new LocalStorage instance.
func NewLocalStorage(dirpath string) *LocalStorage {
	return &LocalStorage{
		dirpath: dirpath,
	}
}

// Location returns the target directory.
func (s *LocalStorage) Location() string {
	return s.dirpath
}

// Prepare creates the target directory and its parents when missing and
// checks that files can be created inside it.
func (s *LocalStorage) Prepare(ctx context.Context) error {
	if ctx.Err() != nil {
		return fmt.Errorf("operation cancelled before starting: %w", ctx.Err())
	}
	if stat, err := os.Stat(s.dirpath); err == nil && !stat.IsDir() {
		return fmt.Errorf("%s: %w", s.dirpath, ErrNotADirectory)
	}
	if err := os.MkdirAll(s.dirpath, constants.DefaultDirPermission); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.dirpath, err)
	}
	check, err := os.CreateTemp(s.dirpath, ".tilefill-check-*")
	if err != nil {
		return fmt.Errorf("directory %s is not writable: %w", s.dirpath, err)
	}
	_ = check.Close()
	_ = os.Remove(check.Name())
	return nil
}

// SaveFile writes src into the target directory with context cancellation
// support. The partial file is removed when the copy fails.
func (s *LocalStorage) SaveFile(ctx context.Context, src io.Reader, dstFilename string, fileSize int64) error {
	// Check context before starting
	if ctx.Err() != nil {
		return fmt.Errorf("operation cancelled before starting: %w", ctx.Err())
	}

	dstPath := filepath.Join(s.dirpath, dstFilename)
	//nolint:gosec // G304: file creation in the configured directory is the purpose of this tool
	fDst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.DefaultFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dstPath, err)
	}

	// io.Copy hands the file to src.WriteTo when src implements it, so the
	// number of writes is decided by the source.
	written, err := io.Copy(&ctxWriter{ctx: ctx, w: fDst}, src)
	if err != nil {
		_ = fDst.Close()
		_ = os.Remove(dstPath) // Clean up partial file
		return fmt.Errorf("failed to write %s: %w", dstPath, err)
	}
	if written != fileSize {
		_ = fDst.Close()
		_ = os.Remove(dstPath)
		return fmt.Errorf("%w: wrote %d bytes to %s, expected %d", ErrShortWrite, written, dstPath, fileSize)
	}
	if err := fDst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to close %s: %w", dstPath, err)
	}
	return nil
}

// ctxWriter checks for cancellation before each write.
type ctxWriter struct {
	ctx context.Context
	w   io.Writer
}

func (c *ctxWriter) Write(p []byte) (int, error) {
	if c.ctx.Err() != nil {
		return 0, fmt.Errorf("copy cancelled: %w", c.ctx.Err())
	}
	return c.w.Write(p)
}
