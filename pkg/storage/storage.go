// Package storage defines where generated files are written.
package storage

import (
	"context"
	"io"
)

//go:generate go tool github.com/matryer/moq -out mocks/storage.go -pkg mocks . Storage

// Storage is a flat namespace receiving generated files. Implementations must
// be safe for concurrent use by several workers.
type Storage interface {
	// Prepare makes sure the target exists and accepts writes.
	Prepare(ctx context.Context) error
	// SaveFile creates or overwrites dstFilename with fileSize bytes read from src.
	SaveFile(ctx context.Context, src io.Reader, dstFilename string, fileSize int64) error
	// Location describes the target, e.g. a directory or an s3:// URL.
	Location() string
}
