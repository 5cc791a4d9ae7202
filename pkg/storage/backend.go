package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a file
type FileInfo struct {
	Path        string
	Name        string
	Size        int64
	ModTime     time.Time
	IsDir       bool
	Permissions uint32
}

// Backend defines the filesystem operations a merge needs.
// Source files are only ever opened for reading.
type Backend interface {
	// ListFiles returns the regular files directly inside dir, sorted by name
	ListFiles(ctx context.Context, dir string) ([]FileInfo, error)

	// Stat returns file metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// IsEmpty reports whether a directory has no entries at all
	IsEmpty(ctx context.Context, dir string) (bool, error)

	// MkdirAll creates a directory and all necessary parents
	MkdirAll(ctx context.Context, path string) error

	// Open opens a file for reading
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Copy copies src to dst and returns the number of bytes written.
	// Without overwrite the copy fails if dst already exists.
	Copy(ctx context.Context, src, dst string, overwrite bool) (int64, error)

	// Equivalent reports whether both paths exist and resolve to the same directory entry
	Equivalent(ctx context.Context, a, b string) (bool, error)

	// Close releases any resources held by the backend
	Close() error
}
