package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a directory entry
type FileInfo struct {
	Path        string
	Name        string
	Size        int64
	ModTime     time.Time
	CreatedAt   time.Time
	IsDir       bool
	Permissions uint32
}

// Backend defines the filesystem operations the scanner and the action
// executor rely on. Paths are absolute.
type Backend interface {
	// ReadDir returns the entries of a single directory level, sorted by name
	ReadDir(ctx context.Context, dir string) ([]FileInfo, error)

	// Stat returns file metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write creates or replaces a file with the given content.
	// If metadata is provided, attempts to preserve timestamps and permissions
	Write(ctx context.Context, path string, reader io.Reader, size int64, metadata *FileInfo) error

	// Remove deletes a single file; directories are refused
	Remove(ctx context.Context, path string) error

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// Close releases any resources held by the backend
	Close() error
}
