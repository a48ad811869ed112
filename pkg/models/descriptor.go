package models

import (
	"path/filepath"
	"strings"
	"time"
)

// FileDescriptor represents one regular file found while listing a directory.
// Descriptors are never mutated once built; acting on the underlying file
// discards the descriptor instead.
type FileDescriptor struct {
	// Name is the file name without its extension (the match key)
	Name string `json:"name"`

	// Base is the file name including its extension
	Base string `json:"base"`

	// Extension includes the leading dot, empty when the file has none
	Extension string `json:"extension,omitempty"`

	// Directory is the directory the file was listed from
	Directory string `json:"directory"`

	// FullPath is Directory joined with Base
	FullPath string `json:"path"`

	// Size in bytes
	Size int64 `json:"bytes"`

	// CreatedAt is the birth time reported by the filesystem, or the
	// modification time when the platform does not expose one
	CreatedAt time.Time `json:"created"`

	// TypeLabel is a human-readable file type derived from the extension
	TypeLabel string `json:"type"`

	// Source is the index of the listing this file came from (0 = primary)
	Source int `json:"source"`
}

// NewFileDescriptor builds a descriptor for base inside directory
func NewFileDescriptor(directory, base string, size int64, createdAt time.Time, source int) FileDescriptor {
	ext := filepath.Ext(base)
	return FileDescriptor{
		Name:      strings.TrimSuffix(base, ext),
		Base:      base,
		Extension: ext,
		Directory: directory,
		FullPath:  filepath.Join(directory, base),
		Size:      size,
		CreatedAt: createdAt,
		TypeLabel: FileTypeLabel(ext),
		Source:    source,
	}
}

// HasExtension reports whether the base name carries a dot.
// Files without one are left out of the unique-file report.
func (f FileDescriptor) HasExtension() bool {
	return strings.Contains(f.Base, ".")
}

// SizeLabel returns the friendly size shown in tables and exports
func (f FileDescriptor) SizeLabel() string {
	return FriendlySize(f.Size)
}

// Listing is the result of listing a single directory
type Listing struct {
	// Path is the absolute directory path
	Path string `json:"path"`

	// Name is the last element of Path
	Name string `json:"name"`

	// Source is the position of this directory in the comparison
	Source int `json:"source"`

	// Files holds the descriptors in listing order
	Files []FileDescriptor `json:"files"`

	// TotalBytes is the accumulated size of Files (informational only)
	TotalBytes int64 `json:"total_bytes"`
}

// FileCount returns the number of files in the listing
func (l *Listing) FileCount() int {
	return len(l.Files)
}

// Add appends a descriptor and accumulates its size
func (l *Listing) Add(f FileDescriptor) {
	l.Files = append(l.Files, f)
	l.TotalBytes += f.Size
}
