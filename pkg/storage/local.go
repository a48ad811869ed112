package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sdejongh/dirtective/internal/platform"
	"github.com/sdejongh/dirtective/pkg/models"
	"github.com/spf13/afero"
)

// Local is a filesystem backend built on afero
type Local struct {
	fs afero.Fs
	// native is true when fs is the real OS filesystem, which is the only
	// case where birth times can be queried
	native bool
}

// NewLocal creates a backend on the operating system filesystem
func NewLocal() *Local {
	return &Local{fs: afero.NewOsFs(), native: true}
}

// NewLocalFs creates a backend on an arbitrary afero filesystem
func NewLocalFs(fsys afero.Fs) *Local {
	_, native := fsys.(*afero.OsFs)
	return &Local{fs: fsys, native: native}
}

// Fs exposes the underlying filesystem
func (l *Local) Fs() afero.Fs {
	return l.fs
}

// ReadDir returns the entries of dir, sorted by name
func (l *Local) ReadDir(ctx context.Context, dir string) ([]FileInfo, error) {
	infos, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, &models.IOError{Op: "list", Path: dir, Err: err}
	}

	entries := make([]FileInfo, 0, len(infos))
	for _, info := range infos {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		entries = append(entries, l.toFileInfo(filepath.Join(dir, info.Name()), info))
	}

	return entries, nil
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := l.fs.Stat(path)
	if err != nil {
		return nil, &models.IOError{Op: "stat", Path: path, Err: err}
	}

	fi := l.toFileInfo(path, info)
	return &fi, nil
}

// Read opens a file for reading
func (l *Local) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := l.fs.Open(path)
	if err != nil {
		return nil, &models.IOError{Op: "open", Path: path, Err: err}
	}

	return file, nil
}

// Write writes reader to a hidden temporary file next to path and renames it
// into place, so an interrupted copy never leaves a truncated target behind
func (l *Local) Write(ctx context.Context, path string, reader io.Reader, size int64, metadata *FileInfo) error {
	dir := filepath.Dir(path)
	if err := l.fs.MkdirAll(dir, 0755); err != nil {
		return &models.IOError{Op: "create directory", Path: dir, Err: err}
	}

	tmp, err := afero.TempFile(l.fs, dir, "."+filepath.Base(path)+".dirtective-*")
	if err != nil {
		return &models.IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, reader)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && size >= 0 && written != size {
		err = fmt.Errorf("incomplete write: expected %d bytes, wrote %d", size, written)
	}
	if err != nil {
		_ = l.fs.Remove(tmpName)
		return &models.IOError{Op: "write", Path: path, Err: err}
	}

	// Preserve metadata if provided
	if metadata != nil {
		if !metadata.ModTime.IsZero() {
			if err := l.fs.Chtimes(tmpName, metadata.ModTime, metadata.ModTime); err != nil {
				_ = l.fs.Remove(tmpName)
				return &models.IOError{Op: "set modification time", Path: path, Err: err}
			}
		}
		if metadata.Permissions != 0 {
			if err := l.fs.Chmod(tmpName, os.FileMode(metadata.Permissions)); err != nil {
				_ = l.fs.Remove(tmpName)
				return &models.IOError{Op: "set permissions", Path: path, Err: err}
			}
		}
	}

	if err := l.fs.Rename(tmpName, path); err != nil {
		_ = l.fs.Remove(tmpName)
		return &models.IOError{Op: "rename", Path: path, Err: err}
	}

	return nil
}

// Remove deletes a single regular file
func (l *Local) Remove(ctx context.Context, path string) error {
	info, err := l.fs.Stat(path)
	if err != nil {
		return &models.IOError{Op: "remove", Path: path, Err: err}
	}
	if info.IsDir() {
		return &models.IOError{Op: "remove", Path: path, Err: fmt.Errorf("is a directory")}
	}

	if err := l.fs.Remove(path); err != nil {
		return &models.IOError{Op: "remove", Path: path, Err: err}
	}

	return nil
}

// Exists checks if a file or directory exists
func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	exists, err := afero.Exists(l.fs, path)
	if err != nil {
		return false, &models.IOError{Op: "check existence of", Path: path, Err: err}
	}
	return exists, nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

func (l *Local) toFileInfo(path string, info fs.FileInfo) FileInfo {
	return FileInfo{
		Path:        path,
		Name:        info.Name(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		CreatedAt:   l.creationTime(path, info),
		IsDir:       info.IsDir(),
		Permissions: uint32(info.Mode().Perm()),
	}
}

func (l *Local) creationTime(path string, info fs.FileInfo) time.Time {
	if l.native {
		return platform.CreationTime(path, info)
	}
	return info.ModTime()
}
