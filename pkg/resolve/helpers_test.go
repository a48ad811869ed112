package resolve

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/dirtective/pkg/models"
	"github.com/sdejongh/dirtective/pkg/storage"
)

var (
	jan2023  = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	june2023 = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
)

// memFile describes a file created in the in-memory filesystem
type memFile struct {
	path    string
	size    int
	created time.Time
	source  int
}

// newFixture creates an in-memory backend holding files and returns the
// matching descriptors, in order
func newFixture(t *testing.T, files ...memFile) (*storage.Local, []models.FileDescriptor) {
	t.Helper()

	fsys := afero.NewMemMapFs()
	descriptors := make([]models.FileDescriptor, 0, len(files))

	for _, f := range files {
		dir := filepath.Dir(f.path)
		require.NoError(t, fsys.MkdirAll(dir, 0755))
		require.NoError(t, afero.WriteFile(fsys, f.path, []byte(strings.Repeat("x", f.size)), 0644))
		require.NoError(t, fsys.Chtimes(f.path, f.created, f.created))

		descriptors = append(descriptors, models.NewFileDescriptor(dir, filepath.Base(f.path), int64(f.size), f.created, f.source))
	}

	return storage.NewLocalFs(fsys), descriptors
}

// newGroup builds a group from members
func newGroup(id int, members ...models.FileDescriptor) *models.DuplicateGroup {
	return &models.DuplicateGroup{
		ID:      id,
		Name:    members[0].Name,
		Members: members,
	}
}

// reportGroup is the two-member report.pdf group: (1) 2048 bytes from
// January, (2) 4096 bytes from June
func reportGroup(t *testing.T) (*storage.Local, *models.DuplicateGroup) {
	t.Helper()

	backend, files := newFixture(t,
		memFile{"/a/report.pdf", 2048, jan2023, 0},
		memFile{"/b/report.pdf", 4096, june2023, 1},
	)
	return backend, newGroup(1, files...)
}

func exists(t *testing.T, backend storage.Backend, path string) bool {
	t.Helper()
	ok, err := backend.Exists(context.Background(), path)
	require.NoError(t, err)
	return ok
}

// failingBackend fails removals of selected paths and records every call
type failingBackend struct {
	storage.Backend
	failRemove  map[string]bool
	failWrite   map[string]bool
	removeCalls []string
}

func (b *failingBackend) Remove(ctx context.Context, path string) error {
	b.removeCalls = append(b.removeCalls, path)
	if b.failRemove[path] {
		return &models.IOError{Op: "remove", Path: path, Err: os.ErrPermission}
	}
	return b.Backend.Remove(ctx, path)
}

func (b *failingBackend) Write(ctx context.Context, path string, reader io.Reader, size int64, metadata *storage.FileInfo) error {
	if b.failWrite[path] {
		return &models.IOError{Op: "write", Path: path, Err: os.ErrPermission}
	}
	return b.Backend.Write(ctx, path, reader, size, metadata)
}

func kinds(choices []models.ActionChoice) []models.ActionKind {
	out := make([]models.ActionKind, len(choices))
	for i, c := range choices {
		out[i] = c.Kind
	}
	return out
}
