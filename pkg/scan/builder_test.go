package scan

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"

	"github.com/sdejongh/dirtective/pkg/models"
	"github.com/sdejongh/dirtective/pkg/storage"
)

// newTestBuilder creates a builder over an in-memory filesystem
func newTestBuilder(t *testing.T, files map[string]string, options Options) *Builder {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for path, content := range files {
		if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := afero.WriteFile(fsys, path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}

	return NewBuilder(storage.NewLocalFs(fsys), options, nil)
}

func fileNames(listing *models.Listing) []string {
	names := make([]string, 0, len(listing.Files))
	for _, f := range listing.Files {
		names = append(names, f.Base)
	}
	return names
}

// ============== Build Tests ==============

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("DescriptorsAndTotals", func(t *testing.T) {
		builder := newTestBuilder(t, map[string]string{
			"/a/report.pdf":  "12345",
			"/a/photo.JPG":   "123",
			"/a/README":      "1",
			"/a/sub/doc.txt": "ignored",
		}, Options{})

		listing, err := builder.Build(ctx, "/a")
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		names := fileNames(listing)
		if len(names) != 3 {
			t.Fatalf("Build() files = %v, want 3 files", names)
		}
		if listing.TotalBytes != 9 {
			t.Errorf("TotalBytes = %d, want 9", listing.TotalBytes)
		}
		if listing.Name != "a" || listing.Path != "/a" {
			t.Errorf("listing identity = %s %s", listing.Name, listing.Path)
		}

		for _, f := range listing.Files {
			if f.Base != "report.pdf" {
				continue
			}
			if f.Name != "report" || f.Extension != ".pdf" {
				t.Errorf("name/extension = %s/%s", f.Name, f.Extension)
			}
			if f.FullPath != filepath.Join("/a", "report.pdf") {
				t.Errorf("FullPath = %s", f.FullPath)
			}
			if f.Size != 5 {
				t.Errorf("Size = %d, want 5", f.Size)
			}
			if f.TypeLabel == "" {
				t.Error("TypeLabel should be set for .pdf")
			}
			if f.CreatedAt.IsZero() {
				t.Error("CreatedAt should be set")
			}
		}
	})

	t.Run("SkipsSystemAndHiddenEntries", func(t *testing.T) {
		builder := newTestBuilder(t, map[string]string{
			"/a/keep.txt":     "x",
			"/a/.hidden":      "x",
			"/a/.DS_Store":    "x",
			"/a/Thumbs.db":    "x",
			"/a/desktop.ini":  "x",
			"/a/$RECYCLE.txt": "x",
			"/a/config.INI":   "x",
		}, Options{})

		listing, err := builder.Build(ctx, "/a")
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		names := fileNames(listing)
		if len(names) != 1 || names[0] != "keep.txt" {
			t.Errorf("Build() files = %v, want [keep.txt]", names)
		}
	})

	t.Run("IncludeHidden", func(t *testing.T) {
		builder := newTestBuilder(t, map[string]string{
			"/a/.profile":  "x",
			"/a/.DS_Store": "x",
		}, Options{IncludeHidden: true})

		listing, err := builder.Build(ctx, "/a")
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		names := fileNames(listing)
		if len(names) != 1 || names[0] != ".profile" {
			t.Errorf("Build() files = %v, want [.profile]", names)
		}
	})

	t.Run("UserExcludes", func(t *testing.T) {
		builder := newTestBuilder(t, map[string]string{
			"/a/keep.txt":  "x",
			"/a/cache.tmp": "x",
			"/a/IMG.JPG":   "x",
		}, Options{Exclude: []string{"*.tmp", "i:*.jpg"}})

		listing, err := builder.Build(ctx, "/a")
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		names := fileNames(listing)
		if len(names) != 1 || names[0] != "keep.txt" {
			t.Errorf("Build() files = %v, want [keep.txt]", names)
		}
	})

	t.Run("EmptyDirectory", func(t *testing.T) {
		builder := newTestBuilder(t, map[string]string{"/a/sub/x.txt": "x"}, Options{})

		listing, err := builder.Build(ctx, "/a")
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if listing.FileCount() != 0 || listing.TotalBytes != 0 {
			t.Errorf("listing = %+v, want empty", listing)
		}
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		builder := newTestBuilder(t, nil, Options{})

		_, err := builder.Build(ctx, "/missing")
		var ioErr *models.IOError
		if !errors.As(err, &ioErr) {
			t.Fatalf("Build() error = %v, want IOError", err)
		}
	})

	t.Run("OnEntryCallback", func(t *testing.T) {
		var seen []string
		builder := newTestBuilder(t, map[string]string{
			"/a/one.txt": "1",
			"/a/two.txt": "2",
			"/a/.skip":   "3",
		}, Options{OnEntry: func(source int, f models.FileDescriptor) {
			seen = append(seen, f.Base)
		}})

		if _, err := builder.Build(ctx, "/a"); err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if len(seen) != 2 {
			t.Errorf("OnEntry called %d times, want 2", len(seen))
		}
	})
}

// ============== BuildAll Tests ==============

func TestBuildAll(t *testing.T) {
	ctx := context.Background()

	t.Run("TagsSources", func(t *testing.T) {
		var mu sync.Mutex
		counts := map[int]int{}
		builder := newTestBuilder(t, map[string]string{
			"/a/report.pdf": "12",
			"/b/report.pdf": "1234",
			"/b/other.txt":  "1",
		}, Options{OnEntry: func(source int, f models.FileDescriptor) {
			mu.Lock()
			counts[source]++
			mu.Unlock()
		}})

		listings, err := builder.BuildAll(ctx, "/a", "/b")
		if err != nil {
			t.Fatalf("BuildAll() error = %v", err)
		}
		if len(listings) != 2 {
			t.Fatalf("BuildAll() returned %d listings, want 2", len(listings))
		}

		for i, listing := range listings {
			if listing.Source != i {
				t.Errorf("listing %d Source = %d", i, listing.Source)
			}
			for _, f := range listing.Files {
				if f.Source != i {
					t.Errorf("file %s Source = %d, want %d", f.FullPath, f.Source, i)
				}
			}
		}
		if listings[1].TotalBytes != 5 {
			t.Errorf("listing b TotalBytes = %d, want 5", listings[1].TotalBytes)
		}
		if counts[0] != 1 || counts[1] != 2 {
			t.Errorf("OnEntry counts = %v", counts)
		}
	})

	t.Run("FailurePropagates", func(t *testing.T) {
		builder := newTestBuilder(t, map[string]string{"/a/x.txt": "x"}, Options{})

		_, err := builder.BuildAll(ctx, "/a", "/missing")
		if err == nil {
			t.Fatal("BuildAll() should fail when one directory cannot be listed")
		}
		if models.ClassifyError(err) != models.ErrorKindIO {
			t.Errorf("ClassifyError() = %s, want io", models.ClassifyError(err))
		}
	})
}

// ============== Exclusion Tests ==============

func TestShouldExclude(t *testing.T) {
	tests := []struct {
		name     string
		entry    string
		isDir    bool
		patterns []string
		expected bool
	}{
		{"NoPatterns", "file.txt", false, nil, false},
		{"SimpleGlob", "file.tmp", false, []string{"*.tmp"}, true},
		{"GlobMiss", "file.txt", false, []string{"*.tmp"}, false},
		{"CaseSensitiveByDefault", "FILE.TMP", false, []string{"*.tmp"}, false},
		{"CaseInsensitivePrefix", "FILE.TMP", false, []string{"i:*.tmp"}, true},
		{"DirPatternMatchesDir", "build", true, []string{"build/"}, true},
		{"DirPatternSkipsFile", "build", false, []string{"build/"}, false},
		{"EmptyPattern", "file.txt", false, []string{""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldExclude(tt.entry, tt.isDir, tt.patterns); got != tt.expected {
				t.Errorf("shouldExclude(%q, %v, %v) = %v, want %v", tt.entry, tt.isDir, tt.patterns, got, tt.expected)
			}
		})
	}
}

func TestIsSystemEntry(t *testing.T) {
	tests := []struct {
		name          string
		includeHidden bool
		expected      bool
	}{
		{"report.pdf", false, false},
		{".hidden", false, true},
		{".hidden", true, false},
		{".DS_Store", true, true},
		{"Thumbs.db", false, true},
		{"node_modules", false, true},
		{"$RECYCLE.BIN", false, true},
		{"settings.ini", false, true},
		{"Setup.INI.bak", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSystemEntry(tt.name, tt.includeHidden); got != tt.expected {
				t.Errorf("isSystemEntry(%q, %v) = %v, want %v", tt.name, tt.includeHidden, got, tt.expected)
			}
		})
	}
}
