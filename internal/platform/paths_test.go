package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestIsNested(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix-style paths")
	}

	tests := []struct {
		parent, child string
		expected      bool
	}{
		{"/data/a", "/data/a/b", true},
		{"/data/a", "/data/ab", false},
		{"/data/a", "/data/a", false},
		{"/data/a/", "/data/a/b/c", true},
		{"/data/b", "/data/a", false},
	}

	for _, tt := range tests {
		t.Run(tt.parent+"->"+tt.child, func(t *testing.T) {
			if got := IsNested(tt.parent, tt.child); got != tt.expected {
				t.Errorf("IsNested(%q, %q) = %v, want %v", tt.parent, tt.child, got, tt.expected)
			}
		})
	}
}

func TestDivergentNames(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix-style paths")
	}

	tests := []struct {
		name     string
		paths    []string
		expected []string
	}{
		{"Siblings", []string{"/home/u/photos", "/home/u/backup"}, []string{"photos", "backup"}},
		{"DeepDivergence", []string{"/mnt/disk1/media/2023", "/mnt/disk2/media/2023"}, []string{"disk1", "disk2"}},
		{"Prefix", []string{"/home/u/a", "/home/u/a/b"}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DivergentNames(tt.paths...)
			if len(got) != len(tt.expected) {
				t.Fatalf("DivergentNames() = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("DivergentNames()[%d] = %s, want %s", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestAbsPath(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		if _, err := AbsPath(""); err == nil {
			t.Error("AbsPath(\"\") should fail")
		}
	})

	t.Run("Relative", func(t *testing.T) {
		abs, err := AbsPath(".")
		if err != nil {
			t.Fatalf("AbsPath() error = %v", err)
		}
		if !filepath.IsAbs(abs) {
			t.Errorf("AbsPath(.) = %s, want absolute path", abs)
		}
	})

	t.Run("SamePath", func(t *testing.T) {
		a, _ := AbsPath("some/dir")
		b, _ := AbsPath("some/./dir/")
		if !SamePath(a, b) {
			t.Errorf("SamePath(%s, %s) should be true", a, b)
		}
	})
}

func TestCreationTime(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "file.txt")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat file: %v", err)
	}

	created := CreationTime(path, info)
	if created.IsZero() {
		t.Fatal("CreationTime() returned zero time")
	}
	if created.After(time.Now().Add(time.Minute)) {
		t.Errorf("CreationTime() = %v is in the future", created)
	}
}

func TestRealPath(t *testing.T) {
	tempDir := t.TempDir()
	target := filepath.Join(tempDir, "real")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	link := filepath.Join(tempDir, "alias")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	fromTarget, err := RealPath(target)
	if err != nil {
		t.Fatalf("RealPath(%s) error = %v", target, err)
	}
	fromLink, err := RealPath(link)
	if err != nil {
		t.Fatalf("RealPath(%s) error = %v", link, err)
	}
	if !SamePath(fromTarget, fromLink) {
		t.Errorf("RealPath(alias) = %s, want %s", fromLink, fromTarget)
	}

	if _, err := RealPath(filepath.Join(tempDir, "missing")); err == nil {
		t.Error("RealPath() should fail for a missing path")
	}
}
