package platform

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizePath normalizes a path for the current platform
func NormalizePath(path string) string {
	// Convert to platform-specific separators
	normalized := filepath.Clean(path)

	// On Windows, ensure UNC paths are preserved
	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, "\\\\") && !strings.HasPrefix(normalized, "\\\\") {
			normalized = "\\\\" + normalized
		}
	}

	return normalized
}

// IsUNCPath checks if a path is a UNC path (Windows network share)
func IsUNCPath(path string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return strings.HasPrefix(path, "\\\\") || strings.HasPrefix(path, "//")
}

// AbsPath returns the normalized absolute form of path
func AbsPath(path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	return NormalizePath(abs), nil
}

// RealPath returns the absolute path with every symbolic link resolved
func RealPath(path string) (string, error) {
	abs, err := AbsPath(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve links: %w", err)
	}
	return NormalizePath(resolved), nil
}

// SamePath reports whether two absolute paths name the same directory.
// Windows and macOS default filesystems are case-insensitive.
func SamePath(a, b string) bool {
	a, b = NormalizePath(a), NormalizePath(b)
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// IsNested reports whether child lies strictly inside parent
func IsNested(parent, child string) bool {
	parent, child = NormalizePath(parent), NormalizePath(child)
	return strings.HasPrefix(child, strings.TrimSuffix(parent, string(filepath.Separator))+string(filepath.Separator))
}

// DivergentNames returns, for each path, the first component at which the
// paths stop sharing a common prefix. When one path is a prefix of the
// others the last component is used instead.
func DivergentNames(paths ...string) []string {
	split := make([][]string, len(paths))
	shortest := -1
	for i, p := range paths {
		parts := strings.Split(filepath.ToSlash(NormalizePath(p)), "/")
		split[i] = parts
		if shortest < 0 || len(parts) < shortest {
			shortest = len(parts)
		}
	}

	diverge := shortest
	for idx := 0; idx < shortest && diverge == shortest; idx++ {
		for i := 1; i < len(split); i++ {
			if split[i][idx] != split[0][idx] {
				diverge = idx
				break
			}
		}
	}

	names := make([]string, len(paths))
	for i, parts := range split {
		if diverge < len(parts) {
			names[i] = parts[diverge]
		} else {
			names[i] = parts[len(parts)-1]
		}
	}
	return names
}

// ValidatePath checks if a path is valid for the current platform
func ValidatePath(path string) error {
	if path == "" {
		return &PathError{Path: path, Message: "path is empty"}
	}

	// Check for invalid characters based on OS
	if runtime.GOOS == "windows" {
		invalidChars := []string{"<", ">", "\"", "|", "?", "*"}
		for _, char := range invalidChars {
			if strings.Contains(path, char) && !IsUNCPath(path) {
				return &PathError{Path: path, Message: "path contains invalid character: " + char}
			}
		}
	}

	return nil
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
