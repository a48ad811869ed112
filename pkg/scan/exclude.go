package scan

import (
	"path/filepath"
	"strings"
)

// systemNames lists OS and tooling housekeeping entries that never take part
// in a comparison
var systemNames = map[string]bool{
	"Thumbs.db":       true,
	"ehthumbs.db":     true,
	"desktop.ini":     true,
	".DS_Store":       true,
	".git":            true,
	".svn":            true,
	".hg":             true,
	"node_modules":    true,
	"__MACOSX":        true,
	".Spotlight-V100": true,
	".Trashes":        true,
	".fseventsd":      true,
}

// isSystemEntry reports whether name is a housekeeping entry: hidden files,
// the fixed denylist, Windows "$" system entries and ".ini" settings files
func isSystemEntry(name string, includeHidden bool) bool {
	if systemNames[name] {
		return true
	}
	if !includeHidden && strings.HasPrefix(name, ".") {
		return true
	}
	return strings.Contains(name, "$") || strings.Contains(strings.ToLower(name), ".ini")
}

// shouldExclude checks if an entry should be excluded based on the given patterns
// Patterns support:
//   - Simple glob patterns: *.tmp, *.log
//   - Directory patterns: .git/, node_modules/ (only match directories)
//   - Case-insensitive match when the pattern is prefixed with "i:" (i:*.JPG)
func shouldExclude(name string, isDir bool, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		// Check if it's a directory pattern (ends with /)
		if strings.HasSuffix(pattern, "/") {
			if isDir && matchGlob(name, strings.TrimSuffix(pattern, "/")) {
				return true
			}
			continue
		}

		if strings.HasPrefix(pattern, "i:") {
			if matchGlob(strings.ToLower(name), strings.ToLower(strings.TrimPrefix(pattern, "i:"))) {
				return true
			}
			continue
		}

		if matchGlob(name, pattern) {
			return true
		}
	}

	return false
}

// matchGlob performs simple glob matching on a single path component
func matchGlob(name, pattern string) bool {
	matched, _ := filepath.Match(pattern, name)
	return matched
}
