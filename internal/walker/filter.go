package walker

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchesIgnore returns true if the given relative path matches any of the
// ignore patterns. An empty pattern list ignores nothing.
func MatchesIgnore(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	normalized := filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		// doublestar supports ** spanning path separators.
		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}

		// Also try matching against just the filename, so "*.min.js"
		// style patterns work without a ** prefix.
		base := filepath.Base(normalized)
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
