package ingest

import (
	"os"
	"path/filepath"
)

// Project marker files, checked in order at each level.
var markerFiles = []string{"go.mod", "pyproject.toml", "package.json", ".git"}

// ResolveRepositoryName derives a repository name for a source tree. It
// walks upward from dir looking for a project marker (go.mod,
// pyproject.toml, package.json, or a .git directory) and uses the name of
// the directory that holds it. With no marker anywhere, the name of dir
// itself is used.
func ResolveRepositoryName(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Base(dir)
	}

	current := abs
	for {
		for _, marker := range markerFiles {
			if _, err := os.Stat(filepath.Join(current, marker)); err == nil {
				return filepath.Base(current)
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return filepath.Base(abs)
}
