// Package walker enumerates the source files of a repository for
// ingestion. Every Walk call restarts the traversal from the root.
package walker

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxFileSize is the maximum file size to ingest (1 MB).
const DefaultMaxFileSize int64 = 1 << 20

// IgnoreFileName is the per-repository ignore file, one glob per line.
const IgnoreFileName = ".agenticignore"

// DefaultExcludedDirs are directory names skipped during traversal.
var DefaultExcludedDirs = []string{
	".git",
	"node_modules",
	"vendor",
	"__pycache__",
	".venv",
	"dist",
	"build",
	"target",
	".idea",
	".vscode",
}

// FileInfo holds metadata about one file discovered during traversal.
type FileInfo struct {
	Path    string // Absolute path on disk.
	RelPath string // Path relative to the root, slash-separated.
	Size    int64  // File size in bytes.
}

// Config controls the Walk function.
type Config struct {
	RootDir     string   // Root directory to walk.
	Extensions  []string // Only files with these extensions are included.
	Ignore      []string // Glob patterns excluded from the walk.
	MaxFileSize int64    // Files larger than this are skipped (0 = default).
}

// Walk traverses the tree rooted at cfg.RootDir and returns every source
// file that passes the extension filter and ignore patterns. Patterns from
// a .agenticignore file at the root are appended to cfg.Ignore. Binary
// files and files over the size limit are skipped.
func Walk(cfg Config) ([]FileInfo, error) {
	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}
	if info, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("walker: stat root: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("walker: %s is not a directory", root)
	}

	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	ignore := append([]string{}, cfg.Ignore...)
	ignore = append(ignore, ReadIgnoreFile(root)...)

	var files []FileInfo

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		if d.IsDir() {
			if path != root && shouldExcludeDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if !hasExtension(relPath, cfg.Extensions) {
			return nil
		}
		if MatchesIgnore(relPath, ignore) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > maxSize {
			return nil
		}
		if isBinary(path) {
			return nil
		}

		files = append(files, FileInfo{
			Path:    path,
			RelPath: relPath,
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	return files, nil
}

// ReadIgnoreFile reads glob patterns from root's .agenticignore file.
// Blank lines and #-comments are skipped. A missing file yields nil.
func ReadIgnoreFile(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

func shouldExcludeDir(name string) bool {
	for _, excl := range DefaultExcludedDirs {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

func hasExtension(relPath string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(relPath))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// isBinary reads the first 512 bytes of a file and checks for NUL bytes,
// a simple but effective heuristic for binary content.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true // treat unreadable files as binary
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return true
	}
	for i := 0; i < n; i++ {
		if buf[i] == 0 {
			return true
		}
	}
	return false
}
