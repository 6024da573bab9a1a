package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// Entry is a single result from a directory tree scan. Path is relative to
// the scan root and uses the platform separator.
type Entry struct {
	// Path is the relative path from the scan root to this entry
	Path string

	// IsDir indicates whether this entry represents a directory
	IsDir bool
}

// ScanOptions configures the behavior of directory tree scanning.
type ScanOptions struct {
	// MaxEntries limits the number of entries returned. Scanning stops once
	// the limit is reached and the truncated flag is set.
	MaxEntries int

	// MaxDepth limits the maximum recursion depth for directory traversal.
	MaxDepth int

	// IncludeHidden determines whether entries starting with '.' are included.
	IncludeHidden bool

	// SkipPatterns contains directory names that should be skipped during
	// scanning. These are exact matches against directory names.
	SkipPatterns []string
}

// DefaultScanOptions returns the options used by the list_directory tool:
// hidden entries skipped, common build/cache directories skipped, and the
// result truncated at 1000 entries.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		MaxEntries:    1000,
		MaxDepth:      20,
		IncludeHidden: false,
		SkipPatterns:  defaultSkipPatterns(),
	}
}

func defaultSkipPatterns() []string {
	return []string{
		"node_modules",
		".git",
		"vendor",
		"target",
		"build",
		".next",
		"dist",
		".cache",
		"__pycache__",
		".vscode",
		".idea",
	}
}

// ScanTree recursively lists the contents of rootPath and returns the
// entries sorted lexicographically by path, so repeated scans of an
// unchanged tree yield identical sequences.
//
// The scan happens inside an os.Root security boundary, so symlinks cannot
// lead the traversal outside rootPath.
//
// Parameters:
//   - rootPath: Absolute path of the directory to scan
//   - opts: Scanning options (use DefaultScanOptions for tool defaults)
//
// Returns:
//   - []Entry: Discovered entries, lexicographically sorted
//   - bool: true if the result was truncated at opts.MaxEntries
//   - error: Scan setup or traversal errors
func ScanTree(rootPath string, opts ScanOptions) ([]Entry, bool, error) {
	root, err := os.OpenRoot(rootPath)
	if err != nil {
		return nil, false, fmt.Errorf("cannot open scan root: %w", err)
	}
	defer root.Close()

	s := &treeScanner{root: root, opts: opts, visited: make(map[string]bool)}
	if err := s.scan(".", 1); err != nil {
		return nil, false, fmt.Errorf("directory scan failed: %w", err)
	}

	sort.Slice(s.results, func(i, j int) bool {
		return s.results[i].Path < s.results[j].Path
	})

	truncated := false
	if opts.MaxEntries > 0 && len(s.results) > opts.MaxEntries {
		s.results = s.results[:opts.MaxEntries]
		truncated = true
	}
	return s.results, truncated, nil
}

type treeScanner struct {
	root    *os.Root
	opts    ScanOptions
	results []Entry
	visited map[string]bool
}

func (s *treeScanner) scan(relativePath string, depth int) error {
	if s.opts.MaxDepth > 0 && depth > s.opts.MaxDepth {
		return nil // Silently stop at max depth
	}

	// Clean path and check for loops
	cleanPath := filepath.Clean(relativePath)
	if s.visited[cleanPath] {
		return nil // Skip already visited directory (prevents symlink loops)
	}
	s.visited[cleanPath] = true

	dir, err := s.root.Open(relativePath)
	if err != nil {
		return nil // Skip unreadable directories
	}
	defer dir.Close()

	entries, err := dir.ReadDir(-1)
	if err != nil {
		return nil
	}

	for _, entry := range entries {
		if s.opts.MaxEntries > 0 && len(s.results) > s.opts.MaxEntries {
			return nil
		}

		name := entry.Name()
		if !s.opts.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}

		entryPath := filepath.Join(relativePath, name)

		if entry.IsDir() {
			if slices.Contains(s.opts.SkipPatterns, name) {
				continue
			}
			s.results = append(s.results, Entry{Path: entryPath, IsDir: true})
			if err := s.scan(entryPath, depth+1); err != nil {
				return err
			}
		} else {
			s.results = append(s.results, Entry{Path: entryPath, IsDir: false})
		}
	}

	return nil
}
