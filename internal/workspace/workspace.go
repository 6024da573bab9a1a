// Package workspace enforces the directory boundary for all file operations.
//
// A Workspace wraps the single root directory established at startup. Every
// path a tool operation targets must pass through Resolve, which
// canonicalizes the candidate (following symlinks, collapsing ".." segments)
// and rejects anything that lands outside the root.
package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"filemcp/internal/fault"
	"filemcp/pkg/fileops"
)

// Workspace is the path boundary for file operations. The root is fixed at
// construction and never mutated, so concurrent Resolve calls are safe
// without locking.
type Workspace struct {
	root string
}

// New creates a Workspace rooted at dir. The directory must exist, must be a
// directory, and must not be a reserved system location.
func New(dir string) (*Workspace, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, fault.New(fault.Validation, "workspace root cannot be empty")
	}

	expanded := fileops.ExpandPath(trimmed)
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fault.Wrap(fault.IO, err, "cannot resolve workspace root")
	}

	// Canonicalize so containment checks compare like with like
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fault.New(fault.NotFound, "workspace root does not exist: %s", trimmed)
		}
		return nil, fault.Wrap(fault.IO, err, "cannot canonicalize workspace root")
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fault.Wrap(fault.IO, err, "cannot access workspace root")
	}
	if !info.IsDir() {
		return nil, fault.New(fault.Validation, "workspace root is not a directory: %s", trimmed)
	}

	if fileops.IsReservedDirectory(resolved) {
		return nil, fault.New(fault.Validation, "workspace root cannot be a system or reserved directory")
	}

	return &Workspace{root: resolved}, nil
}

// Root returns the canonical absolute path of the workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// Resolve canonicalizes candidate and verifies it stays within the
// workspace root. Relative candidates are interpreted against the root.
//
// Targets that do not exist yet (files about to be created) are handled by
// canonicalizing the deepest existing ancestor and re-appending the
// remaining segments, since a non-existent path cannot be canonicalized
// directly.
//
// Returns the canonical absolute path, or an OutOfBoundsError if the
// candidate escapes the root. Error messages echo only the caller-supplied
// candidate, never the resolved target.
func (w *Workspace) Resolve(candidate string) (string, error) {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return "", fault.New(fault.Validation, "path cannot be empty")
	}

	p := trimmed
	if !filepath.IsAbs(p) {
		p = filepath.Join(w.root, p)
	}
	p = filepath.Clean(p)

	resolved, err := canonicalize(p)
	if err != nil {
		return "", fault.Wrap(fault.IO, err, "cannot resolve path: %s", trimmed)
	}

	if !w.contains(resolved) {
		return "", fault.New(fault.OutOfBounds, "path escapes the workspace root: %s", trimmed)
	}

	return resolved, nil
}

// Rel returns the workspace-relative form of an already-resolved path, for
// use in messages shown to clients.
func (w *Workspace) Rel(resolved string) string {
	rel, err := filepath.Rel(w.root, resolved)
	if err != nil {
		return filepath.Base(resolved)
	}
	return rel
}

// contains reports whether p equals the root or is a descendant of it.
// Both sides are canonical absolute paths at this point.
func (w *Workspace) contains(p string) bool {
	rel, err := filepath.Rel(w.root, p)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	// A bare ".." prefix alone would misclassify entries named "..foo"
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// canonicalize resolves symlinks in p. For paths that do not exist, the
// deepest existing ancestor is resolved and the missing segments are
// re-appended; p is already Clean, so those segments contain no "..".
func canonicalize(p string) (string, error) {
	var suffix []string
	cur := p
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			parts := append([]string{resolved}, suffix...)
			return filepath.Join(parts...), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			// Hit the filesystem root without finding an existing ancestor
			return "", err
		}
		suffix = append([]string{filepath.Base(cur)}, suffix...)
		cur = parent
	}
}
