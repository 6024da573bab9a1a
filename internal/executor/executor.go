// Package executor performs the guarded filesystem operations behind the
// file tools.
//
// Every operation resolves its target through the workspace guard before
// touching the filesystem. Mutations serialize per canonical path, land via
// atomic temp-file replacement, preserve the existing file's line endings,
// and are optionally recorded as git commits.
package executor

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"filemcp/internal/config"
	"filemcp/internal/dispatch"
	"filemcp/internal/fault"
	"filemcp/internal/gitops"
	"filemcp/internal/logging"
	"filemcp/internal/workspace"
	"filemcp/pkg/fileops"
)

// Executor runs file operations inside a workspace boundary.
type Executor struct {
	ws     *workspace.Workspace
	cfg    config.ProjectConfig
	locks  *fileops.PathLocker
	git    *gitops.Committer
	logger *logging.AppLogger
}

// New creates an Executor for a workspace. When the project config enables
// commit_changes, successful mutations are committed to git.
func New(ws *workspace.Workspace, cfg config.ProjectConfig, logger *logging.AppLogger) *Executor {
	e := &Executor{
		ws:     ws,
		cfg:    cfg,
		locks:  fileops.NewPathLocker(),
		logger: logger,
	}
	if cfg.CommitChanges {
		e.git = gitops.NewCommitter(ws.Root())
	}
	return e
}

// Workspace returns the guarded workspace this executor operates in.
func (e *Executor) Workspace() *workspace.Workspace {
	return e.ws
}

// Read returns the content of the file at path.
func (e *Executor) Read(ctx context.Context, path string) (string, error) {
	resolved, err := e.ws.Resolve(path)
	if err != nil {
		return "", err
	}
	if err := cancelled(ctx); err != nil {
		return "", err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fault.New(fault.NotFound, "file does not exist: %s", e.ws.Rel(resolved))
		}
		return "", fault.Wrap(fault.IO, err, "cannot access file: %s", e.ws.Rel(resolved))
	}
	if info.IsDir() {
		return "", fault.New(fault.NotAFile, "path is a directory, not a file: %s", e.ws.Rel(resolved))
	}
	if info.Size() > e.cfg.MaxFileSize {
		return "", fault.New(fault.Validation, "file exceeds the %d byte read limit: %s",
			e.cfg.MaxFileSize, e.ws.Rel(resolved))
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", fault.Wrap(fault.IO, err, "failed to read file: %s", e.ws.Rel(resolved))
	}
	return string(data), nil
}

// Write stores content at path. Existing files are only replaced when
// overwrite is set. Line endings of an existing file are preserved; new
// files are written LF-terminated. Missing parent directories are created
// only when the project config permits it.
func (e *Executor) Write(ctx context.Context, path, content string, overwrite bool) error {
	resolved, err := e.ws.Resolve(path)
	if err != nil {
		return err
	}
	if err := cancelled(ctx); err != nil {
		return err
	}

	release := e.locks.Lock(resolved)
	defer release()

	eol := "\n"
	info, err := os.Stat(resolved)
	switch {
	case err == nil:
		if info.IsDir() {
			return fault.New(fault.NotAFile, "path is a directory, not a file: %s", e.ws.Rel(resolved))
		}
		if !overwrite {
			return fault.New(fault.AlreadyExists, "file already exists: %s", e.ws.Rel(resolved))
		}
		existing, readErr := os.ReadFile(resolved)
		if readErr != nil {
			return fault.Wrap(fault.IO, readErr, "cannot read existing file: %s", e.ws.Rel(resolved))
		}
		eol = fileops.DetectLineEndings(existing)
	case os.IsNotExist(err):
		if err := e.ensureParent(resolved); err != nil {
			return err
		}
	default:
		return fault.Wrap(fault.IO, err, "cannot access file: %s", e.ws.Rel(resolved))
	}

	normalized := fileops.NormalizeLineEndings(content, eol)
	if err := fileops.AtomicWriteFile(resolved, []byte(normalized), 0644); err != nil {
		return fault.Wrap(fault.IO, err, "failed to write file: %s", e.ws.Rel(resolved))
	}

	e.recordChange(ctx, resolved, "write_file")
	return nil
}

// Edit replaces oldStr with newStr in the file at path, atomically - a
// concurrent reader sees either the full transformation or the original
// file. An empty oldStr creates the file with newStr as its content.
// When replaceAll is false, oldStr must occur exactly once.
func (e *Executor) Edit(ctx context.Context, path, oldStr, newStr string, replaceAll bool) error {
	resolved, err := e.ws.Resolve(path)
	if err != nil {
		return err
	}
	if err := cancelled(ctx); err != nil {
		return err
	}

	release := e.locks.Lock(resolved)
	defer release()

	// Empty oldStr means file creation, as in the classic edit-tool contract
	if oldStr == "" {
		if _, err := os.Stat(resolved); err == nil {
			return fault.New(fault.AlreadyExists, "file already exists: %s", e.ws.Rel(resolved))
		}
		if err := e.ensureParent(resolved); err != nil {
			return err
		}
		normalized := fileops.NormalizeLineEndings(newStr, "\n")
		if err := fileops.AtomicWriteFile(resolved, []byte(normalized), 0644); err != nil {
			return fault.Wrap(fault.IO, err, "failed to create file: %s", e.ws.Rel(resolved))
		}
		e.recordChange(ctx, resolved, "edit_file")
		return nil
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return fault.New(fault.NotFound, "file does not exist: %s", e.ws.Rel(resolved))
		}
		return fault.Wrap(fault.IO, err, "cannot access file: %s", e.ws.Rel(resolved))
	}
	if info.IsDir() {
		return fault.New(fault.NotAFile, "path is a directory, not a file: %s", e.ws.Rel(resolved))
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return fault.Wrap(fault.IO, err, "failed to read file: %s", e.ws.Rel(resolved))
	}

	content := string(data)
	occurrences := strings.Count(content, oldStr)
	if occurrences == 0 {
		return fault.New(fault.Validation, "could not find the text to replace in %s", e.ws.Rel(resolved))
	}
	if occurrences > 1 && !replaceAll {
		return fault.New(fault.Validation,
			"text to replace appears %d times in %s; set replace_all to replace every occurrence",
			occurrences, e.ws.Rel(resolved))
	}

	var updated string
	if replaceAll {
		updated = strings.ReplaceAll(content, oldStr, newStr)
	} else {
		updated = strings.Replace(content, oldStr, newStr, 1)
	}

	if err := fileops.AtomicWriteFile(resolved, []byte(updated), 0644); err != nil {
		return fault.Wrap(fault.IO, err, "failed to write file: %s", e.ws.Rel(resolved))
	}

	e.recordChange(ctx, resolved, "edit_file")
	return nil
}

// List returns the entries beneath the directory at path, lexicographically
// ordered, along with a flag marking truncation at the entry limit.
func (e *Executor) List(ctx context.Context, path string) ([]fileops.Entry, bool, error) {
	resolved, err := e.ws.Resolve(path)
	if err != nil {
		return nil, false, err
	}
	if err := cancelled(ctx); err != nil {
		return nil, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, fault.New(fault.NotFound, "directory does not exist: %s", e.ws.Rel(resolved))
		}
		return nil, false, fault.Wrap(fault.IO, err, "cannot access directory: %s", e.ws.Rel(resolved))
	}
	if !info.IsDir() {
		return nil, false, fault.New(fault.Validation, "path is not a directory: %s", e.ws.Rel(resolved))
	}

	entries, truncated, err := fileops.ScanTree(resolved, fileops.DefaultScanOptions())
	if err != nil {
		return nil, false, fault.Wrap(fault.IO, err, "failed to list directory: %s", e.ws.Rel(resolved))
	}
	return entries, truncated, nil
}

// ensureParent verifies the parent directory of an about-to-be-created file,
// creating it only when the project config permits.
func (e *Executor) ensureParent(resolved string) error {
	parent := filepath.Dir(resolved)
	if _, err := os.Stat(parent); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fault.Wrap(fault.IO, err, "cannot access parent directory: %s", e.ws.Rel(parent))
	}

	if !e.cfg.CreateParentDirs {
		return fault.New(fault.MissingParent, "parent directory does not exist: %s", e.ws.Rel(parent))
	}
	if err := fileops.EnsureDirectoryExists(parent); err != nil {
		return fault.Wrap(fault.IO, err, "failed to create parent directory: %s", e.ws.Rel(parent))
	}
	return nil
}

// recordChange commits a successful mutation when git integration is on.
// Commit failures are logged, never surfaced - the file operation already
// succeeded.
func (e *Executor) recordChange(ctx context.Context, resolved, tool string) {
	if e.git == nil {
		return
	}

	requestID := dispatch.RequestIDFromContext(ctx)
	committed, err := e.git.CommitChange(resolved, tool, requestID)
	if err != nil {
		e.logger.Warn("Failed to commit change", "path", e.ws.Rel(resolved), "error", err)
		return
	}
	if committed {
		e.logger.Debug("Change committed", "path", e.ws.Rel(resolved), "tool", tool, "id", requestID)
	}
}

func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fault.Wrap(fault.IO, err, "operation cancelled")
	}
	return nil
}
