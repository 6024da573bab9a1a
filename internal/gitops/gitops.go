// Package gitops records successful file mutations as git commits.
//
// When the workspace root sits inside a git repository and the project
// config enables commit_changes, every successful write or edit is staged
// and committed with a message naming the tool and the dispatch request ID.
// Commits are best effort: a workspace outside any repository is a no-op,
// and commit failures are reported to the caller for logging but must not
// fail the file operation itself.
package gitops

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/object"
)

const (
	authorName  = "filemcp"
	authorEmail = "filemcp@localhost"
)

// Committer commits workspace mutations. The zero value is not usable;
// construct with NewCommitter.
type Committer struct {
	root string
}

// NewCommitter creates a Committer for a workspace root. The root does not
// need to be a git repository; CommitChange degrades to a no-op then.
func NewCommitter(workspaceRoot string) *Committer {
	return &Committer{root: workspaceRoot}
}

// CommitChange stages path and commits it. Returns (false, nil) when the
// workspace is not inside a git repository.
//
// Parameters:
//   - path: Absolute path of the mutated file
//   - tool: Name of the tool that performed the mutation
//   - requestID: Dispatch request ID, recorded as a commit trailer
func (c *Committer) CommitChange(path, tool, requestID string) (bool, error) {
	repo, err := git.PlainOpenWithOptions(c.root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return false, nil
		}
		return false, fmt.Errorf("cannot open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("cannot open worktree: %w", err)
	}

	rel, err := filepath.Rel(wt.Filesystem.Root(), path)
	if err != nil {
		return false, fmt.Errorf("cannot compute repository-relative path: %w", err)
	}

	if _, err := wt.Add(rel); err != nil {
		return false, fmt.Errorf("failed to stage %s: %w", rel, err)
	}

	message := fmt.Sprintf("filemcp: %s %s\n\nRequest-ID: %s", tool, filepath.ToSlash(rel), requestID)
	_, err = wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			// Mutation produced the content git already had
			return false, nil
		}
		return false, fmt.Errorf("failed to commit %s: %w", rel, err)
	}

	return true, nil
}
