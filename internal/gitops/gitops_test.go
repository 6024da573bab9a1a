package gitops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	git "github.com/go-git/go-git/v6"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitChangeOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	committed, err := NewCommitter(dir).CommitChange(path, "write_file", "req-1")
	require.NoError(t, err)
	assert.False(t, committed, "non-repository workspace must be a no-op")
}

func TestCommitChangeInRepository(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	committed, err := NewCommitter(dir).CommitChange(path, "write_file", "req-42")
	require.NoError(t, err)
	assert.True(t, committed)

	head, err := repo.Head()
	require.NoError(t, err)

	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(commit.Message, "filemcp: write_file a.txt"))
	assert.Contains(t, commit.Message, "Request-ID: req-42")
	assert.Equal(t, "filemcp", commit.Author.Name)
}

func TestCommitChangeNestedFile(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	path := filepath.Join(dir, "sub", "b.txt")
	require.NoError(t, os.WriteFile(path, []byte("nested"), 0644))

	committed, err := NewCommitter(dir).CommitChange(path, "edit_file", "req-7")
	require.NoError(t, err)
	assert.True(t, committed)
}
