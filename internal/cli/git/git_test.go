package git

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})
}

// initRepo creates a repository with one committed file and returns its root.
func initRepo(t *testing.T) (string, *gogit.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	committed := filepath.Join(dir, "committed.txt")
	require.NoError(t, os.WriteFile(committed, []byte("stable\n"), 0o644))

	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add("committed.txt")
	require.NoError(t, err)
	_, err = worktree.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com"},
	})
	require.NoError(t, err)
	return dir, repo
}

func TestResolveRepoRoot(t *testing.T) {
	dir, _ := initRepo(t)
	client := NewClient(testHandler())

	root := client.ResolveRepoRoot(dir)
	// Resolve symlinks on both sides; macOS temp dirs live behind /private.
	expected, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func TestResolveRepoRootFromSubdirectory(t *testing.T) {
	dir, _ := initRepo(t)
	sub := filepath.Join(dir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	client := NewClient(testHandler())
	root := client.ResolveRepoRoot(sub)
	assert.NotEmpty(t, root)
}

func TestResolveRepoRootOutsideRepo(t *testing.T) {
	client := NewClient(testHandler())
	assert.Empty(t, client.ResolveRepoRoot(t.TempDir()), "non-repo paths resolve to empty, not an error")
}

func TestChangedFiles(t *testing.T) {
	dir, _ := initRepo(t)
	client := NewClient(testHandler())

	// Untracked file.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("new\n"), 0o644))
	// Modified tracked file.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "committed.txt"), []byte("edited\n"), 0o644))

	changed, err := client.ChangedFiles(dir)
	require.NoError(t, err)

	assert.Contains(t, changed, "new.txt")
	assert.Contains(t, changed, "committed.txt")
}

func TestChangedFilesCleanWorktree(t *testing.T) {
	dir, _ := initRepo(t)
	client := NewClient(testHandler())

	changed, err := client.ChangedFiles(dir)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestChangedFilesOutsideRepo(t *testing.T) {
	client := NewClient(testHandler())
	_, err := client.ChangedFiles(t.TempDir())
	assert.Error(t, err)
}
