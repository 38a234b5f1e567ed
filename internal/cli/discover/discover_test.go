package discover

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackvity/stack-sanitizer/internal/testutil"
	"github.com/stackvity/stack-sanitizer/pkg/sanitizer"
)

func testHandler() slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})
}

// relPaths converts absolute discovery results back to slash-relative paths
// for stable assertions.
func relPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()
	var rel []string
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	sort.Strings(rel)
	return rel
}

func setupTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.CreateDummyFile(t, filepath.Join(root, "main.go"), []byte("package main\n"))
	testutil.CreateDummyFile(t, filepath.Join(root, "README.md"), []byte("# readme\n"))
	testutil.CreateDummyFile(t, filepath.Join(root, "src", "lib.go"), []byte("package lib\n"))
	testutil.CreateDummyFile(t, filepath.Join(root, "src", "notes.txt"), []byte("notes\n"))
	testutil.CreateDummyFile(t, filepath.Join(root, "vendor", "dep.go"), []byte("package dep\n"))
	return root
}

func discoverOpts(root string, mutate func(*sanitizer.Options)) *sanitizer.Options {
	opts := &sanitizer.Options{InputPath: root}
	if mutate != nil {
		mutate(opts)
	}
	return opts
}

func TestDiscoverAllFiles(t *testing.T) {
	root := setupTree(t)
	d := NewDiscoverer(discoverOpts(root, nil), nil, testHandler())

	paths, err := d.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"README.md", "main.go", "src/lib.go", "src/notes.txt", "vendor/dep.go"},
		relPaths(t, root, paths))
}

func TestDiscoverExtensionFilter(t *testing.T) {
	root := setupTree(t)
	d := NewDiscoverer(discoverOpts(root, func(o *sanitizer.Options) {
		o.Extensions = []string{"go"} // leading dot optional
	}), nil, testHandler())

	paths, err := d.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "src/lib.go", "vendor/dep.go"}, relPaths(t, root, paths))
}

func TestDiscoverIgnorePatterns(t *testing.T) {
	root := setupTree(t)
	d := NewDiscoverer(discoverOpts(root, func(o *sanitizer.Options) {
		o.IgnorePatterns = []string{"vendor", "*.md"}
	}), nil, testHandler())

	paths, err := d.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "src/lib.go", "src/notes.txt"}, relPaths(t, root, paths))
}

func TestDiscoverIgnoredDirectoryIsPruned(t *testing.T) {
	root := setupTree(t)
	d := NewDiscoverer(discoverOpts(root, func(o *sanitizer.Options) {
		o.IgnorePatterns = []string{"src"}
	}), nil, testHandler())

	paths, err := d.Discover(context.Background())
	require.NoError(t, err)
	for _, p := range relPaths(t, root, paths) {
		assert.NotContains(t, p, "src/")
	}
}

func TestDiscoverGitDiffFilter(t *testing.T) {
	root := setupTree(t)
	changed := map[string]struct{}{
		"main.go":    {},
		"src/lib.go": {},
	}
	d := NewDiscoverer(discoverOpts(root, func(o *sanitizer.Options) {
		o.GitDiffOnly = true
		o.RepoRoot = root
	}), changed, testHandler())

	paths, err := d.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "src/lib.go"}, relPaths(t, root, paths))
}

func TestDiscoverGitDiffActiveWithoutMapSelectsNothing(t *testing.T) {
	root := setupTree(t)
	d := NewDiscoverer(discoverOpts(root, func(o *sanitizer.Options) {
		o.GitDiffOnly = true
	}), nil, testHandler())

	paths, err := d.Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestDiscoverSingleFileInput(t *testing.T) {
	root := setupTree(t)
	file := filepath.Join(root, "README.md")
	d := NewDiscoverer(discoverOpts(file, func(o *sanitizer.Options) {
		// Extension filters do not apply to an explicit file input.
		o.Extensions = []string{".go"}
	}), nil, testHandler())

	paths, err := d.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, file, paths[0])
}

func TestDiscoverSkipsSymlinks(t *testing.T) {
	root := setupTree(t)
	link := filepath.Join(root, "link.go")
	if err := os.Symlink(filepath.Join(root, "main.go"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	d := NewDiscoverer(discoverOpts(root, func(o *sanitizer.Options) {
		o.Extensions = []string{".go"}
	}), nil, testHandler())

	paths, err := d.Discover(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, relPaths(t, root, paths), "link.go")
}

func TestDiscoverMissingInput(t *testing.T) {
	d := NewDiscoverer(discoverOpts(filepath.Join(t.TempDir(), "nope"), nil), nil, testHandler())
	_, err := d.Discover(context.Background())
	assert.Error(t, err)
}

func TestDiscoverCancelledContext(t *testing.T) {
	root := setupTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDiscoverer(discoverOpts(root, nil), nil, testHandler())
	_, err := d.Discover(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
