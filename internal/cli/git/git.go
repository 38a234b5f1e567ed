// Package git provides the version-control lookups the CLI performs once per
// run and injects into the sanitizer core: the repository root used for
// backup path relativization, and the changed-file set used by the
// --git-diff-only filter. The core itself never invokes VCS tooling.
package git

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
)

// Client implements repository lookups using go-git.
type Client struct {
	logger *slog.Logger
}

// NewClient creates a go-git backed Client.
func NewClient(loggerHandler slog.Handler) *Client {
	logger := slog.New(loggerHandler).With(slog.String("component", "gitClient"), slog.String("backend", "go-git"))
	return &Client{logger: logger}
}

// openRepo opens the repository containing path, searching parent
// directories the way the git CLI does.
func (c *Client) openRepo(path string) (*gogit.Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for '%s': %w", path, err)
	}
	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// ResolveRepoRoot returns the worktree root of the repository containing
// path, or "" when path is not inside a repository. Not being in a repo is
// an expected condition, never an error: backups then degrade to base-name
// layout.
func (c *Client) ResolveRepoRoot(path string) string {
	repo, err := c.openRepo(path)
	if err != nil {
		if !errors.Is(err, gogit.ErrRepositoryNotExists) {
			c.logger.Debug("Could not open repository", slog.String("path", path), slog.Any("error", err))
		}
		return ""
	}
	worktree, err := repo.Worktree()
	if err != nil {
		c.logger.Debug("Could not get worktree", slog.String("path", path), slog.Any("error", err))
		return ""
	}
	root := worktree.Filesystem.Root()
	c.logger.Debug("Resolved repository root", slog.String("root", root))
	return root
}

// ChangedFiles returns the set of worktree-relative paths that differ from
// HEAD: staged, unstaged, and untracked entries alike. Paths use forward
// slashes, matching go-git's status output.
func (c *Client) ChangedFiles(path string) (map[string]struct{}, error) {
	repo, err := c.openRepo(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at '%s': %w", path, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree for '%s': %w", path, err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get git status for '%s': %w", path, err)
	}

	changed := make(map[string]struct{}, len(status))
	for filePath, fileStatus := range status {
		if fileStatus.Staging == gogit.Unmodified && fileStatus.Worktree == gogit.Unmodified {
			continue
		}
		changed[filepath.ToSlash(filePath)] = struct{}{}
	}
	c.logger.Debug("Fetched changed files", slog.Int("count", len(changed)))
	return changed, nil
}
