// Package discover walks the input tree and selects the files eligible for
// sanitization. Selection applies the configured extension list, the ignore
// glob patterns, and optionally a Git working-tree changed-files filter.
package discover

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/stackvity/stack-sanitizer/pkg/sanitizer"
	"github.com/stackvity/stack-sanitizer/pkg/util"
)

// Discoverer traverses the input path and produces the absolute path list
// handed to the sanitizer runner.
type Discoverer struct {
	opts       *sanitizer.Options
	logger     *slog.Logger
	extensions map[string]struct{}
	gitDiffMap map[string]struct{}
}

// NewDiscoverer creates a Discoverer for the given options. changedFiles is
// the Git changed-files map (repo-relative slash paths) and may be nil when
// Git diff filtering is inactive.
func NewDiscoverer(opts *sanitizer.Options, changedFiles map[string]struct{}, loggerHandler slog.Handler) *Discoverer {
	logger := slog.New(loggerHandler).With(slog.String("component", "discover"))
	extensions := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		extensions[util.NormalizeExtension(ext)] = struct{}{}
	}
	var gitDiffMap map[string]struct{}
	if opts.GitDiffOnly {
		if changedFiles == nil {
			logger.Warn("Git diff filter active but no changed files map provided")
			gitDiffMap = make(map[string]struct{})
		} else {
			logger.Debug("Git diff filter active", slog.Int("files_in_diff", len(changedFiles)))
			gitDiffMap = changedFiles
		}
	}
	return &Discoverer{
		opts:       opts,
		logger:     logger,
		extensions: extensions,
		gitDiffMap: gitDiffMap,
	}
}

// Discover walks the input path and returns the absolute paths of files that
// pass all configured filters. When the input path names a single file, that
// file is returned directly without extension filtering.
func (d *Discoverer) Discover(ctx context.Context) ([]string, error) {
	root, err := filepath.Abs(d.opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input path %q: %w", d.opts.InputPath, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input path %q: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	d.logger.Info("Starting file discovery", slog.String("path", root))
	var paths []string
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			d.logger.Warn("Error accessing path during walk", slog.String("path", path), slog.String("error", err.Error()))
			if path == root && os.IsPermission(err) {
				return fmt.Errorf("permission denied reading input directory %q: %w", path, err)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			d.logger.Debug("Skipping symbolic link", slog.String("path", path))
			return nil
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			d.logger.Warn("Could not calculate relative path", slog.String("path", path), slog.String("error", err.Error()))
			return nil
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == "." {
			return nil
		}
		isDir := entry.IsDir()
		if pattern, ignored := d.matchIgnore(relPath); ignored {
			d.logger.Debug("Path ignored", slog.String("path", relPath), slog.Bool("isDir", isDir), slog.String("pattern", pattern))
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}
		if isDir {
			return nil
		}
		if !d.matchExtension(relPath) {
			d.logger.Debug("Path excluded by extension filter", slog.String("path", relPath))
			return nil
		}
		if d.gitDiffMap != nil {
			if !d.matchGitDiff(path, relPath) {
				d.logger.Debug("Path excluded by Git diff filter", slog.String("path", relPath))
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			d.logger.Info("Discovery cancelled", slog.String("reason", walkErr.Error()))
			return nil, walkErr
		}
		return nil, fmt.Errorf("directory walk failed: %w", walkErr)
	}
	d.logger.Info("File discovery completed", slog.Int("files", len(paths)))
	return paths, nil
}

// matchIgnore reports whether relPath matches any configured ignore pattern,
// returning the first pattern that matched.
func (d *Discoverer) matchIgnore(relPath string) (string, bool) {
	for _, pattern := range d.opts.IgnorePatterns {
		if util.MatchesIgnore(pattern, relPath) {
			return pattern, true
		}
	}
	return "", false
}

// matchExtension reports whether relPath carries one of the configured
// extensions. An empty extension list selects every file.
func (d *Discoverer) matchExtension(relPath string) bool {
	if len(d.extensions) == 0 {
		return true
	}
	ext := util.NormalizeExtension(filepath.Ext(relPath))
	if ext == "" {
		return false
	}
	_, ok := d.extensions[ext]
	return ok
}

// matchGitDiff reports whether the file appears in the Git changed-files map.
// The map is keyed by repo-relative slash paths, so when the input root sits
// below the repository root the lookup uses the repo-relative form.
func (d *Discoverer) matchGitDiff(absPath, relPath string) bool {
	if d.opts.RepoRoot != "" {
		if repoRel, err := filepath.Rel(d.opts.RepoRoot, absPath); err == nil {
			if _, ok := d.gitDiffMap[filepath.ToSlash(repoRel)]; ok {
				return true
			}
			return false
		}
	}
	_, ok := d.gitDiffMap[relPath]
	return ok
}
