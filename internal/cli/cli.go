// Package cli orchestrates a sanitizer run after configuration loading:
// Git repository detection, file discovery, the library call itself, and the
// final report rendering.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/stackvity/stack-sanitizer/internal/cli/discover"
	"github.com/stackvity/stack-sanitizer/internal/cli/git"
	"github.com/stackvity/stack-sanitizer/internal/cli/hooks"
	"github.com/stackvity/stack-sanitizer/pkg/sanitizer"
)

// ExitError carries the process exit status derived from a run report so the
// command layer can map outcomes to exit codes without re-inspecting the
// report.
type ExitError struct {
	Status sanitizer.ExitStatus
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("run finished with exit status %d", int(e.Status))
}

// Run executes a full sanitizer run. positional paths, when present, bypass
// discovery and are sanitized directly. A nil error means the run was clean;
// an *ExitError signals a non-zero exit status (failures or pending dry-run
// changes); any other error is a fatal setup problem.
func Run(ctx context.Context, opts sanitizer.Options, positional []string, stdout io.Writer, progressEnabled bool, logger *slog.Logger) error {
	gitClient := git.NewClient(opts.Logger)
	opts.RepoRoot = gitClient.ResolveRepoRoot(opts.InputPath)
	if opts.RepoRoot != "" {
		logger.Debug("Detected Git repository", slog.String("root", opts.RepoRoot))
	}

	var changedFiles map[string]struct{}
	if opts.GitDiffOnly {
		if opts.RepoRoot == "" {
			return fmt.Errorf("%w: --git-diff-only requires the input path to be inside a Git repository", sanitizer.ErrConfigValidation)
		}
		var err error
		changedFiles, err = gitClient.ChangedFiles(opts.InputPath)
		if err != nil {
			return fmt.Errorf("failed to determine changed files: %w", err)
		}
		logger.Debug("Fetched Git changed files", slog.Int("count", len(changedFiles)))
	}

	paths, err := resolvePaths(ctx, &opts, positional, changedFiles)
	if err != nil {
		return err
	}

	if progressEnabled && !opts.Verbose {
		bar := hooks.NewProgressBar(len(paths), "sanitizing")
		opts.Hooks = hooks.NewCLIHooks(logger, false, bar)
	} else {
		opts.Hooks = hooks.NewCLIHooks(logger, opts.Verbose, nil)
	}

	report, err := sanitizer.Sanitize(ctx, opts, paths)
	if err != nil {
		logger.Error("Sanitizer run failed", slog.Any("error", err))
		return err
	}

	if err := renderReport(stdout, opts.OutputFormat, report); err != nil {
		return err
	}

	if status := report.ExitStatus(); status != sanitizer.ExitSuccess {
		return &ExitError{Status: status}
	}
	return nil
}

// resolvePaths turns positional arguments into absolute paths, or runs
// discovery over the input root when none were given.
func resolvePaths(ctx context.Context, opts *sanitizer.Options, positional []string, changedFiles map[string]struct{}) ([]string, error) {
	if len(positional) > 0 {
		paths := make([]string, 0, len(positional))
		for _, p := range positional {
			abs, err := filepath.Abs(p)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve path %q: %w", p, err)
			}
			if _, err := os.Stat(abs); err != nil {
				return nil, fmt.Errorf("%w: cannot access path '%s': %w", sanitizer.ErrConfigValidation, p, err)
			}
			paths = append(paths, abs)
		}
		return paths, nil
	}
	d := discover.NewDiscoverer(opts, changedFiles, opts.Logger)
	return d.Discover(ctx)
}

// renderReport writes the run report to w in the configured format.
func renderReport(w io.Writer, format sanitizer.OutputFormat, report sanitizer.Report) error {
	switch format {
	case sanitizer.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode JSON report: %w", err)
		}
	case sanitizer.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode YAML report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to finalize YAML report: %w", err)
		}
	default:
		renderTextReport(w, report)
	}
	return nil
}

// renderTextReport prints the human-readable summary and any notable
// per-file outcomes.
func renderTextReport(w io.Writer, report sanitizer.Report) {
	s := report.Summary
	if s.NothingToDo {
		fmt.Fprintln(w, "No files to sanitize.")
		return
	}
	for _, o := range report.Outcomes {
		switch o.Status {
		case sanitizer.StatusChanged:
			fmt.Fprintf(w, "  changed   %s (%s)\n", o.Path, o.Message)
		case sanitizer.StatusFailed:
			fmt.Fprintf(w, "  failed    %s: %s\n", o.Path, o.Message)
		case sanitizer.StatusSkipped:
			fmt.Fprintf(w, "  skipped   %s (%s)\n", o.Path, o.Message)
		}
	}
	verb := "sanitized"
	if s.Mode == sanitizer.ModeDryRun {
		verb = "would sanitize"
	}
	fmt.Fprintf(w, "%d files scanned: %s %d, unchanged %d, skipped %d, failed %d",
		s.TotalFiles, verb, s.ChangedCount, s.UnchangedCount, s.SkippedCount, s.FailedCount)
	if s.BackupCount > 0 {
		fmt.Fprintf(w, ", backups %d", s.BackupCount)
	}
	fmt.Fprintf(w, " (%.2fs)\n", s.DurationSeconds)
}
