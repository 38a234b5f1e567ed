// Package sanitizer normalizes source and text files across an explicit list
// of paths: tab expansion, line-ending unification, trailing-whitespace
// trimming and encoding normalization, with dry-run, backup and fix modes.
//
// The package is a library; it discovers nothing by itself. Callers supply
// absolute file paths and injected collaborators (encoding detector, backup
// manager, hooks) through Options, then drive a run:
//
//	opts := sanitizer.Options{
//		TabWidth:   4,
//		LineEnding: sanitizer.LineEndingLF,
//		Mode:       sanitizer.ModeFix,
//		Logger:     slog.NewTextHandler(os.Stderr, nil),
//	}
//	report, err := sanitizer.Sanitize(ctx, opts, paths)
//
// The report's ExitStatus method yields the process exit code contract:
// 0 for a clean run, 3 when a dry run found pending changes, 1 when any
// file failed.
package sanitizer

import "context"

// Sanitize runs the full pipeline over the given paths with the given
// options. It is a convenience wrapper around NewRunner + Run.
func Sanitize(ctx context.Context, opts Options, paths []string) (Report, error) {
	runner, err := NewRunner(opts)
	if err != nil {
		return Report{}, err
	}
	return runner.Run(ctx, paths)
}
