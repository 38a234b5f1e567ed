package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stackvity/stack-sanitizer/internal/cli"
	"github.com/stackvity/stack-sanitizer/internal/cli/config"
	"github.com/stackvity/stack-sanitizer/pkg/sanitizer"
)

// These are set during build time using -ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = newRootCmd()

// newRootCmd builds the root command with a fresh flag set. Tests rebuild it
// per run so flag state never carries over between executions.
func newRootCmd() *cobra.Command {
	var (
		cfgFile     string
		profileName string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "stack-sanitizer [paths...]",
		Short: "Normalizes whitespace, line endings, and encodings in text files.",
		Long: `stack-sanitizer scans a directory tree (or the given paths), detects each
file's text encoding, and normalizes its content: tabs expanded to spaces,
line endings unified, trailing whitespace trimmed, and the result rewritten
as UTF-8 without a byte order mark.

By default it runs in dry-run mode and only reports the files that would
change; pass --fix to rewrite them in place.

Exit codes:
  0  all files already clean (or fixed successfully)
  3  dry run found files that need sanitizing
  1  any file failed to process, or a fatal setup error`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Create a context that listens for interrupt signals.
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			opts, logger, err := config.LoadAndValidate(cfgFile, profileName, version, cmd.Flags())
			if err != nil {
				// config.LoadAndValidate logs the specific error to stderr already.
				return err
			}

			// The progress bar renders on stderr; only enable it when stderr is a
			// terminal so redirected output stays clean.
			progressEnabled := term.IsTerminal(int(os.Stderr.Fd()))

			return cli.Run(ctx, opts, args, cmd.OutOrStdout(), progressEnabled, logger)
		},
	}

	// Persistent flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default: search ., $HOME/.config/stack-sanitizer/)")
	cmd.PersistentFlags().StringVar(&profileName, "profile", "", "Name of configuration profile to use")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging output (disables progress bar)")

	// Discovery flags
	cmd.Flags().StringP("input", "i", ".", "Root directory to discover files in (ignored when paths are given)")
	cmd.Flags().StringSlice("ext", sanitizer.DefaultExtensions, "File extensions to sanitize (an explicit empty list selects every file)")
	cmd.Flags().StringArray("ignore", []string{}, "Glob patterns for files/directories to ignore (can be specified multiple times)")
	cmd.Flags().Bool("git-diff-only", false, "Sanitize only files changed in the Git working tree vs HEAD")

	// Normalization flags
	cmd.Flags().Bool("fix", false, "Rewrite files in place (default is a dry run)")
	cmd.Flags().Int("tab-width", sanitizer.DefaultTabWidth, "Spaces per tab (0 leaves tabs untouched)")
	cmd.Flags().String("line-ending", string(sanitizer.DefaultLineEnding), `Target line ending ("lf" or "crlf")`)
	cmd.Flags().String("fallback-encoding", sanitizer.DefaultFallbackEncoding, "Legacy 8-bit encoding assumed for non-UTF-8 files")

	// Backup flags
	cmd.Flags().Bool("backup", sanitizer.DefaultBackupEnabled, "Copy originals before overwriting")
	cmd.Flags().String("backup-root", "", "Backup destination directory (default: sibling .bak files)")

	// Performance & output flags
	cmd.Flags().Int("concurrency", sanitizer.DefaultConcurrency, "Number of parallel workers (0 for auto-detect CPU cores)")
	cmd.Flags().String("output-format", string(sanitizer.DefaultOutputFormat), `Final report format ("text", "json", "yaml")`)

	return cmd
}

// Execute runs the root command and maps the resulting error to a process
// exit code: 0 clean, 3 dry-run changes pending, 1 any failure.
func Execute() int {
	rootCmd.SetVersionTemplate(`{{.Use}} version {{.Version}}` + "\n")
	rootCmd.SilenceUsage = true
	err := rootCmd.Execute()
	if err == nil {
		return int(sanitizer.ExitSuccess)
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.Status)
	}
	return int(sanitizer.ExitFailure)
}
