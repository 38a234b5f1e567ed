// Package hooks bridges sanitizer library events to the CLI's output layer
// (verbose logging or a terminal progress bar).
package hooks

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	progressbar "github.com/schollz/progressbar/v3"

	"github.com/stackvity/stack-sanitizer/pkg/sanitizer"
)

// ProgressBar defines the interface needed to interact with the progress bar.
type ProgressBar interface {
	Add(num int) error
	Close() error
}

// NewProgressBar creates a terminal progress bar for the given file count,
// rendered on stderr so report output on stdout stays clean.
func NewProgressBar(total int, description string) ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// CLIHooks implements the sanitizer.Hooks interface.
// Pass nil for progBar when the output is not a TTY; status updates then fall
// back to logging.
type CLIHooks struct {
	logger         *slog.Logger
	verboseEnabled bool
	progressBar    ProgressBar
	mu             sync.Mutex // Protects concurrent access to progressBar
}

// NewCLIHooks creates a new CLIHooks instance.
func NewCLIHooks(logger *slog.Logger, verboseEnabled bool, progBar ProgressBar) sanitizer.Hooks {
	return &CLIHooks{
		logger:         logger,
		verboseEnabled: verboseEnabled,
		progressBar:    progBar,
	}
}

// OnFileStatusUpdate handles events when a file's processing status changes.
// This method MUST be thread-safe.
func (h *CLIHooks) OnFileStatusUpdate(path string, status sanitizer.Status, message string, duration time.Duration) error {
	if h.verboseEnabled {
		logLevel := slog.LevelDebug
		logMsg := "File status updated"
		attrs := []any{
			slog.String("path", path),
			slog.String("status", string(status)),
		}
		if duration > 0 {
			attrs = append(attrs, slog.Duration("duration", duration))
		}
		if message != "" {
			logKey := "message"
			if status == sanitizer.StatusFailed {
				logKey = "error"
			}
			attrs = append(attrs, slog.String(logKey, message))
		}
		switch status {
		case sanitizer.StatusChanged, sanitizer.StatusUnchanged, sanitizer.StatusSkipped:
			logLevel = slog.LevelInfo
		case sanitizer.StatusFailed:
			logLevel = slog.LevelError
			logMsg = "File processing failed"
		}
		h.logger.Log(nil, logLevel, logMsg, attrs...)
		return nil
	}

	if h.progressBar != nil {
		h.mu.Lock()
		defer h.mu.Unlock()

		isFinalState := status == sanitizer.StatusChanged ||
			status == sanitizer.StatusUnchanged ||
			status == sanitizer.StatusSkipped ||
			status == sanitizer.StatusFailed
		if isFinalState {
			_ = h.progressBar.Add(1)
		}
		if status == sanitizer.StatusFailed {
			h.logger.Error("File processing failed", "path", path, "error", message)
		}
		return nil
	}

	// Plain mode: only surface failures.
	if status == sanitizer.StatusFailed {
		h.logger.Error("File processing failed", "path", path, "error", message)
	}
	return nil // Library ignores hook errors
}

// OnRunComplete finalizes the progress bar if one was active. The final
// report rendering is handled by the CLI layer.
func (h *CLIHooks) OnRunComplete(report sanitizer.Report) error {
	if h.progressBar != nil {
		h.mu.Lock()
		_ = h.progressBar.Close()
		h.mu.Unlock()
		// Add a newline after the progress bar finishes to prevent prompt overlap.
		_, _ = fmt.Fprintf(os.Stderr, "\n")
	}
	return nil
}
