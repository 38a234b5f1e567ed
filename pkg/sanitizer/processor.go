package sanitizer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stackvity/stack-sanitizer/pkg/sanitizer/encoding"
)

// FileProcessor handles the processing pipeline for a single file:
// read → detect/decode → normalize → compare → (dry-run report | backup + write).
type FileProcessor struct {
	opts     *Options
	logger   *slog.Logger
	detector encoding.Detector
	backup   BackupManager
}

// NewFileProcessor creates a new FileProcessor. The options are expected to
// have passed Validate, so detector and backup are non-nil.
func NewFileProcessor(opts *Options, loggerHandler slog.Handler) *FileProcessor {
	logger := slog.New(loggerHandler).With(slog.String("component", "processor"))
	return &FileProcessor{
		opts:     opts,
		logger:   logger,
		detector: opts.Detector,
		backup:   opts.Backup,
	}
}

// Process executes the full pipeline for a given absolute file path. All
// per-file errors are converted into the Outcome's failed status; nothing
// propagates as a fault out of this method.
func (p *FileProcessor) Process(ctx context.Context, absPath string) Outcome {
	startTime := time.Now()
	outcome := Outcome{Path: p.displayPath(absPath), Status: StatusPending}
	logArgs := []any{slog.String("path", outcome.Path)}

	defer func() {
		outcome.DurationMs = time.Since(startTime).Milliseconds()
		level := slog.LevelDebug
		if outcome.Status == StatusFailed {
			level = slog.LevelWarn
		}
		p.logger.Log(ctx, level, "Processor finished file task",
			append(logArgs, slog.String("status", string(outcome.Status)), slog.String("message", outcome.Message))...)
	}()

	// Honor cancellation before any I/O.
	select {
	case <-ctx.Done():
		outcome.Status = StatusFailed
		outcome.Message = ctx.Err().Error()
		return outcome
	default:
	}

	original, readErr := os.ReadFile(absPath)
	if readErr != nil {
		err := fmt.Errorf("%w: %w", ErrReadFailed, readErr)
		outcome.Status = StatusFailed
		outcome.Message = err.Error()
		return outcome
	}

	if p.detector.IsBinary(original) {
		outcome.Status = StatusSkipped
		outcome.Message = "binary content"
		return outcome
	}

	text, enc, decErr := p.detector.DetectAndDecode(original)
	if decErr != nil {
		// Best-effort contract: the detector falls back rather than failing,
		// so an error here means genuinely undecodable UTF-16. Treat the raw
		// bytes as the text and continue.
		p.logger.Warn("Decode error, continuing with raw content", append(logArgs, slog.Any("error", decErr))...)
		text = string(original)
	}
	outcome.Encoding = enc
	logArgs = append(logArgs, slog.String("encoding", string(enc)))

	normalized := Normalize(text, p.opts.NormalizeOptions())
	if normalized == text {
		outcome.Status = StatusUnchanged
		return outcome
	}

	if p.opts.Mode == ModeDryRun {
		outcome.Status = StatusChanged
		outcome.Message = "would sanitize"
		return outcome
	}

	// Fix mode: back up strictly before overwriting. Backup failure is a
	// warning, never a reason to abort the fix.
	if p.opts.BackupEnabled {
		record, backupErr := p.backup.Backup(absPath, original)
		if backupErr != nil {
			p.logger.Warn("Backup failed, sanitizing without one", append(logArgs, slog.Any("error", backupErr))...)
		} else {
			outcome.BackupWritten = true
			outcome.BackupPath = record.DestPath
		}
	}

	// Output is always UTF-8 without a byte-order mark, regardless of the
	// detected input encoding.
	if writeErr := os.WriteFile(absPath, []byte(normalized), p.fileMode(absPath)); writeErr != nil {
		err := fmt.Errorf("%w: %w", ErrWriteFailed, writeErr)
		outcome.Status = StatusFailed
		outcome.Message = err.Error()
		return outcome
	}

	outcome.Status = StatusChanged
	outcome.Message = "sanitized"
	return outcome
}

// fileMode preserves the original permission bits on rewrite.
func (p *FileProcessor) fileMode(absPath string) fs.FileMode {
	if info, err := os.Stat(absPath); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}

// displayPath reports paths relative to the repository root when one is
// known, matching how users reference their files.
func (p *FileProcessor) displayPath(absPath string) string {
	if p.opts.RepoRoot != "" {
		if rel, err := filepath.Rel(p.opts.RepoRoot, absPath); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(absPath)
}
