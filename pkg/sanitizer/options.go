package sanitizer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/stackvity/stack-sanitizer/pkg/sanitizer/encoding"
)

// Hooks defines callbacks for status updates during a sanitize run.
// Implementations MUST be thread-safe as methods may be called concurrently.
type Hooks interface {
	OnFileStatusUpdate(path string, status Status, message string, duration time.Duration) error
	OnRunComplete(report Report) error
}

// NoOpHooks provides a default, do-nothing implementation of the Hooks interface.
type NoOpHooks struct{}

// OnFileStatusUpdate implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnFileStatusUpdate(path string, status Status, message string, duration time.Duration) error {
	return nil
}

// OnRunComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnRunComplete(report Report) error { return nil }

// Options holds all configuration for a sanitize run.
type Options struct {
	// --- Normalization ---
	TabWidth   int        `mapstructure:"tabWidth"`
	LineEnding LineEnding `mapstructure:"lineEnding"`

	// --- Behavior & Control ---
	Mode         Mode         `mapstructure:"mode"`
	Concurrency  int          `mapstructure:"concurrency"`
	OutputFormat OutputFormat `mapstructure:"outputFormat"`
	Verbose      bool         `mapstructure:"verbose"`

	// --- Backups ---
	BackupEnabled bool   `mapstructure:"backup"`
	BackupRoot    string `mapstructure:"backupRoot"`

	// --- Encoding ---
	FallbackEncoding string `mapstructure:"fallbackEncoding"`

	// --- Discovery (consumed by the CLI layer, not the core) ---
	InputPath      string   `mapstructure:"inputPath"`
	Extensions     []string `mapstructure:"extensions"`
	IgnorePatterns []string `mapstructure:"ignore"`
	GitDiffOnly    bool     `mapstructure:"gitDiffOnly"`

	// --- Application Info ---
	AppVersion     string `mapstructure:"-"` // Populated by the caller from build metadata.
	ConfigFilePath string `mapstructure:"-"` // Path to the loaded config file (for reporting).
	ProfileName    string `mapstructure:"-"` // Name of the profile used (for reporting).

	// --- Injected Dependencies ---
	Logger   slog.Handler      `mapstructure:"-"` // Required: logging backend.
	Hooks    Hooks             `mapstructure:"-"` // Optional: status callbacks.
	Detector encoding.Detector `mapstructure:"-"` // Optional: encoding detection implementation.
	Backup   BackupManager     `mapstructure:"-"` // Optional: backup implementation.
	// RepoRoot is the version-control root resolved once by the caller (for
	// example via a go-git lookup). Empty when the input is not inside a
	// repository; backups then degrade to base-name layout.
	RepoRoot string `mapstructure:"-"`
}

// NormalizeOptions extracts the pure-normalizer subset of the options.
func (o *Options) NormalizeOptions() NormalizeOptions {
	return NormalizeOptions{TabWidth: o.TabWidth, LineEnding: o.LineEnding}
}

// Validate performs semantic validation and fills derived defaults. It is
// called by NewRunner; callers constructing Options by hand may use it to
// fail fast.
func (o *Options) Validate() error {
	if o.Logger == nil {
		return fmt.Errorf("%w: Logger implementation (slog.Handler) cannot be nil", ErrConfigValidation)
	}
	if o.TabWidth < 0 {
		return fmt.Errorf("%w: tabWidth must be >= 0, got %d", ErrConfigValidation, o.TabWidth)
	}
	if o.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency must be >= 0, got %d", ErrConfigValidation, o.Concurrency)
	}
	switch o.LineEnding {
	case LineEndingLF, LineEndingCRLF:
	case "":
		o.LineEnding = DefaultLineEnding
	default:
		return fmt.Errorf("%w: unknown line ending %q (allowed: %q, %q)", ErrConfigValidation, o.LineEnding, LineEndingLF, LineEndingCRLF)
	}
	switch o.Mode {
	case ModeDryRun, ModeFix:
	case "":
		o.Mode = DefaultMode
	default:
		return fmt.Errorf("%w: unknown mode %q (allowed: %q, %q)", ErrConfigValidation, o.Mode, ModeDryRun, ModeFix)
	}
	switch o.OutputFormat {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
	case "":
		o.OutputFormat = DefaultOutputFormat
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrConfigValidation, o.OutputFormat)
	}
	if o.Hooks == nil {
		o.Hooks = &NoOpHooks{}
	}
	if o.Detector == nil {
		o.Detector = encoding.NewBOMDetector(o.FallbackEncoding)
	}
	if o.Backup == nil {
		o.Backup = NewBackupManager(o.BackupRoot, o.RepoRoot, o.Logger)
	}
	return nil
}
