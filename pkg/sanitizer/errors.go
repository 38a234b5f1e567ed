package sanitizer

import "errors"

// --- Exported Error Variables ---
// These errors represent the categories of issues that can surface from a
// sanitize run. Library users can check against them using errors.Is.

var (
	// ErrReadFailed indicates a failure to read a source file from the filesystem.
	// This might be due to permissions, the file being deleted after discovery,
	// or other I/O issues. Local to one file; the batch continues.
	ErrReadFailed = errors.New("failed to read file")

	// ErrWriteFailed indicates a failure to write normalized content back to the
	// original path. Recorded as a per-file failure; other files are unaffected.
	ErrWriteFailed = errors.New("failed to write file")

	// ErrBackupFailed indicates that copying the original bytes to the backup
	// destination did not succeed. Backup failure is logged as a warning and
	// never blocks the fix step downstream.
	ErrBackupFailed = errors.New("failed to write backup")

	// ErrMkdirFailed indicates a failure to create a backup directory.
	ErrMkdirFailed = errors.New("failed to create directory")

	// ErrConfigValidation indicates that the provided Options failed validation
	// checks performed at the beginning of a run (invalid tab width, unknown
	// line ending, and so on). Returned directly as a fatal error.
	ErrConfigValidation = errors.New("invalid configuration options provided")
)
