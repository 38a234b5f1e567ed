package sanitizer

// Status defines the possible processing states of a file during a run.
type Status string

// Constants representing the defined file processing statuses.
const (
	StatusPending   Status = "pending"
	StatusUnchanged Status = "unchanged"
	StatusChanged   Status = "changed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Mode defines whether a run mutates files on disk.
type Mode string

const (
	// ModeDryRun reports files that would change without touching disk.
	ModeDryRun Mode = "dry-run"
	// ModeFix writes normalized content back to the original paths.
	ModeFix Mode = "fix"
)

// LineEnding defines the canonical line terminator all lines are unified to.
type LineEnding string

const (
	LineEndingLF   LineEnding = "lf"
	LineEndingCRLF LineEnding = "crlf"
)

// Sequence returns the literal terminator string for the line ending.
func (e LineEnding) Sequence() string {
	if e == LineEndingCRLF {
		return "\r\n"
	}
	return "\n"
}

// OutputFormat defines the format of the final report printed to standard output.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// ExitStatus is the process exit code contract CI and tooling depend on.
type ExitStatus int

const (
	// ExitSuccess: no files needed changes, or fix mode completed with zero failures.
	ExitSuccess ExitStatus = 0
	// ExitFailure: at least one file failed (read or write failure).
	ExitFailure ExitStatus = 1
	// ExitChangesPending: dry-run mode detected at least one file that would change.
	ExitChangesPending ExitStatus = 3
)
