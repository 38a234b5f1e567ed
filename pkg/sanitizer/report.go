package sanitizer

import (
	"time"

	"github.com/stackvity/stack-sanitizer/pkg/sanitizer/encoding"
)

// Report summarizes the result of a single sanitize run.
type Report struct {
	Summary  ReportSummary `json:"summary" yaml:"summary"`
	Outcomes []Outcome     `json:"outcomes" yaml:"outcomes"`
}

// ReportSummary contains aggregated statistics for a run.
type ReportSummary struct {
	Mode            Mode      `json:"mode" yaml:"mode"`
	InputPath       string    `json:"inputPath,omitempty" yaml:"inputPath,omitempty"`
	ProfileUsed     string    `json:"profileUsed,omitempty" yaml:"profileUsed,omitempty"`
	ConfigFilePath  string    `json:"configFilePath,omitempty" yaml:"configFilePath,omitempty"`
	TotalFiles      int       `json:"totalFiles" yaml:"totalFiles"`
	ChangedCount    int       `json:"changedCount" yaml:"changedCount"`
	UnchangedCount  int       `json:"unchangedCount" yaml:"unchangedCount"`
	SkippedCount    int       `json:"skippedCount" yaml:"skippedCount"`
	FailedCount     int       `json:"failedCount" yaml:"failedCount"`
	BackupCount     int       `json:"backupCount" yaml:"backupCount"`
	NothingToDo     bool      `json:"nothingToDo" yaml:"nothingToDo"`
	DurationSeconds float64   `json:"durationSeconds" yaml:"durationSeconds"`
	Concurrency     int       `json:"concurrency" yaml:"concurrency"`
	Timestamp       time.Time `json:"timestamp" yaml:"timestamp"`
	SchemaVersion   string    `json:"schemaVersion,omitempty" yaml:"schemaVersion,omitempty"`
}

// Outcome details the result of processing a single file. Produced once per
// input path and never mutated after creation.
type Outcome struct {
	Path          string            `json:"path" yaml:"path"`
	Status        Status            `json:"status" yaml:"status"`
	Encoding      encoding.Encoding `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Message       string            `json:"message,omitempty" yaml:"message,omitempty"`
	BackupWritten bool              `json:"backupWritten,omitempty" yaml:"backupWritten,omitempty"`
	BackupPath    string            `json:"backupPath,omitempty" yaml:"backupPath,omitempty"`
	DurationMs    int64             `json:"durationMs" yaml:"durationMs"`
}

// Changed reports whether the file needed (dry-run) or received (fix) changes.
func (o Outcome) Changed() bool { return o.Status == StatusChanged }

// Failed reports whether processing the file failed.
func (o Outcome) Failed() bool { return o.Status == StatusFailed }

// ExitStatus derives the process exit code from the aggregated report.
// Priority order: any failure wins, then pending dry-run changes, then success.
// The derivation depends only on counts, never on processing order.
func (r Report) ExitStatus() ExitStatus {
	switch {
	case r.Summary.FailedCount > 0:
		return ExitFailure
	case r.Summary.Mode == ModeDryRun && r.Summary.ChangedCount > 0:
		return ExitChangesPending
	default:
		return ExitSuccess
	}
}
