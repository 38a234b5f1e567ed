package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportExitStatus(t *testing.T) {
	testCases := []struct {
		name     string
		summary  ReportSummary
		expected ExitStatus
	}{
		{
			name:     "AllCleanDryRun",
			summary:  ReportSummary{Mode: ModeDryRun, TotalFiles: 3, UnchangedCount: 3},
			expected: ExitSuccess,
		},
		{
			name:     "DryRunWithPendingChanges",
			summary:  ReportSummary{Mode: ModeDryRun, TotalFiles: 3, ChangedCount: 1, UnchangedCount: 2},
			expected: ExitChangesPending,
		},
		{
			name:     "FixWithChangesIsClean",
			summary:  ReportSummary{Mode: ModeFix, TotalFiles: 3, ChangedCount: 3},
			expected: ExitSuccess,
		},
		{
			name:     "FailureDominatesDryRunChanges",
			summary:  ReportSummary{Mode: ModeDryRun, TotalFiles: 3, ChangedCount: 1, FailedCount: 1},
			expected: ExitFailure,
		},
		{
			name:     "FailureDominatesFix",
			summary:  ReportSummary{Mode: ModeFix, TotalFiles: 2, ChangedCount: 1, FailedCount: 1},
			expected: ExitFailure,
		},
		{
			name:     "EmptyRun",
			summary:  ReportSummary{Mode: ModeDryRun, NothingToDo: true},
			expected: ExitSuccess,
		},
		{
			name:     "SkippedFilesAreClean",
			summary:  ReportSummary{Mode: ModeDryRun, TotalFiles: 2, SkippedCount: 2},
			expected: ExitSuccess,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			report := Report{Summary: tc.summary}
			assert.Equal(t, tc.expected, report.ExitStatus())
		})
	}
}

func TestOutcomeHelpers(t *testing.T) {
	assert.True(t, Outcome{Status: StatusChanged}.Changed())
	assert.False(t, Outcome{Status: StatusUnchanged}.Changed())
	assert.True(t, Outcome{Status: StatusFailed}.Failed())
	assert.False(t, Outcome{Status: StatusSkipped}.Failed())
}

func TestLineEndingSequence(t *testing.T) {
	assert.Equal(t, "\n", LineEndingLF.Sequence())
	assert.Equal(t, "\r\n", LineEndingCRLF.Sequence())
}
