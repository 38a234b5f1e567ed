package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func defaultNormalizeOpts() NormalizeOptions {
	return NormalizeOptions{TabWidth: 4, LineEnding: LineEndingLF}
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		opts     NormalizeOptions
		expected string
	}{
		{
			name:     "AlreadyClean",
			input:    "line1\nline2\n",
			opts:     defaultNormalizeOpts(),
			expected: "line1\nline2\n",
		},
		{
			name:     "TabsExpanded",
			input:    "\tindented\n",
			opts:     defaultNormalizeOpts(),
			expected: "    indented\n",
		},
		{
			name:     "TabWidthZeroLeavesTabs",
			input:    "\tindented\n",
			opts:     NormalizeOptions{TabWidth: 0, LineEnding: LineEndingLF},
			expected: "\tindented\n",
		},
		{
			name:     "TabWidthTwo",
			input:    "\t\tx\n",
			opts:     NormalizeOptions{TabWidth: 2, LineEnding: LineEndingLF},
			expected: "    x\n",
		},
		{
			name:     "CRLFUnified",
			input:    "line1\r\nline2\r\n",
			opts:     defaultNormalizeOpts(),
			expected: "line1\nline2\n",
		},
		{
			name:     "LoneCRUnified",
			input:    "line1\rline2\r",
			opts:     defaultNormalizeOpts(),
			expected: "line1\nline2\n",
		},
		{
			name:     "MixedEndings",
			input:    "a\r\nb\rc\n",
			opts:     defaultNormalizeOpts(),
			expected: "a\nb\nc\n",
		},
		{
			name:     "TrailingSpacesTrimmed",
			input:    "line1   \nline2\t\t\n",
			opts:     defaultNormalizeOpts(),
			expected: "line1\nline2\n",
		},
		{
			// A trailing tab expands to spaces first and the trim removes
			// those spaces afterwards, so expansion never reintroduces
			// trailing whitespace.
			name:     "TrailingTabExpandedThenTrimmed",
			input:    "line1\t \r\nline2  \n",
			opts:     defaultNormalizeOpts(),
			expected: "line1\nline2\n",
		},
		{
			// The unterminated whitespace tail trims to empty and is
			// absorbed by the ensured trailing terminator.
			name:     "WhitespaceOnlyFinalSegmentAbsorbed",
			input:    "a\n ",
			opts:     defaultNormalizeOpts(),
			expected: "a\n",
		},
		{
			name:     "MissingFinalNewlineAdded",
			input:    "line1\nline2",
			opts:     defaultNormalizeOpts(),
			expected: "line1\nline2\n",
		},
		{
			name:     "EmptyInputGetsSingleTerminator",
			input:    "",
			opts:     defaultNormalizeOpts(),
			expected: "\n",
		},
		{
			name:     "WhitespaceOnlyLineBecomesEmpty",
			input:    "   \n\t\n",
			opts:     defaultNormalizeOpts(),
			expected: "\n\n",
		},
		{
			name:     "CRLFTarget",
			input:    "line1\nline2\n",
			opts:     NormalizeOptions{TabWidth: 4, LineEnding: LineEndingCRLF},
			expected: "line1\r\nline2\r\n",
		},
		{
			name:     "CRLFTargetFromMixed",
			input:    "a\r\nb\rc",
			opts:     NormalizeOptions{TabWidth: 4, LineEnding: LineEndingCRLF},
			expected: "a\r\nb\r\nc\r\n",
		},
		{
			name:     "EmptyInputCRLFTarget",
			input:    "",
			opts:     NormalizeOptions{TabWidth: 4, LineEnding: LineEndingCRLF},
			expected: "\r\n",
		},
		{
			name:     "InteriorWhitespacePreserved",
			input:    "a  b\n",
			opts:     defaultNormalizeOpts(),
			expected: "a  b\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input, tc.opts))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"line1\t \r\nline2  \n",
		"",
		"no newline",
		"a\rb\r\nc\n\n\n",
	}
	for _, in := range inputs {
		once := Normalize(in, defaultNormalizeOpts())
		twice := Normalize(once, defaultNormalizeOpts())
		assert.Equal(t, once, twice, "normalizing twice must equal normalizing once for %q", in)
	}
}
