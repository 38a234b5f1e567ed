package sanitizer

import "strings"

// NormalizeOptions configures a single batch run of the content normalizer.
type NormalizeOptions struct {
	// TabWidth is the number of spaces each horizontal tab expands to.
	// Zero leaves tabs untouched.
	TabWidth int `mapstructure:"tabWidth"`
	// LineEnding is the terminator every line is unified to.
	LineEnding LineEnding `mapstructure:"lineEnding"`
}

// Normalize applies the textual transformations to text, in order: tab
// expansion, line-ending unification, per-line right trim, rejoin with the
// target terminator, and trailing-newline enforcement. It is pure,
// deterministic and idempotent: applying it twice yields the same result as
// applying it once.
//
// Empty input produces a single target terminator; the trailing-newline step
// applies to the empty line join as well.
func Normalize(text string, opts NormalizeOptions) string {
	if opts.TabWidth > 0 {
		text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", opts.TabWidth))
	}

	// Canonical internal form is LF: fold CRLF first, then any lone CR.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	// Right-trim every line, including the empty trailing segment a final
	// newline produces.
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	target := opts.LineEnding.Sequence()
	result := strings.Join(lines, target)
	if !strings.HasSuffix(result, target) {
		result += target
	}
	return result
}
