package sanitizer

// Default configuration values shared between the library and the CLI layer.
// The CLI binds these into viper so that config files, environment variables
// and flags all agree on a single source of truth.
const (
	// DefaultTabWidth is the number of spaces a horizontal tab expands to.
	// Zero disables tab expansion entirely.
	DefaultTabWidth = 4

	// DefaultLineEnding is the canonical terminator files are unified to.
	DefaultLineEnding = LineEndingLF

	// DefaultMode reports intended changes without mutating files.
	DefaultMode = ModeDryRun

	// DefaultBackupEnabled controls whether originals are copied before overwrite.
	DefaultBackupEnabled = false

	// DefaultFallbackEncoding is the legacy 8-bit encoding used when a file is
	// neither BOM-marked nor valid UTF-8.
	DefaultFallbackEncoding = "windows-1252"

	// DefaultConcurrency of 0 means one worker per CPU core.
	DefaultConcurrency = 0

	// DefaultOutputFormat for the final run report.
	DefaultOutputFormat = OutputFormatText

	// ReportSchemaVersion identifies the JSON/YAML report layout.
	ReportSchemaVersion = "1.0"
)

// DefaultExtensions is the file extension set the discovery collaborator
// selects when the user does not configure one.
var DefaultExtensions = []string{
	".go", ".py", ".js", ".ts", ".jsx", ".tsx", ".c", ".h", ".cpp", ".hpp",
	".cs", ".java", ".rb", ".rs", ".sh", ".ps1", ".sql",
	".md", ".txt", ".json", ".yaml", ".yml", ".toml", ".xml", ".html", ".css",
}
