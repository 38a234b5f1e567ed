// Package config merges configuration from defaults, a YAML config file,
// optional named profiles, environment variables, and command-line flags,
// then validates the result into a sanitizer.Options struct.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stackvity/stack-sanitizer/pkg/sanitizer"
)

const (
	EnvPrefix         = "STACKSANITIZER"
	DefaultConfigName = "stack-sanitizer"
)

// LoadAndValidate loads configuration from all sources (defaults, file,
// profile, env, flags), validates the merged configuration, and sets up the
// final logger. Returns the populated Options struct or an error wrapping
// sanitizer.ErrConfigValidation for user-correctable problems.
func LoadAndValidate(cfgFile, profileName, appVersion string, flags *pflag.FlagSet) (sanitizer.Options, *slog.Logger, error) {
	var opts sanitizer.Options
	v := viper.New()

	// Temporary basic logger for early loading errors.
	tempLogHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	tempLogger := slog.New(tempLogHandler)

	setDefaults(v)

	// --- Load Config File ---
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			tempLogger.Error("Failed to get user home directory", slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("failed to get user home directory: %w", err)
		}
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
		v.AddConfigPath(filepath.Join(home, "."+DefaultConfigName))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) && cfgFile == "" {
			tempLogger.Debug("No configuration file found, using defaults/env/flags.")
		} else {
			configFileUsed := cfgFile
			if configFileUsed == "" {
				configFileUsed = fmt.Sprintf("searched locations for %s.yaml", DefaultConfigName)
			}
			tempLogger.Error("Error reading configuration file", slog.String("path", configFileUsed), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error reading config file '%s': %w", configFileUsed, err)
		}
	} else {
		opts.ConfigFilePath = v.ConfigFileUsed()
		tempLogger.Debug("Using configuration file", slog.String("path", opts.ConfigFilePath))
	}

	// --- Apply Profile ---
	opts.ProfileName = profileName
	if profileName != "" {
		profileKey := "profiles." + profileName
		if !v.IsSet(profileKey) {
			configPath := v.ConfigFileUsed()
			if configPath == "" {
				configPath = "(no config file found)"
			}
			err := fmt.Errorf("profile '%s' not found in config file '%s'", profileName, configPath)
			tempLogger.Error(err.Error())
			return opts, tempLogger, err
		}
		profileSettings := v.Sub(profileKey)
		if profileSettings == nil {
			err := fmt.Errorf("failed to load profile '%s' settings from config file '%s'", profileName, v.ConfigFileUsed())
			tempLogger.Error(err.Error())
			return opts, tempLogger, err
		}
		if err := v.MergeConfigMap(profileSettings.AllSettings()); err != nil {
			tempLogger.Error("Error merging profile", slog.String("profile", profileName), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error merging profile '%s': %w", profileName, err)
		}
		tempLogger.Debug("Applied configuration profile", slog.String("profile", profileName))
	}

	// --- Bind Environment Variables ---
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// --- Bind Flags (Highest Priority) ---
	// Config keys are the mapstructure tags on Options; flag names follow the
	// CLI convention, so each binding maps a canonical key to its flag.
	flagBindings := map[string]string{
		"inputPath":        "input",
		"extensions":       "ext",
		"tabWidth":         "tab-width",
		"lineEnding":       "line-ending",
		"backup":           "backup",
		"backupRoot":       "backup-root",
		"ignore":           "ignore",
		"gitDiffOnly":      "git-diff-only",
		"fallbackEncoding": "fallback-encoding",
		"concurrency":      "concurrency",
		"outputFormat":     "output-format",
		"verbose":          "verbose",
	}
	for key, flagName := range flagBindings {
		flag := flags.Lookup(flagName)
		if flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				tempLogger.Error("Error binding flag", slog.String("flag", flagName), slog.Any("error", err))
				return opts, tempLogger, fmt.Errorf("error binding flag '--%s': %w", flagName, err)
			}
		} else {
			tempLogger.Debug("Flag lookup failed during binding", slog.String("flag", flagName))
		}
	}

	opts.AppVersion = appVersion

	if err := v.Unmarshal(&opts); err != nil {
		tempLogger.Error("Error unmarshalling configuration", slog.Any("error", err))
		return opts, tempLogger, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// --- Explicitly Apply Flag Overrides ---
	// Viper/Cobra binding can be tricky with booleans and core paths; ensure
	// explicit flags always win.
	if flags.Changed("input") {
		inputVal, _ := flags.GetString("input")
		if inputVal != "" {
			opts.InputPath = inputVal
			tempLogger.Debug("Input path explicitly set from flag", slog.String("path", opts.InputPath))
		}
	}
	if flags.Changed("verbose") {
		opts.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("fix") {
		if fix, _ := flags.GetBool("fix"); fix {
			opts.Mode = sanitizer.ModeFix
		}
	}
	if flags.Changed("backup") {
		opts.BackupEnabled, _ = flags.GetBool("backup")
	}
	if flags.Changed("git-diff-only") {
		opts.GitDiffOnly, _ = flags.GetBool("git-diff-only")
	}

	// --- Setup Final Logger ---
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logHandler)
	opts.Logger = logHandler

	if err := validateAndDeriveOptions(&opts, logger); err != nil {
		return opts, logger, err
	}

	logger.Debug("Configuration loading and validation complete",
		slog.String("configFile", opts.ConfigFilePath),
		slog.String("profile", opts.ProfileName),
		slog.String("mode", string(opts.Mode)),
		slog.Bool("verbose", opts.Verbose),
		slog.String("logLevel", logLevel.String()),
	)

	return opts, logger, nil
}

// setDefaults establishes the default values for configuration options in Viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("inputPath", ".")
	v.SetDefault("mode", string(sanitizer.DefaultMode))
	v.SetDefault("tabWidth", sanitizer.DefaultTabWidth)
	v.SetDefault("lineEnding", string(sanitizer.DefaultLineEnding))
	v.SetDefault("extensions", sanitizer.DefaultExtensions)
	v.SetDefault("ignore", []string{})
	v.SetDefault("backup", sanitizer.DefaultBackupEnabled)
	v.SetDefault("backupRoot", "")
	v.SetDefault("gitDiffOnly", false)
	v.SetDefault("fallbackEncoding", sanitizer.DefaultFallbackEncoding)
	v.SetDefault("concurrency", sanitizer.DefaultConcurrency)
	v.SetDefault("outputFormat", string(sanitizer.DefaultOutputFormat))
	v.SetDefault("verbose", false)
}

// isValidEnumValue checks if a given string value is present in a slice of
// allowed enum values. Case-sensitive comparison.
func isValidEnumValue[T ~string](value T, allowedValues []T) bool {
	return slices.Contains(allowedValues, value)
}

// validateAndDeriveOptions performs semantic validation on the populated
// Options struct and calculates derived fields. It wraps errors with
// sanitizer.ErrConfigValidation.
func validateAndDeriveOptions(opts *sanitizer.Options, logger *slog.Logger) error {
	if opts.InputPath == "" {
		err := fmt.Errorf("%w: input path is required (-i, --input)", sanitizer.ErrConfigValidation)
		logger.Error(err.Error(), slog.String("key", "input"))
		return err
	}
	absInput, err := filepath.Abs(opts.InputPath)
	if err != nil {
		err = fmt.Errorf("%w: cannot resolve absolute input path '%s': %w", sanitizer.ErrConfigValidation, opts.InputPath, err)
		logger.Error(err.Error(), slog.String("key", "input"), slog.String("value", opts.InputPath))
		return err
	}
	opts.InputPath = absInput
	if _, err := os.Stat(opts.InputPath); err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("%w: input path '%s' does not exist", sanitizer.ErrConfigValidation, opts.InputPath)
		} else {
			err = fmt.Errorf("%w: cannot access input path '%s': %w", sanitizer.ErrConfigValidation, opts.InputPath, err)
		}
		logger.Error(err.Error(), slog.String("key", "input"), slog.String("value", opts.InputPath))
		return err
	}
	logger.Debug("Validated input path", slog.String("path", opts.InputPath))

	if opts.BackupRoot != "" {
		absBackup, err := filepath.Abs(opts.BackupRoot)
		if err != nil {
			err = fmt.Errorf("%w: cannot resolve absolute backup root '%s': %w", sanitizer.ErrConfigValidation, opts.BackupRoot, err)
			logger.Error(err.Error(), slog.String("key", "backup-root"), slog.String("value", opts.BackupRoot))
			return err
		}
		opts.BackupRoot = absBackup
	}

	// === Enum String Validations ===
	allowedMode := []sanitizer.Mode{sanitizer.ModeDryRun, sanitizer.ModeFix}
	if !isValidEnumValue(opts.Mode, allowedMode) {
		err := fmt.Errorf("%w: invalid value '%s' for key 'mode'. Allowed: %v", sanitizer.ErrConfigValidation, opts.Mode, allowedMode)
		logger.Error(err.Error(), slog.String("key", "mode"), slog.String("value", string(opts.Mode)))
		return err
	}
	allowedLineEnding := []sanitizer.LineEnding{sanitizer.LineEndingLF, sanitizer.LineEndingCRLF}
	if !isValidEnumValue(opts.LineEnding, allowedLineEnding) {
		err := fmt.Errorf("%w: invalid value '%s' for key 'line-ending' (flag --line-ending). Allowed: %v", sanitizer.ErrConfigValidation, opts.LineEnding, allowedLineEnding)
		logger.Error(err.Error(), slog.String("key", "line-ending"), slog.String("value", string(opts.LineEnding)))
		return err
	}
	allowedOutputFormat := []sanitizer.OutputFormat{sanitizer.OutputFormatText, sanitizer.OutputFormatJSON, sanitizer.OutputFormatYAML}
	if !isValidEnumValue(opts.OutputFormat, allowedOutputFormat) {
		err := fmt.Errorf("%w: invalid value '%s' for key 'output-format' (flag --output-format). Allowed: %v", sanitizer.ErrConfigValidation, opts.OutputFormat, allowedOutputFormat)
		logger.Error(err.Error(), slog.String("key", "output-format"), slog.String("value", string(opts.OutputFormat)))
		return err
	}

	// === Numeric Range Validations ===
	if opts.TabWidth < 0 {
		err := fmt.Errorf("%w: invalid value '%d' for key 'tab-width' (flag --tab-width). Must be >= 0", sanitizer.ErrConfigValidation, opts.TabWidth)
		logger.Error(err.Error(), slog.String("key", "tab-width"), slog.Int("value", opts.TabWidth))
		return err
	}
	if opts.Concurrency < 0 {
		err := fmt.Errorf("%w: invalid value '%d' for key 'concurrency' (flag --concurrency). Must be >= 0", sanitizer.ErrConfigValidation, opts.Concurrency)
		logger.Error(err.Error(), slog.String("key", "concurrency"), slog.Int("value", opts.Concurrency))
		return err
	}

	if opts.BackupRoot != "" && !opts.BackupEnabled {
		logger.Debug("Backup root set, implicitly enabling backups", slog.String("backupRoot", opts.BackupRoot))
		opts.BackupEnabled = true
	}

	// Normalize extension casing and leading dots early so downstream
	// filtering never has to.
	for i, ext := range opts.Extensions {
		opts.Extensions[i] = strings.ToLower(strings.TrimSpace(ext))
	}

	logger.Debug("Final derived settings validated",
		slog.Int("tabWidth", opts.TabWidth),
		slog.String("lineEnding", string(opts.LineEnding)),
		slog.Bool("backupEnabled", opts.BackupEnabled),
		slog.String("backupRoot", opts.BackupRoot),
		slog.Bool("gitDiffOnly", opts.GitDiffOnly),
		slog.Int("concurrency", opts.Concurrency),
	)

	return nil
}
