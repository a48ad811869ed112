package cli

import (
	"fmt"
	"os"

	"github.com/sdejongh/dirtective/internal/platform"
	"github.com/sdejongh/dirtective/pkg/config"
	"github.com/sdejongh/dirtective/pkg/logging"
	"github.com/sdejongh/dirtective/pkg/models"
)

// ExitError carries a process exit code out of a command. The message has
// already been reported when it is returned.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// validateDirectories checks that every argument is an existing directory
// and that no two of them are the same or nested. It returns absolute paths.
func validateDirectories(args []string) ([]string, error) {
	if len(args) < 2 {
		return nil, &models.ValidationError{
			Field:   "directories",
			Message: "at least two directories are required",
		}
	}

	dirs := make([]string, len(args))
	resolved := make([]string, len(args))
	infos := make([]os.FileInfo, len(args))
	for i, arg := range args {
		if err := platform.ValidatePath(arg); err != nil {
			return nil, err
		}

		abs, err := platform.AbsPath(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", arg, err)
		}

		info, err := os.Stat(abs)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory does not exist: %s", arg)
		} else if err != nil {
			return nil, fmt.Errorf("failed to access directory: %w", err)
		} else if !info.IsDir() {
			return nil, fmt.Errorf("path exists but is not a directory: %s", arg)
		}

		// Symbolic links and aliases must not hide that two arguments are
		// the same directory
		if resolved[i], err = platform.RealPath(abs); err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", arg, err)
		}

		dirs[i] = abs
		infos[i] = info
	}

	for i := range dirs {
		for j := i + 1; j < len(dirs); j++ {
			if platform.SamePath(resolved[i], resolved[j]) || os.SameFile(infos[i], infos[j]) {
				return nil, &models.ValidationError{
					Field:   "directories",
					Message: fmt.Sprintf("cannot compare a directory with itself: %s and %s", dirs[i], dirs[j]),
				}
			}
			if platform.IsNested(resolved[i], resolved[j]) || platform.IsNested(resolved[j], resolved[i]) {
				return nil, &models.ValidationError{
					Field:   "directories",
					Message: fmt.Sprintf("directories cannot be nested: %s and %s", dirs[i], dirs[j]),
				}
			}
		}
	}

	return dirs, nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	return config.Load(globalFlags.ConfigFile)
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config) {
	// Exclude patterns
	if len(scanFlags.Exclude) > 0 {
		cfg.Scan.Exclude = scanFlags.Exclude
	}
	if scanFlags.IncludeHidden {
		cfg.Scan.IncludeHidden = true
	}

	// Output format
	if scanFlags.Output != "" {
		cfg.Output.Format = scanFlags.Output
	}

	// Resolution
	if resolveFlags.Policy != "" {
		cfg.Resolve.DefaultPolicy = resolveFlags.Policy
	}
	if len(resolveFlags.Allow) > 0 {
		cfg.Resolve.AllowedChoices = make([]models.ActionKind, len(resolveFlags.Allow))
		for i, kind := range resolveFlags.Allow {
			cfg.Resolve.AllowedChoices[i] = models.ActionKind(kind)
		}
	}
	if resolveFlags.DryRun {
		cfg.Resolve.DryRun = true
	}
	if resolveFlags.Bandwidth != "" {
		cfg.Performance.BandwidthLimit = resolveFlags.Bandwidth
	}

	// Export
	if exportFlags.Format != "" {
		cfg.Export.Format = exportFlags.Format
	}

	// Logging
	if globalFlags.LogFile != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.File = globalFlags.LogFile
	}
	if globalFlags.LogFormat != "" {
		cfg.Logging.Format = globalFlags.LogFormat
	}
	if globalFlags.LogLevel != "" {
		cfg.Logging.Level = globalFlags.LogLevel
	}

	if globalFlags.NoColor {
		cfg.Output.Color = false
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	// Verbose mode prints every step instead of bars
	if globalFlags.Verbose {
		cfg.Output.Progress = false
		if globalFlags.LogLevel == "" {
			cfg.Logging.Level = "debug"
		}
	}
}

// createLogger creates a logger based on configuration
func createLogger(cfg config.LoggingConfig) (logging.Logger, error) {
	// If logging is disabled, return null logger
	if !cfg.Enabled || cfg.File == "" {
		return logging.NewNullLogger(), nil
	}

	// Parse log format
	var format logging.Format
	switch cfg.Format {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.File,
		Format:     format,
		Level:      logging.ParseLevel(cfg.Level),
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	})
}
