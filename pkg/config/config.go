package config

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/sdejongh/dirtective/pkg/models"
	"github.com/sdejongh/dirtective/pkg/resolve"
)

// PolicyIndividual resolves each group through the interactive prompt
const PolicyIndividual = "individual"

// Config represents the application configuration
type Config struct {
	Scan        ScanConfig        `yaml:"scan"`
	Resolve     ResolveConfig     `yaml:"resolve"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Export      ExportConfig      `yaml:"export"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ScanConfig holds directory listing settings
type ScanConfig struct {
	Exclude       []string `yaml:"exclude"`
	IncludeHidden bool     `yaml:"include_hidden"`
}

// ResolveConfig holds duplicate resolution settings
type ResolveConfig struct {
	// DefaultPolicy is "individual" or one of the bulk policies
	DefaultPolicy string `yaml:"default_policy"`
	// AllowedChoices restricts the offered actions (empty = all)
	AllowedChoices []models.ActionKind `yaml:"allowed_choices"`
	DryRun         bool                `yaml:"dry_run"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	BufferSize     int    `yaml:"buffer_size"`
	BandwidthLimit string `yaml:"bandwidth_limit"` // e.g. "10M", empty = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
	Color    bool   `yaml:"color"`
}

// ExportConfig holds duplicate export settings
type ExportConfig struct {
	Format    string `yaml:"format"`    // "json" or "csv"
	Directory string `yaml:"directory"` // empty = current directory
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Format     string `yaml:"format"` // "json" or "text"
	Level      string `yaml:"level"`  // "debug", "info", "warn", "error"
	File       string `yaml:"file"`   // Log file path
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Exclude: []string{
				"*.tmp",
				"*.part",
			},
			IncludeHidden: false,
		},
		Resolve: ResolveConfig{
			DefaultPolicy: PolicyIndividual,
			DryRun:        false,
		},
		Performance: PerformanceConfig{
			BufferSize:     65536,
			BandwidthLimit: "",
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
			Color:    true,
		},
		Export: ExportConfig{
			Format:    "csv",
			Directory: "",
		},
		Logging: LoggingConfig{
			Enabled:    false,
			Format:     "json",
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Resolve.DefaultPolicy != PolicyIndividual {
		if _, err := resolve.ParsePolicy(c.Resolve.DefaultPolicy); err != nil {
			return &models.ValidationError{
				Field:   "resolve.default_policy",
				Message: fmt.Sprintf("unknown policy %q", c.Resolve.DefaultPolicy),
			}
		}
	}

	validKinds := map[models.ActionKind]bool{
		models.ActionKeepAll:        true,
		models.ActionDeleteAll:      true,
		models.ActionDeletePosition: true,
		models.ActionDeleteLarger:   true,
		models.ActionDeleteSmaller:  true,
		models.ActionDeleteNewer:    true,
		models.ActionDeleteOlder:    true,
		models.ActionDeleteSide:     true,
		models.ActionCopyOver:       true,
		models.ActionMoveOver:       true,
	}
	for _, kind := range c.Resolve.AllowedChoices {
		if !validKinds[kind] {
			return &models.ValidationError{
				Field:   "resolve.allowed_choices",
				Message: fmt.Sprintf("unknown action %q", kind),
			}
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if _, err := ParseSize(c.Performance.BandwidthLimit); err != nil {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: err.Error(),
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validExportFormats := map[string]bool{"json": true, "csv": true}
	if !validExportFormats[c.Export.Format] {
		return &models.ValidationError{
			Field:   "export.format",
			Message: "must be 'json' or 'csv'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if c.Logging.Enabled && c.Logging.File == "" {
		return &models.ValidationError{
			Field:   "logging.file",
			Message: "required when logging is enabled",
		}
	}

	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 {
		return &models.ValidationError{
			Field:   "logging",
			Message: "max_size_mb and max_backups cannot be negative",
		}
	}

	return nil
}

// BandwidthBytes returns the bandwidth limit in bytes per second (0 = unlimited)
func (c *Config) BandwidthBytes() int64 {
	n, _ := ParseSize(c.Performance.BandwidthLimit)
	return n
}

// ParseSize parses a size such as "10M", "512KiB" or "1G".
// An empty string means no limit and yields 0.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return int64(n), nil
}
