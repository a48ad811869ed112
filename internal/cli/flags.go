package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	NoColor    bool
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var globalFlags GlobalFlags

// ScanFlags holds the listing and output flags shared by every command
// that compares directories
type ScanFlags struct {
	Exclude       []string
	IncludeHidden bool
	Output        string
}

var scanFlags ScanFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/dirtective/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Verbose,
		"verbose",
		"v",
		false,
		"verbose output",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress non-error output",
	)
	cmd.PersistentFlags().BoolVar(
		&globalFlags.NoColor,
		"no-color",
		false,
		"disable coloured output",
	)
	cmd.PersistentFlags().StringVar(&globalFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.PersistentFlags().StringVar(&globalFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// addScanFlags adds the listing and output flags to a command
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&scanFlags.Exclude, "exclude", []string{}, "glob patterns to exclude (e.g. \"*.tmp\", \"i:*.BAK\")")
	cmd.Flags().BoolVar(&scanFlags.IncludeHidden, "include-hidden", false, "list hidden files")
	cmd.Flags().StringVarP(&scanFlags.Output, "output", "o", "", "output format: human, json")
}

// GetGlobalFlags returns the global flags
func GetGlobalFlags() *GlobalFlags {
	return &globalFlags
}
