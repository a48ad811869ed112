package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dirtective/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or create the dirtective configuration file.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			allowed := "all"
			if len(cfg.Resolve.AllowedChoices) > 0 {
				kinds := make([]string, len(cfg.Resolve.AllowedChoices))
				for i, k := range cfg.Resolve.AllowedChoices {
					kinds[i] = string(k)
				}
				allowed = strings.Join(kinds, ", ")
			}

			bandwidth := cfg.Performance.BandwidthLimit
			if bandwidth == "" {
				bandwidth = "unlimited"
			}

			fmt.Printf("Exclude: %s\n", strings.Join(cfg.Scan.Exclude, ", "))
			fmt.Printf("Include Hidden: %v\n", cfg.Scan.IncludeHidden)
			fmt.Printf("Default Policy: %s\n", cfg.Resolve.DefaultPolicy)
			fmt.Printf("Allowed Choices: %s\n", allowed)
			fmt.Printf("Dry Run: %v\n", cfg.Resolve.DryRun)
			fmt.Printf("Bandwidth Limit: %s\n", bandwidth)
			fmt.Printf("Output Format: %s\n", cfg.Output.Format)
			fmt.Printf("Export Format: %s\n", cfg.Export.Format)
			fmt.Printf("Log Format: %s\n", cfg.Logging.Format)
			fmt.Printf("Log Level: %s\n", cfg.Logging.Level)

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := globalFlags.ConfigFile
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
			}

			if err := config.SaveToFile(config.Default(), path); err != nil {
				return err
			}

			fmt.Printf("Configuration file created at: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")

	return cmd
}
