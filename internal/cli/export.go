package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dirtective/pkg/logging"
	"github.com/sdejongh/dirtective/pkg/models"
	"github.com/sdejongh/dirtective/pkg/output"
)

// ExportFlags holds export command flags
type ExportFlags struct {
	Format string
	File   string
}

var exportFlags ExportFlags

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <dir> <dir> [dir...]",
		Short: "Write the duplicate files to a JSON or CSV file",
		Long: `Compare directories and write every duplicate group to a file.
The default file name is "duplicate-summary (1)-<dir> to (2)-<dir>" in the
export directory from the configuration.`,
		Args: cobra.MinimumNArgs(2),
		RunE: runExport,
	}

	addScanFlags(cmd)
	cmd.Flags().StringVarP(&exportFlags.Format, "format", "f", "", "export format: json, csv")
	cmd.Flags().StringVar(&exportFlags.File, "file", "", "export file path (default: generated from the directory names)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := newSession(args, nil)
	if err != nil {
		return err
	}
	defer s.close()

	_, groups, err := s.duplicates(ctx)
	if errors.Is(err, models.ErrNoDuplicates) {
		return s.noDuplicates()
	} else if err != nil {
		return err
	}

	path, err := s.export(ctx, groups, exportFlags.File)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "\nExported %d duplicates to %s\n", len(groups), path)
	return nil
}

// export writes groups to path, or to the default export path when empty
func (s *session) export(ctx context.Context, groups []*models.DuplicateGroup, path string) (string, error) {
	if path == "" {
		path = output.DefaultExportPath(s.cfg.Export.Directory, s.cfg.Export.Format, s.dirs...)
	}

	if err := output.WriteDuplicatesReport(ctx, s.backend, groups, path, s.cfg.Export.Format); err != nil {
		return "", fmt.Errorf("failed to export duplicates: %w", err)
	}

	s.logger.Info(ctx, "Duplicates exported", logging.Fields{
		"path":   path,
		"format": s.cfg.Export.Format,
		"groups": len(groups),
	})
	return path, nil
}
