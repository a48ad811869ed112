package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dirtective/pkg/compare"
	"github.com/sdejongh/dirtective/pkg/models"
)

// NewUniqueCommand creates the unique command
func NewUniqueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unique <primary> <secondary>",
		Short: "List files found in only one of two directories",
		Long: `List the files whose name (without extension) appears in only one of the
two directories. Files without an extension are left out.`,
		Args: cobra.ExactArgs(2),
		RunE: runUnique,
	}

	addScanFlags(cmd)

	return cmd
}

func runUnique(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := newSession(args, nil)
	if err != nil {
		return err
	}
	defer s.close()

	listings, err := s.list(ctx)
	if err != nil {
		return err
	}

	if err := s.formatter.Unique(compare.IdentifyUnmatched(listings[0].Files, listings[1].Files)); err != nil {
		return fmt.Errorf("failed to write unique files: %w", err)
	}

	return s.formatter.Complete(models.RunSummary{})
}
