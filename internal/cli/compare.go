package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dirtective/pkg/compare"
	"github.com/sdejongh/dirtective/pkg/models"
)

var compareShowUnique bool

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <dir> <dir> [dir...]",
		Short: "List duplicate files without changing anything",
		Long: `Compare directories and report the files whose name (without extension)
appears in more than one of them. No file is modified.`,
		Args: cobra.MinimumNArgs(2),
		RunE: runCompare,
	}

	addScanFlags(cmd)
	cmd.Flags().BoolVar(&compareShowUnique, "unique", false, "also list files found in a single directory")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := newSession(args, nil)
	if err != nil {
		return err
	}
	defer s.close()

	listings, groups, err := s.duplicates(ctx)
	if errors.Is(err, models.ErrNoDuplicates) {
		if !compareShowUnique {
			return s.noDuplicates()
		}
	} else if err != nil {
		return err
	}

	if err := s.formatter.Groups(groups); err != nil {
		return fmt.Errorf("failed to write duplicates: %w", err)
	}

	if compareShowUnique && len(listings) >= 2 {
		if err := s.formatter.Unique(compare.IdentifyUnmatched(listings[0].Files, listings[1].Files)); err != nil {
			return fmt.Errorf("failed to write unique files: %w", err)
		}
	}

	return s.formatter.Complete(models.RunSummary{})
}
