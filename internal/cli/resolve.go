package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sdejongh/dirtective/pkg/compare"
	"github.com/sdejongh/dirtective/pkg/config"
	"github.com/sdejongh/dirtective/pkg/models"
	"github.com/sdejongh/dirtective/pkg/output"
	"github.com/sdejongh/dirtective/pkg/ratelimit"
	"github.com/sdejongh/dirtective/pkg/resolve"
)

// ResolveFlags holds resolve command flags
type ResolveFlags struct {
	Policy    string
	Allow     []string
	DryRun    bool
	Bandwidth string
	Export    bool
}

var resolveFlags ResolveFlags

// NewResolveCommand creates the resolve command
func NewResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <primary> <secondary> [dir...]",
		Short: "Decide what to do with each duplicate file",
		Long: `Compare directories and resolve every duplicate group, either one by one
through an interactive prompt or in bulk with a policy:

  keep-all, delete-all, delete-primary, delete-secondary,
  delete-older, delete-newer, delete-larger, delete-smaller,
  copy-primary, move-primary, copy-secondary, move-secondary

Groups for which a policy does not apply (for instance delete-larger on
files of equal size) are kept.`,
		Args: cobra.MinimumNArgs(2),
		RunE: runResolve,
	}

	addScanFlags(cmd)
	cmd.Flags().StringVarP(&resolveFlags.Policy, "policy", "p", "", "bulk policy, or \"individual\" to be asked for each group")
	cmd.Flags().StringSliceVar(&resolveFlags.Allow, "allow", []string{}, "restrict the offered actions (e.g. delete-position,delete-older)")
	cmd.Flags().BoolVarP(&resolveFlags.DryRun, "dry-run", "n", false, "show what would be done without touching any file")
	cmd.Flags().StringVarP(&resolveFlags.Bandwidth, "bandwidth", "b", "", "bandwidth limit for copies (e.g., \"10M\", \"1G\")")
	cmd.Flags().BoolVar(&resolveFlags.Export, "export", false, "write the groups and their decisions to an export file when done")
	cmd.Flags().StringVar(&exportFlags.Format, "export-format", "", "export format: json, csv")
	cmd.Flags().StringVar(&exportFlags.File, "export-file", "", "export file path (default: generated from the directory names)")

	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := newSession(args, func(cfg *config.Config) error {
		if cfg.Resolve.DefaultPolicy != config.PolicyIndividual {
			return nil
		}
		if cfg.Output.Format == "json" {
			return &models.ValidationError{
				Field:   "policy",
				Message: "interactive resolution cannot be combined with JSON output, choose a --policy",
			}
		}
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return &models.ValidationError{
				Field:   "policy",
				Message: "interactive resolution needs a terminal, choose a --policy",
			}
		}
		// Progress bars would draw over the prompt
		cfg.Output.Progress = false
		return nil
	})
	if err != nil {
		return err
	}
	defer s.close()

	listings, groups, err := s.duplicates(ctx)
	if errors.Is(err, models.ErrNoDuplicates) {
		return s.noDuplicates()
	} else if err != nil {
		return err
	}

	if err := s.formatter.Groups(s.groupsToReport(groups)); err != nil {
		return err
	}

	decider, closeDecider, err := s.decider(ctx, cmd, groups)
	if errors.Is(err, resolve.ErrStop) {
		fmt.Fprintln(s.out, "Cancelled")
		return nil
	} else if err != nil {
		return err
	}
	if decider == nil {
		// Only an export was requested
		return nil
	}
	defer closeDecider()

	summary, drainErr := s.drain(ctx, groups, decider)

	if len(listings) >= 2 {
		unique := compare.IdentifyUnmatched(listings[0].Files, listings[1].Files)
		if err := s.formatter.Unique(unique); err != nil {
			return fmt.Errorf("failed to write unique files: %w", err)
		}
	}

	if err := s.formatter.Complete(summary); err != nil {
		return err
	}

	if resolveFlags.Export {
		path, err := s.export(ctx, groups, exportFlags.File)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Exported %d duplicates to %s\n", len(groups), path)
	}

	if drainErr != nil && !errors.Is(drainErr, context.Canceled) {
		return drainErr
	}
	if code := summary.Status().ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// groupsToReport limits the up-front listing of groups to the JSON report:
// the human output shows each group while it is being resolved
func (s *session) groupsToReport(groups []*models.DuplicateGroup) []*models.DuplicateGroup {
	if s.cfg.Output.Format == "json" {
		return groups
	}
	fmt.Fprintf(s.out, "\nFound %d duplicates\n", len(groups))
	return nil
}

// decider returns the bulk decider of the configured policy, or the
// interactive prompt. In interactive mode the bulk menu is shown first
// unless --policy was given. A nil decider means the menu only exported.
func (s *session) decider(ctx context.Context, cmd *cobra.Command, groups []*models.DuplicateGroup) (resolve.Decider, func(), error) {
	policy := s.cfg.Resolve.DefaultPolicy

	if policy != config.PolicyIndividual {
		p, err := resolve.ParsePolicy(policy)
		if err != nil {
			return nil, nil, err
		}
		return resolve.NewBulkDecider(p), func() {}, nil
	}

	prompter, err := NewPromptDecider(os.Stdout, s.cfg.Output.Color)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { prompter.Close() }

	if cmd.Flags().Changed("policy") {
		return prompter, closeFn, nil
	}

	option, err := prompter.ChooseBulk(len(groups))
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	if option.Export != "" {
		closeFn()
		s.cfg.Export.Format = option.Export
		path, err := s.export(ctx, groups, exportFlags.File)
		if err != nil {
			return nil, nil, err
		}
		fmt.Fprintf(s.out, "Exported %d duplicates to %s\n", len(groups), path)
		return nil, nil, nil
	}

	if option.Policy == config.PolicyIndividual {
		return prompter, closeFn, nil
	}

	closeFn()
	p, err := resolve.ParsePolicy(option.Policy)
	if err != nil {
		return nil, nil, err
	}
	return resolve.NewBulkDecider(p), func() {}, nil
}

// drain resolves every group with decider
func (s *session) drain(ctx context.Context, groups []*models.DuplicateGroup, decider resolve.Decider) (models.RunSummary, error) {
	executor := resolve.NewExecutor(s.backend, resolve.ExecutorOptions{
		DryRun:     s.cfg.Resolve.DryRun,
		Limiter:    ratelimit.NewLimiter(s.cfg.BandwidthBytes()),
		BufferSize: s.cfg.Performance.BufferSize,
		OnProgress: func(path string, written, total int64) {
			s.formatter.Progress(output.ProgressUpdate{
				Type:         output.EventCopy,
				Path:         path,
				BytesWritten: written,
				TotalBytes:   total,
			})
		},
	}, s.logger)

	engine := resolve.NewEngine(groups, executor, resolve.Options{
		AllowedChoices: s.cfg.Resolve.AllowedChoices,
		Logger:         s.logger,
		OnResult: func(group *models.DuplicateGroup, result models.ActionResult) {
			s.formatter.Progress(output.ProgressUpdate{
				Type:     output.EventDecided,
				Group:    group,
				Result:   &result,
				Position: group.ID,
				Total:    len(groups),
			})
		},
	})

	s.formatter.Progress(output.ProgressUpdate{Type: output.EventResolveStart, Total: len(groups)})

	summary, err := engine.Drain(ctx, decider)
	if err != nil {
		s.formatter.Error(err)
	}
	return summary, err
}
