package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/sdejongh/dirtective/pkg/compare"
	"github.com/sdejongh/dirtective/pkg/config"
	"github.com/sdejongh/dirtective/pkg/logging"
	"github.com/sdejongh/dirtective/pkg/models"
	"github.com/sdejongh/dirtective/pkg/output"
	"github.com/sdejongh/dirtective/pkg/scan"
	"github.com/sdejongh/dirtective/pkg/storage"
)

// stdout receives the command output
var stdout io.Writer = os.Stdout

// session holds everything a command needs to list and compare directories
type session struct {
	cfg       *config.Config
	dirs      []string
	backend   *storage.Local
	formatter output.Formatter
	logger    logging.Logger
	out       io.Writer
}

// newSession validates the directories, loads the configuration and
// builds the logger and formatter. adjust, when set, may change the
// configuration before it is validated.
func newSession(args []string, adjust func(cfg *config.Config) error) (*session, error) {
	dirs, err := validateDirectories(args)
	if err != nil {
		return nil, err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	applyFlagsToConfig(cfg)
	if adjust != nil {
		if err := adjust(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := createLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	out := stdout
	if cfg.Output.Quiet && cfg.Output.Format != "json" {
		out = io.Discard
	}

	// Colours and bars only make sense on a terminal
	tty := term.IsTerminal(int(os.Stdout.Fd()))

	s := &session{
		cfg:       cfg,
		dirs:      dirs,
		backend:   storage.NewLocal(),
		formatter: output.New(cfg.Output.Format, cfg.Output.Progress && tty, cfg.Output.Color && tty),
		logger:    logger,
		out:       out,
	}

	if err := s.formatter.Start(out, dirs); err != nil {
		logger.Close()
		return nil, err
	}
	return s, nil
}

// list lists every directory concurrently and reports the directory sizes
func (s *session) list(ctx context.Context) ([]*models.Listing, error) {
	s.formatter.Progress(output.ProgressUpdate{Type: output.EventListStart, Total: len(s.dirs)})

	builder := scan.NewBuilder(s.backend, scan.Options{
		Exclude:       s.cfg.Scan.Exclude,
		IncludeHidden: s.cfg.Scan.IncludeHidden,
		OnEntry: func(source int, file models.FileDescriptor) {
			s.formatter.Progress(output.ProgressUpdate{
				Type:   output.EventEntry,
				Path:   file.FullPath,
				Source: source,
			})
		},
	}, s.logger)

	listings, err := builder.BuildAll(ctx, s.dirs...)
	if err != nil {
		s.formatter.Error(err)
		return nil, fmt.Errorf("failed to list directories: %w", err)
	}

	for i, l := range listings {
		s.formatter.Progress(output.ProgressUpdate{
			Type:     output.EventListed,
			Listing:  l,
			Source:   l.Source,
			Position: i + 1,
			Total:    len(listings),
		})
	}
	if err := s.formatter.Listings(listings); err != nil {
		return nil, err
	}

	return listings, nil
}

// match builds the duplicate groups of the listings
func (s *session) match(listings []*models.Listing) []*models.DuplicateGroup {
	files := make([][]models.FileDescriptor, len(listings))
	for i, l := range listings {
		files[i] = l.Files
	}
	return compare.MatchAll(files...)
}

// duplicates lists the directories and matches them. It returns
// models.ErrNoDuplicates when nothing matched.
func (s *session) duplicates(ctx context.Context) ([]*models.Listing, []*models.DuplicateGroup, error) {
	listings, err := s.list(ctx)
	if err != nil {
		return nil, nil, err
	}

	groups := s.match(listings)
	s.logger.Info(ctx, "Directories compared", logging.Fields{
		"directories": len(s.dirs),
		"duplicates":  len(groups),
	})

	if len(groups) == 0 {
		return listings, nil, models.ErrNoDuplicates
	}
	return listings, groups, nil
}

// noDuplicates reports an empty comparison, which is not a failure
func (s *session) noDuplicates() error {
	if s.cfg.Output.Format == "json" {
		s.formatter.Groups(nil)
		return s.formatter.Complete(models.RunSummary{})
	}
	fmt.Fprintln(s.out, "\nNo duplicates found.")
	return nil
}

func (s *session) close() error {
	return s.logger.Close()
}
