package scan

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/sdejongh/dirtective/pkg/logging"
	"github.com/sdejongh/dirtective/pkg/models"
	"github.com/sdejongh/dirtective/pkg/storage"
)

// Options configures which entries a Builder keeps
type Options struct {
	// Exclude holds user glob patterns (see shouldExclude)
	Exclude []string
	// IncludeHidden keeps dot-files that are not on the system denylist
	IncludeHidden bool
	// OnEntry is called once per kept file, from the goroutine listing its directory
	OnEntry func(source int, file models.FileDescriptor)
}

// Builder produces file descriptors from directory listings
type Builder struct {
	backend storage.Backend
	options Options
	logger  logging.Logger
}

// NewBuilder creates a builder reading through backend
func NewBuilder(backend storage.Backend, options Options, logger logging.Logger) *Builder {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Builder{
		backend: backend,
		options: options,
		logger:  logger,
	}
}

// Build lists a single level of dir and returns one descriptor per regular
// file. Sub-directories are not descended.
func (b *Builder) Build(ctx context.Context, dir string) (*models.Listing, error) {
	return b.build(ctx, dir, 0)
}

func (b *Builder) build(ctx context.Context, dir string, source int) (*models.Listing, error) {
	entries, err := b.backend.ReadDir(ctx, dir)
	if err != nil {
		return nil, err
	}

	listing := &models.Listing{
		Path:   dir,
		Name:   filepath.Base(dir),
		Source: source,
		Files:  make([]models.FileDescriptor, 0, len(entries)),
	}

	skipped := 0
	for _, entry := range entries {
		if entry.IsDir {
			continue
		}
		if isSystemEntry(entry.Name, b.options.IncludeHidden) || shouldExclude(entry.Name, false, b.options.Exclude) {
			skipped++
			continue
		}

		file := models.NewFileDescriptor(dir, entry.Name, entry.Size, entry.CreatedAt, source)
		listing.Add(file)

		if b.options.OnEntry != nil {
			b.options.OnEntry(source, file)
		}
	}

	b.logger.Debug(ctx, "Directory listed", logging.Fields{
		"path":        dir,
		"source":      source,
		"files":       listing.FileCount(),
		"skipped":     skipped,
		"total_bytes": listing.TotalBytes,
	})

	return listing, nil
}

// BuildAll lists every directory concurrently. Listing i is tagged with
// source index i. The first failure cancels the others and is returned.
func (b *Builder) BuildAll(ctx context.Context, dirs ...string) ([]*models.Listing, error) {
	listings := make([]*models.Listing, len(dirs))

	g, gctx := errgroup.WithContext(ctx)
	for i, dir := range dirs {
		i, dir := i, dir
		g.Go(func() error {
			listing, err := b.build(gctx, dir, i)
			if err != nil {
				return err
			}
			listings[i] = listing
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return listings, nil
}
