package resolve

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/sdejongh/dirtective/internal/platform"
	"github.com/sdejongh/dirtective/pkg/logging"
	"github.com/sdejongh/dirtective/pkg/models"
	"github.com/sdejongh/dirtective/pkg/ratelimit"
	"github.com/sdejongh/dirtective/pkg/storage"
)

// ExecutorOptions configures an Executor
type ExecutorOptions struct {
	// DryRun computes the affected paths without touching the filesystem
	DryRun bool
	// Limiter caps the bandwidth of copy and move actions (nil = unlimited)
	Limiter *ratelimit.Limiter
	// BufferSize is the read buffer used when copying (0 = io.Copy default)
	BufferSize int
	// OnProgress is called while a file is being copied
	OnProgress func(path string, written, total int64)
}

// Executor applies decisions to the files of a group
type Executor struct {
	backend storage.Backend
	options ExecutorOptions
	logger  logging.Logger
	now     func() time.Time
}

// NewExecutor creates an executor writing through backend
func NewExecutor(backend storage.Backend, options ExecutorOptions, logger logging.Logger) *Executor {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Executor{
		backend: backend,
		options: options,
		logger:  logger,
		now:     time.Now,
	}
}

// DryRun reports whether the executor leaves the filesystem untouched
func (e *Executor) DryRun() bool {
	return e.options.DryRun
}

// Apply executes choice on group. Failures are reported in the result,
// never returned: Success is false and ErrorKind classifies the first error.
// Once started an action runs to completion even if ctx is cancelled.
func (e *Executor) Apply(ctx context.Context, group *models.DuplicateGroup, choice models.ActionChoice) models.ActionResult {
	ctx = context.WithoutCancel(ctx)

	result := models.ActionResult{
		GroupID:   group.ID,
		Name:      group.Name,
		Decision:  choice,
		DryRun:    e.options.DryRun,
		Timestamp: e.now(),
	}

	var err error
	switch choice.Kind {
	case models.ActionKeepAll:
		// Nothing to do

	case models.ActionDeleteAll:
		err = e.remove(ctx, group, allPositions(group), &result)

	case models.ActionDeletePosition:
		if _, ok := group.Member(choice.Position); !ok {
			err = &models.ValidationError{
				Field:   "position",
				Message: fmt.Sprintf("position %d is out of range 1..%d", choice.Position, group.Size()),
			}
			break
		}
		err = e.remove(ctx, group, []int{choice.Position}, &result)

	case models.ActionDeleteLarger, models.ActionDeleteSmaller, models.ActionDeleteNewer, models.ActionDeleteOlder:
		var pos int
		if pos, err = ResolveTarget(group, choice.Kind); err == nil {
			err = e.remove(ctx, group, []int{pos}, &result)
		}

	case models.ActionDeleteSide:
		positions := group.PositionsFrom(choice.Side)
		if len(positions) == 0 {
			err = noMembersFrom(choice.Side)
			break
		}
		err = e.remove(ctx, group, positions, &result)

	case models.ActionCopyOver, models.ActionMoveOver:
		err = e.transfer(ctx, group, choice.Side, choice.Kind == models.ActionMoveOver, &result)

	default:
		err = &models.ValidationError{Field: "action", Message: fmt.Sprintf("unknown action %q", choice.Kind)}
	}

	if err != nil {
		result.Success = false
		result.Error = err.Error()
		result.ErrorKind = models.ClassifyError(err)
		return result
	}

	result.Success = true
	return result
}

// remove deletes the members at positions. Every path is attempted; the
// first error is returned.
func (e *Executor) remove(ctx context.Context, group *models.DuplicateGroup, positions []int, result *models.ActionResult) error {
	var firstErr error

	for _, pos := range positions {
		member, _ := group.Member(pos)

		if e.options.DryRun {
			result.Removed = append(result.Removed, member.FullPath)
			continue
		}

		if err := e.backend.Remove(ctx, member.FullPath); err != nil {
			e.logger.Error(ctx, "Failed to remove file", err, logging.Fields{
				"group": group.ID,
				"path":  member.FullPath,
			})
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		e.logger.Debug(ctx, "File removed", logging.Fields{
			"group": group.ID,
			"path":  member.FullPath,
		})
		result.Removed = append(result.Removed, member.FullPath)
	}

	return firstErr
}

// transfer copies every member listed from source into the directories of
// the other sources of the group, under the same base name. When move is
// set the originals are removed once all copies succeeded.
func (e *Executor) transfer(ctx context.Context, group *models.DuplicateGroup, source int, move bool, result *models.ActionResult) error {
	positions := group.PositionsFrom(source)
	if len(positions) == 0 {
		return noMembersFrom(source)
	}

	targets := targetDirectories(group, source)
	if len(targets) == 0 {
		return &models.ValidationError{
			Field:   "side",
			Message: fmt.Sprintf("group %q has no directory other than (%d)", group.Name, source+1),
		}
	}

	var firstErr error
	for _, pos := range positions {
		member, _ := group.Member(pos)

		for _, dir := range targets {
			dest := filepath.Join(dir, member.Base)
			if platform.SamePath(dest, member.FullPath) {
				continue
			}

			if !e.options.DryRun {
				if err := e.copyFile(ctx, member, dest); err != nil {
					e.logger.Error(ctx, "Failed to copy file", err, logging.Fields{
						"group":  group.ID,
						"source": member.FullPath,
						"dest":   dest,
					})
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
			}
			result.Written = append(result.Written, dest)
		}
	}

	if firstErr != nil || !move {
		return firstErr
	}
	return e.remove(ctx, group, positions, result)
}

// copyFile streams src to dest, preserving timestamps and permissions
func (e *Executor) copyFile(ctx context.Context, member models.FileDescriptor, dest string) error {
	reader, err := e.backend.Read(ctx, member.FullPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	info, err := e.backend.Stat(ctx, member.FullPath)
	if err != nil {
		return err
	}

	var r io.Reader = ratelimit.NewReadCloser(ctx, reader, e.options.Limiter)
	if e.options.BufferSize > 0 {
		r = bufio.NewReaderSize(r, e.options.BufferSize)
	}
	if e.options.OnProgress != nil {
		r = &progressReader{
			reader:         r,
			lastReportTime: time.Now(),
			onProgress: func(read int64) {
				e.options.OnProgress(dest, read, info.Size)
			},
		}
	}

	return e.backend.Write(ctx, dest, r, info.Size, info)
}

// targetDirectories returns the directory of each source of group other
// than source, in source order
func targetDirectories(group *models.DuplicateGroup, source int) []string {
	var dirs []string
	for _, s := range group.Sources() {
		if s == source {
			continue
		}
		pos := group.PositionsFrom(s)[0]
		member, _ := group.Member(pos)
		dirs = append(dirs, member.Directory)
	}
	return dirs
}

func allPositions(group *models.DuplicateGroup) []int {
	positions := make([]int, group.Size())
	for i := range positions {
		positions[i] = i + 1
	}
	return positions
}

func noMembersFrom(source int) error {
	return &models.ValidationError{
		Field:   "side",
		Message: fmt.Sprintf("no member listed from (%d)", source+1),
	}
}

// progressReader wraps an io.Reader to report progress
type progressReader struct {
	reader         io.Reader
	read           int64
	lastReported   int64
	lastReportTime time.Time
	onProgress     func(bytesRead int64)
}

// Progress reporting thresholds
const (
	progressReportInterval = 50 * time.Millisecond
	progressReportBytes    = 64 * 1024
)

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.read += int64(n)

	// Report every 64KB or 50ms, and always on the final read
	if pr.read > pr.lastReported &&
		(pr.read-pr.lastReported >= progressReportBytes ||
			time.Since(pr.lastReportTime) >= progressReportInterval ||
			err != nil) {
		pr.onProgress(pr.read)
		pr.lastReported = pr.read
		pr.lastReportTime = time.Now()
	}
	return n, err
}
