package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/sdejongh/dirtective/pkg/models"
)

// palette holds the colours used by the human formatter
type palette struct {
	header  *color.Color
	success *color.Color
	failure *color.Color
	warning *color.Color
	dim     *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		header:  color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed, color.Bold),
		warning: color.New(color.FgYellow),
		dim:     color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.header, p.success, p.failure, p.warning, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer    io.Writer
	dirs      []string
	colors    palette
	startTime time.Time
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(colorize bool) *HumanFormatter {
	return &HumanFormatter{colors: newPalette(colorize)}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, dirs []string) error {
	f.writer = writer
	f.dirs = dirs
	f.startTime = time.Now()

	if writer == nil {
		return nil
	}

	f.colors.header.Fprintf(writer, "Comparing %d directories\n", len(dirs))
	for i, dir := range dirs {
		fmt.Fprintf(writer, "  (%d) %s\n", i+1, dir)
	}
	return nil
}

// Progress reports listing results and resolved groups
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	if f.writer == nil {
		return nil
	}

	switch update.Type {
	case EventListed:
		if update.Listing == nil {
			return nil
		}
		if update.Listing.FileCount() == 0 {
			f.colors.warning.Fprintf(f.writer, "No files found in (%d) %s\n", update.Listing.Source+1, update.Listing.Path)
			return nil
		}
		fmt.Fprintf(f.writer, "Found %s files in (%d) %s\n",
			humanize.Comma(int64(update.Listing.FileCount())), update.Listing.Source+1, update.Listing.Path)

	case EventDecided:
		if update.Result == nil {
			return nil
		}
		f.writeResult(update.Position, update.Total, *update.Result)
	}

	return nil
}

func (f *HumanFormatter) writeResult(position, total int, result models.ActionResult) {
	prefix := fmt.Sprintf("[%d/%d]", position, total)
	if result.DryRun {
		prefix += " (dry run)"
	}

	if !result.Success {
		f.colors.failure.Fprintf(f.writer, "%s ✗ %s: %s: %s\n", prefix, result.Name, result.Decision, result.Error)
		return
	}

	f.colors.success.Fprintf(f.writer, "%s ✓ %s: %s\n", prefix, result.Name, result.Decision)
	for _, path := range result.Removed {
		f.colors.dim.Fprintf(f.writer, "      removed %s\n", path)
	}
	for _, path := range result.Written {
		f.colors.dim.Fprintf(f.writer, "      wrote   %s\n", path)
	}
}

// Listings displays the directory size summary
func (f *HumanFormatter) Listings(listings []*models.Listing) error {
	if f.writer == nil {
		return nil
	}

	fmt.Fprintf(f.writer, "\n")
	f.colors.header.Fprintf(f.writer, "Directory sizes:\n")
	for _, l := range listings {
		fmt.Fprintf(f.writer, "  (%d) %s: %s files, %s\n",
			l.Source+1, l.Name, humanize.Comma(int64(l.FileCount())), models.FriendlySize(l.TotalBytes))
	}
	return nil
}

// Groups displays one comparison table per duplicate group
func (f *HumanFormatter) Groups(groups []*models.DuplicateGroup) error {
	if f.writer == nil {
		return nil
	}

	fmt.Fprintf(f.writer, "\n")
	if len(groups) == 0 {
		fmt.Fprintf(f.writer, "No duplicates found.\n")
		return nil
	}

	f.colors.header.Fprintf(f.writer, "Found %s duplicates\n", humanize.Comma(int64(len(groups))))
	for _, group := range groups {
		fmt.Fprintf(f.writer, "\n")
		f.colors.header.Fprintf(f.writer, "Duplicate %d of %d: %s\n", group.ID, len(groups), group.Name)
		if err := WriteGroupTable(f.writer, group); err != nil {
			return err
		}
	}
	return nil
}

// Unique lists the files found in a single directory
func (f *HumanFormatter) Unique(files []models.FileDescriptor) error {
	if f.writer == nil {
		return nil
	}

	fmt.Fprintf(f.writer, "\n")
	if len(files) == 0 {
		fmt.Fprintf(f.writer, "No unique files.\n")
		return nil
	}

	f.colors.header.Fprintf(f.writer, "Unique files (%s):\n", humanize.Comma(int64(len(files))))
	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	for _, file := range files {
		fmt.Fprintf(tw, "  (%d)\t%s\t%s\t%s\n", file.Source+1, file.Base, file.SizeLabel(), file.Directory)
	}
	return tw.Flush()
}

// Complete displays the run summary
func (f *HumanFormatter) Complete(summary models.RunSummary) error {
	if f.writer == nil {
		f.writer = io.Discard
	}

	if summary.RunID == "" {
		// Nothing was resolved
		return nil
	}

	duration := summary.CompletedAt.Sub(summary.StartedAt)

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Resolution completed in %s\n", formatDuration(duration))
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Summary:\n")
	fmt.Fprintf(f.writer, "  Run:         %s\n", summary.RunID)
	fmt.Fprintf(f.writer, "  Resolved:    %d\n", summary.Total)
	fmt.Fprintf(f.writer, "  Succeeded:   %d\n", summary.SuccessCount)
	fmt.Fprintf(f.writer, "  Failed:      %d\n", summary.FailureCount)
	fmt.Fprintf(f.writer, "  Unresolved:  %d\n", summary.Unresolved)
	fmt.Fprintf(f.writer, "  Removed:     %d files\n", countPaths(summary, func(r models.ActionResult) []string { return r.Removed }))
	fmt.Fprintf(f.writer, "  Written:     %d files\n", countPaths(summary, func(r models.ActionResult) []string { return r.Written }))
	fmt.Fprintf(f.writer, "\n")

	status := summary.Status()
	c := f.colors.success
	switch status {
	case models.StatusPartial, models.StatusCancelled:
		c = f.colors.warning
	case models.StatusFailed:
		c = f.colors.failure
	}
	c.Fprintf(f.writer, "Status: %s\n", status)

	if failures := summary.Failures(); len(failures) > 0 {
		fmt.Fprintf(f.writer, "\nErrors:\n")
		for _, r := range failures {
			fmt.Fprintf(f.writer, "  %s (%s): %s\n", r.Name, r.ErrorKind, r.Error)
		}
	}

	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	if f.writer != nil {
		f.colors.failure.Fprintf(f.writer, "Error: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// WriteGroupTable writes the side-by-side comparison of a group's members:
// one column per member, one row per attribute
func WriteGroupTable(w io.Writer, group *models.DuplicateGroup) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	row := func(label string, value func(m models.FileDescriptor) string) {
		cells := make([]string, 0, group.Size()+1)
		cells = append(cells, label)
		for _, m := range group.Members {
			cells = append(cells, value(m))
		}
		fmt.Fprintf(tw, "  %s\n", strings.Join(cells, "\t"))
	}

	position := 0
	row("", func(m models.FileDescriptor) string {
		position++
		return fmt.Sprintf("(%d) %s", position, m.Directory)
	})
	row("Name", func(m models.FileDescriptor) string { return m.Base })
	row("Created", func(m models.FileDescriptor) string { return m.CreatedAt.Format(DateLayout) })
	row("Size", func(m models.FileDescriptor) string { return m.SizeLabel() })
	row("Type", func(m models.FileDescriptor) string { return orDash(m.TypeLabel) })

	return tw.Flush()
}

func countPaths(summary models.RunSummary, paths func(models.ActionResult) []string) int {
	n := 0
	for _, r := range summary.Actions {
		n += len(paths(r))
	}
	return n
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatDuration formats duration in human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Round(time.Millisecond).String()
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
