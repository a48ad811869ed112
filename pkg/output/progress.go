package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/sdejongh/dirtective/pkg/models"
)

// Bar templates for each phase
const (
	listTemplate    = `{{string . "phase"}} {{counters . }} files {{string . "file"}}`
	resolveTemplate = `{{string . "phase"}} {{counters . }} {{bar . }} {{percent . }} {{string . "file"}}`
)

// ProgressFormatter shows progress bars while listing and resolving, and
// falls back to the human formatter for every report section. Messages
// produced while a bar is active are held until it finishes.
type ProgressFormatter struct {
	human     *HumanFormatter
	writer    io.Writer
	termWidth int

	mu        sync.Mutex
	bar       *pb.ProgressBar
	listTotal int
	pending   []*models.Listing
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter(colorize bool) *ProgressFormatter {
	return &ProgressFormatter{human: NewHumanFormatter(colorize)}
}

// Start initializes the formatter
func (f *ProgressFormatter) Start(writer io.Writer, dirs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer

	// Detect terminal width to prevent line wrapping issues
	if file, ok := writer.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			f.termWidth = width
		}
	}
	// Default to 120 if we couldn't detect (pipe, redirect, etc.)
	if f.termWidth == 0 {
		f.termWidth = 120
	}

	return f.human.Start(writer, dirs)
}

// Progress drives the active bar
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch update.Type {
	case EventListStart:
		f.listTotal = update.Total
		f.pending = nil
		f.startBar(0, listTemplate, "Listing")

	case EventEntry:
		if f.bar != nil {
			f.bar.Increment()
			f.bar.Set("file", filepath.Base(update.Path))
		}

	case EventListed:
		f.pending = append(f.pending, update.Listing)
		if len(f.pending) < f.listTotal {
			return nil
		}
		f.finishBar()
		for _, l := range f.pending {
			f.human.Progress(ProgressUpdate{Type: EventListed, Listing: l})
		}
		f.pending = nil

	case EventResolveStart:
		f.startBar(update.Total, resolveTemplate, "Resolving")

	case EventCopy:
		if f.bar != nil {
			f.bar.Set("file", fmt.Sprintf("%s %s/%s",
				filepath.Base(update.Path),
				humanize.IBytes(uint64(update.BytesWritten)),
				humanize.IBytes(uint64(update.TotalBytes))))
		}

	case EventDecided:
		if f.bar == nil {
			return nil
		}
		f.bar.Increment()
		if update.Group != nil {
			f.bar.Set("file", update.Group.Name)
		}
		if update.Position >= update.Total {
			f.finishBar()
		}
	}

	return nil
}

func (f *ProgressFormatter) startBar(total int, template, phase string) {
	f.finishBar()

	f.bar = pb.New(total).
		SetTemplateString(template).
		SetWriter(f.writer).
		SetWidth(f.termWidth).
		Set("phase", phase).
		Set("file", "")
	f.bar.Start()
}

func (f *ProgressFormatter) finishBar() {
	if f.bar == nil {
		return
	}
	f.bar.Set("file", "")
	f.bar.Finish()
	f.bar = nil
}

// Listings displays the directory size summary
func (f *ProgressFormatter) Listings(listings []*models.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finishBar()
	return f.human.Listings(listings)
}

// Groups displays the duplicate groups
func (f *ProgressFormatter) Groups(groups []*models.DuplicateGroup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finishBar()
	return f.human.Groups(groups)
}

// Unique lists the files found in a single directory
func (f *ProgressFormatter) Unique(files []models.FileDescriptor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finishBar()
	return f.human.Unique(files)
}

// Complete stops any active bar and displays the summary
func (f *ProgressFormatter) Complete(summary models.RunSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finishBar()
	return f.human.Complete(summary)
}

// Error reports an error
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finishBar()
	return f.human.Error(err)
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}
