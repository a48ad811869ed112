package output

import (
	"io"

	"github.com/sdejongh/dirtective/pkg/models"
)

// EventType identifies a progress event
type EventType string

const (
	// EventListStart is sent once before the directories are listed (Total = directories)
	EventListStart EventType = "list_start"
	// EventEntry is sent for each file kept while listing
	EventEntry EventType = "entry"
	// EventListed is sent when one directory has been listed
	EventListed EventType = "listed"
	// EventResolveStart is sent before the queue is drained (Total = groups)
	EventResolveStart EventType = "resolve_start"
	// EventCopy reports bytes written by a copy or move action
	EventCopy EventType = "copy"
	// EventDecided is sent once a group has been resolved
	EventDecided EventType = "decided"
)

// ProgressUpdate represents a progress event
type ProgressUpdate struct {
	Type EventType

	// Path is the file being listed or written
	Path   string
	Source int

	Listing *models.Listing
	Group   *models.DuplicateGroup
	Result  *models.ActionResult

	BytesWritten int64
	TotalBytes   int64

	// Position and Total locate the event in the current phase
	Position int
	Total    int
}

// Formatter defines the interface for output formatting
type Formatter interface {
	// Start initializes the formatter with the compared directories
	Start(writer io.Writer, dirs []string) error

	// Progress reports progress during listing and resolution
	Progress(update ProgressUpdate) error

	// Listings reports the size of each listed directory
	Listings(listings []*models.Listing) error

	// Groups reports the duplicate groups found
	Groups(groups []*models.DuplicateGroup) error

	// Unique reports the files found in only one directory
	Unique(files []models.FileDescriptor) error

	// Complete finalizes output with the run summary
	Complete(summary models.RunSummary) error

	// Error reports an error
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// DateLayout is the timestamp format used in tables and exports
const DateLayout = "2006-01-02 15:04:05"

// New returns the formatter for format. Progress bars are only used for
// the human format and only when progress is set.
func New(format string, progress, colorize bool) Formatter {
	switch {
	case format == "json":
		return NewJSONFormatter()
	case progress:
		return NewProgressFormatter(colorize)
	default:
		return NewHumanFormatter(colorize)
	}
}
