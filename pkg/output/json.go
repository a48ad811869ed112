package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/dirtective/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting.
// Nothing is written until Complete, which emits a single document.
type JSONFormatter struct {
	writer    io.Writer
	startTime time.Time

	listings []JSONListingData
	groups   []*models.DuplicateGroup
	unique   []JSONMemberData
	errors   []string
}

// JSONReportData is the document written by Complete
type JSONReportData struct {
	Status      string             `json:"status"`
	Duration    string             `json:"duration"`
	DurationMs  int64              `json:"duration_ms"`
	Directories []JSONListingData  `json:"directories"`
	Groups      []JSONGroupData    `json:"groups"`
	Unique      []JSONMemberData   `json:"unique,omitempty"`
	Summary     *models.RunSummary `json:"summary,omitempty"`
	Errors      []string           `json:"errors,omitempty"`
}

// JSONListingData describes one listed directory
type JSONListingData struct {
	Source     int    `json:"source"`
	Path       string `json:"path"`
	Name       string `json:"name"`
	Files      int    `json:"files"`
	TotalBytes int64  `json:"total_bytes"`
	Size       string `json:"size"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, dirs []string) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.startTime = time.Now()
	return nil
}

// Progress keeps the output parseable: events are not streamed
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Listings records the directory summary
func (f *JSONFormatter) Listings(listings []*models.Listing) error {
	f.listings = f.listings[:0]
	for _, l := range listings {
		f.listings = append(f.listings, JSONListingData{
			Source:     l.Source + 1,
			Path:       l.Path,
			Name:       l.Name,
			Files:      l.FileCount(),
			TotalBytes: l.TotalBytes,
			Size:       models.FriendlySize(l.TotalBytes),
		})
	}
	return nil
}

// Groups records the duplicate groups. They are serialized by Complete so
// that decisions attached in between are included.
func (f *JSONFormatter) Groups(groups []*models.DuplicateGroup) error {
	f.groups = groups
	return nil
}

// Unique records the files found in a single directory
func (f *JSONFormatter) Unique(files []models.FileDescriptor) error {
	f.unique = make([]JSONMemberData, len(files))
	for i, file := range files {
		f.unique[i] = toJSONMember(file)
	}
	return nil
}

// Complete writes the report document
func (f *JSONFormatter) Complete(summary models.RunSummary) error {
	if f.writer == nil {
		f.writer = io.Discard
	}

	duration := time.Since(f.startTime)
	report := JSONReportData{
		Status:      string(summary.Status()),
		Duration:    duration.Round(time.Millisecond).String(),
		DurationMs:  duration.Milliseconds(),
		Directories: f.listings,
		Groups:      toJSONGroups(f.groups),
		Unique:      f.unique,
		Errors:      f.errors,
	}
	if summary.RunID != "" {
		report.Summary = &summary
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// Error records an error for the final document
func (f *JSONFormatter) Error(err error) error {
	f.errors = append(f.errors, err.Error())
	return nil
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
