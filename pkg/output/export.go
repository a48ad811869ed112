package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sdejongh/dirtective/internal/platform"
	"github.com/sdejongh/dirtective/pkg/models"
	"github.com/sdejongh/dirtective/pkg/storage"
)

// JSONMemberData is one file of a duplicate group in exports
type JSONMemberData struct {
	Name    string `json:"name"`
	Base    string `json:"base"`
	Path    string `json:"path"`
	Created string `json:"created"`
	Size    string `json:"size"`
	Bytes   int64  `json:"bytes"`
	Type    string `json:"type"`
}

// JSONGroupData is one duplicate group in exports
type JSONGroupData struct {
	ID       int                  `json:"id"`
	Name     string               `json:"name"`
	Members  []JSONMemberData     `json:"members"`
	Decision *models.ActionChoice `json:"decision,omitempty"`
	Result   *models.ActionResult `json:"result,omitempty"`
}

// WriteDuplicatesReport writes the duplicate groups to path through backend.
// Format can be "json" or "csv". The file is replaced atomically.
func WriteDuplicatesReport(ctx context.Context, backend storage.Backend, groups []*models.DuplicateGroup, path string, format string) error {
	if len(groups) == 0 {
		// No duplicates - don't create empty file
		return models.ErrNoDuplicates
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "csv":
		err = WriteDuplicatesCSV(&buf, groups)
	case "json":
		err = WriteDuplicatesJSON(&buf, groups)
	default:
		return &models.ValidationError{
			Field:   "export.format",
			Message: "must be 'json' or 'csv'",
		}
	}
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	size := int64(buf.Len())
	if err := backend.Write(ctx, path, &buf, size, &storage.FileInfo{Permissions: 0644}); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// WriteDuplicatesJSON writes the groups as an indented JSON array
func WriteDuplicatesJSON(w io.Writer, groups []*models.DuplicateGroup) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(toJSONGroups(groups))
}

// WriteDuplicatesCSV writes one row per group. Each member fills six
// columns, members are separated by a "-" column, and the header repeats
// the member columns up to the largest group.
func WriteDuplicatesCSV(w io.Writer, groups []*models.DuplicateGroup) error {
	width := 0
	for _, g := range groups {
		width = max(width, g.Size())
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader(width)); err != nil {
		return err
	}

	for i, g := range groups {
		record := []string{strconv.Itoa(i + 1)}
		for pos := 1; pos <= width; pos++ {
			if pos > 1 {
				record = append(record, "")
			}
			member, ok := g.Member(pos)
			if !ok {
				record = append(record, make([]string, len(csvMemberColumns))...)
				continue
			}
			record = append(record,
				member.Base,
				member.Directory,
				member.CreatedAt.Format(DateLayout),
				member.SizeLabel(),
				strconv.FormatInt(member.Size, 10),
				member.TypeLabel,
			)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

var csvMemberColumns = []string{"name", "path", "created", "size", "bytes", "type"}

func csvHeader(width int) []string {
	header := []string{"#"}
	for pos := 1; pos <= width; pos++ {
		if pos > 1 {
			header = append(header, "-")
		}
		for _, col := range csvMemberColumns {
			header = append(header, fmt.Sprintf("(%d) %s", pos, col))
		}
	}
	return header
}

// DefaultExportName returns the export file name for the compared
// directories, e.g. "duplicate-summary (1)-photos to (2)-backup". Each
// directory is named by the first path component where the paths diverge.
func DefaultExportName(dirs ...string) string {
	names := platform.DivergentNames(dirs...)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("(%d)-%s", i+1, sanitizeName(name))
	}
	return "duplicate-summary " + strings.Join(parts, " to ")
}

// DefaultExportPath joins dir with the default export name and the format extension
func DefaultExportPath(dir, format string, dirs ...string) string {
	return filepath.Join(dir, DefaultExportName(dirs...)+"."+format)
}

// sanitizeName drops characters that cannot appear in a file name
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, name)
}

func toJSONGroups(groups []*models.DuplicateGroup) []JSONGroupData {
	data := make([]JSONGroupData, len(groups))
	for i, g := range groups {
		members := make([]JSONMemberData, len(g.Members))
		for j, m := range g.Members {
			members[j] = toJSONMember(m)
		}
		data[i] = JSONGroupData{
			ID:       g.ID,
			Name:     g.Name,
			Members:  members,
			Decision: g.Decision,
			Result:   g.Result,
		}
	}
	return data
}

func toJSONMember(f models.FileDescriptor) JSONMemberData {
	return JSONMemberData{
		Name:    f.Name,
		Base:    f.Base,
		Path:    f.FullPath,
		Created: f.CreatedAt.Format(DateLayout),
		Size:    f.SizeLabel(),
		Bytes:   f.Size,
		Type:    f.TypeLabel,
	}
}
