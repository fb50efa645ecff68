// Package export writes a snapshot of collected records to disk.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/law-makers/collegecrawl/pkg/models"
)

// ErrNoRecords is returned when there is nothing to export.
var ErrNoRecords = errors.New("no data to export")

// Format is an output file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Summary describes the search that produced the records.
type Summary struct {
	State     string    `json:"state"`
	Branch    string    `json:"branch"`
	Generated time.Time `json:"generated_at"`
}

// DefaultFilename is the timestamped name used when the caller gives no destination.
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("college_data_%s.xlsx", now.Format("20060102_150405"))
}

// ResolvePath picks the format from the extension of path. An empty path becomes the
// default filename; a path without a known extension gets ".xlsx" appended.
func ResolvePath(path string, now time.Time) (string, Format) {
	if strings.TrimSpace(path) == "" {
		return DefaultFilename(now), FormatXLSX
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return path, FormatXLSX
	case ".csv":
		return path, FormatCSV
	case ".json":
		return path, FormatJSON
	}
	return path + ".xlsx", FormatXLSX
}

// Export writes records to path and returns the path actually written. The records
// slice is read only.
func Export(records []*models.CollegeRecord, path string, summary Summary) (string, error) {
	if len(records) == 0 {
		return "", ErrNoRecords
	}
	if summary.Generated.IsZero() {
		summary.Generated = time.Now()
	}

	path, format := ResolvePath(path, summary.Generated)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var err error
	switch format {
	case FormatCSV:
		err = saveCSV(records, path)
	case FormatJSON:
		err = saveJSON(records, summary, path)
	default:
		err = saveXLSX(records, summary, path)
	}
	if err != nil {
		return "", fmt.Errorf("export %s: %w", format, err)
	}
	return path, nil
}
