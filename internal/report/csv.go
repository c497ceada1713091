package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/grokify/releaseconductor/pkg/model"
)

// CSVFormatter formats results as CSV.
type CSVFormatter struct{}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// FormatPublishResult formats a publish result as a header and one row.
func (f *CSVFormatter) FormatPublishResult(result *model.PublishResult) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Timestamp", "Package", "Previous Version", "Version", "Dist Tag", "Registry",
		"Changelog", "Published", "Pushed", "Features", "Fixes", "Others", "Release URL"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	changelog := ""
	if result.ChangelogWritten {
		changelog = result.ChangelogPath
	}
	row := []string{
		result.Timestamp.Format(time.RFC3339),
		result.Package,
		result.PreviousVersion,
		result.Version,
		result.DistTag,
		result.Registry,
		changelog,
		strconv.FormatBool(result.Published),
		strconv.FormatBool(result.Pushed),
		strconv.Itoa(result.Features),
		strconv.Itoa(result.Fixes),
		strconv.Itoa(result.Others),
		result.ReleaseURL,
	}
	if err := w.Write(row); err != nil {
		return "", err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
