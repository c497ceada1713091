package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/grokify/releaseconductor/pkg/model"
)

// TableFormatter formats results as text tables.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// FormatPublishResult formats a publish result as a text table.
func (f *TableFormatter) FormatPublishResult(result *model.PublishResult) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Publish Results (%s)\n", result.Timestamp.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Package: %s | %s -> %s\n", result.Package, result.PreviousVersion, result.Version))
	sb.WriteString(strings.Repeat("-", 60) + "\n")

	rows := [][2]string{
		{"Commits", fmt.Sprintf("%d (features %d, fixes %d, others %d)",
			result.Commits(), result.Features, result.Fixes, result.Others)},
		{"Changelog", changelogCell(result)},
		{"Published", publishedCell(result)},
		{"Pushed", yesNo(result.Pushed)},
	}
	if result.ReleaseURL != "" {
		rows = append(rows, [2]string{"Release", result.ReleaseURL})
	}

	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%-12s %s\n", row[0], truncate(row[1], 80)))
	}

	return sb.String(), nil
}

func changelogCell(result *model.PublishResult) string {
	if !result.ChangelogWritten {
		return "not updated"
	}
	return result.ChangelogPath
}

func publishedCell(result *model.PublishResult) string {
	if !result.Published {
		return "no"
	}
	return fmt.Sprintf("%s (tag %s)", result.Registry, result.DistTag)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
