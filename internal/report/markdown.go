package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/grokify/releaseconductor/pkg/model"
)

// MarkdownFormatter formats results as Markdown.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new Markdown formatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// FormatPublishResult formats a publish result as Markdown.
func (f *MarkdownFormatter) FormatPublishResult(result *model.PublishResult) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Release %s %s\n\n", result.Package, result.Version))
	sb.WriteString(fmt.Sprintf("**Publish Time:** %s\n\n", result.Timestamp.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("**Previous Version:** %s\n\n", result.PreviousVersion))

	sb.WriteString("| Step | Result |\n")
	sb.WriteString("|------|--------|\n")
	sb.WriteString(fmt.Sprintf("| Commits | %d (features %d, fixes %d, others %d) |\n",
		result.Commits(), result.Features, result.Fixes, result.Others))
	sb.WriteString(fmt.Sprintf("| Changelog | %s |\n", changelogCell(result)))
	sb.WriteString(fmt.Sprintf("| Published | %s |\n", publishedCell(result)))
	sb.WriteString(fmt.Sprintf("| Pushed | %s |\n", yesNo(result.Pushed)))
	if result.ReleaseURL != "" {
		sb.WriteString(fmt.Sprintf("| Release | [%s](%s) |\n", result.Version, result.ReleaseURL))
	}

	return sb.String(), nil
}
