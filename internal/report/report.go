package report

import (
	"github.com/cockroachdb/errors"

	"github.com/grokify/releaseconductor/pkg/model"
)

// Formatter defines the interface for formatting results.
type Formatter interface {
	// FormatPublishResult formats the summary of a publish run.
	FormatPublishResult(result *model.PublishResult) (string, error)
}

// Formats lists the accepted --format values.
var Formats = []string{"table", "json", "markdown", "yaml", "csv"}

// NewFormatter returns the formatter for a --format value.
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "", "table":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "markdown", "md":
		return NewMarkdownFormatter(), nil
	case "yaml", "yml":
		return NewYAMLFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	default:
		return nil, errors.Newf("unknown format %q (available: %v)", format, Formats)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
