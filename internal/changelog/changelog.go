// Package changelog renders release entries and prepends them to the
// project's changelog file.
package changelog

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/grokify/releaseconductor/pkg/model"
)

const (
	// DefaultFilename is the changelog base name, without extension.
	DefaultFilename = "CHANGELOG"

	// Extension is appended to the base name.
	Extension = ".md"

	// DateLayout formats the entry date as YYYY-MM-DD.
	DateLayout = "2006-01-02"

	underline = "=================="
)

// Path returns the changelog path for a base name inside root.
func Path(root, filename string) string {
	if filename == "" {
		filename = DefaultFilename
	}
	return filepath.Join(root, filename+Extension)
}

// Entry renders the block for one release. Sections appear only for
// non-empty categories, always in features, fixes, others order.
func Entry(version string, date time.Time, bucket model.CommitBucket) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(version + " / " + date.Format(DateLayout) + "\n")
	sb.WriteString(underline + "\n")

	writeSection(&sb, "features", bucket.Features)
	writeSection(&sb, "fixes", bucket.Fixes)
	writeSection(&sb, "others", bucket.Others)

	return sb.String()
}

func writeSection(sb *strings.Builder, label string, records []model.CommitRecord) {
	if len(records) == 0 {
		return
	}
	lines := make([]string, len(records))
	for i, rec := range records {
		lines[i] = rec.Raw
	}
	sb.WriteString("\n**" + label + "**\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n")
}

// Compose places a new entry above the existing changelog contents.
func Compose(entry, existing string) string {
	return entry + existing
}

// Update prepends the entry for version to the changelog at path, creating
// the file if needed, and returns the entry that was written.
func Update(path, version string, date time.Time, bucket model.CommitBucket) (string, error) {
	existing, err := os.ReadFile(path) // #nosec G304
	if err != nil && !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "read changelog %s", path)
	}

	entry := Entry(version, date, bucket)
	if err := os.WriteFile(path, []byte(Compose(entry, string(existing))), 0644); err != nil { // #nosec G306
		return "", errors.Wrapf(err, "write changelog %s", path)
	}

	return entry, nil
}
