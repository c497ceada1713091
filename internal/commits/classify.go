// Package commits sorts raw commit log lines into changelog categories.
package commits

import (
	"regexp"
	"strings"

	"github.com/grokify/releaseconductor/pkg/model"
)

// Separator divides the hash/link markup of a log line from its subject.
const Separator = " - "

var (
	releasePattern = regexp.MustCompile(`(?i)^release \d+\.\d+\.\d+`)
	featPattern    = regexp.MustCompile(`(?i)^feat(\([\w-]+\))?:`)
	fixPattern     = regexp.MustCompile(`(?i)^fix(\([\w-]+\))?:`)
)

// Classify parses a commit log, one commit per line, into a bucket.
// Prior release commits and lines without a message are dropped.
func Classify(log string) model.CommitBucket {
	var bucket model.CommitBucket

	for _, line := range strings.Split(log, "\n") {
		line = strings.TrimRight(line, "\r")
		msg := Message(line)
		if msg == "" || IsRelease(msg) {
			continue
		}
		bucket.Add(model.CommitRecord{
			Raw:      line,
			Message:  msg,
			Category: Categorize(msg),
		})
	}

	return bucket
}

// Message returns the subject of a log line: everything after the first
// separator, or the trimmed line when there is none.
func Message(line string) string {
	if idx := strings.Index(line, Separator); idx >= 0 {
		return strings.TrimSpace(line[idx+len(Separator):])
	}
	return strings.TrimSpace(line)
}

// IsRelease reports whether a subject marks a previous release.
func IsRelease(subject string) bool {
	return releasePattern.MatchString(subject)
}

// Categorize matches a subject against the conventional commit prefixes.
func Categorize(subject string) model.CommitCategory {
	switch {
	case featPattern.MatchString(subject):
		return model.CategoryFeature
	case fixPattern.MatchString(subject):
		return model.CategoryFix
	default:
		return model.CategoryOther
	}
}
