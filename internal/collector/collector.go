// Package collector gathers the commits made since the last release.
package collector

import (
	"context"
)

// CommitSource provides the commit log for the upcoming release, one commit
// per line in the form "<markup> - <subject> (<author>)".
type CommitSource interface {
	// Fetch refreshes remote refs so the log reflects published tags.
	Fetch(ctx context.Context) error

	// CommitLog returns the commits since the latest release tag.
	CommitLog(ctx context.Context) (string, error)
}

// Fetcher updates remote refs. It is implemented by vcs.Git.
type Fetcher interface {
	Fetch(ctx context.Context) error
}
