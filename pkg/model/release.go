package model

import "time"

// Release represents a GitHub release.
type Release struct {
	ID          int64     `json:"id"`
	TagName     string    `json:"tagName"`
	Name        string    `json:"name"`
	Body        string    `json:"body,omitempty"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	CreatedAt   time.Time `json:"createdAt"`
	PublishedAt time.Time `json:"publishedAt"`
	HTMLURL     string    `json:"htmlUrl"`
	Repo        RepoRef   `json:"repo"`
}

// ReleaseRequest contains the information needed to create a new release.
type ReleaseRequest struct {
	Repo            RepoRef `json:"repo"`
	TagName         string  `json:"tagName"`
	TargetCommitish string  `json:"targetCommitish,omitempty"` // Branch or commit SHA
	Name            string  `json:"name"`
	Body            string  `json:"body"`
	Draft           bool    `json:"draft"`
	Prerelease      bool    `json:"prerelease"`
	GenerateNotes   bool    `json:"generateNotes"`
}

// PublishResult summarizes one publish run.
type PublishResult struct {
	Timestamp        time.Time `json:"timestamp" yaml:"timestamp"`
	Package          string    `json:"package" yaml:"package"`
	PreviousVersion  string    `json:"previousVersion" yaml:"previousVersion"`
	Version          string    `json:"version" yaml:"version"`
	DistTag          string    `json:"distTag,omitempty" yaml:"distTag,omitempty"`
	Registry         string    `json:"registry,omitempty" yaml:"registry,omitempty"`
	ChangelogPath    string    `json:"changelogPath,omitempty" yaml:"changelogPath,omitempty"`
	ChangelogWritten bool      `json:"changelogWritten" yaml:"changelogWritten"`
	Published        bool      `json:"published" yaml:"published"`
	Pushed           bool      `json:"pushed" yaml:"pushed"`
	ReleaseURL       string    `json:"releaseUrl,omitempty" yaml:"releaseUrl,omitempty"`
	Features         int       `json:"features" yaml:"features"`
	Fixes            int       `json:"fixes" yaml:"fixes"`
	Others           int       `json:"others" yaml:"others"`
}

// Commits returns the total number of commits in the release.
func (r *PublishResult) Commits() int {
	return r.Features + r.Fixes + r.Others
}
