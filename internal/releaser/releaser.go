package releaser

import (
	"context"

	"github.com/grokify/releaseconductor/pkg/model"
)

// Releaser creates hosted releases for pushed tags.
type Releaser interface {
	// CreateRelease creates a new release for a repository.
	CreateRelease(ctx context.Context, req *model.ReleaseRequest) (*model.Release, error)
}

// Options configures release behavior.
type Options struct {
	GenerateNotes bool // Use GitHub's auto-generated release notes
	Draft         bool // Create as draft
}

// DefaultOptions returns sensible default release options.
func DefaultOptions() Options {
	return Options{
		GenerateNotes: false,
		Draft:         false,
	}
}

// NewRequest builds a release request for a version tag. The changelog
// entry becomes the release body.
func NewRequest(repo model.RepoRef, version, body string, opts Options) *model.ReleaseRequest {
	prerelease := false
	if v, err := Parse(version); err == nil {
		prerelease = v.IsPrerelease()
	}
	return &model.ReleaseRequest{
		Repo:          repo,
		TagName:       version,
		Name:          version,
		Body:          body,
		Draft:         opts.Draft,
		Prerelease:    prerelease,
		GenerateNotes: opts.GenerateNotes,
	}
}

// NewGitHub creates a new GitHub releaser with the given token.
func NewGitHub(token string) Releaser {
	return NewGitHubReleaser(token)
}
