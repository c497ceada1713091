package releaser

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v84/github"
	"github.com/grokify/gogithub/auth"
	"github.com/grokify/gogithub/release"

	"github.com/grokify/releaseconductor/pkg/model"
)

// GitHubReleaser implements Releaser for GitHub.
type GitHubReleaser struct {
	client *github.Client
}

// NewGitHubReleaser creates a new GitHub releaser.
func NewGitHubReleaser(token string) *GitHubReleaser {
	ctx := context.Background()
	client := auth.NewGitHubClient(ctx, token)
	return &GitHubReleaser{
		client: client,
	}
}

// NewGitHubReleaserWithClient wraps an existing client, e.g. one pointed at
// a test server or GitHub Enterprise.
func NewGitHubReleaserWithClient(client *github.Client) *GitHubReleaser {
	return &GitHubReleaser{client: client}
}

// CreateRelease creates a new release for a repository.
func (r *GitHubReleaser) CreateRelease(ctx context.Context, req *model.ReleaseRequest) (*model.Release, error) {
	ghRelease := &github.RepositoryRelease{
		TagName:              github.Ptr(req.TagName),
		Name:                 github.Ptr(req.Name),
		Body:                 github.Ptr(req.Body),
		Draft:                github.Ptr(req.Draft),
		Prerelease:           github.Ptr(req.Prerelease),
		GenerateReleaseNotes: github.Ptr(req.GenerateNotes),
	}

	if req.TargetCommitish != "" {
		ghRelease.TargetCommitish = github.Ptr(req.TargetCommitish)
	}

	created, err := release.CreateRelease(ctx, r.client, req.Repo.Owner, req.Repo.Name, ghRelease)
	if err != nil {
		return nil, errors.Wrapf(err, "create release %s for %s", req.TagName, req.Repo.FullName())
	}

	return &model.Release{
		ID:          created.GetID(),
		TagName:     created.GetTagName(),
		Name:        created.GetName(),
		Body:        created.GetBody(),
		Draft:       created.GetDraft(),
		Prerelease:  created.GetPrerelease(),
		CreatedAt:   created.GetCreatedAt().Time,
		PublishedAt: created.GetPublishedAt().Time,
		HTMLURL:     created.GetHTMLURL(),
		Repo:        req.Repo,
	}, nil
}
