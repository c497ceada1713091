// Package publisher runs a release from version selection to git push:
// it resolves the version, shows the pending commits, runs the pre-release
// checks, updates the changelog and manifest, publishes the package and
// pushes the release commit and tag.
package publisher

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/grokify/releaseconductor/internal/changelog"
	"github.com/grokify/releaseconductor/internal/collector"
	"github.com/grokify/releaseconductor/internal/prompt"
	"github.com/grokify/releaseconductor/internal/releaser"
	"github.com/grokify/releaseconductor/pkg/model"
)

var (
	// ErrAborted means the operator abandoned the release. It is not a
	// failure: nothing past the pre-release checks has been touched.
	ErrAborted = errors.New("release aborted")

	// ErrAuditDeclined means the operator declined a pre-release audit.
	ErrAuditDeclined = errors.New("pre-release audit declined")
)

// Options configures a publish run.
type Options struct {
	// Root is the project root holding package.json.
	Root string

	// Registry is used unless the manifest sets publishConfig.registry.
	Registry string

	// Filename is the changelog base name without extension.
	Filename string

	// NPM enables the registry publish step.
	NPM bool

	// GitHubRelease creates a GitHub release after pushing.
	GitHubRelease bool

	// Stage lists extra files committed with the release.
	Stage []string
}

// PreReleaseChecker runs the audits and the changelog question.
type PreReleaseChecker interface {
	Check(ctx context.Context, registry string) (model.PreCheck, error)
}

// PackagePublisher drives the registry client.
type PackagePublisher interface {
	Publish(ctx context.Context, tag, registry string) error
	DistTags(ctx context.Context) (string, error)
}

// TagResolver picks the dist-tag for a version.
type TagResolver interface {
	SafeTag(ctx context.Context, name, version, registry string) (string, error)
}

// VCS records the release in version control.
type VCS interface {
	Release(ctx context.Context, version string, files ...string) error
}

// RepoLocator names the hosted repository the release belongs to.
type RepoLocator interface {
	RemoteRepo() (model.RepoRef, error)
}

// Publisher wires the release steps to their collaborators.
type Publisher struct {
	Options  Options
	Commits  collector.CommitSource
	Prompter prompt.Prompter
	Checker  PreReleaseChecker
	Registry PackagePublisher
	Tags     TagResolver
	VCS      VCS
	Releases releaser.Releaser
	Repo     RepoLocator
	Logger   *zap.Logger

	// Now returns the changelog date and result timestamp.
	Now func() time.Time
}

func (p *Publisher) logger() *zap.SugaredLogger {
	if p.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return p.Logger.Sugar()
}

func (p *Publisher) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Publisher) filename() string {
	if p.Options.Filename == "" {
		return changelog.DefaultFilename
	}
	return p.Options.Filename
}

func (p *Publisher) validate() error {
	switch {
	case p.Commits == nil:
		return errors.New("publisher: no commit source")
	case p.Checker == nil:
		return errors.New("publisher: no pre-release checker")
	case p.VCS == nil:
		return errors.New("publisher: no version control")
	case p.Options.NPM && (p.Registry == nil || p.Tags == nil):
		return errors.New("publisher: registry publishing needs a client and a tag resolver")
	case p.Options.GitHubRelease && (p.Releases == nil || p.Repo == nil):
		return errors.New("publisher: GitHub release needs a releaser and a repository")
	}
	return nil
}
