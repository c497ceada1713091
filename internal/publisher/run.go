package publisher

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/grokify/releaseconductor/internal/changelog"
	"github.com/grokify/releaseconductor/internal/manifest"
	"github.com/grokify/releaseconductor/internal/prompt"
	"github.com/grokify/releaseconductor/internal/registry"
	"github.com/grokify/releaseconductor/internal/releaser"
	"github.com/grokify/releaseconductor/pkg/model"
)

// Run performs a release. token is a bump keyword, an explicit version, or
// empty to ask the operator. Every failure aborts the run; files already
// written stay written.
func (p *Publisher) Run(ctx context.Context, token string) (*model.PublishResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	log := p.logger()
	state := &runState{}

	// prepare
	m, err := manifest.LoadDir(p.Options.Root)
	if err != nil {
		return nil, err
	}
	state.manifest = m
	state.triple = releaser.Increments(m.Version())

	// resolve version
	if err := p.resolve(state, token); err != nil {
		return nil, err
	}

	// show commits
	if err := p.Commits.Fetch(ctx); err != nil {
		return nil, err
	}
	bucket, err := state.commits(ctx, p.Commits)
	if err != nil {
		return nil, err
	}
	log.Info("commits to publish:")
	for _, msg := range bucket.Messages {
		log.Info(msg)
	}

	// safe tag
	state.registry = m.Registry(p.registryFlag())
	if p.Options.NPM {
		state.tag, err = p.Tags.SafeTag(ctx, m.Name(), state.version, state.registry)
		if err != nil {
			return nil, errors.Wrap(err, "resolve dist-tag")
		}
		log.Infof("to publish version: %s, tag: %s", state.version, state.tag)
	} else {
		log.Infof("to publish version: %s", state.version)
	}

	// pre-release checks
	pre, err := p.Checker.Check(ctx, state.registry)
	if err != nil {
		return nil, errors.Wrap(err, "pre-release check")
	}
	if pre.Rejected {
		log.Warn("release cancelled")
		return nil, ErrAborted
	}
	if declined := pre.Declined(); declined != "" {
		return nil, errors.Wrapf(ErrAuditDeclined, "%s audit", declined)
	}

	result := &model.PublishResult{
		Timestamp:       p.now(),
		Package:         m.Name(),
		PreviousVersion: state.triple.Current,
		Version:         state.version,
		Features:        len(bucket.Features),
		Fixes:           len(bucket.Fixes),
		Others:          len(bucket.Others),
	}

	// changelog
	changelogPath := changelog.Path(p.Options.Root, p.filename())
	entry, err := p.writeChangelog(ctx, state, pre.Changelog, changelogPath, result)
	if err != nil {
		return nil, err
	}

	// manifest
	if err := m.SetVersion(state.version); err != nil {
		return nil, err
	}
	log.Infof("update %s to %s", manifest.Filename, state.version)

	// publish
	if p.Options.NPM {
		if err := p.Registry.Publish(ctx, state.tag, state.registry); err != nil {
			return nil, errors.Wrap(err, "publish")
		}
		if _, err := p.Registry.DistTags(ctx); err != nil {
			return nil, errors.Wrap(err, "list dist-tags")
		}
		result.Published = true
		result.DistTag = state.tag
		result.Registry = state.registry
		log.Infof("publish new version (version: %s, tag: %s) finished", state.version, state.tag)
	}

	// push
	files := p.stagedFiles(changelogPath)
	if err := p.VCS.Release(ctx, state.version, files...); err != nil {
		return nil, err
	}
	result.Pushed = true
	log.Infof("push %s to git successfully", state.version)

	// hosted release
	if p.Options.GitHubRelease {
		if err := p.createRelease(ctx, state, entry, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (p *Publisher) resolve(state *runState, token string) error {
	if token != "" {
		v, err := releaser.ResolveVersion(state.triple, token)
		if err != nil {
			return err
		}
		state.version = v
	} else {
		v, err := p.selectVersion(state.triple)
		if err != nil {
			return err
		}
		state.version = v
	}
	state.triple.Target = state.version
	return nil
}

func (p *Publisher) selectVersion(triple model.VersionTriple) (string, error) {
	if p.Prompter == nil {
		return "", errors.Wrap(prompt.ErrNoTerminal, "no version given")
	}
	v, err := p.Prompter.SelectVersion(triple)
	if errors.Is(err, prompt.ErrAborted) {
		return "", ErrAborted
	}
	if err != nil {
		return "", errors.Wrap(err, "select version")
	}
	return releaser.ResolveVersion(triple, v)
}

func (p *Publisher) registryFlag() string {
	if p.Options.Registry == "" {
		return registry.DefaultRegistry
	}
	return p.Options.Registry
}

// writeChangelog prepends the entry when confirmed and returns the entry
// text either way, for use as the release body.
func (p *Publisher) writeChangelog(ctx context.Context, state *runState, confirmed bool, path string, result *model.PublishResult) (string, error) {
	bucket, err := state.commits(ctx, p.Commits)
	if err != nil {
		return "", err
	}
	if !confirmed {
		return changelog.Entry(state.version, result.Timestamp, *bucket), nil
	}

	entry, err := changelog.Update(path, state.version, result.Timestamp, *bucket)
	if err != nil {
		return "", err
	}
	result.ChangelogPath = path
	result.ChangelogWritten = true
	p.logger().Infof("update %s", path)
	return entry, nil
}

// stagedFiles lists the files committed with the release, relative to the
// project root. The changelog is included only when it exists.
func (p *Publisher) stagedFiles(changelogPath string) []string {
	files := []string{manifest.Filename}
	if _, err := os.Stat(changelogPath); err == nil {
		files = append(files, p.filename()+changelog.Extension)
	}
	return append(files, p.Options.Stage...)
}

func (p *Publisher) createRelease(ctx context.Context, state *runState, body string, result *model.PublishResult) error {
	repo, err := p.Repo.RemoteRepo()
	if err != nil {
		return errors.Wrap(err, "locate GitHub repository")
	}
	req := releaser.NewRequest(repo, state.version, body, releaser.DefaultOptions())
	rel, err := p.Releases.CreateRelease(ctx, req)
	if err != nil {
		return err
	}
	result.ReleaseURL = rel.HTMLURL
	p.logger().Infof("create GitHub release %s", rel.HTMLURL)
	return nil
}
