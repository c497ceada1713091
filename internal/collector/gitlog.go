package collector

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/grokify/releaseconductor/internal/releaser"
	"github.com/grokify/releaseconductor/pkg/model"
)

// RemoteName is the remote used to build commit links.
const RemoteName = "origin"

// GitLog reads the commit log of a local repository.
type GitLog struct {
	Dir     string
	Fetcher Fetcher
}

// NewGitLog returns a GitLog for the working tree at dir.
func NewGitLog(dir string, fetcher Fetcher) *GitLog {
	return &GitLog{Dir: dir, Fetcher: fetcher}
}

// Fetch refreshes remote refs. Without a Fetcher it does nothing.
func (g *GitLog) Fetch(ctx context.Context) error {
	if g.Fetcher == nil {
		return nil
	}
	if err := g.Fetcher.Fetch(ctx); err != nil {
		return errors.Wrap(err, "git fetch")
	}
	return nil
}

// CommitLog lists the commits reachable from HEAD but not from the highest
// semver tag, newest first. With no semver tag the whole history is listed.
func (g *GitLog) CommitLog(ctx context.Context) (string, error) {
	repo, err := g.open()
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", errors.Wrap(err, "resolve HEAD")
	}

	released, err := releasedCommits(repo)
	if err != nil {
		return "", err
	}

	base := repoURL(repo)

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return "", errors.Wrap(err, "read log")
	}
	defer iter.Close()

	var lines []string
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if released[c.Hash] {
			return nil
		}
		lines = append(lines, FormatCommit(c, base))
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "walk log")
	}

	return strings.Join(lines, "\n"), nil
}

// RemoteRepo returns the owner and name of the origin remote.
func (g *GitLog) RemoteRepo() (model.RepoRef, error) {
	repo, err := g.open()
	if err != nil {
		return model.RepoRef{}, err
	}
	url, err := remoteURL(repo)
	if err != nil {
		return model.RepoRef{}, err
	}
	_, ref, ok := ParseRemoteURL(url)
	if !ok {
		return model.RepoRef{}, errors.Newf("cannot parse remote url %q", url)
	}
	return ref, nil
}

func (g *GitLog) open() (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(g.Dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrapf(err, "open repository %s", g.Dir)
	}
	return repo, nil
}

// FormatCommit renders a commit as a changelog-ready log line.
func FormatCommit(c *object.Commit, repoURL string) string {
	sha := c.Hash.String()
	short := sha[:7]
	subject := strings.TrimSpace(strings.SplitN(c.Message, "\n", 2)[0])

	var ref string
	if repoURL != "" {
		ref = fmt.Sprintf("[[`%s`](%s/commit/%s)]", short, repoURL, sha)
	} else {
		ref = fmt.Sprintf("[`%s`]", short)
	}
	return fmt.Sprintf("  * %s - %s (%s <<%s>>)", ref, subject, c.Author.Name, c.Author.Email)
}

// releasedCommits returns every commit reachable from the highest semver tag.
func releasedCommits(repo *git.Repository) (map[plumbing.Hash]bool, error) {
	tags := map[string]plumbing.Hash{}
	iter, err := repo.Tags()
	if err != nil {
		return nil, errors.Wrap(err, "list tags")
	}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags[ref.Name().Short()] = ref.Hash()
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "list tags")
	}

	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	latest := releaser.FindLatestVersion(names)
	if latest == "" {
		return map[plumbing.Hash]bool{}, nil
	}

	commit, err := tagCommit(repo, tags[latest])
	if err != nil {
		return nil, errors.Wrapf(err, "resolve tag %s", latest)
	}

	released := map[plumbing.Hash]bool{}
	ancestors, err := repo.Log(&git.LogOptions{From: commit})
	if err != nil {
		return nil, errors.Wrapf(err, "read log of %s", latest)
	}
	defer ancestors.Close()
	err = ancestors.ForEach(func(c *object.Commit) error {
		released[c.Hash] = true
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, errors.Wrapf(err, "walk log of %s", latest)
	}
	return released, nil
}

// tagCommit peels annotated tags down to their commit.
func tagCommit(repo *git.Repository, hash plumbing.Hash) (plumbing.Hash, error) {
	tag, err := repo.TagObject(hash)
	switch {
	case err == nil:
		c, err := tag.Commit()
		if err != nil {
			return plumbing.ZeroHash, err
		}
		return c.Hash, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return hash, nil
	default:
		return plumbing.ZeroHash, err
	}
}

func remoteURL(repo *git.Repository) (string, error) {
	remote, err := repo.Remote(RemoteName)
	if err != nil {
		return "", errors.Wrapf(err, "remote %s", RemoteName)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", errors.Newf("remote %s has no url", RemoteName)
	}
	return urls[0], nil
}

// repoURL returns the browsable https URL of origin, or "" without one.
func repoURL(repo *git.Repository) string {
	url, err := remoteURL(repo)
	if err != nil {
		return ""
	}
	host, ref, ok := ParseRemoteURL(url)
	if !ok {
		return ""
	}
	return "https://" + host + "/" + ref.FullName()
}

// ParseRemoteURL splits a git remote URL into host and owner/name. It accepts
// https, ssh:// and scp-like (git@host:owner/name.git) forms.
func ParseRemoteURL(raw string) (string, model.RepoRef, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")

	var host, path string
	if idx := strings.Index(s, "://"); idx >= 0 {
		rest := s[idx+3:]
		slash := strings.Index(rest, "/")
		if slash < 0 {
			return "", model.RepoRef{}, false
		}
		host, path = rest[:slash], rest[slash+1:]
	} else {
		colon := strings.Index(s, ":")
		if colon < 0 {
			return "", model.RepoRef{}, false
		}
		host, path = s[:colon], s[colon+1:]
	}

	if at := strings.LastIndex(host, "@"); at >= 0 {
		host = host[at+1:]
	}
	if colon := strings.Index(host, ":"); colon >= 0 {
		host = host[:colon]
	}

	ref := model.ParseRepoRef(strings.TrimPrefix(path, "/"))
	if host == "" || ref.Owner == "" || ref.Name == "" {
		return "", model.RepoRef{}, false
	}
	return host, ref, true
}
