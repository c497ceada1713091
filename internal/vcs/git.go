// Package vcs records a release in git: it commits the bumped files, tags the
// release and pushes both to origin.
package vcs

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/grokify/releaseconductor/internal/runner"
)

// Remote is the remote every push goes to.
const Remote = "origin"

// Git drives the git command line in a working tree.
type Git struct {
	Runner runner.Runner
	Dir    string
	Bin    string
}

// New returns a Git for the working tree at dir.
func New(r runner.Runner, dir string) *Git {
	return &Git{Runner: r, Dir: dir, Bin: "git"}
}

func (g *Git) run(ctx context.Context, args ...string) error {
	bin := g.Bin
	if bin == "" {
		bin = "git"
	}
	_, err := g.Runner.Run(ctx, runner.Options{Command: bin, Args: args, Dir: g.Dir})
	return err
}

// Fetch updates remote-tracking refs and tags from the default remote.
func (g *Git) Fetch(ctx context.Context) error {
	return g.run(ctx, "fetch")
}

// Add stages files.
func (g *Git) Add(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	return g.run(ctx, append([]string{"add"}, files...)...)
}

// Commit commits all tracked changes with message.
func (g *Git) Commit(ctx context.Context, message string) error {
	return g.run(ctx, "commit", "-am", message)
}

// Tag creates a lightweight tag.
func (g *Git) Tag(ctx context.Context, name string) error {
	return g.run(ctx, "tag", name)
}

// Push pushes the current branch.
func (g *Git) Push(ctx context.Context) error {
	return g.run(ctx, "push", Remote)
}

// PushTags pushes all tags.
func (g *Git) PushTags(ctx context.Context) error {
	return g.run(ctx, "push", Remote, "--tags")
}

// Release stages files, commits "Release <version>", tags <version> and
// pushes the branch and the tags. It stops at the first failing step.
func (g *Git) Release(ctx context.Context, version string, files ...string) error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"add", func() error { return g.Add(ctx, files...) }},
		{"commit", func() error { return g.Commit(ctx, "Release "+version) }},
		{"tag", func() error { return g.Tag(ctx, version) }},
		{"push", func() error { return g.Push(ctx) }},
		{"push tags", func() error { return g.PushTags(ctx) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return errors.Wrapf(err, "git %s for %s", s.name, version)
		}
	}
	return nil
}
