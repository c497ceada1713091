// Package registry publishes packages through the npm-compatible client and
// chooses a dist-tag that will not move "latest" backwards.
package registry

import (
	"context"

	"github.com/grokify/releaseconductor/internal/runner"
)

const (
	// DefaultRegistry is used when neither the flag nor the manifest names one.
	DefaultRegistry = "https://registry.npmjs.org"

	// DefaultClient is the publishing client binary.
	DefaultClient = "npm"

	// LatestTag is the default dist-tag.
	LatestTag = "latest"
)

// Client runs the registry client binary in the project root.
type Client struct {
	Runner runner.Runner
	Dir    string
	Bin    string
}

// NewClient returns a Client using bin, or npm when bin is empty.
func NewClient(r runner.Runner, dir, bin string) *Client {
	if bin == "" {
		bin = DefaultClient
	}
	return &Client{Runner: r, Dir: dir, Bin: bin}
}

// PublishArgs builds the publish arguments. The --tag flag is only passed for
// tags other than latest.
func PublishArgs(tag, registry string) []string {
	if tag == "" {
		tag = LatestTag
	}
	args := []string{"publish"}
	if tag != LatestTag {
		args = append(args, "--tag", tag)
	}
	return append(args, "--registry="+registry)
}

// Publish publishes the package under tag to registry.
func (c *Client) Publish(ctx context.Context, tag, registry string) error {
	_, err := c.Runner.Run(ctx, runner.Options{
		Command: c.Bin,
		Args:    PublishArgs(tag, registry),
		Dir:     c.Dir,
	})
	return err
}

// DistTags lists the dist-tags of the package.
func (c *Client) DistTags(ctx context.Context) (string, error) {
	return c.Runner.Run(ctx, runner.Options{
		Command: c.Bin,
		Args:    []string{"dist-tag", "ls"},
		Dir:     c.Dir,
		Capture: true,
	})
}
