package publisher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/grokify/releaseconductor/internal/prompt"
	"github.com/grokify/releaseconductor/internal/releaser"
	"github.com/grokify/releaseconductor/pkg/model"
)

const sampleLog = "  * [[`a1b2c3d`](https://github.com/acme/widget/commit/a1b2c3d)] - feat: add widget (Jane <<jane@example.com>>)\n" +
	"  * [[`b2c3d4e`](https://github.com/acme/widget/commit/b2c3d4e)] - fix(core): crash on start (Jane <<jane@example.com>>)\n" +
	"  * [[`c3d4e5f`](https://github.com/acme/widget/commit/c3d4e5f)] - docs: readme (Jane <<jane@example.com>>)\n" +
	"  * [[`d4e5f6a`](https://github.com/acme/widget/commit/d4e5f6a)] - Release 0.1.0 (Jane <<jane@example.com>>)"

type fakeSource struct {
	log     string
	fetches int
	reads   int
}

func (s *fakeSource) Fetch(context.Context) error {
	s.fetches++
	return nil
}

func (s *fakeSource) CommitLog(context.Context) (string, error) {
	s.reads++
	return s.log, nil
}

type fakeChecker struct {
	result   model.PreCheck
	registry string
}

func (c *fakeChecker) Check(_ context.Context, registry string) (model.PreCheck, error) {
	c.registry = registry
	return c.result, nil
}

type fakeRegistry struct {
	published []string
	distTags  int
	err       error
}

func (r *fakeRegistry) Publish(_ context.Context, tag, registry string) error {
	r.published = append(r.published, tag+"@"+registry)
	return r.err
}

func (r *fakeRegistry) DistTags(context.Context) (string, error) {
	r.distTags++
	return "latest: 0.1.1", nil
}

type fakeTags struct {
	tag  string
	args []string
}

func (f *fakeTags) SafeTag(_ context.Context, name, version, registry string) (string, error) {
	f.args = []string{name, version, registry}
	return f.tag, nil
}

type fakeVCS struct {
	version string
	files   []string
	calls   int
}

func (v *fakeVCS) Release(_ context.Context, version string, files ...string) error {
	v.calls++
	v.version = version
	v.files = files
	return nil
}

type fakeReleaser struct {
	req *model.ReleaseRequest
}

func (f *fakeReleaser) CreateRelease(_ context.Context, req *model.ReleaseRequest) (*model.Release, error) {
	f.req = req
	return &model.Release{TagName: req.TagName, HTMLURL: "https://github.com/acme/widget/releases/tag/" + req.TagName}, nil
}

type fakeRepo struct{}

func (fakeRepo) RemoteRepo() (model.RepoRef, error) {
	return model.RepoRef{Owner: "acme", Name: "widget"}, nil
}

type fixture struct {
	root     string
	source   *fakeSource
	checker  *fakeChecker
	registry *fakeRegistry
	tags     *fakeTags
	vcs      *fakeVCS
	logs     *observer.ObservedLogs
	pub      *Publisher
}

var fixedNow = time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, manifestJSON string) *fixture {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(manifestJSON), 0644))

	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{
		root:     root,
		source:   &fakeSource{log: sampleLog},
		checker:  &fakeChecker{result: model.PreCheck{Files: model.AuditPassed, Dependencies: model.AuditPassed, Changelog: true}},
		registry: &fakeRegistry{},
		tags:     &fakeTags{tag: "latest"},
		vcs:      &fakeVCS{},
		logs:     logs,
	}
	f.pub = &Publisher{
		Options: Options{
			Root:     root,
			Registry: "https://registry.npmjs.org",
			Filename: "CHANGELOG",
			NPM:      true,
		},
		Commits:  f.source,
		Prompter: prompt.Static{},
		Checker:  f.checker,
		Registry: f.registry,
		Tags:     f.tags,
		VCS:      f.vcs,
		Logger:   zap.New(core),
		Now:      func() time.Time { return fixedNow },
	}
	return f
}

func (f *fixture) manifestVersion(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.root, "package.json"))
	require.NoError(t, err)
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, `"version"`) {
			return strings.Trim(strings.TrimSpace(strings.SplitN(line, ":", 2)[1]), `",`)
		}
	}
	return ""
}

func (f *fixture) logged(msg string) bool {
	for _, e := range f.logs.All() {
		if strings.Contains(e.Message, msg) {
			return true
		}
	}
	return false
}

const fooManifest = `{
  "name": "foo",
  "version": "0.1.0"
}
`

func TestRun_PatchRelease(t *testing.T) {
	f := newFixture(t, fooManifest)

	result, err := f.pub.Run(context.Background(), "patch")
	require.NoError(t, err)

	assert.Equal(t, "0.1.1", f.manifestVersion(t))
	assert.Equal(t, "0.1.0", result.PreviousVersion)
	assert.Equal(t, "0.1.1", result.Version)

	data, err := os.ReadFile(filepath.Join(f.root, "CHANGELOG.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\n0.1.1 / 2024-03-05\n==================\n"))
	assert.Contains(t, string(data), "**features**\n  * [[`a1b2c3d`]")
	assert.Contains(t, string(data), "**fixes**\n")
	assert.Contains(t, string(data), "**others**\n")
	assert.NotContains(t, string(data), "Release 0.1.0")

	assert.Equal(t, []string{"foo", "0.1.1", "https://registry.npmjs.org"}, f.tags.args)
	assert.Equal(t, []string{"latest@https://registry.npmjs.org"}, f.registry.published)
	assert.Equal(t, 1, f.registry.distTags)
	assert.Equal(t, "0.1.1", f.vcs.version)
	assert.Equal(t, []string{"package.json", "CHANGELOG.md"}, f.vcs.files)

	assert.True(t, f.logged("commits to publish"))
	assert.True(t, f.logged("publish new version (version: 0.1.1, tag: latest) finished"))
	assert.True(t, f.logged("push 0.1.1 to git successfully"))

	assert.True(t, result.Published)
	assert.True(t, result.Pushed)
	assert.True(t, result.ChangelogWritten)
	assert.Equal(t, 1, result.Features)
	assert.Equal(t, 1, result.Fixes)
	assert.Equal(t, 1, result.Others)
	assert.Equal(t, fixedNow, result.Timestamp)
}

func TestRun_CommitLogReadOnce(t *testing.T) {
	f := newFixture(t, fooManifest)

	_, err := f.pub.Run(context.Background(), "minor")
	require.NoError(t, err)

	assert.Equal(t, 1, f.source.fetches)
	assert.Equal(t, 1, f.source.reads)
}

func TestRun_NoNPMWithHistory(t *testing.T) {
	f := newFixture(t, fooManifest)
	f.pub.Options.NPM = false
	f.pub.Options.Filename = "HISTORY"

	result, err := f.pub.Run(context.Background(), "patch")
	require.NoError(t, err)

	assert.Equal(t, "0.1.1", f.manifestVersion(t))
	assert.FileExists(t, filepath.Join(f.root, "HISTORY.md"))
	assert.NoFileExists(t, filepath.Join(f.root, "CHANGELOG.md"))
	assert.Empty(t, f.registry.published)
	assert.Nil(t, f.tags.args)
	assert.False(t, f.logged("publish new version"))
	assert.True(t, f.logged("push 0.1.1 to git successfully"))
	assert.Equal(t, []string{"package.json", "HISTORY.md"}, f.vcs.files)
	assert.False(t, result.Published)
}

func TestRun_Rejected(t *testing.T) {
	f := newFixture(t, fooManifest)
	f.checker.result = model.PreCheck{Rejected: true}

	_, err := f.pub.Run(context.Background(), "patch")
	require.ErrorIs(t, err, ErrAborted)

	assert.Equal(t, "0.1.0", f.manifestVersion(t))
	assert.NoFileExists(t, filepath.Join(f.root, "CHANGELOG.md"))
	assert.Empty(t, f.registry.published)
	assert.Equal(t, 0, f.vcs.calls)
}

func TestRun_AuditDeclined(t *testing.T) {
	f := newFixture(t, fooManifest)
	f.checker.result = model.PreCheck{Files: model.AuditPassed, Dependencies: model.AuditDeclined}

	_, err := f.pub.Run(context.Background(), "patch")
	require.ErrorIs(t, err, ErrAuditDeclined)
	assert.Contains(t, err.Error(), "dependencies audit")

	assert.Equal(t, "0.1.0", f.manifestVersion(t))
	assert.Equal(t, 0, f.vcs.calls)
}

func TestRun_ChangelogDeclined(t *testing.T) {
	f := newFixture(t, fooManifest)
	f.checker.result.Changelog = false

	result, err := f.pub.Run(context.Background(), "patch")
	require.NoError(t, err)

	assert.Equal(t, "0.1.1", f.manifestVersion(t))
	assert.NoFileExists(t, filepath.Join(f.root, "CHANGELOG.md"))
	assert.Equal(t, []string{"package.json"}, f.vcs.files)
	assert.False(t, result.ChangelogWritten)
}

func TestRun_InvalidVersion(t *testing.T) {
	f := newFixture(t, fooManifest)

	_, err := f.pub.Run(context.Background(), "invalidVersion")
	require.ErrorIs(t, err, releaser.ErrInvalidVersion)
	assert.Contains(t, err.Error(), "version(invalidVersion) is not in major/minor/patch and semver format")

	assert.Equal(t, "0.1.0", f.manifestVersion(t))
	assert.NoFileExists(t, filepath.Join(f.root, "CHANGELOG.md"))
	assert.Equal(t, 0, f.source.reads)
}

func TestRun_ExplicitVersion(t *testing.T) {
	f := newFixture(t, fooManifest)

	result, err := f.pub.Run(context.Background(), "0.0.9")
	require.NoError(t, err)
	assert.Equal(t, "0.0.9", result.Version)
	assert.Equal(t, "0.0.9", f.manifestVersion(t))
}

func TestRun_InteractiveVersion(t *testing.T) {
	f := newFixture(t, fooManifest)
	f.pub.Prompter = prompt.Static{Version: "1.0.0"}

	result, err := f.pub.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", result.Version)
}

type abortingPrompter struct{ prompt.Static }

func (abortingPrompter) SelectVersion(model.VersionTriple) (string, error) {
	return "", prompt.ErrAborted
}

func TestRun_InteractiveAborted(t *testing.T) {
	f := newFixture(t, fooManifest)
	f.pub.Prompter = abortingPrompter{}

	_, err := f.pub.Run(context.Background(), "")
	require.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, "0.1.0", f.manifestVersion(t))
}

func TestRun_PublishConfigRegistry(t *testing.T) {
	f := newFixture(t, `{
  "name": "foo",
  "version": "0.1.0",
  "publishConfig": {
    "registry": "https://registry.example.com"
  }
}
`)
	f.tags.tag = "latest-0"

	_, err := f.pub.Run(context.Background(), "patch")
	require.NoError(t, err)

	assert.Equal(t, "https://registry.example.com", f.checker.registry)
	assert.Equal(t, []string{"latest-0@https://registry.example.com"}, f.registry.published)
}

func TestRun_PublishFailureKeepsFiles(t *testing.T) {
	f := newFixture(t, fooManifest)
	f.registry.err = errors.New("npm ERR! 403")

	_, err := f.pub.Run(context.Background(), "patch")
	require.Error(t, err)

	assert.Equal(t, "0.1.1", f.manifestVersion(t))
	assert.FileExists(t, filepath.Join(f.root, "CHANGELOG.md"))
	assert.Equal(t, 0, f.vcs.calls)
}

func TestRun_GitHubRelease(t *testing.T) {
	f := newFixture(t, fooManifest)
	rel := &fakeReleaser{}
	f.pub.Options.GitHubRelease = true
	f.pub.Options.Stage = []string{"package-lock.json"}
	f.pub.Releases = rel
	f.pub.Repo = fakeRepo{}

	result, err := f.pub.Run(context.Background(), "patch")
	require.NoError(t, err)

	require.NotNil(t, rel.req)
	assert.Equal(t, "acme/widget", rel.req.Repo.FullName())
	assert.Equal(t, "0.1.1", rel.req.TagName)
	assert.Contains(t, rel.req.Body, "0.1.1 / 2024-03-05")
	assert.Equal(t, "https://github.com/acme/widget/releases/tag/0.1.1", result.ReleaseURL)
	assert.Equal(t, []string{"package.json", "CHANGELOG.md", "package-lock.json"}, f.vcs.files)
}

func TestRun_MissingCollaborators(t *testing.T) {
	f := newFixture(t, fooManifest)
	f.pub.Tags = nil

	_, err := f.pub.Run(context.Background(), "patch")
	require.Error(t, err)
	assert.Equal(t, "0.1.0", f.manifestVersion(t))
}

func TestRunState_CommitsMemoized(t *testing.T) {
	src := &fakeSource{log: sampleLog}
	state := &runState{}

	first, err := state.commits(context.Background(), src)
	require.NoError(t, err)
	second, err := state.commits(context.Background(), src)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, src.reads)
	assert.Equal(t, 3, first.Len())
}

func TestRun_ExplicitVersionWithUnparsableCurrent(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{"short version", "{\n  \"name\": \"foo\",\n  \"version\": \"1.0\"\n}\n"},
		{"no version", "{\n  \"name\": \"foo\"\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.manifest)

			result, err := f.pub.Run(context.Background(), "2.0.0")
			require.NoError(t, err)
			assert.Equal(t, "2.0.0", result.Version)
			assert.Equal(t, "2.0.0", f.manifestVersion(t))
			assert.Equal(t, "2.0.0", f.vcs.version)
		})
	}
}

func TestRun_BumpWithUnparsableCurrent(t *testing.T) {
	f := newFixture(t, "{\n  \"name\": \"foo\",\n  \"version\": \"1.0\"\n}\n")

	_, err := f.pub.Run(context.Background(), "patch")
	require.ErrorIs(t, err, releaser.ErrInvalidVersion)
	assert.Equal(t, "1.0", f.manifestVersion(t))
	assert.Equal(t, 0, f.vcs.calls)
}

func TestRun_PrefixedCurrentBumpsBare(t *testing.T) {
	f := newFixture(t, "{\n  \"name\": \"foo\",\n  \"version\": \"v1.0.0\"\n}\n")

	result, err := f.pub.Run(context.Background(), "patch")
	require.NoError(t, err)
	assert.Equal(t, "1.0.1", result.Version)
	assert.Equal(t, "1.0.1", f.manifestVersion(t))
}
