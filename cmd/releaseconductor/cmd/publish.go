package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/grokify/releaseconductor/internal/audit"
	"github.com/grokify/releaseconductor/internal/changelog"
	"github.com/grokify/releaseconductor/internal/collector"
	"github.com/grokify/releaseconductor/internal/config"
	"github.com/grokify/releaseconductor/internal/prompt"
	"github.com/grokify/releaseconductor/internal/publisher"
	"github.com/grokify/releaseconductor/internal/registry"
	"github.com/grokify/releaseconductor/internal/releaser"
	"github.com/grokify/releaseconductor/internal/report"
	"github.com/grokify/releaseconductor/internal/runner"
	"github.com/grokify/releaseconductor/internal/vcs"
	"github.com/grokify/releaseconductor/pkg/model"
)

var publishCmd = &cobra.Command{
	Use:   "publish [major | minor | patch | version]",
	Short: "Generate changelog, publish to npm and push to git",
	Long: `Release the package in the current directory.

The version is a bump keyword (major, minor, patch) applied to the version
in package.json, or an explicit semantic version. Without one you are asked
to choose.

Steps:
  1. list the commits since the last version tag
  2. run the profile's audits and ask whether to update the changelog
  3. prepend the release entry to <filename>.md
  4. write the new version into package.json
  5. publish with <client> under a safe dist-tag (unless --npm=false)
  6. commit "Release <version>", tag <version> and push both

Examples:
  # Patch release
  releaseconductor publish patch

  # Explicit version, changelog in HISTORY.md, no registry publish
  releaseconductor publish 2.0.0 --filename HISTORY --npm=false

  # Publish with cnpm to a private registry
  releaseconductor publish minor -c cnpm -r https://registry.example.com`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPublish,
}

// newRunner builds the runner shared by git, the registry client and the
// audits.
var newRunner = func(logger *zap.Logger, out io.Writer) runner.Runner {
	return runner.NewExecRunner(logger, out)
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringP("registry", "r", registry.DefaultRegistry, "set npm's registry")
	publishCmd.Flags().StringP("filename", "f", changelog.DefaultFilename, "changelog file name, without .md")
	publishCmd.Flags().StringP("client", "c", registry.DefaultClient, "npm client used to publish")
	publishCmd.Flags().BoolP("npm", "n", true, "whether to publish to npm")
	publishCmd.Flags().Bool("no-npm", false, "skip publishing to npm")
	publishCmd.Flags().String("dir", ".", "project root containing package.json")
	publishCmd.Flags().String("profile", "node", fmt.Sprintf("release profile: %v", config.ListProfiles()))
	publishCmd.Flags().String("profile-file", "", "load the release profile from a YAML file")
	publishCmd.Flags().Bool("github-release", false, "create a GitHub release after pushing")
	publishCmd.Flags().BoolP("yes", "y", false, "answer yes to every confirmation")
	_ = publishCmd.Flags().MarkHidden("no-npm")

	_ = viper.BindPFlag("publish.registry", publishCmd.Flags().Lookup("registry"))
	_ = viper.BindPFlag("publish.filename", publishCmd.Flags().Lookup("filename"))
	_ = viper.BindPFlag("publish.client", publishCmd.Flags().Lookup("client"))
	_ = viper.BindPFlag("publish.npm", publishCmd.Flags().Lookup("npm"))
	_ = viper.BindPFlag("publish.no-npm", publishCmd.Flags().Lookup("no-npm"))
	_ = viper.BindPFlag("publish.dir", publishCmd.Flags().Lookup("dir"))
	_ = viper.BindPFlag("publish.profile", publishCmd.Flags().Lookup("profile"))
	_ = viper.BindPFlag("publish.profile-file", publishCmd.Flags().Lookup("profile-file"))
	_ = viper.BindPFlag("publish.github-release", publishCmd.Flags().Lookup("github-release"))
	_ = viper.BindPFlag("publish.yes", publishCmd.Flags().Lookup("yes"))
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	root, err := filepath.Abs(viper.GetString("publish.dir"))
	if err != nil {
		return errors.Wrap(err, "resolve project root")
	}

	profile, err := config.Resolve(viper.GetString("publish.profile"), viper.GetString("publish.profile-file"))
	if err != nil {
		return err
	}

	formatter, err := report.NewFormatter(viper.GetString("format"))
	if err != nil {
		return err
	}

	githubRelease := viper.GetBool("publish.github-release") || profile.GitHubRelease
	token := viper.GetString("token")
	if githubRelease && token == "" {
		return errors.New("GitHub token required for --github-release. Set GITHUB_TOKEN or use --token flag")
	}

	logger := newLogger(cmd.OutOrStdout(), viper.GetBool("verbose"))
	defer func() { _ = logger.Sync() }()

	run := newRunner(logger, cmd.OutOrStdout())
	git := vcs.New(run, root)
	gitLog := collector.NewGitLog(root, git)
	filename := viper.GetString("publish.filename")

	var prompter prompt.Prompter = prompt.NewTeaPrompter()
	if viper.GetBool("publish.yes") {
		prompter = prompt.Static{Answer: true}
	}

	pub := &publisher.Publisher{
		Options: publisher.Options{
			Root:          root,
			Registry:      viper.GetString("publish.registry"),
			Filename:      filename,
			NPM:           viper.GetBool("publish.npm") && !viper.GetBool("publish.no-npm"),
			GitHubRelease: githubRelease,
			Stage:         profile.Stage,
		},
		Commits:  gitLog,
		Prompter: prompter,
		Checker: &audit.Checker{
			Runner:       run,
			Prompter:     prompter,
			Dir:          root,
			Files:        newAuditor(profile.Audits.Files),
			Dependencies: newAuditor(profile.Audits.Dependencies),
			Changelog:    filepath.Base(changelog.Path(root, filename)),
			Logger:       logger,
		},
		Registry: registry.NewClient(run, root, viper.GetString("publish.client")),
		Tags:     registry.NewTagResolver(registry.ResolverConfig{}),
		VCS:      git,
		Repo:     gitLog,
		Logger:   logger,
	}
	if githubRelease {
		pub.Releases = releaser.NewGitHub(token)
	}

	var version string
	if len(args) > 0 {
		version = args[0]
	}

	result, err := pub.Run(ctx, version)
	if errors.Is(err, publisher.ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}

	output, err := formatter.FormatPublishResult(result)
	if err != nil {
		return errors.Wrap(err, "failed to format output")
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

// newAuditor names an auditor after the tool it runs, looking past npx.
func newAuditor(spec model.CommandSpec) audit.Auditor {
	name := spec.Command
	if (name == "npx" || name == "pnpx") && len(spec.Args) > 0 {
		name = spec.Args[0]
	}
	return audit.Auditor{Name: name, Command: spec.Command, Args: spec.Args}
}
