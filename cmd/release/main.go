// Command release automates cutting releases: resolving the current
// version, bumping version components, and regenerating the changelog.
package main

import (
	"log/slog"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-libs/release"
)

// flags shared by every subcommand.
var (
	flagDir          string
	flagManifest     string
	flagChangelog    string
	flagTagPrefix    string
	flagConfig       string
	flagDebug        bool
	flagConventional bool
)

func main() {
	root := &cobra.Command{
		Use:           "release",
		Short:         "Release automation: versions, tags and changelog",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVarP(&flagDir, "dir", "C", ".", "project directory")
	root.PersistentFlags().StringVar(&flagManifest, "manifest", "", "manifest file path (default Cargo.toml)")
	root.PersistentFlags().StringVar(&flagChangelog, "changelog", "", "changelog file path (default CHANGELOG.md)")
	root.PersistentFlags().StringVar(&flagTagPrefix, "tag-prefix", "", "tag prefix (default \"v\")")
	root.PersistentFlags().StringVar(&flagConfig, "config", release.DefaultConfigPath, "configuration file path")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&flagConventional, "conventional", false, "classify conventional-commit subjects")

	root.AddCommand(
		newCurrentCmd(),
		newBumpCmd(),
		newSetCmd(),
		newChangelogCmd(),
		newCutCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// openRepo opens the repository described by the global flags, layering the
// optional configuration file under any explicit flag values.
func openRepo(cmd *cobra.Command) (*release.Repo, error) {
	fs := osfs.New(flagDir)

	cfg, err := release.LoadConfig(fs, flagConfig)
	if err != nil {
		return nil, err
	}

	opts := &release.Options{
		FS:                   fs,
		ManifestPath:         flagManifest,
		ChangelogPath:        flagChangelog,
		TagPrefix:            flagTagPrefix,
		ConventionalFallback: flagConventional,
	}
	cfg.Apply(opts)

	if flagDebug {
		opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	return release.Open(cmd.Context(), opts)
}
