package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-libs/release"
)

// newCurrentCmd prints the resolved display version.
func newCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the current version, with drift and dirty suffixes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cmd)
			if err != nil {
				return err
			}

			version, err := repo.CurrentVersion(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

// newBumpCmd bumps one version component in the manifest.
func newBumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bump patch|minor|major",
		Short: "Bump the manifest version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := release.ParseBumpLevel(args[0])
			if err != nil {
				return err
			}

			repo, err := openRepo(cmd)
			if err != nil {
				return err
			}

			manifest := repo.Manifest()
			oldVersion, err := manifest.Release()
			if err != nil {
				return err
			}

			newVersion, err := oldVersion.Bump(level)
			if err != nil {
				return err
			}

			if err := manifest.SetRelease(newVersion); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Old Version: %s\n", oldVersion)
			fmt.Fprintf(cmd.OutOrStdout(), "New Version: %s\n", newVersion)
			return nil
		},
	}
}

// newSetCmd writes an explicit version to the manifest.
func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <version>",
		Short: "Set the manifest version to an explicit value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := release.ParseVersion(args[0])
			if err != nil {
				return err
			}

			repo, err := openRepo(cmd)
			if err != nil {
				return err
			}

			return repo.Manifest().SetRelease(version)
		},
	}
}

// newChangelogCmd regenerates the changelog for a tag range.
func newChangelogCmd() *cobra.Command {
	var since string
	var initFile bool

	cmd := &cobra.Command{
		Use:   "changelog <new-tag>",
		Short: "Regenerate the changelog with a section for the new tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cmd)
			if err != nil {
				return err
			}

			changelog := repo.Changelog()

			if initFile {
				if err := changelog.Init(); err != nil {
					return err
				}
			}

			sinceTag := since
			if sinceTag == "" {
				sinceTag, err = repo.LastTag(cmd.Context())
				if err != nil && !errors.Is(err, release.ErrTagMissing) {
					return err
				}
			}

			result, err := changelog.Generate(cmd.Context(), args[0], sinceTag)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Changelog updated: %s\n", changelog.Path())
			reportSkipped(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "range start tag (default: last reachable tag)")
	cmd.Flags().BoolVar(&initFile, "init", false, "create a header-only changelog if none exists")

	return cmd
}

// newCutCmd runs the full release procedure.
func newCutCmd() *cobra.Command {
	var dry bool
	var since string
	var name string
	var email string

	cmd := &cobra.Command{
		Use:   "cut patch|minor|major|<version>",
		Short: "Cut a release: bump, changelog, commit and tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cmd)
			if err != nil {
				return err
			}

			result, err := repo.Cut(cmd.Context(), release.CutRequest{
				Target:   args[0],
				SinceTag: since,
				DryRun:   dry,
				Who: release.Signature{
					Name:  name,
					Email: email,
				},
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dry {
				fmt.Fprintln(out, "Dry run complete, no files were modified.")
			} else {
				fmt.Fprintln(out, "Release cut successful!")
			}
			fmt.Fprintf(out, "Old Version: %s\n", result.OldVersion)
			fmt.Fprintf(out, "New Version: %s\n", result.NewVersion)
			fmt.Fprintf(out, "Tag:         %s\n", result.Tag)

			if len(result.UpdatedFiles) > 0 {
				if dry {
					fmt.Fprintln(out, "Files that would be updated:")
				} else {
					fmt.Fprintln(out, "Files updated:")
				}
				for _, f := range result.UpdatedFiles {
					fmt.Fprintf(out, "  %s\n", f)
				}
			}

			reportSkipped(cmd, result.Changelog)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dry, "dry", false, "report without modifying files or the repository")
	cmd.Flags().StringVar(&since, "since", "", "changelog range start tag (default: last reachable tag)")
	cmd.Flags().StringVar(&name, "name", os.Getenv("GIT_AUTHOR_NAME"), "release author name")
	cmd.Flags().StringVar(&email, "email", os.Getenv("GIT_AUTHOR_EMAIL"), "release author email")

	return cmd
}

// reportSkipped lists commit subjects that matched no changelog convention.
func reportSkipped(cmd *cobra.Command, result *release.GenerateResult) {
	if result == nil || len(result.Skipped) == 0 {
		return
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Skipped commits (no category):")
	for _, record := range result.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s %s\n", record.ShortHash, record.Subject)
	}
}
