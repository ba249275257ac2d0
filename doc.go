// Package release automates the release procedure for projects whose
// canonical version lives in a manifest line of the form:
//
//	version = "1.2.3"
//
// It derives display versions from manifest and tag state, bumps version
// components, and regenerates a Keep-a-Changelog style changelog from the
// commit history. All git access is in-process via go-git, and all file
// access goes through a billy filesystem, so every operation works against
// on-disk and in-memory repositories alike.
//
// # Basic Usage
//
// Open a repository and resolve the current version:
//
//	import (
//	    "context"
//	    "github.com/go-git/go-billy/v5/osfs"
//	    "github.com/input-output-hk/catalyst-forge-libs/release"
//	)
//
//	repo, err := release.Open(context.Background(), &release.Options{
//	    FS: osfs.New("/path/to/project"),
//	})
//	if err != nil {
//	    // handle error
//	}
//
//	version, err := repo.CurrentVersion(ctx)
//	// "1.2.3" for an exact tagged checkout,
//	// "1.2.3-abc1234" when HEAD drifted from the tag,
//	// with "-dirty" appended when local edits exist.
//
// # Bumping Versions
//
// Version values are immutable; bumps return new values and the manifest
// is only written on request:
//
//	m := repo.Manifest()
//	current, err := m.Release()
//	err = m.SetRelease(current.NextMinor())
//
// # Cutting a Release
//
// Cut runs the whole procedure: bump, changelog, commit, tag:
//
//	result, err := repo.Cut(ctx, release.CutRequest{
//	    Target: "minor",
//	    Who:    release.Signature{Name: "Release Bot", Email: "release@example.com"},
//	})
//
// # Commit Subject Convention
//
// Changelog sections group commits by a bracketed category prefix in the
// subject, "[Feature] add search". Subjects matching neither this nor
// (optionally) the conventional-commit form are reported in the skipped
// list of the generation result, never dropped silently.
//
// # Error Handling
//
// All failures wrap sentinel errors (ErrInvalidVersion, ErrTagMissing,
// ErrQueryFailed, ErrChangelogMissing, ...) and can be checked with
// errors.Is(). No operation retries; errors propagate to the caller.
//
// # Concurrency
//
// The package assumes a single invocation at a time. The manifest and
// changelog are accessed without locking; running two invocations against
// the same worktree concurrently is a precondition violation.
package release
