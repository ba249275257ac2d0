// Package release provides release automation on top of go-git.
// This file contains the end-to-end release procedure.
package release

import (
	"context"
	"errors"
)

// CutRequest describes one release cut.
type CutRequest struct {
	// Target selects the next version: a bump level ("patch", "minor",
	// "major") or an explicit version like "1.2.3".
	Target string

	// Who signs the release commit and tag.
	Who Signature

	// SinceTag overrides the start of the changelog range. When empty, the
	// last tag reachable from HEAD is used; a repository with no tags gets
	// its full history.
	SinceTag string

	// DryRun computes versions and reports what would change without
	// touching the manifest, the changelog or the repository.
	DryRun bool
}

// CutResult reports what a release cut did (or, for a dry run, would do).
type CutResult struct {
	// OldVersion is the release read from the manifest.
	OldVersion Version

	// NewVersion is the release that was (or would be) cut.
	NewVersion Version

	// Tag is the tag name for the new release.
	Tag string

	// SinceTag is the changelog range start that was used, if any.
	SinceTag string

	// CommitHash is the SHA of the release commit. Empty for dry runs.
	CommitHash string

	// Changelog is the generation report. Nil for dry runs.
	Changelog *GenerateResult

	// UpdatedFiles lists the files the cut rewrites.
	UpdatedFiles []string
}

// Cut performs a full release: it bumps the manifest version, regenerates
// the changelog since the previous tag, commits both files and tags the
// commit. Any failure surfaces immediately; no step is retried.
//
// The worktree is expected to be clean apart from the files the cut itself
// touches; staging is limited to the manifest and the changelog.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) Cut(ctx context.Context, req CutRequest) (*CutResult, error) {
	manifest := r.Manifest()

	oldVersion, err := manifest.Release()
	if err != nil {
		return nil, err
	}

	newVersion, err := nextVersion(oldVersion, req.Target)
	if err != nil {
		return nil, err
	}

	tag := newVersion.Tag(r.options.TagPrefix)

	exists, err := r.TagExists(ctx, tag)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, WrapErrorf(ErrTagExists, "release %s is already tagged", newVersion)
	}

	sinceTag := req.SinceTag
	if sinceTag == "" {
		sinceTag, err = r.LastTag(ctx)
		if err != nil && !errors.Is(err, ErrTagMissing) {
			return nil, err
		}
		// No previous tag: the changelog section covers the full history.
	}

	result := &CutResult{
		OldVersion:   oldVersion,
		NewVersion:   newVersion,
		Tag:          tag,
		SinceTag:     sinceTag,
		UpdatedFiles: []string{manifest.Path(), r.options.ChangelogPath},
	}

	if req.DryRun {
		return result, nil
	}

	if req.Who.Name == "" || req.Who.Email == "" {
		return nil, WrapError(ErrInvalidRef, "release signature name and email are required")
	}
	if req.Who.When.IsZero() {
		req.Who.When = r.options.Now()
	}

	if err := manifest.SetRelease(newVersion); err != nil {
		return nil, err
	}

	result.Changelog, err = r.Changelog().Generate(ctx, tag, sinceTag)
	if err != nil {
		return nil, err
	}

	if err := r.Add(ctx, result.UpdatedFiles...); err != nil {
		return nil, err
	}

	result.CommitHash, err = r.Commit(ctx, "release "+newVersion.String(), req.Who)
	if err != nil {
		return nil, err
	}

	if err := r.CreateTag(ctx, tag, "HEAD", "release "+newVersion.String(), req.Who, true); err != nil {
		return nil, err
	}

	r.logDebug("release cut", "old", oldVersion.String(), "new", newVersion.String(), "tag", tag)

	return result, nil
}

// nextVersion resolves a cut target into the version to release.
func nextVersion(current Version, target string) (Version, error) {
	if level, err := ParseBumpLevel(target); err == nil {
		return current.Bump(level)
	}

	next, err := ParseVersion(target)
	if err != nil {
		return Version{}, WrapErrorf(err, "target %q is neither a bump level nor a version", target)
	}

	return next, nil
}
