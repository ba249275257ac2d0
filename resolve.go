// Package release provides release automation on top of go-git.
// This file contains display-version resolution.
package release

import "context"

// CurrentVersion resolves a human-readable identifier for the current
// repository state. An exact, clean checkout of the release tag yields the
// bare version; anything else gains disambiguating suffixes:
//
//	1.2.3             tagged snapshot, clean worktree
//	1.2.3-abc1234     HEAD differs from the release tag (or tag absent)
//	1.2.3-dirty       tagged snapshot with uncommitted local edits
//	1.2.3-abc1234-dirty  both
//
// The result is a display string, not a parseable Version.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) CurrentVersion(ctx context.Context) (string, error) {
	version, err := r.Manifest().Release()
	if err != nil {
		return "", err
	}

	out := version.String()

	differs, err := r.DiffersFromRelease(ctx, version)
	if err != nil {
		return "", err
	}
	if differs {
		short, headErr := r.ShortHead(ctx)
		if headErr != nil {
			return "", headErr
		}
		out += "-" + short
	}

	dirty, err := r.HasUncommittedChanges(ctx)
	if err != nil {
		return "", err
	}
	if dirty {
		out += "-dirty"
	}

	r.logDebug("resolved current version", "version", out, "drift", differs, "dirty", dirty)

	return out, nil
}
