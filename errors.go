// Package release provides sentinel errors for release operations.
// All errors can be checked using errors.Is() for programmatic handling.
package release

import (
	"errors"
	"fmt"
)

// Common sentinel errors that can be checked with errors.Is().
// These wrap underlying go-git and filesystem errors while providing
// a stable API for consumers.

// ErrInvalidVersion is returned when a version string fails validation:
// fewer than three components, non-numeric or negative components, or
// prerelease/build metadata where a bare release is required.
var ErrInvalidVersion = errors.New("invalid version")

// ErrVersionMissing is returned when the manifest contains no
// version declaration line.
var ErrVersionMissing = errors.New("no version declaration in manifest")

// ErrTagMissing is returned when a tag lookup is required to succeed
// but the tag does not exist in the repository.
var ErrTagMissing = errors.New("tag does not exist")

// ErrTagExists is returned when attempting to create a tag that already exists.
var ErrTagExists = errors.New("tag already exists")

// ErrQueryFailed is returned when an underlying source-control query fails.
// Query failures are unrecoverable for the current invocation; callers
// should report and exit rather than retry.
var ErrQueryFailed = errors.New("source control query failed")

// ErrChangelogMissing is returned when the changelog file is absent or does
// not begin with the fixed header block, so there is nothing safe to
// prepend onto. Changelog.Init creates a fresh header-only file.
var ErrChangelogMissing = errors.New("changelog file missing or malformed")

// ErrEmptyCommit is returned when a commit is requested with no staged changes.
var ErrEmptyCommit = errors.New("no changes staged for commit")

// ErrInvalidRef is returned when a reference name, revision specification,
// or operation input is malformed.
var ErrInvalidRef = errors.New("invalid reference")

// WrapError wraps an error with additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
