// Package release provides semantic version parsing and bump operations.
// This file contains the Version value type used across the module.
package release

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version is a three-component semantic version as declared in the manifest.
// The zero value is "0.0.0". Versions are immutable; bump operations return
// new values and never mutate the receiver.
type Version struct {
	major uint64
	minor uint64
	patch uint64
}

// NewVersion constructs a Version from its components.
func NewVersion(major, minor, patch uint64) Version {
	return Version{major: major, minor: minor, patch: patch}
}

// ParseVersion parses a bare "major.minor.patch" string into a Version.
// Parsing is strict: all three components must be present, numeric and
// non-negative, and prerelease or build metadata suffixes are rejected
// because a manifest release is always an exact triple.
//
// Parsing is atomic - on error no partially constructed Version is returned.
func ParseVersion(s string) (Version, error) {
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return Version{}, WrapErrorf(ErrInvalidVersion, "cannot parse %q", s)
	}

	if v.Prerelease() != "" || v.Metadata() != "" {
		return Version{}, WrapErrorf(ErrInvalidVersion, "release %q must not carry prerelease or build metadata", s)
	}

	return Version{major: v.Major(), minor: v.Minor(), patch: v.Patch()}, nil
}

// Validate reports whether s is a valid release version string.
// It is a convenience wrapper around ParseVersion for callers that only
// need the boolean answer.
func Validate(s string) bool {
	_, err := ParseVersion(s)
	return err == nil
}

// Major returns the major component.
func (v Version) Major() uint64 { return v.major }

// Minor returns the minor component.
func (v Version) Minor() uint64 { return v.minor }

// Patch returns the patch component.
func (v Version) Patch() uint64 { return v.patch }

// String serializes the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

// Tag returns the source-control tag name for this version using the
// given prefix, conventionally "v" (e.g. "v1.2.3").
func (v Version) Tag(prefix string) string {
	return prefix + v.String()
}

// Compare orders versions component-wise, major first. It returns -1 when
// v is lower than o, 0 when equal and 1 when higher.
func (v Version) Compare(o Version) int {
	pairs := [3][2]uint64{
		{v.major, o.major},
		{v.minor, o.minor},
		{v.patch, o.patch},
	}

	for _, p := range pairs {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}

	return 0
}

// NextPatch returns the version with the patch component incremented.
func (v Version) NextPatch() Version {
	return Version{major: v.major, minor: v.minor, patch: v.patch + 1}
}

// NextMinor returns the version with the minor component incremented
// and the patch component reset to zero.
func (v Version) NextMinor() Version {
	return Version{major: v.major, minor: v.minor + 1}
}

// NextMajor returns the version with the major component incremented
// and the minor and patch components reset to zero.
func (v Version) NextMajor() Version {
	return Version{major: v.major + 1}
}

// BumpLevel identifies which version component a bump targets.
type BumpLevel string

const (
	// BumpPatch increments the patch component.
	BumpPatch BumpLevel = "patch"

	// BumpMinor increments the minor component and resets patch.
	BumpMinor BumpLevel = "minor"

	// BumpMajor increments the major component and resets minor and patch.
	BumpMajor BumpLevel = "major"
)

// ParseBumpLevel parses a bump level string, accepting exactly
// "patch", "minor" or "major".
func ParseBumpLevel(s string) (BumpLevel, error) {
	switch BumpLevel(s) {
	case BumpPatch, BumpMinor, BumpMajor:
		return BumpLevel(s), nil
	default:
		return "", WrapErrorf(ErrInvalidRef, "unknown bump level %q", s)
	}
}

// Bump returns the next version for the given level.
func (v Version) Bump(level BumpLevel) (Version, error) {
	switch level {
	case BumpPatch:
		return v.NextPatch(), nil
	case BumpMinor:
		return v.NextMinor(), nil
	case BumpMajor:
		return v.NextMajor(), nil
	default:
		return Version{}, WrapErrorf(ErrInvalidRef, "unknown bump level %q", level)
	}
}
