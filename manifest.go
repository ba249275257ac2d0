// Package release provides release automation on top of go-git.
// This file contains the manifest version store.
package release

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// versionLinePattern matches the manifest's version declaration line.
// Only the quoted value is rewritten; indentation, spacing and any
// trailing content on the line are preserved.
var versionLinePattern = regexp.MustCompile(`^(\s*version\s*=\s*")([^"]*)(".*)$`)

// Manifest reads and writes the single version declaration of a project
// manifest file. The manifest owns the canonical release version; all other
// manifest content is opaque to this type and preserved byte-for-byte.
type Manifest struct {
	fs   billy.Filesystem
	path string
}

// NewManifest returns a Manifest bound to the given filesystem and path.
// Callers working through a Repo should prefer Repo.Manifest, which binds
// the configured manifest path automatically.
func NewManifest(fs billy.Filesystem, path string) *Manifest {
	return &Manifest{fs: fs, path: path}
}

// Path returns the manifest path within its filesystem.
func (m *Manifest) Path() string {
	return m.path
}

// Release reads the manifest and parses its version declaration.
// Returns ErrVersionMissing when no version line is present and
// ErrInvalidVersion when the declared value is not a valid release.
func (m *Manifest) Release() (Version, error) {
	data, err := util.ReadFile(m.fs, m.path)
	if err != nil {
		return Version{}, WrapErrorf(err, "failed to read manifest %q", m.path)
	}

	for _, line := range strings.Split(string(data), "\n") {
		match := versionLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		v, parseErr := ParseVersion(match[2])
		if parseErr != nil {
			return Version{}, WrapErrorf(parseErr, "manifest %q declares", m.path)
		}

		return v, nil
	}

	return Version{}, WrapErrorf(ErrVersionMissing, "manifest %q", m.path)
}

// SetRelease rewrites the manifest's version declaration to v, leaving every
// other byte of the file unchanged. The file is replaced atomically so a
// failure mid-write never leaves a corrupt manifest behind.
func (m *Manifest) SetRelease(v Version) error {
	data, err := util.ReadFile(m.fs, m.path)
	if err != nil {
		return WrapErrorf(err, "failed to read manifest %q", m.path)
	}

	lines := strings.Split(string(data), "\n")
	replaced := false

	for i, line := range lines {
		match := versionLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		lines[i] = match[1] + v.String() + match[3]
		replaced = true
		break
	}

	if !replaced {
		return WrapErrorf(ErrVersionMissing, "manifest %q", m.path)
	}

	return writeFileAtomic(m.fs, m.path, []byte(strings.Join(lines, "\n")))
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a partially written file and an
// aborted write leaves the original intact.
func writeFileAtomic(fs billy.Filesystem, path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := fs.TempFile(dir, "."+filepath.Base(path)+"-")
	if err != nil {
		return WrapErrorf(err, "failed to create temporary file in %q", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return WrapErrorf(err, "failed to write %q", tmpName)
	}

	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return WrapErrorf(err, "failed to close %q", tmpName)
	}

	if err := fs.Rename(tmpName, path); err != nil {
		fs.Remove(tmpName)
		return WrapErrorf(err, "failed to replace %q", path)
	}

	return nil
}
