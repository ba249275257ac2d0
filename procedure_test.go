package release

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupReleaseReady builds a repository with a committed manifest, a
// committed changelog and a v1.0.0 tag, plus one categorized commit on top.
func setupReleaseReady(t *testing.T) *testRepo {
	t.Helper()

	tr := setupTestRepoWithManifest(t)
	tr.initChangelog(t)
	tr.tagHead(t, "v1.0.0")

	tr.writeFile(t, "search.go", "package demo")
	tr.commitFiles(t, "[Feature] add search", "search.go")

	return tr
}

// TestCut tests the end-to-end release procedure
func TestCut(t *testing.T) {
	tr := setupReleaseReady(t)

	result, err := tr.repo.Cut(tr.ctx, CutRequest{
		Target: "patch",
		Who:    testSignature,
	})
	require.NoError(t, err)

	assert.Equal(t, NewVersion(1, 0, 0), result.OldVersion)
	assert.Equal(t, NewVersion(1, 0, 1), result.NewVersion)
	assert.Equal(t, "v1.0.1", result.Tag)
	assert.Equal(t, "v1.0.0", result.SinceTag)
	assert.NotEmpty(t, result.CommitHash)
	require.NotNil(t, result.Changelog)

	// Manifest now declares the new release.
	v, err := tr.repo.Manifest().Release()
	require.NoError(t, err)
	assert.Equal(t, NewVersion(1, 0, 1), v)

	// The changelog gained the new section.
	content := tr.readFile(t, DefaultChangelogPath)
	assert.True(t, strings.HasPrefix(content, changelogHeader))
	assert.Contains(t, content, "## [v1.0.1] 2025-06-01")
	assert.Contains(t, content, "### Feature:")

	// The release commit and tag exist and the worktree is clean again.
	exists, err := tr.repo.TagExists(tr.ctx, "v1.0.1")
	require.NoError(t, err)
	assert.True(t, exists)

	dirty, err := tr.repo.HasUncommittedChanges(tr.ctx)
	require.NoError(t, err)
	assert.False(t, dirty)

	// The fresh checkout of the new release resolves to the bare version.
	version, err := tr.repo.CurrentVersion(tr.ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.0.1", version)
}

// TestCutExplicitVersion tests cutting with an explicit target version
func TestCutExplicitVersion(t *testing.T) {
	tr := setupReleaseReady(t)

	result, err := tr.repo.Cut(tr.ctx, CutRequest{
		Target: "2.0.0",
		Who:    testSignature,
	})
	require.NoError(t, err)
	assert.Equal(t, NewVersion(2, 0, 0), result.NewVersion)
	assert.Equal(t, "v2.0.0", result.Tag)
}

// TestCutDryRun tests that a dry run reports without writing
func TestCutDryRun(t *testing.T) {
	tr := setupReleaseReady(t)

	result, err := tr.repo.Cut(tr.ctx, CutRequest{
		Target: "minor",
		DryRun: true,
	})
	require.NoError(t, err)

	assert.Equal(t, NewVersion(1, 1, 0), result.NewVersion)
	assert.Equal(t, "v1.1.0", result.Tag)
	assert.Empty(t, result.CommitHash)
	assert.Nil(t, result.Changelog)
	assert.Equal(t, []string{DefaultManifestPath, DefaultChangelogPath}, result.UpdatedFiles)

	// Nothing was written or tagged.
	v, err := tr.repo.Manifest().Release()
	require.NoError(t, err)
	assert.Equal(t, NewVersion(1, 0, 0), v)

	exists, err := tr.repo.TagExists(tr.ctx, "v1.1.0")
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestCutRejectsExistingTag tests the duplicate-release guard
func TestCutRejectsExistingTag(t *testing.T) {
	tr := setupReleaseReady(t)
	tr.tagHead(t, "v1.0.1")

	_, err := tr.repo.Cut(tr.ctx, CutRequest{
		Target: "patch",
		Who:    testSignature,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTagExists))
}

// TestCutRejectsBadTarget tests target validation
func TestCutRejectsBadTarget(t *testing.T) {
	tr := setupReleaseReady(t)

	_, err := tr.repo.Cut(tr.ctx, CutRequest{
		Target: "gigantic",
		Who:    testSignature,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidVersion))
}

// TestCutRequiresSignature tests that non-dry cuts need a signature
func TestCutRequiresSignature(t *testing.T) {
	tr := setupReleaseReady(t)

	_, err := tr.repo.Cut(tr.ctx, CutRequest{Target: "patch"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRef))
}

// TestCutWithoutPreviousTag tests cutting the very first release
func TestCutWithoutPreviousTag(t *testing.T) {
	tr := setupTestRepoWithManifest(t)
	tr.initChangelog(t)

	result, err := tr.repo.Cut(tr.ctx, CutRequest{
		Target: "minor",
		Who:    testSignature,
	})
	require.NoError(t, err)

	assert.Equal(t, "", result.SinceTag)
	require.NotNil(t, result.Changelog)

	// The section covers the full history.
	content := tr.readFile(t, DefaultChangelogPath)
	assert.Contains(t, content, "## [v1.1.0] 2025-06-01")
	assert.Contains(t, content, "### Chore:")
}
