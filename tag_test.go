package release

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateTag tests tag creation operations
func TestCreateTag(t *testing.T) {
	t.Run("lightweight tag on HEAD", func(t *testing.T) {
		tr := setupTestRepoWithManifest(t)

		err := tr.repo.CreateTag(tr.ctx, "v1.0.0", "HEAD", "", testSignature, false)
		require.NoError(t, err)

		exists, err := tr.repo.TagExists(tr.ctx, "v1.0.0")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("annotated tag peels to its target commit", func(t *testing.T) {
		tr := setupTestRepoWithManifest(t)

		err := tr.repo.CreateTag(tr.ctx, "v1.0.0", "HEAD", "release 1.0.0", testSignature, true)
		require.NoError(t, err)

		// An annotated tag on HEAD still resolves as the last tag.
		tag, err := tr.repo.LastTag(tr.ctx)
		require.NoError(t, err)
		assert.Equal(t, "v1.0.0", tag)
	})

	t.Run("duplicate tag fails", func(t *testing.T) {
		tr := setupTestRepoWithManifest(t)
		tr.tagHead(t, "v1.0.0")

		err := tr.repo.CreateTag(tr.ctx, "v1.0.0", "HEAD", "", testSignature, false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTagExists))
	})

	t.Run("empty name fails", func(t *testing.T) {
		tr := setupTestRepoWithManifest(t)

		err := tr.repo.CreateTag(tr.ctx, "", "HEAD", "", testSignature, false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidRef))
	})
}

// TestCommit tests commit creation guards
func TestCommit(t *testing.T) {
	t.Run("empty message fails", func(t *testing.T) {
		tr := setupTestRepoWithManifest(t)

		_, err := tr.repo.Commit(tr.ctx, "", testSignature)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidRef))
	})

	t.Run("missing signature fails", func(t *testing.T) {
		tr := setupTestRepoWithManifest(t)

		_, err := tr.repo.Commit(tr.ctx, "message", Signature{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidRef))
	})

	t.Run("nothing staged fails", func(t *testing.T) {
		tr := setupTestRepoWithManifest(t)

		_, err := tr.repo.Commit(tr.ctx, "message", testSignature)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmptyCommit))
	})

	t.Run("add ignores missing paths", func(t *testing.T) {
		tr := setupTestRepoWithManifest(t)

		err := tr.repo.Add(tr.ctx, "does-not-exist.txt", "")
		require.NoError(t, err)
	})
}
