package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCurrentVersion tests display-version resolution across repository states
func TestCurrentVersion(t *testing.T) {
	t.Run("exact tagged clean checkout", func(t *testing.T) {
		tr := setupTestRepoWithManifest(t)
		tr.tagHead(t, "v1.0.0")

		version, err := tr.repo.CurrentVersion(tr.ctx)
		require.NoError(t, err)
		assert.Equal(t, "1.0.0", version)
	})

	t.Run("drift from release tag appends short hash", func(t *testing.T) {
		tr := setupTestRepoWithManifest(t)
		tr.tagHead(t, "v1.0.0")
		tr.writeFile(t, "feature.txt", "feature")
		tr.commitFiles(t, "[Feature] add feature", "feature.txt")

		short, err := tr.repo.ShortHead(tr.ctx)
		require.NoError(t, err)

		version, err := tr.repo.CurrentVersion(tr.ctx)
		require.NoError(t, err)
		assert.Equal(t, "1.0.0-"+short, version)
	})

	t.Run("missing tag appends short hash", func(t *testing.T) {
		tr := setupTestRepoWithManifest(t)

		short, err := tr.repo.ShortHead(tr.ctx)
		require.NoError(t, err)

		version, err := tr.repo.CurrentVersion(tr.ctx)
		require.NoError(t, err)
		assert.Equal(t, "1.0.0-"+short, version)
	})

	t.Run("uncommitted changes alone append dirty only", func(t *testing.T) {
		tr := setupTestRepoWithManifest(t)
		tr.tagHead(t, "v1.0.0")
		tr.writeFile(t, "scratch.txt", "wip")

		version, err := tr.repo.CurrentVersion(tr.ctx)
		require.NoError(t, err)
		assert.Equal(t, "1.0.0-dirty", version)
	})

	t.Run("drift and uncommitted changes append both suffixes", func(t *testing.T) {
		tr := setupTestRepoWithManifest(t)
		tr.tagHead(t, "v1.0.0")
		tr.writeFile(t, "feature.txt", "feature")
		tr.commitFiles(t, "[Feature] add feature", "feature.txt")
		tr.writeFile(t, "scratch.txt", "wip")

		short, err := tr.repo.ShortHead(tr.ctx)
		require.NoError(t, err)

		version, err := tr.repo.CurrentVersion(tr.ctx)
		require.NoError(t, err)
		assert.Equal(t, "1.0.0-"+short+"-dirty", version)
	})
}
