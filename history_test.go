package release

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCommitsSince tests commit range collection
func TestCommitsSince(t *testing.T) {
	tr := setupTestRepoWithManifest(t)
	tr.tagHead(t, "v1.0.0")

	tr.writeFile(t, "a.txt", "a")
	tr.commitFiles(t, "[Feature] add a", "a.txt")

	tr.writeFile(t, "b.txt", "b")
	tr.commitFiles(t, "[Fix] fix b\n\nLonger body that must not leak into the subject.", "b.txt")

	t.Run("range excludes the tagged commit", func(t *testing.T) {
		records, err := tr.repo.CommitsSince(tr.ctx, "v1.0.0")
		require.NoError(t, err)
		require.Len(t, records, 2)

		// Newest first.
		assert.Equal(t, "[Fix] fix b", records[0].Subject)
		assert.Equal(t, "[Feature] add a", records[1].Subject)
	})

	t.Run("record fields are populated from the batch query", func(t *testing.T) {
		records, err := tr.repo.CommitsSince(tr.ctx, "v1.0.0")
		require.NoError(t, err)
		require.NotEmpty(t, records)

		record := records[0]
		assert.Len(t, record.Hash, 40)
		assert.Equal(t, record.Hash[:shortHashLen], record.ShortHash)
		assert.Equal(t, testSignature.Name, record.Author)
		assert.True(t, record.Date.Equal(testSignature.When), "date %v != %v", record.Date, testSignature.When)
	})

	t.Run("empty since tag returns full history", func(t *testing.T) {
		records, err := tr.repo.CommitsSince(tr.ctx, "")
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("missing since tag fails", func(t *testing.T) {
		_, err := tr.repo.CommitsSince(tr.ctx, "v9.9.9")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTagMissing))
	})
}

// TestCommitsSinceMergeHistory tests that a side branch merged after the
// tag is part of the range even when it forked before the tag
func TestCommitsSinceMergeHistory(t *testing.T) {
	tr := setupTestRepoWithManifest(t)

	base, err := tr.repo.Head(tr.ctx)
	require.NoError(t, err)

	tr.writeFile(t, "s.txt", "s")
	tr.commitFiles(t, "[Feature] mainline work", "s.txt")
	tr.tagHead(t, "v1.0.0")

	tagged, err := tr.repo.Head(tr.ctx)
	require.NoError(t, err)

	// Side branch forked from the base commit, before the tag.
	tr.writeFile(t, "f.txt", "f")
	side := tr.commitWithParents(t, "[Fix] side branch fix", []string{base}, "f.txt")

	// Merge commit joining the tagged mainline and the side branch.
	tr.writeFile(t, "m.txt", "m")
	tr.commitWithParents(t, "[Chore] merge side branch", []string{tagged, side}, "m.txt")

	records, err := tr.repo.CommitsSince(tr.ctx, "v1.0.0")
	require.NoError(t, err)

	subjects := make([]string, 0, len(records))
	for _, record := range records {
		subjects = append(subjects, record.Subject)
	}

	// Exactly the merge and the side-branch commit; the tagged commit and
	// its ancestors stay out of the range.
	assert.Len(t, records, 2)
	assert.Contains(t, subjects, "[Chore] merge side branch")
	assert.Contains(t, subjects, "[Fix] side branch fix")
	assert.NotContains(t, subjects, "[Feature] mainline work")
	assert.NotContains(t, subjects, "[Chore] initial import")
}
