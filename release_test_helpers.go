package release

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// fixedNow is the deterministic clock used for changelog section dates.
var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// testSignature signs fixture commits and tags.
var testSignature = Signature{
	Name:  "Test Author",
	Email: "test@example.com",
	When:  time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC),
}

// testManifest is a minimal manifest fixture with surrounding content that
// must survive version rewrites byte-for-byte.
const testManifest = `[package]
name = "demo"
version = "1.0.0"
edition = "2021"

[dependencies]
serde = "1.0"
`

// testRepo is a helper struct that contains a test repository and its filesystem.
type testRepo struct {
	repo *Repo
	fs   billy.Filesystem
	ctx  context.Context
}

// setupTestRepo creates a new test repository on an in-memory filesystem.
func setupTestRepo(t *testing.T) *testRepo {
	t.Helper()

	ctx := context.Background()
	memFS := memfs.New()

	opts := Options{
		FS:  memFS,
		Now: func() time.Time { return fixedNow },
	}

	repo, err := Init(ctx, &opts)
	require.NoError(t, err, "failed to initialize test repository")
	require.NotNil(t, repo, "repository should not be nil")

	return &testRepo{
		repo: repo,
		fs:   memFS,
		ctx:  ctx,
	}
}

// setupTestRepoWithManifest creates a test repository whose manifest is
// committed with version 1.0.0.
func setupTestRepoWithManifest(t *testing.T) *testRepo {
	t.Helper()

	tr := setupTestRepo(t)
	tr.writeFile(t, DefaultManifestPath, testManifest)
	tr.commitFiles(t, "[Chore] initial import", DefaultManifestPath)

	return tr
}

// writeFile writes content to path in the test filesystem.
func (tr *testRepo) writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := util.WriteFile(tr.fs, path, []byte(content), 0o644)
	require.NoError(t, err, "failed to write %s", path)
}

// commitFiles stages the given paths and commits them, returning the commit SHA.
func (tr *testRepo) commitFiles(t *testing.T, msg string, paths ...string) string {
	t.Helper()

	err := tr.repo.Add(tr.ctx, paths...)
	require.NoError(t, err, "failed to stage files")

	hash, err := tr.repo.Commit(tr.ctx, msg, testSignature)
	require.NoError(t, err, "failed to commit")

	return hash
}

// commitWithParents stages the given paths and commits them with explicit
// parent hashes, for building merge histories in fixtures.
func (tr *testRepo) commitWithParents(t *testing.T, msg string, parents []string, paths ...string) string {
	t.Helper()

	err := tr.repo.Add(tr.ctx, paths...)
	require.NoError(t, err, "failed to stage files")

	hashes := make([]plumbing.Hash, 0, len(parents))
	for _, parent := range parents {
		hashes = append(hashes, plumbing.NewHash(parent))
	}

	sig := &object.Signature{
		Name:  testSignature.Name,
		Email: testSignature.Email,
		When:  testSignature.When,
	}

	hash, err := tr.repo.worktree.Commit(msg, &gogit.CommitOptions{
		Author:    sig,
		Committer: sig,
		Parents:   hashes,
	})
	require.NoError(t, err, "failed to commit with parents")

	return hash.String()
}

// tagHead creates a lightweight tag on HEAD.
func (tr *testRepo) tagHead(t *testing.T, name string) {
	t.Helper()

	err := tr.repo.CreateTag(tr.ctx, name, "HEAD", "", testSignature, false)
	require.NoError(t, err, "failed to tag HEAD")
}

// initChangelog creates and commits a header-only changelog file.
func (tr *testRepo) initChangelog(t *testing.T) {
	t.Helper()

	err := tr.repo.Changelog().Init()
	require.NoError(t, err, "failed to init changelog")

	tr.commitFiles(t, "[Chore] add changelog", DefaultChangelogPath)
}

// readFile returns the content of path in the test filesystem.
func (tr *testRepo) readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := util.ReadFile(tr.fs, path)
	require.NoError(t, err, "failed to read %s", path)

	return string(data)
}
