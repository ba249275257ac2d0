// Package release provides release automation on top of go-git.
// This file contains tag and worktree inspection operations.
package release

import (
	"context"
	"errors"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// shortHashLen is the abbreviated commit hash length used in display
// versions and changelog bullets.
const shortHashLen = 7

// TagFilter is a predicate function for filtering tags.
// It returns true if the tag should be included in the results.
// Filters are applied progressively - if any filter returns false, the tag is excluded.
type TagFilter func(name string, ref *plumbing.Reference) bool

// TagPrefixFilter returns a filter that matches tags with the given prefix.
// For example: "v" matches "v1.0.0", "v2.0.0", etc.
func TagPrefixFilter(prefix string) TagFilter {
	return func(name string, ref *plumbing.Reference) bool {
		return strings.HasPrefix(name, prefix)
	}
}

// Tags returns a list of tags that pass all the provided filters.
// If no filters are provided, all tags are returned.
// Results are sorted alphabetically.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) Tags(ctx context.Context, filters ...TagFilter) ([]string, error) {
	refs, err := r.repo.References()
	if err != nil {
		return nil, WrapError(ErrQueryFailed, "failed to get references")
	}

	var tags []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsTag() {
			name := ref.Name().Short()
			if shouldIncludeTag(name, ref, filters) {
				tags = append(tags, name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, WrapError(ErrQueryFailed, "failed to iterate references")
	}

	sort.Strings(tags)

	return tags, nil
}

// shouldIncludeTag checks if a tag passes all filters.
func shouldIncludeTag(name string, ref *plumbing.Reference, filters []TagFilter) bool {
	for _, filter := range filters {
		if filter != nil && !filter(name, ref) {
			return false
		}
	}
	return true
}

// TagExists reports whether the named tag exists in the repository.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) TagExists(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, WrapError(ErrInvalidRef, "tag name cannot be empty")
	}

	_, err := r.repo.Reference(plumbing.NewTagReferenceName(name), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, nil
		}
		return false, WrapError(ErrQueryFailed, "failed to look up tag")
	}

	return true, nil
}

// LastTag returns the most recent tag reachable from the current HEAD:
// the tag on the closest ancestor commit, in abbreviated form with no
// distance or hash suffix. When several tags point at that commit, the
// highest release version under the configured prefix wins; commits
// carrying only non-version tags fall back to lexicographic order.
// Returns ErrTagMissing when no reachable commit carries a tag.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) LastTag(ctx context.Context) (string, error) {
	tagged, err := r.taggedCommits(ctx)
	if err != nil {
		return "", err
	}

	if len(tagged) == 0 {
		return "", WrapError(ErrTagMissing, "repository has no tags")
	}

	head, err := r.repo.Head()
	if err != nil {
		return "", WrapError(ErrQueryFailed, "failed to get HEAD reference")
	}

	iter, err := r.repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return "", WrapError(ErrQueryFailed, "failed to walk history")
	}
	defer iter.Close()

	var found string
	err = iter.ForEach(func(c *object.Commit) error {
		if names, ok := tagged[c.Hash]; ok {
			found = r.pickTag(names)
			return errStopIteration
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopIteration) {
		return "", WrapError(ErrQueryFailed, "failed to iterate commits")
	}

	if found == "" {
		return "", WrapError(ErrTagMissing, "no tag reachable from HEAD")
	}

	return found, nil
}

// errStopIteration terminates a ForEach walk early; never surfaced to callers.
var errStopIteration = errors.New("stop iteration")

// pickTag chooses among several tag names on one commit: the highest
// release version among names that parse under the configured prefix
// ("v1.10.0" beats "v1.9.0"), otherwise the lexicographically last name.
func (r *Repo) pickTag(names []string) string {
	var best string
	var bestVersion Version

	for _, name := range names {
		v, err := ParseVersion(strings.TrimPrefix(name, r.options.TagPrefix))
		if err != nil {
			continue
		}
		if best == "" || v.Compare(bestVersion) > 0 {
			best = name
			bestVersion = v
		}
	}

	if best != "" {
		return best
	}

	return names[len(names)-1]
}

// taggedCommits maps each tagged commit hash to the sorted tag names on it.
// Annotated tags are peeled to their target commit.
func (r *Repo) taggedCommits(ctx context.Context) (map[plumbing.Hash][]string, error) {
	refs, err := r.repo.References()
	if err != nil {
		return nil, WrapError(ErrQueryFailed, "failed to get references")
	}

	tagged := make(map[plumbing.Hash][]string)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsTag() {
			return nil
		}

		hash, peelErr := r.peelTag(ref)
		if peelErr != nil {
			return peelErr
		}

		tagged[hash] = append(tagged[hash], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, WrapError(ErrQueryFailed, "failed to iterate references")
	}

	for _, names := range tagged {
		sort.Strings(names)
	}

	return tagged, nil
}

// peelTag resolves a tag reference to the commit hash it points at,
// following annotated tag objects to their target.
func (r *Repo) peelTag(ref *plumbing.Reference) (plumbing.Hash, error) {
	tagObj, err := r.repo.TagObject(ref.Hash())
	if err == nil {
		return tagObj.Target, nil
	}
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		// Lightweight tag: the reference points directly at the commit.
		return ref.Hash(), nil
	}
	return plumbing.ZeroHash, WrapError(ErrQueryFailed, "failed to resolve tag object")
}

// HasUncommittedChanges reports whether the working tree has any modified,
// staged or untracked state relative to HEAD.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) HasUncommittedChanges(ctx context.Context) (bool, error) {
	status, err := r.worktree.Status()
	if err != nil {
		return false, WrapError(ErrQueryFailed, "failed to get worktree status")
	}

	return !status.IsClean(), nil
}

// DiffersFromRelease reports whether the repository content at HEAD differs
// from the tagged snapshot of the given release. It is true when the tag
// for the release does not exist, or when it exists but its tree differs
// from the HEAD tree.
//
// Uncommitted local edits are deliberately not considered drift; they are
// reported separately by HasUncommittedChanges.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) DiffersFromRelease(ctx context.Context, v Version) (bool, error) {
	tag := v.Tag(r.options.TagPrefix)

	exists, err := r.TagExists(ctx, tag)
	if err != nil {
		return false, err
	}
	if !exists {
		r.logDebug("release tag absent", "tag", tag)
		return true, nil
	}

	tagTree, err := r.treeForRevision(tag)
	if err != nil {
		return false, err
	}

	headTree, err := r.treeForRevision("HEAD")
	if err != nil {
		return false, err
	}

	changes, err := tagTree.Diff(headTree)
	if err != nil {
		return false, WrapError(ErrQueryFailed, "failed to compute changes")
	}

	return len(changes) > 0, nil
}

// Head returns the full commit hash of HEAD.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) Head(ctx context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", WrapError(ErrQueryFailed, "failed to get HEAD reference")
	}
	return head.Hash().String(), nil
}

// ShortHead returns the abbreviated commit hash of HEAD.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) ShortHead(ctx context.Context) (string, error) {
	hash, err := r.Head(ctx)
	if err != nil {
		return "", err
	}
	return hash[:shortHashLen], nil
}

// treeForRevision resolves a revision and returns its tree.
func (r *Repo) treeForRevision(rev string) (*object.Tree, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, WrapErrorf(ErrQueryFailed, "failed to resolve revision %q", rev)
	}

	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, WrapError(ErrQueryFailed, "failed to get commit object")
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, WrapError(ErrQueryFailed, "failed to get tree")
	}

	return tree, nil
}
