// Package release provides release automation on top of go-git.
// This file contains commit history queries for changelog generation.
package release

import (
	"context"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CommitRecord is a read-only view of a single commit, carrying everything
// changelog rendering needs so no per-commit follow-up queries are required.
type CommitRecord struct {
	// Hash is the full commit hash.
	Hash string

	// ShortHash is the abbreviated commit hash.
	ShortHash string

	// Subject is the first line of the commit message.
	Subject string

	// Author is the commit author's name.
	Author string

	// Date is the author timestamp.
	Date time.Time
}

// CommitsSince returns the commits in the range sinceTag..HEAD, newest
// first: every commit reachable from HEAD but not from the commit the tag
// points at. Side branches merged after the tag are included even when
// they forked before it.
//
// An empty sinceTag returns the full history of HEAD. A non-empty tag that
// does not exist yields ErrTagMissing.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) CommitsSince(ctx context.Context, sinceTag string) ([]CommitRecord, error) {
	var exclude map[plumbing.Hash]struct{}

	if sinceTag != "" {
		exists, err := r.TagExists(ctx, sinceTag)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, WrapErrorf(ErrTagMissing, "range start tag %q", sinceTag)
		}

		ref, err := r.repo.Reference(plumbing.NewTagReferenceName(sinceTag), true)
		if err != nil {
			return nil, WrapError(ErrQueryFailed, "failed to look up tag")
		}

		since, err := r.peelTag(ref)
		if err != nil {
			return nil, err
		}

		exclude, err = r.ancestorSet(since)
		if err != nil {
			return nil, err
		}
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, WrapError(ErrQueryFailed, "failed to get HEAD reference")
	}

	iter, err := r.repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, WrapError(ErrQueryFailed, "failed to walk history")
	}
	defer iter.Close()

	var records []CommitRecord
	err = iter.ForEach(func(c *object.Commit) error {
		if _, reached := exclude[c.Hash]; reached {
			return nil
		}
		records = append(records, newCommitRecord(c))
		return nil
	})
	if err != nil {
		return nil, WrapError(ErrQueryFailed, "failed to iterate commits")
	}

	r.logDebug("collected commit range", "since", sinceTag, "count", len(records))

	return records, nil
}

// ancestorSet collects every commit hash reachable from the given commit,
// the commit itself included.
func (r *Repo) ancestorSet(from plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	iter, err := r.repo.Log(&gogit.LogOptions{From: from})
	if err != nil {
		return nil, WrapError(ErrQueryFailed, "failed to walk history")
	}
	defer iter.Close()

	set := make(map[plumbing.Hash]struct{})
	err = iter.ForEach(func(c *object.Commit) error {
		set[c.Hash] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, WrapError(ErrQueryFailed, "failed to iterate commits")
	}

	return set, nil
}

// newCommitRecord extracts the record fields from a go-git commit object.
func newCommitRecord(c *object.Commit) CommitRecord {
	subject := c.Message
	if idx := strings.IndexByte(subject, '\n'); idx >= 0 {
		subject = subject[:idx]
	}

	hash := c.Hash.String()

	return CommitRecord{
		Hash:      hash,
		ShortHash: hash[:shortHashLen],
		Subject:   strings.TrimSpace(subject),
		Author:    c.Author.Name,
		Date:      c.Author.When,
	}
}
