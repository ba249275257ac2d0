// Package release provides release automation on top of go-git.
// This file contains the worktree operations the release procedure needs:
// staging the touched files and committing them.
package release

import (
	"context"
	"errors"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Add stages the given files for the next commit.
// Paths that don't exist in the worktree are silently ignored,
// matching git add behavior.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) Add(ctx context.Context, paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := r.fs.Stat(path); err != nil {
			continue
		}

		if _, err := r.worktree.Add(path); err != nil {
			return WrapErrorf(err, "failed to add path %q", path)
		}
	}

	return nil
}

// Commit creates a new commit with the specified message and signature,
// returning the SHA of the new commit. Committing with nothing staged
// yields ErrEmptyCommit.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) Commit(ctx context.Context, msg string, who Signature) (string, error) {
	if msg == "" {
		return "", WrapError(ErrInvalidRef, "commit message cannot be empty")
	}

	if who.Name == "" || who.Email == "" {
		return "", WrapError(ErrInvalidRef, "committer name and email are required")
	}

	status, err := r.worktree.Status()
	if err != nil {
		return "", WrapError(ErrQueryFailed, "failed to get worktree status")
	}

	staged := 0
	for _, fileStatus := range status {
		if fileStatus.Staging != gogit.Untracked && fileStatus.Staging != gogit.Unmodified {
			staged++
		}
	}

	if staged == 0 {
		return "", ErrEmptyCommit
	}

	commitOpts := &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  who.Name,
			Email: who.Email,
			When:  who.When,
		},
		Committer: &object.Signature{
			Name:  who.Name,
			Email: who.Email,
			When:  who.When,
		},
	}

	hash, err := r.worktree.Commit(msg, commitOpts)
	if err != nil {
		if errors.Is(err, gogit.ErrEmptyCommit) {
			return "", ErrEmptyCommit
		}
		return "", WrapError(ErrQueryFailed, "failed to create commit")
	}

	r.logDebug("commit created", "hash", hash.String(), "message", msg)

	return hash.String(), nil
}
