// Package release provides release automation on top of go-git.
// This file contains tag creation for cut releases.
package release

import (
	"context"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CreateTag creates a new tag at the specified target revision.
// If message is non-empty and annotated is true, an annotated tag is created
// with the given signature as tagger; otherwise a lightweight tag is created.
// The target can be any valid revision specifier.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) CreateTag(ctx context.Context, name, target, message string, who Signature, annotated bool) error {
	if name == "" {
		return WrapError(ErrInvalidRef, "tag name cannot be empty")
	}

	if target == "" {
		return WrapError(ErrInvalidRef, "target revision cannot be empty")
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(target))
	if err != nil {
		return WrapErrorf(ErrQueryFailed, "failed to resolve target revision %q", target)
	}

	exists, err := r.TagExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return WrapErrorf(ErrTagExists, "tag %q", name)
	}

	if annotated && message != "" {
		tagOpts := &gogit.CreateTagOptions{
			Tagger: &object.Signature{
				Name:  who.Name,
				Email: who.Email,
				When:  who.When,
			},
			Message: message,
		}

		if _, err := r.repo.CreateTag(name, *hash, tagOpts); err != nil {
			return WrapError(ErrQueryFailed, "failed to create annotated tag")
		}
	} else {
		tagRef := plumbing.NewHashReference(plumbing.NewTagReferenceName(name), *hash)
		if err := r.repo.Storer.SetReference(tagRef); err != nil {
			return WrapError(ErrQueryFailed, "failed to create lightweight tag")
		}
	}

	r.logDebug("tag created", "tag", name, "target", hash.String(), "annotated", annotated)

	return nil
}

// Signature represents an author/committer signature for commits and tags.
type Signature struct {
	// Name is the author's or committer's name.
	Name string

	// Email is the author's or committer's email address.
	Email string

	// When is the timestamp for the signature.
	When time.Time
}
