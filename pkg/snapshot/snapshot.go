// Package snapshot implements the Snapshot Engine component (spec.md
// §4.F): building an immutable commit from HEAD plus the staging area,
// and enforcing the commit preconditions.
package snapshot

import (
	"errors"
	"fmt"
	"time"

	"github.com/odvcencio/gitlet/pkg/objects"
	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/odvcencio/gitlet/pkg/signing"
	"github.com/odvcencio/gitlet/pkg/staging"
)

// ErrEmptyMessage is raised when the commit message is empty (the
// bootstrap commit, created directly by repo.Init, is the sole exception).
var ErrEmptyMessage = errors.New("snapshot: commit message is empty")

// ErrNothingToCommit is raised when both the add-set and remove-set are
// empty.
var ErrNothingToCommit = errors.New("snapshot: nothing to commit")

// Options controls optional Commit behavior.
type Options struct {
	// SecondParent is set for merge commits; empty for ordinary commits.
	SecondParent objects.Hash
	// Signer, if non-nil, signs the new commit's id and stores the
	// result in Commit.Signature (see pkg/signing; SPEC_FULL.md
	// supplement, never consulted by ID()).
	Signer signing.Signer
	// Now overrides the wall-clock timestamp function, for deterministic
	// tests. Defaults to time.Now when nil.
	Now func() time.Time
}

// Commit builds a new commit from the current HEAD commit's tree plus the
// staging area's pending changes, writes it to the object store, advances
// the current branch ref, and clears the staging area. Implements the
// exact nine-step algorithm of spec.md §4.F.
func Commit(r *repo.Repository, message string, opts Options) (objects.Hash, error) {
	if message == "" {
		return "", ErrEmptyMessage
	}

	area, err := staging.Read(r.MetaDir)
	if err != nil {
		return "", fmt.Errorf("snapshot: commit: %w", err)
	}
	if area.IsEmpty() {
		return "", ErrNothingToCommit
	}

	parentID, parentCommit, err := r.CurrentCommit()
	if err != nil {
		return "", fmt.Errorf("snapshot: commit: resolve HEAD: %w", err)
	}

	tree := make(map[string]objects.Hash, len(parentCommit.Tree))
	for path, h := range parentCommit.Tree {
		tree[path] = h
	}
	for path, h := range area.Add {
		tree[path] = objects.Hash(h)
	}
	for path := range area.Remove {
		delete(tree, path)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	timestamp := now().UTC().Format(time.RFC1123Z)

	c := &objects.Commit{
		Message:      message,
		Timestamp:    timestamp,
		Parent:       parentID,
		SecondParent: opts.SecondParent,
		Tree:         tree,
	}

	if opts.Signer != nil {
		sig, err := opts.Signer([]byte(c.ID()))
		if err != nil {
			return "", fmt.Errorf("snapshot: commit: sign: %w", err)
		}
		c.Signature = sig
	}

	newID, err := r.Store.PutCommit(c)
	if err != nil {
		return "", fmt.Errorf("snapshot: commit: write: %w", err)
	}

	head, err := r.Refs.ReadHead()
	if err != nil {
		return "", fmt.Errorf("snapshot: commit: read HEAD: %w", err)
	}
	if err := r.Refs.WriteBranch(head, newID); err != nil {
		return "", fmt.Errorf("snapshot: commit: advance %q: %w", head, err)
	}

	if err := staging.Clear(r.MetaDir); err != nil {
		return "", fmt.Errorf("snapshot: commit: clear staging: %w", err)
	}

	return newID, nil
}
