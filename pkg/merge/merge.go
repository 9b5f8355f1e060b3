// Package merge implements the Merge Resolver component (spec.md §4.H):
// the per-file three-way decision table, conflict-marker synthesis, and
// the fast-forward short-circuits.
package merge

import (
	"errors"
	"fmt"

	"github.com/odvcencio/gitlet/pkg/dag"
	"github.com/odvcencio/gitlet/pkg/objects"
	"github.com/odvcencio/gitlet/pkg/refstore"
	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/odvcencio/gitlet/pkg/signing"
	"github.com/odvcencio/gitlet/pkg/snapshot"
	"github.com/odvcencio/gitlet/pkg/staging"
	"github.com/odvcencio/gitlet/pkg/worktree"
)

// ErrUncommittedChanges is raised when the staging area is non-empty at
// the start of a merge.
var ErrUncommittedChanges = errors.New("merge: uncommitted changes present")

// ErrSelfMerge is raised when the named branch equals the current branch.
var ErrSelfMerge = errors.New("merge: cannot merge a branch with itself")

const (
	conflictHeader = "<<<<<<< HEAD\n"
	conflictMiddle = "=======\n"
	conflictFooter = ">>>>>>>\n"
)

// Result is the structured outcome of a merge. Exactly one of the three
// boolean fields is meaningful: GivenIsAncestor / FastForwarded describe
// the short-circuit paths; otherwise a merge commit was created and
// ConflictOccurred records whether any path required conflict markers.
type Result struct {
	GivenIsAncestor  bool
	FastForwarded    bool
	ConflictOccurred bool
	CommitID         objects.Hash
}

// Options carries the optional commit-signing hook used for the merge
// commit, threaded through to snapshot.Commit.
type Options struct {
	Signer signing.Signer
}

// Merge performs spec.md §4.H's full algorithm: preconditions,
// fast-forward short-circuits, then the per-path decision table with
// conflict synthesis, always followed by a merge commit.
func Merge(r *repo.Repository, givenBranch string, opts Options) (*Result, error) {
	area, err := staging.Read(r.MetaDir)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if !area.IsEmpty() {
		return nil, fmt.Errorf("merge: %w", ErrUncommittedChanges)
	}

	head, err := r.Refs.ReadHead()
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if head == givenBranch {
		return nil, fmt.Errorf("merge: %w", ErrSelfMerge)
	}
	if !r.Refs.BranchExists(givenBranch) {
		return nil, fmt.Errorf("merge: %w", refstore.ErrNoSuchBranch)
	}

	currentID, currentCommit, err := r.CurrentCommit()
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	givenID, err := r.Refs.ReadBranch(givenBranch)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	givenCommit, err := r.Store.GetCommit(givenID)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	if err := worktree.CheckUntracked(r, currentCommit.Tree, givenCommit.Tree); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	lca, err := dag.LowestCommonAncestor(r.Store, currentID, givenID)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	if lca == givenID {
		return &Result{GivenIsAncestor: true}, nil
	}
	if lca == currentID {
		if err := worktree.FastForwardCurrentBranch(r, currentCommit.Tree, givenID, givenCommit.Tree); err != nil {
			return nil, fmt.Errorf("merge: %w", err)
		}
		return &Result{FastForwarded: true}, nil
	}

	baseCommit, err := r.Store.GetCommit(lca)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	conflictOccurred, err := applyDecisionTable(r, baseCommit.Tree, currentCommit.Tree, givenCommit.Tree)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	message := fmt.Sprintf("Merged %s into %s.", givenBranch, head)
	commitID, err := snapshot.Commit(r, message, snapshot.Options{
		SecondParent: givenID,
		Signer:       opts.Signer,
	})
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	return &Result{ConflictOccurred: conflictOccurred, CommitID: commitID}, nil
}

// applyDecisionTable walks the union of paths across base/current/given
// and applies spec.md §4.H's table to each, mutating the working tree and
// staging area in place. Returns whether any path conflicted.
func applyDecisionTable(r *repo.Repository, base, current, given map[string]objects.Hash) (bool, error) {
	paths := unionPaths(base, current, given)

	area, err := staging.Read(r.MetaDir)
	if err != nil {
		return false, err
	}

	conflictOccurred := false
	for _, path := range paths {
		s, sOK := base[path]
		c, cOK := current[path]
		g, gOK := given[path]

		switch {
		case sOK && cOK && !gOK && s == c:
			// s, c=s, g absent: delete working file; stage-remove.
			if err := deletePath(r, area, path); err != nil {
				return false, err
			}

		case sOK && !cOK && gOK && s == g:
			// s, c absent, g=s: stay absent.

		case sOK && cOK && gOK && c == s && g != s:
			// s, c=s, g changed: check out g; stage-add.
			if err := checkoutPath(r, area, path, g); err != nil {
				return false, err
			}

		case sOK && cOK && gOK && c != s && g == s:
			// s, c changed, g=s: leave c untouched.

		case sOK && cOK && gOK && c != s && g != s && c == g:
			// both changed identically: leave c untouched.

		case !sOK && cOK && !gOK:
			// absent in base/given, present in current: leave c.

		case !sOK && !cOK && gOK:
			// absent in base/current, added in given: check out g; stage-add.
			if err := checkoutPath(r, area, path, g); err != nil {
				return false, err
			}

		case !sOK && cOK && gOK && c == g:
			// both sides added identically: leave c.

		case !sOK && cOK && gOK && c != g:
			// both sides added differently: conflict.
			if err := conflictPath(r, area, path, c, cOK, g, gOK); err != nil {
				return false, err
			}
			conflictOccurred = true

		case sOK && cOK && gOK && c != s && g != s && c != g:
			// both modified, differently: conflict.
			if err := conflictPath(r, area, path, c, cOK, g, gOK); err != nil {
				return false, err
			}
			conflictOccurred = true

		case sOK && cOK && !gOK && s != c:
			// modified in current, deleted in given: conflict.
			if err := conflictPath(r, area, path, c, cOK, g, gOK); err != nil {
				return false, err
			}
			conflictOccurred = true

		case sOK && !cOK && gOK && s != g:
			// deleted in current, modified in given: conflict.
			if err := conflictPath(r, area, path, c, cOK, g, gOK); err != nil {
				return false, err
			}
			conflictOccurred = true

		case sOK && !cOK && !gOK:
			// deleted on both sides: stay absent.

		default:
			// Every remaining combination (e.g. s absent, c absent, g
			// absent — not a real path) leaves the tree untouched.
		}
	}

	if err := staging.Write(r.MetaDir, area); err != nil {
		return false, err
	}
	return conflictOccurred, nil
}

func unionPaths(maps ...map[string]objects.Hash) []string {
	seen := make(map[string]struct{})
	for _, m := range maps {
		for path := range m {
			seen[path] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	return out
}

// checkoutPath materializes g's content for path, stages it for addition.
func checkoutPath(r *repo.Repository, area *staging.Area, path string, blobHash objects.Hash) error {
	data, err := r.Store.GetBlob(blobHash)
	if err != nil {
		return fmt.Errorf("checkout path %q: %w", path, err)
	}
	if err := r.WriteWorkingFile(path, data); err != nil {
		return fmt.Errorf("checkout path %q: %w", path, err)
	}
	delete(area.Remove, path)
	area.Add[path] = string(blobHash)
	return nil
}

// deletePath removes path from the working tree and stages its removal.
func deletePath(r *repo.Repository, area *staging.Area, path string) error {
	if err := r.RemoveWorkingFile(path); err != nil {
		return fmt.Errorf("delete path %q: %w", path, err)
	}
	delete(area.Add, path)
	base, ok := findBaseHash(r, path)
	if ok {
		area.Remove[path] = string(base)
	}
	return nil
}

// findBaseHash is a tiny helper kept local to deletePath so the caller
// does not need to thread the base tree through just for the informational
// remove-set value (spec.md §3: "content only used informationally").
func findBaseHash(r *repo.Repository, path string) (objects.Hash, bool) {
	_, commit, err := r.CurrentCommit()
	if err != nil {
		return "", false
	}
	h, ok := commit.Tree[path]
	return h, ok
}

// conflictPath synthesizes the conflict-marker content for path from the
// current (c) and given (g) sides, writes it to the working tree, and
// stages it for addition.
func conflictPath(r *repo.Repository, area *staging.Area, path string, c objects.Hash, cOK bool, g objects.Hash, gOK bool) error {
	var ourContent, theirContent []byte
	if cOK {
		data, err := r.Store.GetBlob(c)
		if err != nil {
			return fmt.Errorf("conflict %q: %w", path, err)
		}
		ourContent = data
	}
	if gOK {
		data, err := r.Store.GetBlob(g)
		if err != nil {
			return fmt.Errorf("conflict %q: %w", path, err)
		}
		theirContent = data
	}

	merged := conflictHeader + string(ourContent) + conflictMiddle + string(theirContent) + conflictFooter
	if err := r.WriteWorkingFile(path, []byte(merged)); err != nil {
		return fmt.Errorf("conflict %q: %w", path, err)
	}

	blobHash, err := r.Store.PutBlob([]byte(merged))
	if err != nil {
		return fmt.Errorf("conflict %q: %w", path, err)
	}
	delete(area.Remove, path)
	area.Add[path] = string(blobHash)
	return nil
}
