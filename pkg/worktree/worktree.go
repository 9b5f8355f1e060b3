// Package worktree implements the Working-Tree Reconciler component
// (spec.md §4.G): the untracked-file safety check, materialization of a
// target snapshot, pruning of files absent from it, and the
// checkout-branch / reset-to-commit / checkout-file sequences built on
// top of those primitives.
package worktree

import (
	"errors"
	"fmt"

	"github.com/odvcencio/gitlet/pkg/objects"
	"github.com/odvcencio/gitlet/pkg/refstore"
	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/odvcencio/gitlet/pkg/staging"
)

// ErrAlreadyOnBranch is raised by CheckoutBranch when the target equals
// HEAD.
var ErrAlreadyOnBranch = errors.New("worktree: already on that branch")

// ErrUntrackedOverwrite is raised when a target operation would
// overwrite or remove a file the current commit does not track.
var ErrUntrackedOverwrite = errors.New("worktree: untracked working file would be overwritten")

// ErrFileNotInCommit is raised by CheckoutFile/CheckoutCommitFile when the
// requested path is not present in the source commit's tree.
var ErrFileNotInCommit = errors.New("worktree: file does not exist in that commit")

// checkUntrackedConservative implements the plain untracked-file safety
// check used by checkout-branch and merge: any working-tree file not
// tracked by the current commit triggers the error if the target tree
// would overwrite or remove it, even if it happens to hold identical
// bytes. Per spec.md §9 this is intentionally conservative.
func checkUntrackedConservative(r *repo.Repository, currentTree, targetTree map[string]objects.Hash) error {
	workingFiles, err := r.ListWorkingFiles()
	if err != nil {
		return err
	}
	for _, path := range workingFiles {
		if _, tracked := currentTree[path]; tracked {
			continue
		}
		if _, inTarget := targetTree[path]; inTarget {
			return fmt.Errorf("worktree: %q: %w", path, ErrUntrackedOverwrite)
		}
	}
	return nil
}

// checkUntrackedResetStrict implements reset's stricter variant (spec.md
// §4.G): an untracked file is safe iff the target commit does not contain
// that path, or the target's blob for that path is byte-equal to the
// current working content.
func checkUntrackedResetStrict(r *repo.Repository, currentTree, targetTree map[string]objects.Hash) error {
	workingFiles, err := r.ListWorkingFiles()
	if err != nil {
		return err
	}
	for _, path := range workingFiles {
		if _, tracked := currentTree[path]; tracked {
			continue
		}
		targetBlobHash, inTarget := targetTree[path]
		if !inTarget {
			continue
		}
		working, err := r.ReadWorkingFile(path)
		if err != nil {
			return err
		}
		if objects.HashBytes(working) == targetBlobHash {
			continue
		}
		return fmt.Errorf("worktree: %q: %w", path, ErrUntrackedOverwrite)
	}
	return nil
}

// materialize overwrites (creating if absent) every file named by
// targetTree with its blob content.
func materialize(r *repo.Repository, targetTree map[string]objects.Hash) error {
	for path, blobHash := range targetTree {
		data, err := r.Store.GetBlob(blobHash)
		if err != nil {
			return fmt.Errorf("worktree: materialize %q: %w", path, err)
		}
		if err := r.WriteWorkingFile(path, data); err != nil {
			return fmt.Errorf("worktree: materialize %q: %w", path, err)
		}
	}
	return nil
}

// prune deletes every working-tree file tracked by currentTree but absent
// from targetTree.
func prune(r *repo.Repository, currentTree, targetTree map[string]objects.Hash) error {
	for path := range currentTree {
		if _, stillTracked := targetTree[path]; stillTracked {
			continue
		}
		if err := r.RemoveWorkingFile(path); err != nil {
			return fmt.Errorf("worktree: prune %q: %w", path, err)
		}
	}
	return nil
}

// CheckoutBranch implements spec.md §4.G's checkout-branch sequence:
// validate, untracked check, materialize, set HEAD, prune, clear staging.
func CheckoutBranch(r *repo.Repository, branch string) error {
	head, err := r.Refs.ReadHead()
	if err != nil {
		return fmt.Errorf("worktree: checkout %q: %w", branch, err)
	}
	if head == branch {
		return fmt.Errorf("worktree: checkout %q: %w", branch, ErrAlreadyOnBranch)
	}
	if !r.Refs.BranchExists(branch) {
		return fmt.Errorf("worktree: checkout %q: %w", branch, refstore.ErrNoSuchBranch)
	}

	_, currentCommit, err := r.CurrentCommit()
	if err != nil {
		return fmt.Errorf("worktree: checkout %q: %w", branch, err)
	}
	targetID, err := r.Refs.ReadBranch(branch)
	if err != nil {
		return fmt.Errorf("worktree: checkout %q: %w", branch, err)
	}
	targetCommit, err := r.Store.GetCommit(targetID)
	if err != nil {
		return fmt.Errorf("worktree: checkout %q: %w", branch, err)
	}

	if err := checkUntrackedConservative(r, currentCommit.Tree, targetCommit.Tree); err != nil {
		return fmt.Errorf("worktree: checkout %q: %w", branch, err)
	}
	if err := materialize(r, targetCommit.Tree); err != nil {
		return fmt.Errorf("worktree: checkout %q: %w", branch, err)
	}
	if err := r.Refs.WriteHead(branch); err != nil {
		return fmt.Errorf("worktree: checkout %q: %w", branch, err)
	}
	if err := prune(r, currentCommit.Tree, targetCommit.Tree); err != nil {
		return fmt.Errorf("worktree: checkout %q: %w", branch, err)
	}
	if err := staging.Clear(r.MetaDir); err != nil {
		return fmt.Errorf("worktree: checkout %q: %w", branch, err)
	}
	return nil
}

// ResetToCommit implements spec.md §4.G's reset-to-commit sequence:
// resolve prefix, reset-variant untracked check, materialize, advance the
// current branch (not HEAD), prune, clear staging.
func ResetToCommit(r *repo.Repository, commitPrefix string) error {
	targetID, err := r.Store.ResolvePrefix(commitPrefix)
	if err != nil {
		return fmt.Errorf("worktree: reset %q: %w", commitPrefix, err)
	}
	targetCommit, err := r.Store.GetCommit(targetID)
	if err != nil {
		return fmt.Errorf("worktree: reset %q: %w", commitPrefix, err)
	}

	_, currentCommit, err := r.CurrentCommit()
	if err != nil {
		return fmt.Errorf("worktree: reset %q: %w", commitPrefix, err)
	}

	if err := checkUntrackedResetStrict(r, currentCommit.Tree, targetCommit.Tree); err != nil {
		return fmt.Errorf("worktree: reset %q: %w", commitPrefix, err)
	}
	if err := materialize(r, targetCommit.Tree); err != nil {
		return fmt.Errorf("worktree: reset %q: %w", commitPrefix, err)
	}

	head, err := r.Refs.ReadHead()
	if err != nil {
		return fmt.Errorf("worktree: reset %q: %w", commitPrefix, err)
	}
	if err := r.Refs.WriteBranch(head, targetID); err != nil {
		return fmt.Errorf("worktree: reset %q: %w", commitPrefix, err)
	}

	if err := prune(r, currentCommit.Tree, targetCommit.Tree); err != nil {
		return fmt.Errorf("worktree: reset %q: %w", commitPrefix, err)
	}
	if err := staging.Clear(r.MetaDir); err != nil {
		return fmt.Errorf("worktree: reset %q: %w", commitPrefix, err)
	}
	return nil
}

// FastForwardCurrentBranch implements merge's fast-forward short-circuit
// (spec.md §4.H: "perform checkout-of-given-branch"). Unlike CheckoutBranch,
// it does not retarget HEAD to a different branch name: the current branch
// stays current, its ref simply advances to targetID, exactly like S4's
// expectation that the branch merged *from* ("dev") ends up pointing at the
// given branch's commit rather than HEAD becoming "master". The caller is
// responsible for the untracked-file check (merge already performed its
// conservative check before computing the merge base).
func FastForwardCurrentBranch(r *repo.Repository, currentTree map[string]objects.Hash, targetID objects.Hash, targetTree map[string]objects.Hash) error {
	if err := materialize(r, targetTree); err != nil {
		return fmt.Errorf("worktree: fast-forward: %w", err)
	}
	head, err := r.Refs.ReadHead()
	if err != nil {
		return fmt.Errorf("worktree: fast-forward: %w", err)
	}
	if err := r.Refs.WriteBranch(head, targetID); err != nil {
		return fmt.Errorf("worktree: fast-forward: %w", err)
	}
	if err := prune(r, currentTree, targetTree); err != nil {
		return fmt.Errorf("worktree: fast-forward: %w", err)
	}
	if err := staging.Clear(r.MetaDir); err != nil {
		return fmt.Errorf("worktree: fast-forward: %w", err)
	}
	return nil
}

// CheckoutFile overwrites path in the working tree from the current
// commit's tree. Does not touch HEAD or staging.
func CheckoutFile(r *repo.Repository, path string) error {
	_, commit, err := r.CurrentCommit()
	if err != nil {
		return fmt.Errorf("worktree: checkout file %q: %w", path, err)
	}
	return checkoutFileFromCommit(r, commit, path)
}

// CheckoutCommitFile overwrites path in the working tree from the tree of
// the commit resolved from commitPrefix. Does not touch HEAD or staging.
func CheckoutCommitFile(r *repo.Repository, commitPrefix, path string) error {
	id, err := r.Store.ResolvePrefix(commitPrefix)
	if err != nil {
		return fmt.Errorf("worktree: checkout file %q from %q: %w", path, commitPrefix, err)
	}
	commit, err := r.Store.GetCommit(id)
	if err != nil {
		return fmt.Errorf("worktree: checkout file %q from %q: %w", path, commitPrefix, err)
	}
	return checkoutFileFromCommit(r, commit, path)
}

func checkoutFileFromCommit(r *repo.Repository, commit *objects.Commit, path string) error {
	blobHash, ok := commit.Tree[path]
	if !ok {
		return fmt.Errorf("worktree: %q: %w", path, ErrFileNotInCommit)
	}
	data, err := r.Store.GetBlob(blobHash)
	if err != nil {
		return fmt.Errorf("worktree: checkout file %q: %w", path, err)
	}
	if err := r.WriteWorkingFile(path, data); err != nil {
		return fmt.Errorf("worktree: checkout file %q: %w", path, err)
	}
	return nil
}

// CheckUntracked exposes the conservative safety check for callers
// (merge) that need to validate before performing their own tree
// transition rather than a plain checkout.
func CheckUntracked(r *repo.Repository, currentTree, targetTree map[string]objects.Hash) error {
	return checkUntrackedConservative(r, currentTree, targetTree)
}

// Materialize exposes tree materialization to other packages. Merge does
// not call it: it writes each resolved path itself.
func Materialize(r *repo.Repository, targetTree map[string]objects.Hash) error {
	return materialize(r, targetTree)
}

// Prune exposes pruning to other packages. Merge does not call it: it
// deletes each resolved path itself.
func Prune(r *repo.Repository, currentTree, targetTree map[string]objects.Hash) error {
	return prune(r, currentTree, targetTree)
}
