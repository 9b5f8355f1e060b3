// Package remote implements the Remote Sync component (spec.md §4.J):
// filesystem-peer push/fetch/pull built on frontier computation against a
// second repo.Repository opened at the peer's path. There is no network
// transport here — the peer is just another exclusive-access repository on
// the same filesystem, grounded on the teacher's pkg/remote/sync.go
// reachability-walk idiom but reworked for direct store-to-store copies
// instead of a wire client.
package remote

import (
	"errors"
	"fmt"

	"github.com/odvcencio/gitlet/pkg/dag"
	"github.com/odvcencio/gitlet/pkg/merge"
	"github.com/odvcencio/gitlet/pkg/objects"
	"github.com/odvcencio/gitlet/pkg/refstore"
	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/odvcencio/gitlet/pkg/worktree"
)

// ErrRemoteMissing is raised when a remote's recorded path no longer
// resolves to an initialized repository.
var ErrRemoteMissing = errors.New("remote: remote directory not found")

// ErrNoSuchRemoteBranch is raised by fetch when the peer has no such
// branch.
var ErrNoSuchRemoteBranch = errors.New("remote: that remote does not have that branch")

// ErrPushNotFastForward is raised by push when the peer's branch head is
// not an ancestor of the local current commit.
var ErrPushNotFastForward = errors.New("remote: please pull down remote changes before pushing")

// openPeer resolves name to a path via r's remote table and opens it as an
// independent Repository. Any failure to open is reported as
// ErrRemoteMissing, matching spec.md §4.J step 1.
func openPeer(r *repo.Repository, name string) (*repo.Repository, error) {
	path, err := r.Refs.ResolveRemote(name)
	if err != nil {
		return nil, err
	}
	peer, err := repo.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRemoteMissing, path)
	}
	return peer, nil
}

// copyFrontier copies every commit in ids from src to dst along with every
// blob in each commit's tree, skipping objects dst already has.
func copyFrontier(src, dst *repo.Repository, ids map[objects.Hash]struct{}) error {
	for id := range ids {
		if dst.Store.Has(objects.TypeCommit, id) {
			continue
		}
		commit, err := src.Store.GetCommit(id)
		if err != nil {
			return fmt.Errorf("remote: read commit %s: %w", id, err)
		}
		for path, blobHash := range commit.Tree {
			if dst.Store.Has(objects.TypeBlob, blobHash) {
				continue
			}
			data, err := src.Store.GetBlob(blobHash)
			if err != nil {
				return fmt.Errorf("remote: read blob %s (%s): %w", blobHash, path, err)
			}
			if _, err := dst.Store.PutBlob(data); err != nil {
				return fmt.Errorf("remote: write blob %s (%s): %w", blobHash, path, err)
			}
		}
		if _, err := dst.Store.PutCommit(commit); err != nil {
			return fmt.Errorf("remote: write commit %s: %w", id, err)
		}
	}
	return nil
}

// Push implements spec.md §4.J's push(remote, branch).
func Push(r *repo.Repository, remoteName, branch string) error {
	peer, err := openPeer(r, remoteName)
	if err != nil {
		return fmt.Errorf("remote: push: %w", err)
	}

	localHead, _, err := r.CurrentCommit()
	if err != nil {
		return fmt.Errorf("remote: push: %w", err)
	}

	var peerHead objects.Hash
	if peer.Refs.BranchExists(branch) {
		peerHead, err = peer.Refs.ReadBranch(branch)
		if err != nil {
			return fmt.Errorf("remote: push: %w", err)
		}
		isAncestor, err := dag.IsAncestor(r.Store, peerHead, localHead)
		if err != nil {
			return fmt.Errorf("remote: push: %w", err)
		}
		if !isAncestor {
			return fmt.Errorf("remote: push: %w", ErrPushNotFastForward)
		}
	}

	frontier, err := dag.Frontier(r.Store, peerHead, localHead)
	if err != nil {
		return fmt.Errorf("remote: push: %w", err)
	}
	if err := copyFrontier(r, peer, frontier); err != nil {
		return fmt.Errorf("remote: push: %w", err)
	}

	if err := peer.Refs.WriteBranch(branch, localHead); err != nil {
		return fmt.Errorf("remote: push: %w", err)
	}
	return nil
}

// Fetch implements spec.md §4.J's fetch(remote, branch).
func Fetch(r *repo.Repository, remoteName, branch string) error {
	peer, err := openPeer(r, remoteName)
	if err != nil {
		return fmt.Errorf("remote: fetch: %w", err)
	}
	if !peer.Refs.BranchExists(branch) {
		return fmt.Errorf("remote: fetch: %w", ErrNoSuchRemoteBranch)
	}

	peerHead, err := peer.Refs.ReadBranch(branch)
	if err != nil {
		return fmt.Errorf("remote: fetch: %w", err)
	}
	localHead, _, err := r.CurrentCommit()
	if err != nil {
		return fmt.Errorf("remote: fetch: %w", err)
	}

	// Lenient: the peer's store may not know localHead's ancestry at all
	// (local-only commits never previously pushed), so the stop-set
	// computation cannot require every local ancestor to be present there.
	frontier, err := dag.FrontierLenient(peer.Store, localHead, peerHead)
	if err != nil {
		return fmt.Errorf("remote: fetch: %w", err)
	}
	if err := copyFrontier(peer, r, frontier); err != nil {
		return fmt.Errorf("remote: fetch: %w", err)
	}

	trackingRef := remoteName + "/" + branch
	if err := r.Refs.WriteBranch(trackingRef, peerHead); err != nil {
		return fmt.Errorf("remote: fetch: %w", err)
	}
	return nil
}

// Pull implements spec.md §4.J's pull(remote, branch): untracked-file
// check, fetch, then a merge of the resulting remote-tracking branch into
// the current branch.
func Pull(r *repo.Repository, remoteName, branch string, opts merge.Options) (*merge.Result, error) {
	_, currentCommit, err := r.CurrentCommit()
	if err != nil {
		return nil, fmt.Errorf("remote: pull: %w", err)
	}
	if err := worktree.CheckUntracked(r, currentCommit.Tree, currentCommit.Tree); err != nil {
		return nil, fmt.Errorf("remote: pull: %w", err)
	}

	if err := Fetch(r, remoteName, branch); err != nil {
		return nil, fmt.Errorf("remote: pull: %w", err)
	}

	trackingRef := remoteName + "/" + branch
	result, err := merge.Merge(r, trackingRef, opts)
	if err != nil {
		if errors.Is(err, refstore.ErrNoSuchBranch) {
			return nil, fmt.Errorf("remote: pull: %w", ErrNoSuchRemoteBranch)
		}
		return nil, fmt.Errorf("remote: pull: %w", err)
	}
	return result, nil
}
