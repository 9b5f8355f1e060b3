// Package dag implements the DAG Walker component (spec.md §4.E):
// ancestor enumeration, reachability, lowest-common-ancestor, and the
// frontier computation used by remote sync.
package dag

import (
	"errors"

	"github.com/odvcencio/gitlet/pkg/objects"
)

// CommitSource reads commits by fingerprint. pkg/objects.Store satisfies
// this; remote sync passes in whichever store (local or peer) is
// appropriate for the traversal at hand.
type CommitSource interface {
	GetCommit(h objects.Hash) (*objects.Commit, error)
}

// Ancestors returns the transitive closure of c, including c itself,
// following both parents of merge commits, deduplicated by fingerprint.
// Grounded on the stack/seen-set DFS idiom used throughout the teacher's
// pkg/remote/sync.go (ReachableSet, CollectObjectsForPush), generalized
// from "reachable objects" to "reachable commits".
func Ancestors(store CommitSource, c objects.Hash) (map[objects.Hash]struct{}, error) {
	seen := make(map[objects.Hash]struct{})
	if c == "" {
		return seen, nil
	}
	stack := []objects.Hash{c}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}

		commit, err := store.GetCommit(h)
		if err != nil {
			return nil, err
		}
		stack = append(stack, commit.Parents()...)
	}
	return seen, nil
}

// IsAncestor reports whether a is an ancestor of (or equal to) b.
func IsAncestor(store CommitSource, a, b objects.Hash) (bool, error) {
	if a == b {
		return true, nil
	}
	ancestorsOfB, err := Ancestors(store, b)
	if err != nil {
		return false, err
	}
	_, ok := ancestorsOfB[a]
	return ok, nil
}

// LowestCommonAncestor computes a split point for a and b: ancestors(a) is
// materialized first, then a breadth-first walk from b (following both
// parents) returns the first id visited that is also in that set.
//
// When multiple lowest common ancestors exist (criss-cross merges), the
// first one encountered in BFS order from b is chosen — spec.md §4.E
// documents that the source does not disambiguate further and permits
// implementers to adopt the same convention, which this does.
//
// Returns "" (absent) if a and b share no common ancestor.
func LowestCommonAncestor(store CommitSource, a, b objects.Hash) (objects.Hash, error) {
	if a == b {
		return a, nil
	}

	ancestorsOfA, err := Ancestors(store, a)
	if err != nil {
		return "", err
	}

	visited := make(map[objects.Hash]struct{})
	queue := []objects.Hash{b}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if h == "" {
			continue
		}
		if _, ok := visited[h]; ok {
			continue
		}
		visited[h] = struct{}{}

		if _, ok := ancestorsOfA[h]; ok {
			return h, nil
		}

		commit, err := store.GetCommit(h)
		if err != nil {
			return "", err
		}
		queue = append(queue, commit.Parents()...)
	}
	return "", nil
}

// AncestorsLenient behaves like Ancestors but treats a commit missing from
// store as a traversal boundary rather than an error: the node is recorded
// as seen but its parents are not explored. Remote sync uses this to
// compute the "from" side of a cross-repository frontier, where the store
// consulted (the peer's, for fetch) may only partially overlap with the
// other repository's history.
func AncestorsLenient(store CommitSource, c objects.Hash) (map[objects.Hash]struct{}, error) {
	seen := make(map[objects.Hash]struct{})
	if c == "" {
		return seen, nil
	}
	stack := []objects.Hash{c}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}

		commit, err := store.GetCommit(h)
		if err != nil {
			if errors.Is(err, objects.ErrMissingObject) {
				continue
			}
			return nil, err
		}
		stack = append(stack, commit.Parents()...)
	}
	return seen, nil
}

// FrontierLenient behaves like Frontier but computes its stop set with
// AncestorsLenient, for callers walking a store that may not fully know
// the "from" side's history (cross-repository frontier computation).
func FrontierLenient(store CommitSource, from, to objects.Hash) (map[objects.Hash]struct{}, error) {
	stopSet, err := AncestorsLenient(store, from)
	if err != nil {
		return nil, err
	}
	return frontierWithStopSet(store, stopSet, to)
}

// Frontier returns the set of commit ids reachable from "to" but not from
// "from" — the ids that must be copied when advancing a ref from "from" to
// "to". Implemented as DFS from "to", pruning at "from" and at previously
// visited ids, per spec.md §4.E.
func Frontier(store CommitSource, from, to objects.Hash) (map[objects.Hash]struct{}, error) {
	stopSet, err := Ancestors(store, from)
	if err != nil {
		return nil, err
	}
	return frontierWithStopSet(store, stopSet, to)
}

// frontierWithStopSet runs the shared DFS-from-"to" traversal used by both
// Frontier and FrontierLenient, pruning at a caller-supplied stop set.
func frontierWithStopSet(store CommitSource, stopSet map[objects.Hash]struct{}, to objects.Hash) (map[objects.Hash]struct{}, error) {
	frontier := make(map[objects.Hash]struct{})
	if to == "" {
		return frontier, nil
	}
	stack := []objects.Hash{to}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h == "" {
			continue
		}
		if _, ok := frontier[h]; ok {
			continue
		}
		if _, stopped := stopSet[h]; stopped {
			continue
		}
		frontier[h] = struct{}{}

		commit, err := store.GetCommit(h)
		if err != nil {
			return nil, err
		}
		stack = append(stack, commit.Parents()...)
	}
	return frontier, nil
}
