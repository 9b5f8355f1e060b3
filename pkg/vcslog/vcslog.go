// Package vcslog implements the Log Renderers component (spec.md §4.K):
// first-parent history, global enumeration, message search, and a
// branch-aware ASCII graph. Every function returns structured data; the
// outer shell (cmd/gitlet) is responsible for printing it, mirroring the
// teacher's separation between pkg/repo's Log/LogByEntity and
// cmd/got/cmd_log.go's rendering.
package vcslog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/odvcencio/gitlet/pkg/objects"
	"github.com/odvcencio/gitlet/pkg/repo"
)

// ErrNoCommitWithMessage is raised by Find when no commit's message equals
// the query.
var ErrNoCommitWithMessage = errors.New("vcslog: found no commit with that message")

const abbrevLen = 7

// Record is one rendered line of history: a commit id plus enough of its
// fields to print spec.md §4.K's format without a second store lookup.
type Record struct {
	ID           objects.Hash
	Message      string
	Timestamp    string
	IsMerge      bool
	ParentAbbrev string
	SecondAbbrev string
}

func abbreviate(h objects.Hash) string {
	s := string(h)
	if len(s) <= abbrevLen {
		return s
	}
	return s[:abbrevLen]
}

func toRecord(id objects.Hash, c *objects.Commit) Record {
	rec := Record{
		ID:        id,
		Message:   c.Message,
		Timestamp: c.Timestamp,
		IsMerge:   c.IsMerge(),
	}
	if rec.IsMerge {
		rec.ParentAbbrev = abbreviate(c.Parent)
		rec.SecondAbbrev = abbreviate(c.SecondParent)
	}
	return rec
}

// Log walks from the current commit following first-parent only, emitting
// one Record per commit, most recent first.
func Log(r *repo.Repository) ([]Record, error) {
	id, commit, err := r.CurrentCommit()
	if err != nil {
		return nil, fmt.Errorf("vcslog: log: %w", err)
	}

	var records []Record
	for {
		records = append(records, toRecord(id, commit))
		if commit.Parent == "" {
			break
		}
		nextID := commit.Parent
		nextCommit, err := r.Store.GetCommit(nextID)
		if err != nil {
			return nil, fmt.Errorf("vcslog: log: %w", err)
		}
		id, commit = nextID, nextCommit
	}
	return records, nil
}

// GlobalLog enumerates every commit in the store. Order is unspecified by
// spec.md §4.K; this renders in fingerprint order for determinism.
func GlobalLog(r *repo.Repository) ([]Record, error) {
	ids, err := r.Store.AllCommitIDs()
	if err != nil {
		return nil, fmt.Errorf("vcslog: global-log: %w", err)
	}
	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		c, err := r.Store.GetCommit(id)
		if err != nil {
			return nil, fmt.Errorf("vcslog: global-log: %w", err)
		}
		records = append(records, toRecord(id, c))
	}
	return records, nil
}

// Find returns the ids of every commit whose message equals query exactly,
// sorted. Fails with ErrNoCommitWithMessage if none match.
func Find(r *repo.Repository, query string) ([]objects.Hash, error) {
	ids, err := r.Store.AllCommitIDs()
	if err != nil {
		return nil, fmt.Errorf("vcslog: find: %w", err)
	}
	var matches []objects.Hash
	for _, id := range ids {
		c, err := r.Store.GetCommit(id)
		if err != nil {
			return nil, fmt.Errorf("vcslog: find: %w", err)
		}
		if c.Message == query {
			matches = append(matches, id)
		}
	}
	if len(matches) == 0 {
		return nil, ErrNoCommitWithMessage
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i] < matches[j] })
	return matches, nil
}

// GraphLine is one row of GraphLog's rendered output: a node glyph plus the
// column it belongs to (0 = first-parent spine, 1 = a second-parent branch
// opened by a merge), matched with the Record it annotates.
type GraphLine struct {
	Column int
	Record Record
}

// GraphLog renders an ASCII-art history: the first-parent spine occupies
// column 0; each merge commit additionally opens column 1 for its
// second-parent chain, walked until it rejoins the first-parent chain at
// the merge base, at which point the column closes. Per spec.md §4.K the
// exact rendering is advisory — this produces a deterministic, branch-aware
// ordering; cmd/gitlet turns it into glyphs.
func GraphLog(r *repo.Repository) ([]GraphLine, error) {
	id, commit, err := r.CurrentCommit()
	if err != nil {
		return nil, fmt.Errorf("vcslog: graph-log: %w", err)
	}

	var lines []GraphLine
	emitted := make(map[objects.Hash]struct{})

	// spine is HEAD's first-parent chain, the commits of column 0.
	spine := make(map[objects.Hash]struct{})
	for cur := id; cur != ""; {
		spine[cur] = struct{}{}
		c, err := r.Store.GetCommit(cur)
		if err != nil {
			return nil, fmt.Errorf("vcslog: graph-log: %w", err)
		}
		cur = c.Parent
	}

	// openBranch walks a second-parent chain (column 1) until it rejoins
	// the main spine (any commit on HEAD's first-parent chain) or reaches a
	// commit already emitted, recording those commits before returning
	// control to the main walk.
	var openBranch func(objects.Hash) error
	openBranch = func(branchID objects.Hash) error {
		for branchID != "" {
			if _, onSpine := spine[branchID]; onSpine {
				return nil
			}
			if _, done := emitted[branchID]; done {
				return nil
			}
			branchCommit, err := r.Store.GetCommit(branchID)
			if err != nil {
				return fmt.Errorf("vcslog: graph-log: %w", err)
			}
			emitted[branchID] = struct{}{}
			lines = append(lines, GraphLine{Column: 1, Record: toRecord(branchID, branchCommit)})
			if branchCommit.IsMerge() {
				if err := openBranch(branchCommit.SecondParent); err != nil {
					return err
				}
			}
			branchID = branchCommit.Parent
		}
		return nil
	}

	for {
		if _, done := emitted[id]; !done {
			emitted[id] = struct{}{}
			lines = append(lines, GraphLine{Column: 0, Record: toRecord(id, commit)})
			if commit.IsMerge() {
				if err := openBranch(commit.SecondParent); err != nil {
					return nil, err
				}
			}
		}
		if commit.Parent == "" {
			break
		}
		nextID := commit.Parent
		nextCommit, err := r.Store.GetCommit(nextID)
		if err != nil {
			return nil, fmt.Errorf("vcslog: graph-log: %w", err)
		}
		id, commit = nextID, nextCommit
	}
	return lines, nil
}
