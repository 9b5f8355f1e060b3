// Package status implements the Status Reporter component (spec.md §4.I):
// the staged / modified-not-staged / untracked view of a repository.
package status

import (
	"fmt"
	"sort"

	"github.com/odvcencio/gitlet/pkg/objects"
	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/odvcencio/gitlet/pkg/staging"
)

// Report is the structured result spec.md §4.I describes; the outer
// shell renders it, this package never prints.
type Report struct {
	Branches          []string // qualified names, current branch noted via CurrentBranch
	CurrentBranch     string
	Staged            []string
	Removed           []string
	ModifiedNotStaged []string // "<path> (modified)" / "<path> (deleted)"
	Untracked         []string
}

// Compute builds a Report for the repository's current state.
func Compute(r *repo.Repository) (*Report, error) {
	branches, err := r.Refs.ListBranches()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	current, err := r.Refs.CurrentBranchName()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	area, err := staging.Read(r.MetaDir)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	_, commit, err := r.CurrentCommit()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	workingFiles, err := r.ListWorkingFiles()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	workingSet := make(map[string]struct{}, len(workingFiles))
	for _, p := range workingFiles {
		workingSet[p] = struct{}{}
	}

	var modified []string
	seenModified := make(map[string]struct{})
	markModified := func(path, verb string) {
		key := path
		if _, done := seenModified[key]; done {
			return
		}
		seenModified[key] = struct{}{}
		modified = append(modified, fmt.Sprintf("%s (%s)", path, verb))
	}

	// tracked in current, unstaged, working differs from tracked blob ->
	// "(modified)"; tracked in current, not in remove-set, absent from
	// working tree -> "(deleted)".
	for path, headBlob := range commit.Tree {
		if _, staged := area.Add[path]; staged {
			continue
		}
		if _, removed := area.Remove[path]; removed {
			continue
		}
		if _, onDisk := workingSet[path]; !onDisk {
			markModified(path, "deleted")
			continue
		}
		data, err := r.ReadWorkingFile(path)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		if objects.HashBytes(data) != headBlob {
			markModified(path, "modified")
		}
	}

	// staged for addition but absent from working tree -> "(deleted)";
	// staged for addition with working content differing from staged
	// blob -> "(modified)".
	for path, stagedBlob := range area.Add {
		if _, onDisk := workingSet[path]; !onDisk {
			markModified(path, "deleted")
			continue
		}
		data, err := r.ReadWorkingFile(path)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		if string(objects.HashBytes(data)) != stagedBlob {
			markModified(path, "modified")
		}
	}
	sort.Strings(modified)

	// untracked: working-tree files neither tracked by current nor in
	// add-set, plus any path in remove-set but still present on disk.
	untrackedSet := make(map[string]struct{})
	for path := range workingSet {
		_, trackedByHead := commit.Tree[path]
		_, staged := area.Add[path]
		if !trackedByHead && !staged {
			untrackedSet[path] = struct{}{}
		}
	}
	for path := range area.Remove {
		if _, onDisk := workingSet[path]; onDisk {
			untrackedSet[path] = struct{}{}
		}
	}
	untracked := make([]string, 0, len(untrackedSet))
	for p := range untrackedSet {
		untracked = append(untracked, p)
	}
	sort.Strings(untracked)

	return &Report{
		Branches:          branches,
		CurrentBranch:     current,
		Staged:            area.Added(),
		Removed:           area.Removed(),
		ModifiedNotStaged: modified,
		Untracked:         untracked,
	}, nil
}
