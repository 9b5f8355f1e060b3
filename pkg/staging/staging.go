// Package staging implements the Staging Area component (spec.md §4.D):
// the transient add-set/remove-set that accumulates between commits.
package staging

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrFileAbsent is raised by Add when the working-tree file does not exist.
var ErrFileAbsent = errors.New("staging: file does not exist")

// ErrNothingToRemove is raised by Remove when the path is neither staged
// for addition nor tracked by the current commit.
var ErrNothingToRemove = errors.New("staging: nothing to remove")

// Area is the on-disk staging area: disjoint add-set and remove-set keyed
// by repository-relative path. Grounded on the teacher's
// pkg/repo/staging.go JSON index, trimmed to spec.md's simpler two-set
// model (no entity extraction, no glob expansion, no file-metadata
// caching — none of which spec.md's staging component calls for).
type Area struct {
	Add    map[string]string `json:"add"`    // path -> blob fingerprint (hex string)
	Remove map[string]string `json:"remove"` // path -> blob fingerprint (informational)
}

func empty() *Area {
	return &Area{Add: make(map[string]string), Remove: make(map[string]string)}
}

func indexPath(gitletDir string) string {
	return filepath.Join(gitletDir, "staging.json")
}

// Read loads the staging area from <gitletDir>/staging.json. A missing
// file yields an empty area, not an error.
func Read(gitletDir string) (*Area, error) {
	data, err := os.ReadFile(indexPath(gitletDir))
	if err != nil {
		if os.IsNotExist(err) {
			return empty(), nil
		}
		return nil, fmt.Errorf("staging: read: %w", err)
	}
	var a Area
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("staging: read: unmarshal: %w", err)
	}
	if a.Add == nil {
		a.Add = make(map[string]string)
	}
	if a.Remove == nil {
		a.Remove = make(map[string]string)
	}
	return &a, nil
}

// Write atomically persists the staging area.
func Write(gitletDir string, a *Area) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("staging: write: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(gitletDir, ".staging-tmp-*")
	if err != nil {
		return fmt.Errorf("staging: write: tmpfile: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("staging: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("staging: write: close: %w", err)
	}
	if err := os.Rename(tmpName, indexPath(gitletDir)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("staging: write: rename: %w", err)
	}
	return nil
}

// Clear empties both sets and persists the result.
func Clear(gitletDir string) error {
	return Write(gitletDir, empty())
}

// StageAdd applies spec.md §4.D's stage_add decision policy in-memory. The
// caller is responsible for computing newFingerprint (hashing and storing
// the blob) and for supplying headFingerprint, the path's fingerprint in
// the current commit's tree (empty string if untracked there).
func (a *Area) StageAdd(path, newFingerprint, headFingerprint string) {
	delete(a.Remove, path)
	if newFingerprint == headFingerprint && headFingerprint != "" {
		delete(a.Add, path)
		return
	}
	a.Add[path] = newFingerprint
}

// StageRemove applies spec.md §4.D's stage_remove decision policy:
//  1. If present in add-set, remove it there.
//  2. If tracked by the current commit, insert into remove-set.
//  3. If neither applied, fail ErrNothingToRemove.
//
// headFingerprint is the path's fingerprint in the current commit's tree
// ("" if untracked). Returns whether the working-tree file should be
// deleted by the caller (true iff the path was tracked by the current
// commit).
func (a *Area) StageRemove(path, headFingerprint string) (shouldDeleteWorkingFile bool, err error) {
	_, wasStaged := a.Add[path]
	if wasStaged {
		delete(a.Add, path)
	}

	trackedByHead := headFingerprint != ""
	if trackedByHead {
		a.Remove[path] = headFingerprint
	}

	if !wasStaged && !trackedByHead {
		return false, ErrNothingToRemove
	}
	return trackedByHead, nil
}

// Added returns the sorted list of add-set paths.
func (a *Area) Added() []string { return sortedKeys(a.Add) }

// Removed returns the sorted list of remove-set paths.
func (a *Area) Removed() []string { return sortedKeys(a.Remove) }

// IsEmpty reports whether both sets are empty.
func (a *Area) IsEmpty() bool { return len(a.Add) == 0 && len(a.Remove) == 0 }

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
