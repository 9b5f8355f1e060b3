package staging

import (
	"fmt"

	"github.com/odvcencio/gitlet/pkg/repo"
)

// headFingerprint looks up path's blob fingerprint in the repository's
// current commit tree, returning "" if the path is untracked there.
func headFingerprint(r *repo.Repository, path string) (string, error) {
	_, commit, err := r.CurrentCommit()
	if err != nil {
		return "", fmt.Errorf("staging: resolve HEAD: %w", err)
	}
	h, ok := commit.Tree[path]
	if !ok {
		return "", nil
	}
	return string(h), nil
}

// Add implements spec.md §4.D's stage_add operation end to end: it reads
// the working-tree file, writes its content as a blob, looks up the path's
// fingerprint under the current commit, and updates the staging area.
func Add(r *repo.Repository, path string) error {
	if !r.WorkingFileExists(path) {
		return fmt.Errorf("staging: add %q: %w", path, ErrFileAbsent)
	}
	content, err := r.ReadWorkingFile(path)
	if err != nil {
		return fmt.Errorf("staging: add %q: %w", path, err)
	}
	blobHash, err := r.Store.PutBlob(content)
	if err != nil {
		return fmt.Errorf("staging: add %q: %w", path, err)
	}

	head, err := headFingerprint(r, path)
	if err != nil {
		return fmt.Errorf("staging: add %q: %w", path, err)
	}

	area, err := Read(r.MetaDir)
	if err != nil {
		return fmt.Errorf("staging: add %q: %w", path, err)
	}
	area.StageAdd(path, string(blobHash), head)
	if err := Write(r.MetaDir, area); err != nil {
		return fmt.Errorf("staging: add %q: %w", path, err)
	}
	return nil
}

// Remove implements spec.md §4.D's stage_remove operation end to end,
// including the working-tree deletion spec'd by step 2.
func Remove(r *repo.Repository, path string) error {
	head, err := headFingerprint(r, path)
	if err != nil {
		return fmt.Errorf("staging: remove %q: %w", path, err)
	}

	area, err := Read(r.MetaDir)
	if err != nil {
		return fmt.Errorf("staging: remove %q: %w", path, err)
	}

	shouldDelete, err := area.StageRemove(path, head)
	if err != nil {
		return fmt.Errorf("staging: remove %q: %w", path, err)
	}
	if err := Write(r.MetaDir, area); err != nil {
		return fmt.Errorf("staging: remove %q: %w", path, err)
	}
	if shouldDelete {
		if err := r.RemoveWorkingFile(path); err != nil {
			return fmt.Errorf("staging: remove %q: %w", path, err)
		}
	}
	return nil
}
