// Package repo ties the lower-level components (objects, refstore,
// staging) together into a single Repository handle. Higher-level
// components (snapshot, worktree, status, merge, remote, vcslog) operate
// on *Repository rather than duplicating its plumbing, mirroring the
// composition graph in spec.md §2.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/odvcencio/gitlet/pkg/objects"
	"github.com/odvcencio/gitlet/pkg/refstore"
)

// MetaDirName is the repository metadata directory name, per spec.md §6.
const MetaDirName = ".gitlet"

// DefaultBranch is the branch HEAD names immediately after Init, before
// the bootstrap commit exists.
const DefaultBranch = "master"

// ErrAlreadyInitialized is raised by Init when .gitlet already exists.
var ErrAlreadyInitialized = errors.New("repo: repository already initialized")

// ErrNotInitialized is raised by Open when no .gitlet directory is found.
var ErrNotInitialized = errors.New("repo: not an initialized repository")

// Repository is a handle on one repository root: its working tree, its
// object store, and its ref store.
type Repository struct {
	RootDir string
	MetaDir string
	Store   *objects.Store
	Refs    *refstore.Store
}

// Init creates a brand-new repository rooted at path and writes its
// bootstrap commit (spec.md §3: "only the bootstrap commit has no
// parent"; its message is allowed to be empty and its timestamp is the
// Unix epoch).
func Init(path string) (*Repository, error) {
	metaDir := filepath.Join(path, MetaDirName)
	if _, err := os.Stat(metaDir); err == nil {
		return nil, ErrAlreadyInitialized
	}

	r := &Repository{
		RootDir: path,
		MetaDir: metaDir,
		Store:   objects.NewStore(metaDir),
		Refs:    refstore.New(metaDir),
	}
	if err := r.Refs.Bootstrap(DefaultBranch); err != nil {
		return nil, fmt.Errorf("repo: init: %w", err)
	}

	bootstrap := &objects.Commit{
		Message:   "initial commit",
		Timestamp: objects.EpochTimestamp,
		Tree:      map[string]objects.Hash{},
	}
	id, err := r.Store.PutCommit(bootstrap)
	if err != nil {
		return nil, fmt.Errorf("repo: init: write bootstrap commit: %w", err)
	}
	if err := r.Refs.WriteBranch(DefaultBranch, id); err != nil {
		return nil, fmt.Errorf("repo: init: %w", err)
	}
	return r, nil
}

// Open locates the repository root by walking upward from path looking
// for a .gitlet directory.
func Open(path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("repo: open: %w", err)
	}
	cur := abs
	for {
		metaDir := filepath.Join(cur, MetaDirName)
		if info, err := os.Stat(metaDir); err == nil && info.IsDir() {
			return &Repository{
				RootDir: cur,
				MetaDir: metaDir,
				Store:   objects.NewStore(metaDir),
				Refs:    refstore.New(metaDir),
			}, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, ErrNotInitialized
		}
		cur = parent
	}
}

// CurrentCommitID resolves HEAD to the fingerprint of the current commit.
func (r *Repository) CurrentCommitID() (objects.Hash, error) {
	head, err := r.Refs.ReadHead()
	if err != nil {
		return "", fmt.Errorf("repo: current commit: %w", err)
	}
	return r.Refs.ReadBranch(head)
}

// CurrentCommit resolves and reads the current commit.
func (r *Repository) CurrentCommit() (objects.Hash, *objects.Commit, error) {
	id, err := r.CurrentCommitID()
	if err != nil {
		return "", nil, err
	}
	c, err := r.Store.GetCommit(id)
	if err != nil {
		return "", nil, fmt.Errorf("repo: current commit: %w", err)
	}
	return id, c, nil
}

// AbsPath resolves a repository-relative path to an absolute filesystem
// path under the working root.
func (r *Repository) AbsPath(relPath string) string {
	return filepath.Join(r.RootDir, filepath.FromSlash(relPath))
}

// ListWorkingFiles returns the repository-relative names of every regular
// file directly under the working root, excluding the metadata directory.
// Per spec.md §9 ("A flat directory listing is sufficient; subdirectories
// are neither tracked nor walked into"), this does not recurse.
func (r *Repository) ListWorkingFiles() ([]string, error) {
	entries, err := os.ReadDir(r.RootDir)
	if err != nil {
		return nil, fmt.Errorf("repo: list working files: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if name == MetaDirName {
			continue
		}
		out = append(out, filepath.ToSlash(name))
	}
	sort.Strings(out)
	return out, nil
}

// WorkingFileExists reports whether path exists as a regular file in the
// working tree.
func (r *Repository) WorkingFileExists(path string) bool {
	info, err := os.Stat(r.AbsPath(path))
	return err == nil && !info.IsDir()
}

// ReadWorkingFile reads the raw bytes of a tracked-or-not working-tree
// file.
func (r *Repository) ReadWorkingFile(path string) ([]byte, error) {
	data, err := os.ReadFile(r.AbsPath(path))
	if err != nil {
		return nil, fmt.Errorf("repo: read %q: %w", path, err)
	}
	return data, nil
}

// WriteWorkingFile atomically overwrites (creating if absent) a
// working-tree file.
func (r *Repository) WriteWorkingFile(path string, data []byte) error {
	abs := r.AbsPath(path)
	tmp, err := os.CreateTemp(r.RootDir, ".gitlet-tmp-*")
	if err != nil {
		return fmt.Errorf("repo: write %q: tmpfile: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("repo: write %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("repo: write %q: close: %w", path, err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("repo: write %q: rename: %w", path, err)
	}
	return nil
}

// RemoveWorkingFile deletes a working-tree file if present. Absence is
// not an error.
func (r *Repository) RemoveWorkingFile(path string) error {
	if err := os.Remove(r.AbsPath(path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("repo: remove %q: %w", path, err)
	}
	return nil
}

// CurrentBranchIsLocal reports whether HEAD names a local branch (no "/")
// as opposed to a remote-tracking branch ("<remote>/<branch>").
func CurrentBranchIsLocal(head string) bool {
	return !strings.Contains(head, "/")
}
