package repo_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/odvcencio/gitlet/pkg/merge"
	"github.com/odvcencio/gitlet/pkg/objects"
	"github.com/odvcencio/gitlet/pkg/remote"
	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/odvcencio/gitlet/pkg/snapshot"
	"github.com/odvcencio/gitlet/pkg/staging"
	"github.com/odvcencio/gitlet/pkg/vcslog"
	"github.com/odvcencio/gitlet/pkg/worktree"
)

// These tests exercise spec.md §6's end-to-end scenarios S1-S6 against the
// assembled components, the way the teacher's own cmd-level tests drive
// pkg/repo rather than re-deriving each component's unit behavior.

func writeFile(t *testing.T, root, path, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, path), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mustAdd(t *testing.T, r *repo.Repository, path string) {
	t.Helper()
	if err := staging.Add(r, path); err != nil {
		t.Fatalf("add %s: %v", path, err)
	}
}

func mustCommit(t *testing.T, r *repo.Repository, message string) objects.Hash {
	t.Helper()
	id, err := snapshot.Commit(r, message, snapshot.Options{})
	if err != nil {
		t.Fatalf("commit %q: %v", message, err)
	}
	return id
}

// S1 — Initialize and first commit.
func TestScenarioInitAndFirstCommit(t *testing.T) {
	dir := t.TempDir()
	r, err := repo.Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	writeFile(t, dir, "a.txt", "A")
	mustAdd(t, r, "a.txt")
	mustCommit(t, r, "c1")

	head, err := r.Refs.ReadBranch("master")
	if err != nil {
		t.Fatalf("ReadBranch: %v", err)
	}
	commit, err := r.Store.GetCommit(head)
	if err != nil {
		t.Fatalf("GetCommit: %v", err)
	}
	wantTree := objects.HashBytes([]byte("A"))
	if commit.Tree["a.txt"] != wantTree {
		t.Errorf("tree[a.txt] = %s, want %s", commit.Tree["a.txt"], wantTree)
	}

	records, err := vcslog.Log(r)
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Log: got %d records, want 2", len(records))
	}
	if records[0].Message != "c1" {
		t.Errorf("Log[0].Message = %q, want c1", records[0].Message)
	}
	if records[1].Message != "initial commit" {
		t.Errorf("Log[1].Message = %q, want initial commit", records[1].Message)
	}
}

// S2 — Rm of untracked file.
func TestScenarioRemoveUntracked(t *testing.T) {
	dir := t.TempDir()
	r, err := repo.Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	err = staging.Remove(r, "foo")
	if !errors.Is(err, staging.ErrNothingToRemove) {
		t.Errorf("Remove(foo): got %v, want ErrNothingToRemove", err)
	}
}

// S3 — Merge with conflict.
func TestScenarioMergeConflict(t *testing.T) {
	dir := t.TempDir()
	r, err := repo.Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeFile(t, dir, "a.txt", "A")
	mustAdd(t, r, "a.txt")
	mustCommit(t, r, "c1")

	if err := r.Refs.WriteBranch("dev", mustHead(t, r)); err != nil {
		t.Fatalf("create dev: %v", err)
	}

	writeFile(t, dir, "a.txt", "B")
	mustAdd(t, r, "a.txt")
	mustCommit(t, r, "c2")

	if err := worktree.CheckoutBranch(r, "dev"); err != nil {
		t.Fatalf("checkout dev: %v", err)
	}
	writeFile(t, dir, "a.txt", "C")
	mustAdd(t, r, "a.txt")
	c3 := mustCommit(t, r, "c3")

	result, err := merge.Merge(r, "master", merge.Options{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !result.ConflictOccurred {
		t.Error("expected a conflict")
	}

	got, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatalf("read a.txt: %v", err)
	}
	want := "<<<<<<< HEAD\nC=======\nB>>>>>>>\n"
	if string(got) != want {
		t.Errorf("a.txt = %q, want %q", got, want)
	}

	mergeCommit, err := r.Store.GetCommit(result.CommitID)
	if err != nil {
		t.Fatalf("GetCommit(merge): %v", err)
	}
	if mergeCommit.Parent != c3 {
		t.Errorf("merge commit parent = %s, want %s", mergeCommit.Parent, c3)
	}
	if !mergeCommit.IsMerge() {
		t.Error("expected the merge commit to carry a second parent")
	}
}

// S4 — Fast-forward merge.
func TestScenarioFastForwardMerge(t *testing.T) {
	dir := t.TempDir()
	r, err := repo.Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeFile(t, dir, "a.txt", "A")
	mustAdd(t, r, "a.txt")
	mustCommit(t, r, "c1")

	if err := r.Refs.WriteBranch("dev", mustHead(t, r)); err != nil {
		t.Fatalf("create dev: %v", err)
	}

	writeFile(t, dir, "a.txt", "B")
	mustAdd(t, r, "a.txt")
	mustCommit(t, r, "c2")
	writeFile(t, dir, "a.txt", "C")
	mustAdd(t, r, "a.txt")
	c3 := mustCommit(t, r, "c3")

	if err := worktree.CheckoutBranch(r, "dev"); err != nil {
		t.Fatalf("checkout dev: %v", err)
	}

	result, err := merge.Merge(r, "master", merge.Options{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !result.FastForwarded {
		t.Error("expected a fast-forward result")
	}

	head, err := r.Refs.ReadHead()
	if err != nil {
		t.Fatalf("ReadHead: %v", err)
	}
	if head != "dev" {
		t.Errorf("HEAD = %q, want dev to remain current", head)
	}
	devID, err := r.Refs.ReadBranch("dev")
	if err != nil {
		t.Fatalf("ReadBranch(dev): %v", err)
	}
	if devID != c3 {
		t.Errorf("dev = %s, want %s", devID, c3)
	}
}

// S5 — Untracked-file safety.
func TestScenarioUntrackedFileSafety(t *testing.T) {
	dir := t.TempDir()
	r, err := repo.Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeFile(t, dir, "a.txt", "A")
	mustAdd(t, r, "a.txt")
	mustCommit(t, r, "c1")

	if err := r.Refs.WriteBranch("dev", mustHead(t, r)); err != nil {
		t.Fatalf("create dev: %v", err)
	}
	if err := worktree.CheckoutBranch(r, "dev"); err != nil {
		t.Fatalf("checkout dev: %v", err)
	}

	writeFile(t, dir, "b.txt", "untracked")

	if err := worktree.CheckoutBranch(r, "master"); err != nil {
		t.Fatalf("checkout master: %v", err)
	}
	writeFile(t, dir, "b.txt", "different")
	mustAdd(t, r, "b.txt")
	mustCommit(t, r, "c2")

	if err := worktree.CheckoutBranch(r, "dev"); err != nil {
		t.Fatalf("checkout dev: %v", err)
	}
	// Checking out dev pruned master's tracked b.txt; put the untracked
	// copy back in the way.
	writeFile(t, dir, "b.txt", "untracked")

	beforeHead, _ := r.Refs.ReadHead()
	err = worktree.CheckoutBranch(r, "master")
	if !errors.Is(err, worktree.ErrUntrackedOverwrite) {
		t.Fatalf("checkout master: got %v, want ErrUntrackedOverwrite", err)
	}
	afterHead, _ := r.Refs.ReadHead()
	if beforeHead != afterHead {
		t.Errorf("HEAD changed despite rejected checkout: %s -> %s", beforeHead, afterHead)
	}
	got, err := os.ReadFile(filepath.Join(dir, "b.txt"))
	if err != nil {
		t.Fatalf("read b.txt: %v", err)
	}
	if string(got) != "untracked" {
		t.Errorf("b.txt content changed: %q", got)
	}
}

// S6 — Push fast-forward rejected.
func TestScenarioPushNotFastForward(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()

	r1, err := repo.Init(dir1)
	if err != nil {
		t.Fatalf("Init r1: %v", err)
	}
	writeFile(t, dir1, "a.txt", "A")
	mustAdd(t, r1, "a.txt")
	mustCommit(t, r1, "c1")

	r2, err := repo.Init(dir2)
	if err != nil {
		t.Fatalf("Init r2: %v", err)
	}
	writeFile(t, dir2, "a.txt", "A")
	mustAdd(t, r2, "a.txt")
	mustCommit(t, r2, "c1")
	writeFile(t, dir2, "a.txt", "B")
	mustAdd(t, r2, "a.txt")
	r2Head := mustCommit(t, r2, "c2-on-r2")

	if err := r1.Refs.AddRemote("peer", dir2); err != nil {
		t.Fatalf("AddRemote: %v", err)
	}

	writeFile(t, dir1, "c.txt", "local work")
	mustAdd(t, r1, "c.txt")
	mustCommit(t, r1, "c2-on-r1")

	err = remote.Push(r1, "peer", "master")
	if !errors.Is(err, remote.ErrPushNotFastForward) {
		t.Fatalf("Push: got %v, want ErrPushNotFastForward", err)
	}

	gotHead, err := r2.Refs.ReadBranch("master")
	if err != nil {
		t.Fatalf("ReadBranch(r2/master): %v", err)
	}
	if gotHead != r2Head {
		t.Errorf("r2/master = %s, want unchanged %s", gotHead, r2Head)
	}
}

func mustHead(t *testing.T, r *repo.Repository) objects.Hash {
	t.Helper()
	id, _, err := r.CurrentCommit()
	if err != nil {
		t.Fatalf("CurrentCommit: %v", err)
	}
	return id
}

