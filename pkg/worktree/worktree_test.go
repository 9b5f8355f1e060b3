package worktree

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/odvcencio/gitlet/pkg/objects"
	"github.com/odvcencio/gitlet/pkg/refstore"
	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/odvcencio/gitlet/pkg/snapshot"
	"github.com/odvcencio/gitlet/pkg/staging"
)

func initRepo(t *testing.T) (*repo.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	r, err := repo.Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return r, dir
}

func writeAndCommit(t *testing.T, r *repo.Repository, dir, path, content, message string) objects.Hash {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, path), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := staging.Add(r, path); err != nil {
		t.Fatalf("add %s: %v", path, err)
	}
	id, err := snapshot.Commit(r, message, snapshot.Options{})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return id
}

func TestCheckoutBranchAlreadyOnBranch(t *testing.T) {
	r, _ := initRepo(t)
	if err := CheckoutBranch(r, "master"); !errors.Is(err, ErrAlreadyOnBranch) {
		t.Errorf("CheckoutBranch(master): got %v, want ErrAlreadyOnBranch", err)
	}
}

func TestCheckoutBranchNoSuchBranch(t *testing.T) {
	r, _ := initRepo(t)
	if err := CheckoutBranch(r, "ghost"); !errors.Is(err, refstore.ErrNoSuchBranch) {
		t.Errorf("CheckoutBranch(ghost): got %v, want ErrNoSuchBranch", err)
	}
}

func TestCheckoutBranchMaterializesTree(t *testing.T) {
	r, dir := initRepo(t)
	head := writeAndCommit(t, r, dir, "a.txt", "A", "c1")
	if err := r.Refs.WriteBranch("dev", head); err != nil {
		t.Fatalf("create dev: %v", err)
	}
	writeAndCommit(t, r, dir, "a.txt", "B", "c2")

	if err := CheckoutBranch(r, "dev"); err != nil {
		t.Fatalf("CheckoutBranch(dev): %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatalf("read a.txt: %v", err)
	}
	if string(got) != "A" {
		t.Errorf("a.txt = %q, want A after checking out dev", got)
	}
	headName, err := r.Refs.ReadHead()
	if err != nil {
		t.Fatalf("ReadHead: %v", err)
	}
	if headName != "dev" {
		t.Errorf("HEAD = %q, want dev", headName)
	}
}

func TestCheckoutBranchRejectsUntrackedOverwrite(t *testing.T) {
	r, dir := initRepo(t)
	head := writeAndCommit(t, r, dir, "a.txt", "A", "c1")
	if err := r.Refs.WriteBranch("dev", head); err != nil {
		t.Fatalf("create dev: %v", err)
	}
	writeAndCommit(t, r, dir, "b.txt", "tracked-on-master", "c2")

	if err := CheckoutBranch(r, "dev"); err != nil {
		t.Fatalf("CheckoutBranch(dev): %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("untracked-on-dev"), 0o644); err != nil {
		t.Fatalf("write b.txt: %v", err)
	}

	if err := CheckoutBranch(r, "master"); !errors.Is(err, ErrUntrackedOverwrite) {
		t.Errorf("CheckoutBranch(master): got %v, want ErrUntrackedOverwrite", err)
	}
}

func TestResetToCommit(t *testing.T) {
	r, dir := initRepo(t)
	c1 := writeAndCommit(t, r, dir, "a.txt", "A", "c1")
	writeAndCommit(t, r, dir, "a.txt", "B", "c2")

	if err := ResetToCommit(r, string(c1)); err != nil {
		t.Fatalf("ResetToCommit: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatalf("read a.txt: %v", err)
	}
	if string(got) != "A" {
		t.Errorf("a.txt = %q, want A after reset", got)
	}
	master, err := r.Refs.ReadBranch("master")
	if err != nil {
		t.Fatalf("ReadBranch: %v", err)
	}
	if master != c1 {
		t.Errorf("master = %s, want %s", master, c1)
	}
}

func TestCheckoutFileFromCurrentCommit(t *testing.T) {
	r, dir := initRepo(t)
	writeAndCommit(t, r, dir, "a.txt", "A", "c1")
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("scratch edit"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := CheckoutFile(r, "a.txt"); err != nil {
		t.Fatalf("CheckoutFile: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatalf("read a.txt: %v", err)
	}
	if string(got) != "A" {
		t.Errorf("a.txt = %q, want A", got)
	}
}

func TestCheckoutFileNotInCommit(t *testing.T) {
	r, dir := initRepo(t)
	writeAndCommit(t, r, dir, "a.txt", "A", "c1")
	if err := CheckoutFile(r, "nope.txt"); !errors.Is(err, ErrFileNotInCommit) {
		t.Errorf("CheckoutFile(nope.txt): got %v, want ErrFileNotInCommit", err)
	}
}

func TestFastForwardCurrentBranchKeepsHeadName(t *testing.T) {
	r, dir := initRepo(t)
	c1 := writeAndCommit(t, r, dir, "a.txt", "A", "c1")
	if err := r.Refs.WriteBranch("dev", c1); err != nil {
		t.Fatalf("create dev: %v", err)
	}
	c2 := writeAndCommit(t, r, dir, "a.txt", "B", "c2")

	if err := CheckoutBranch(r, "dev"); err != nil {
		t.Fatalf("CheckoutBranch(dev): %v", err)
	}

	c1Commit, err := r.Store.GetCommit(c1)
	if err != nil {
		t.Fatalf("GetCommit(c1): %v", err)
	}
	c2Commit, err := r.Store.GetCommit(c2)
	if err != nil {
		t.Fatalf("GetCommit(c2): %v", err)
	}
	if err := FastForwardCurrentBranch(r, c1Commit.Tree, c2, c2Commit.Tree); err != nil {
		t.Fatalf("FastForwardCurrentBranch: %v", err)
	}

	headName, err := r.Refs.ReadHead()
	if err != nil {
		t.Fatalf("ReadHead: %v", err)
	}
	if headName != "dev" {
		t.Errorf("HEAD = %q, want dev to remain current after a fast-forward", headName)
	}
	dev, err := r.Refs.ReadBranch("dev")
	if err != nil {
		t.Fatalf("ReadBranch(dev): %v", err)
	}
	if dev != c2 {
		t.Errorf("dev = %s, want %s", dev, c2)
	}
	got, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatalf("read a.txt: %v", err)
	}
	if string(got) != "B" {
		t.Errorf("a.txt = %q, want B", got)
	}
}
