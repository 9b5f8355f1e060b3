package refstore

import (
	"errors"
	"testing"
)

func TestBootstrapSetsHead(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Bootstrap("master"); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	head, err := s.ReadHead()
	if err != nil {
		t.Fatalf("ReadHead: %v", err)
	}
	if head != "master" {
		t.Errorf("ReadHead = %q, want master", head)
	}
}

func TestWriteAndReadBranch(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Bootstrap("master"); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if err := s.WriteBranch("master", "abc123"); err != nil {
		t.Fatalf("WriteBranch: %v", err)
	}
	h, err := s.ReadBranch("master")
	if err != nil {
		t.Fatalf("ReadBranch: %v", err)
	}
	if h != "abc123" {
		t.Errorf("ReadBranch = %q, want abc123", h)
	}
}

func TestReadBranchMissing(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Bootstrap("master"); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if _, err := s.ReadBranch("nope"); !errors.Is(err, ErrNoSuchBranch) {
		t.Errorf("ReadBranch(nope): got %v, want ErrNoSuchBranch", err)
	}
}

func TestDeleteCurrentBranchFails(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Bootstrap("master"); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if err := s.WriteBranch("master", "abc123"); err != nil {
		t.Fatalf("WriteBranch: %v", err)
	}
	if err := s.DeleteBranch("master"); !errors.Is(err, ErrDeletingCurrent) {
		t.Errorf("DeleteBranch(master): got %v, want ErrDeletingCurrent", err)
	}
}

func TestDeleteBranch(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Bootstrap("master"); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if err := s.WriteBranch("master", "abc123"); err != nil {
		t.Fatalf("WriteBranch: %v", err)
	}
	if err := s.WriteBranch("dev", "abc123"); err != nil {
		t.Fatalf("WriteBranch(dev): %v", err)
	}
	if err := s.DeleteBranch("dev"); err != nil {
		t.Fatalf("DeleteBranch(dev): %v", err)
	}
	if s.BranchExists("dev") {
		t.Error("dev should no longer exist")
	}
}

func TestListBranchesIncludesRemoteTracking(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Bootstrap("master"); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if err := s.WriteBranch("master", "abc123"); err != nil {
		t.Fatalf("WriteBranch: %v", err)
	}
	if err := s.WriteBranch("origin/master", "def456"); err != nil {
		t.Fatalf("WriteBranch(origin/master): %v", err)
	}
	names, err := s.ListBranches()
	if err != nil {
		t.Fatalf("ListBranches: %v", err)
	}
	want := map[string]bool{"master": true, "origin/master": true}
	if len(names) != len(want) {
		t.Fatalf("ListBranches = %v, want 2 entries", names)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected branch name %q", n)
		}
	}
}

func TestAddRemoteThenResolve(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Bootstrap("master"); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if err := s.AddRemote("peer", "/tmp/peer-repo"); err != nil {
		t.Fatalf("AddRemote: %v", err)
	}
	path, err := s.ResolveRemote("peer")
	if err != nil {
		t.Fatalf("ResolveRemote: %v", err)
	}
	if path != "/tmp/peer-repo" {
		t.Errorf("ResolveRemote = %q, want /tmp/peer-repo", path)
	}
	if err := s.AddRemote("peer", "/tmp/other"); !errors.Is(err, ErrRemoteExists) {
		t.Errorf("AddRemote(dup): got %v, want ErrRemoteExists", err)
	}
}

func TestRemoveRemoteMissing(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Bootstrap("master"); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if err := s.RemoveRemote("nope"); !errors.Is(err, ErrNoSuchRemote) {
		t.Errorf("RemoveRemote(nope): got %v, want ErrNoSuchRemote", err)
	}
}
