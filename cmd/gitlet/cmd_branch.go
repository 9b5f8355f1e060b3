package main

import (
	"fmt"

	"github.com/odvcencio/gitlet/pkg/refstore"
	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branch <name>",
		Short: "Create a new branch pointing at the current commit",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openCurrentRepo()
			if err != nil {
				return err
			}
			name := args[0]
			if r.Refs.BranchExists(name) {
				return fmt.Errorf("gitlet: branch %q: %w", name, refstore.ErrBranchExists)
			}
			head, err := r.CurrentCommitID()
			if err != nil {
				return err
			}
			return r.Refs.WriteBranch(name, head)
		},
	}
}

func newRmBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm-branch <name>",
		Short: "Delete a branch (refusing to delete the current branch)",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openCurrentRepo()
			if err != nil {
				return err
			}
			return r.Refs.DeleteBranch(args[0])
		},
	}
}
