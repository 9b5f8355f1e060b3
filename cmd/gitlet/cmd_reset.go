package main

import (
	"github.com/odvcencio/gitlet/pkg/worktree"
	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <commit>",
		Short: "Move the current branch to a commit and restore its tree",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openCurrentRepo()
			if err != nil {
				return err
			}
			return worktree.ResetToCommit(r, args[0])
		},
	}
}
