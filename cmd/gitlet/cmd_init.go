package main

import (
	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a new Gitlet repository in the current directory",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := repo.Init(".")
			return err
		},
	}
}

// exactArgs mirrors cobra.ExactArgs but reports spec.md §6's
// "Incorrect operands." wording instead of cobra's default usage text.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errBadOperands
		}
		return nil
	}
}

func openCurrentRepo() (*repo.Repository, error) {
	return repo.Open(".")
}
