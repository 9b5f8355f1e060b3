package main

import (
	"fmt"

	"github.com/odvcencio/gitlet/pkg/merge"
	"github.com/spf13/cobra"
)

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <branch>",
		Short: "Merge the given branch into the current branch",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openCurrentRepo()
			if err != nil {
				return err
			}
			signer, err := commitSigner(r.MetaDir)
			if err != nil {
				return err
			}
			result, err := merge.Merge(r, args[0], merge.Options{Signer: signer})
			if err != nil {
				return err
			}
			printMergeResult(result)
			return nil
		},
	}
}

func printMergeResult(result *merge.Result) {
	switch {
	case result.GivenIsAncestor:
		fmt.Println("Given branch is an ancestor of the current branch.")
	case result.FastForwarded:
		fmt.Println("Current branch fast-forwarded.")
	case result.ConflictOccurred:
		fmt.Println("Encountered a merge conflict.")
	}
}
