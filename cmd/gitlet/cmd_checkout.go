package main

import (
	"github.com/odvcencio/gitlet/pkg/worktree"
	"github.com/spf13/cobra"
)

// newCheckoutCmd implements the three checkout forms from spec.md §6's CLI
// surface: "checkout -- <file>", "checkout <commit> -- <file>", and
// "checkout <branch>", disambiguated positionally the same way the source
// tool does.
func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout [commit] -- <file> | checkout <branch>",
		Short: "Restore a file, or switch to a branch",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openCurrentRepo()
			if err != nil {
				return err
			}
			switch len(args) {
			case 1:
				return worktree.CheckoutBranch(r, args[0])
			case 2:
				if args[0] != "--" {
					return errBadOperands
				}
				return worktree.CheckoutFile(r, args[1])
			case 3:
				if args[1] != "--" {
					return errBadOperands
				}
				return worktree.CheckoutCommitFile(r, args[0], args[2])
			default:
				return errBadOperands
			}
		},
	}
}
