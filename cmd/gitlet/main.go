// Command gitlet is the CLI surface described by spec.md §6: a thin
// dispatcher over pkg/repo and its sibling packages. Every handled error
// prints one line and the process exits zero, preserved from the original
// tool's behavior.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Println(errorMessage(err))
	}
	os.Exit(0)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gitlet",
		Short:         "A miniature, local-first version-control system",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errNoCommand
			}
			return errUnknownCommand
		},
	}

	root.AddCommand(
		newInitCmd(),
		newAddCmd(),
		newCommitCmd(),
		newRmCmd(),
		newLogCmd(),
		newGlobalLogCmd(),
		newFindCmd(),
		newStatusCmd(),
		newCheckoutCmd(),
		newBranchCmd(),
		newRmBranchCmd(),
		newResetCmd(),
		newMergeCmd(),
		newGraphLogCmd(),
		newAddRemoteCmd(),
		newRmRemoteCmd(),
		newPushCmd(),
		newFetchCmd(),
		newPullCmd(),
	)
	root.SetHelpCommand(&cobra.Command{Hidden: true})
	return root
}
