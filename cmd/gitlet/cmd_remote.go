package main

import (
	"github.com/odvcencio/gitlet/pkg/merge"
	"github.com/odvcencio/gitlet/pkg/remote"
	"github.com/spf13/cobra"
)

func newAddRemoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-remote <name> <path>",
		Short: "Record a filesystem path as a named remote",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openCurrentRepo()
			if err != nil {
				return err
			}
			return r.Refs.AddRemote(args[0], args[1])
		},
	}
}

func newRmRemoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm-remote <name>",
		Short: "Forget a named remote",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openCurrentRepo()
			if err != nil {
				return err
			}
			return r.Refs.RemoveRemote(args[0])
		},
	}
}

func newPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push <remote> <branch>",
		Short: "Copy the current history to a remote's branch",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openCurrentRepo()
			if err != nil {
				return err
			}
			return remote.Push(r, args[0], args[1])
		},
	}
}

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <remote> <branch>",
		Short: "Download a remote's branch into a remote-tracking ref",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openCurrentRepo()
			if err != nil {
				return err
			}
			return remote.Fetch(r, args[0], args[1])
		},
	}
}

func newPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull <remote> <branch>",
		Short: "Fetch a remote's branch and merge it into the current branch",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openCurrentRepo()
			if err != nil {
				return err
			}
			signer, err := commitSigner(r.MetaDir)
			if err != nil {
				return err
			}
			result, err := remote.Pull(r, args[0], args[1], merge.Options{Signer: signer})
			if err != nil {
				return err
			}
			printMergeResult(result)
			return nil
		},
	}
}
