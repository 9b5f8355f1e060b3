package main

import (
	"github.com/odvcencio/gitlet/pkg/staging"
	"github.com/spf13/cobra"
)

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <file>",
		Short: "Unstage and/or mark a file for removal on the next commit",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openCurrentRepo()
			if err != nil {
				return err
			}
			return staging.Remove(r, args[0])
		},
	}
}
