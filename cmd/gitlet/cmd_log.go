package main

import (
	"fmt"

	"github.com/odvcencio/gitlet/pkg/vcslog"
	"github.com/spf13/cobra"
)

func printRecord(rec vcslog.Record) {
	fmt.Println("===")
	if rec.IsMerge {
		fmt.Printf("commit %s\n", rec.ID)
		fmt.Printf("Merge: %s %s\n", rec.ParentAbbrev, rec.SecondAbbrev)
	} else {
		fmt.Printf("commit %s\n", rec.ID)
	}
	fmt.Printf("Date: %s\n", rec.Timestamp)
	fmt.Println(rec.Message)
	fmt.Println()
}

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Print the first-parent history of the current branch",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openCurrentRepo()
			if err != nil {
				return err
			}
			records, err := vcslog.Log(r)
			if err != nil {
				return err
			}
			for _, rec := range records {
				printRecord(rec)
			}
			return nil
		},
	}
}

func newGlobalLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "global-log",
		Short: "Print every commit in the repository",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openCurrentRepo()
			if err != nil {
				return err
			}
			records, err := vcslog.GlobalLog(r)
			if err != nil {
				return err
			}
			for _, rec := range records {
				printRecord(rec)
			}
			return nil
		},
	}
}

func newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <commit message>",
		Short: "Print the ids of commits with the given exact message",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openCurrentRepo()
			if err != nil {
				return err
			}
			ids, err := vcslog.Find(r, args[0])
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
}
