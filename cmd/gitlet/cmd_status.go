package main

import (
	"fmt"

	"github.com/odvcencio/gitlet/pkg/status"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show branches, staged changes, and untracked files",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openCurrentRepo()
			if err != nil {
				return err
			}
			report, err := status.Compute(r)
			if err != nil {
				return err
			}
			renderStatus(report)
			return nil
		},
	}
}

func renderStatus(report *status.Report) {
	printSection("Branches", decorateBranches(report))
	printSection("Staged Files", report.Staged)
	printSection("Removed Files", report.Removed)
	printSection("Modifications Not Staged For Commit", report.ModifiedNotStaged)
	printSection("Untracked Files", report.Untracked)
}

func decorateBranches(report *status.Report) []string {
	out := make([]string, len(report.Branches))
	for i, name := range report.Branches {
		if name == report.CurrentBranch {
			out[i] = "*" + name
		} else {
			out[i] = name
		}
	}
	return out
}

func printSection(title string, entries []string) {
	pterm.DefaultSection.Println(title)
	if len(entries) == 0 {
		fmt.Println()
		return
	}
	for _, e := range entries {
		fmt.Println(e)
	}
	fmt.Println()
}
