package main

import (
	"fmt"

	"github.com/odvcencio/gitlet/pkg/vcslog"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newGraphLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph-log",
		Short: "Print an ASCII-art, branch-aware history graph",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openCurrentRepo()
			if err != nil {
				return err
			}
			lines, err := vcslog.GraphLog(r)
			if err != nil {
				return err
			}
			renderGraph(lines)
			return nil
		},
	}
}

// renderGraph draws one "*" node per commit, indented into its column, with
// the abbreviated id and subject alongside it. Column 1 (opened by a merge
// commit's second-parent chain) is rendered in a distinct color so the two
// lines of history are visually separable; per spec.md §4.K the exact
// glyphs are advisory.
func renderGraph(lines []vcslog.GraphLine) {
	for _, line := range lines {
		short := string(line.Record.ID)
		if len(short) > 7 {
			short = short[:7]
		}
		node := pterm.Sprintf("* %s %s", short, line.Record.Message)
		switch line.Column {
		case 0:
			fmt.Println(node)
		default:
			fmt.Println(pterm.FgMagenta.Sprintf("  %s", node))
		}
	}
}
