package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/tendermatch/internal/doctree"
)

type outlineNode struct {
	Level     int            `json:"level"`
	Title     string         `json:"title"`
	Start     int            `json:"start"`
	End       int            `json:"end"`
	Synthetic bool           `json:"synthetic,omitempty"`
	Children  []*outlineNode `json:"children,omitempty"`
}

func toOutline(nodes []*doctree.HeadingNode) []*outlineNode {
	out := make([]*outlineNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &outlineNode{
			Level:     n.Level,
			Title:     n.Title,
			Start:     n.StartOffset,
			End:       n.ContentEnd,
			Synthetic: n.Synthetic,
			Children:  toOutline(n.Children),
		})
	}
	return out
}

func newOutlineCmd(a *app) *cobra.Command {
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "outline <file|->",
		Short: "Print the heading tree recovered from a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			tree := doctree.Build(doc.Text)
			out := cmd.OutOrStdout()
			if a.jsonOutput() {
				return writeJSON(out, map[string]any{
					"title":    doc.Title,
					"headings": toOutline(tree.Roots),
				})
			}

			fmt.Fprintln(out, doc.Title)
			doctree.Walk(tree.Roots, func(n *doctree.HeadingNode, depth int) bool {
				if maxDepth > 0 && depth >= maxDepth {
					return false
				}
				fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", depth+1), n.Title)
				return true
			})
			return nil
		},
	}
	cmd.Flags().IntVar(&maxDepth, "depth", 0, "limit the printed depth (0 prints everything)")
	return cmd
}
