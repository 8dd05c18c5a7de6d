package doctree

import (
	"strings"

	"github.com/dgallion1/tendermatch/internal/heading"
)

// Build infers the heading hierarchy of text in a single pass. A stack holds
// the open headings; each new heading pops every entry whose level is not
// smaller than its own and becomes a child of whatever remains on top, or a
// root when the stack empties. Table-of-contents lines and lines inside
// fenced code blocks are never headings.
func Build(text string) *Tree {
	text = NormalizeNewlines(text)
	tree := &Tree{}

	var stack []*HeadingNode
	var all []*HeadingNode
	inFence := false

	for _, ln := range Lines(text) {
		trimmed := strings.TrimSpace(ln.Text)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence || heading.IsTOCLine(ln.Text) {
			continue
		}
		h := heading.Detect(ln.Text)
		if !h.IsHeading() {
			continue
		}

		node := &HeadingNode{
			Level:          h.Level,
			RawText:        trimmed,
			Title:          h.Title,
			NormalizedText: heading.Normalize(h.Title),
			StartOffset:    ln.Start,
			EndOffset:      ln.End,
			ContentStart:   ln.NextLineStart(len(text)),
		}

		for len(stack) > 0 && stack[len(stack)-1].Level >= node.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		} else {
			tree.Roots = append(tree.Roots, node)
		}
		stack = append(stack, node)
		all = append(all, node)
	}

	closeSpans(all, len(text))
	return tree
}

// closeSpans sets ContentEnd for every node: a section runs until the next
// heading at the same or a shallower level, or to the end of the text.
func closeSpans(nodes []*HeadingNode, textLen int) {
	var open []*HeadingNode
	for _, n := range nodes {
		for len(open) > 0 && open[len(open)-1].Level >= n.Level {
			open[len(open)-1].ContentEnd = n.StartOffset
			open = open[:len(open)-1]
		}
		open = append(open, n)
	}
	for _, n := range open {
		n.ContentEnd = textLen
	}
}
