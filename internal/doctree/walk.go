package doctree

// Walk visits every node reachable from roots in document order (pre-order)
// using an explicit worklist. Returning false from fn skips that node's
// children.
func Walk(roots []*HeadingNode, fn func(n *HeadingNode, depth int) bool) {
	type item struct {
		node  *HeadingNode
		depth int
	}
	work := make([]item, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		work = append(work, item{roots[i], 0})
	}
	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]
		if !fn(it.node, it.depth) {
			continue
		}
		kids := it.node.Children
		for i := len(kids) - 1; i >= 0; i-- {
			work = append(work, item{kids[i], it.depth + 1})
		}
	}
}

// Flatten returns every node under roots in document order.
func Flatten(roots []*HeadingNode) []*HeadingNode {
	var out []*HeadingNode
	Walk(roots, func(n *HeadingNode, _ int) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Descendants returns every node below n, excluding n itself.
func (n *HeadingNode) Descendants() []*HeadingNode {
	return Flatten(n.Children)
}

// Content returns the body of the section from text, the document Build was
// called on.
func (n *HeadingNode) Content(text string) string {
	if n.ContentStart >= n.ContentEnd || n.ContentEnd > len(text) {
		return ""
	}
	return text[n.ContentStart:n.ContentEnd]
}
