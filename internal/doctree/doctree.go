package doctree

import "strings"

// Document is a tender converted to markdown-ish text.
type Document struct {
	Title string // Document title (from first heading, metadata or filename)
	Text  string // Full text with "\n" line endings
}

// HeadingNode is one heading in the inferred section hierarchy.
// Nodes are created once by Build and never mutated afterwards.
type HeadingNode struct {
	Level          int    // 1 = top
	RawText        string // The heading line as it appears in the source
	Title          string // Heading text without markup
	NormalizedText string // heading.Normalize(Title)
	StartOffset    int    // Byte offset of the heading line
	EndOffset      int    // Byte offset just past the heading line
	ContentStart   int    // Byte offset where the section body starts
	ContentEnd     int    // Byte offset where the section ends
	Children       []*HeadingNode
	Synthetic      bool // True for nodes that were not headings in the source
}

// Tree is the forest of top-level headings of a document.
type Tree struct {
	Roots []*HeadingNode
}

// Empty reports whether no heading structure was recovered.
func (t *Tree) Empty() bool {
	return t == nil || len(t.Roots) == 0
}

// Line is one source line with its byte offsets. End excludes the newline.
type Line struct {
	Index int
	Start int
	End   int
	Text  string
}

// NormalizeNewlines converts CRLF and CR line endings to LF. All offsets in
// this package refer to normalized text.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Lines splits text into lines with their offsets. An empty text has no lines.
func Lines(text string) []Line {
	if text == "" {
		return nil
	}
	var lines []Line
	start := 0
	for i := 0; ; i++ {
		nl := strings.IndexByte(text[start:], '\n')
		if nl < 0 {
			lines = append(lines, Line{Index: i, Start: start, End: len(text), Text: text[start:]})
			break
		}
		end := start + nl
		lines = append(lines, Line{Index: i, Start: start, End: end, Text: text[start:end]})
		start = end + 1
		if start == len(text) {
			break
		}
	}
	return lines
}

// NextLineStart returns the offset just past the newline that ends l, or the
// text length when l is the last line.
func (l Line) NextLineStart(textLen int) int {
	if l.End < textLen {
		return l.End + 1
	}
	return textLen
}
