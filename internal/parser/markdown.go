package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/tendermatch/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files. The text is kept verbatim; goldmark
// is only used to find the document title.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}
	src = []byte(doctree.NormalizeNewlines(string(src)))

	doc := &doctree.Document{Title: baseTitle(filename), Text: string(src)}
	if t := markdownTitle(src); t != "" {
		doc.Title = t
	}
	return doc, nil
}

// markdownTitle returns the text of the first top-level heading, preferring
// h1 over deeper levels.
func markdownTitle(src []byte) string {
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	best, bestLevel := "", 7
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level >= bestLevel {
			continue
		}
		if t := inlineText(h, src); t != "" {
			best, bestLevel = t, h.Level
			if h.Level == 1 {
				break
			}
		}
	}
	return best
}

// inlineText concatenates the text segments below n.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
