package parser

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/dgallion1/tendermatch/internal/doctree"
)

var escapedNumberRe = regexp.MustCompile(`(\d)\\([.)])`)

// HTMLParser handles HTML files. By default the readability article is
// converted; FullPage converts the whole body. Headings become ATX lines so
// the heading detector sees them like any markdown input.
type HTMLParser struct {
	FullPage bool
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}
	root, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &doctree.Document{Title: baseTitle(filename)}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}

	body := ""
	if !p.FullPage {
		article, err := readability.FromReader(bytes.NewReader(src), &url.URL{})
		if err == nil && strings.TrimSpace(article.TextContent) != "" {
			body = article.Content
		}
	}
	if body == "" {
		if b := findBody(root); b != nil {
			body = renderNode(b)
		} else {
			body = string(src)
		}
	}

	text, err := htmlToMarkdown(body)
	if err != nil {
		return nil, err
	}
	doc.Text = text
	return doc, nil
}

func htmlToMarkdown(s string) (string, error) {
	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.GitHubFlavored())
	conv.Remove("script", "style", "noscript", "nav", "footer")

	out, err := conv.ConvertString(s)
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	// Ordered-list guards turn "1." into "1\."; numbered headings need it literal.
	out = escapedNumberRe.ReplaceAllString(out, "$1$2")
	return tidy(out), nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}
