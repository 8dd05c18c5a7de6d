package parser

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fumiama/go-docx"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.md", "*parser.MarkdownParser"},
		{"a.MARKDOWN", "*parser.MarkdownParser"},
		{"a.txt", "*parser.TextParser"},
		{"a.html", "*parser.HTMLParser"},
		{"a.htm", "*parser.HTMLParser"},
		{"a.pdf", "*parser.PDFParser"},
		{"a.docx", "*parser.DOCXParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.name, Options{})
		if err != nil {
			t.Errorf("ForFile(%q): unexpected error %v", tt.name, err)
			continue
		}
		if got := fmt.Sprintf("%T", p); got != tt.want {
			t.Errorf("ForFile(%q): expected %s, got %s", tt.name, tt.want, got)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	_, err := ForFile("table.csv", Options{})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if IsSupportedExtension("table.csv") {
		t.Error("expected .csv to be unsupported")
	}
	if !IsSupportedExtension("TENDER.DOCX") {
		t.Error("expected .docx to be supported regardless of case")
	}
}

func TestForFile_PassesOptions(t *testing.T) {
	p, err := ForFile("a.pdf", Options{PDFFallbackPdftotext: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.(*PDFParser).FallbackPdftotext {
		t.Error("expected pdftotext fallback to be enabled")
	}
}

func TestJoinPages(t *testing.T) {
	got := joinPages("第一页\f\f  \f第三页\n")
	want := "第一页\n\n第三页\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func docxPara(style, text string) *docx.Paragraph {
	p := &docx.Paragraph{
		Children: []interface{}{
			&docx.Run{Children: []interface{}{&docx.Text{Text: text}}},
		},
	}
	if style != "" {
		p.Properties = &docx.ParagraphProperties{Style: &docx.Style{Val: style}}
	}
	return p
}

func TestRenderDocx(t *testing.T) {
	items := []interface{}{
		docxPara("Heading1", "第八章 方案详细说明及施工组织设计"),
		docxPara("", "概述。"),
		docxPara("heading 2", "1.1 优化提升改造部分详细方案说明"),
		docxPara("", "   "),
		docxPara("Normal", "改造内容。"),
	}
	text, title := renderDocx(items)

	want := "# 第八章 方案详细说明及施工组织设计\n\n概述。\n\n## 1.1 优化提升改造部分详细方案说明\n\n改造内容。\n"
	if text != want {
		t.Errorf("expected %q, got %q", want, text)
	}
	if title != "第八章 方案详细说明及施工组织设计" {
		t.Errorf("expected title from first heading, got %q", title)
	}
}

func TestDocxHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"heading 3", 3},
		{"Heading6", 6},
		{"Heading7", 0},
		{"Title", 1},
		{"Normal", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := docxHeadingLevel(docxPara(tt.style, "x")); got != tt.want {
			t.Errorf("style %q: expected %d, got %d", tt.style, tt.want, got)
		}
	}
}
