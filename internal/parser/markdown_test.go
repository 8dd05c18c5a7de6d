package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_KeepsTextVerbatim(t *testing.T) {
	input := "# 招标文件\r\n\r\n## 第八章 方案详细说明及施工组织设计\r\n\r\n### 1.1 优化提升改造部分详细方案说明\r\n改造内容。\r\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "tender.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := strings.ReplaceAll(input, "\r\n", "\n")
	if doc.Text != want {
		t.Errorf("expected text %q, got %q", want, doc.Text)
	}
	if doc.Title != "招标文件" {
		t.Errorf("expected title %q, got %q", "招标文件", doc.Title)
	}
}

func TestMarkdownParser_PrefersFirstH1(t *testing.T) {
	input := "## 前言\n\n# 招标文件\n\n# 附件\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "x.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "招标文件" {
		t.Errorf("expected title %q, got %q", "招标文件", doc.Title)
	}
}

func TestMarkdownParser_InlineMarkupInTitle(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader("# **第四章** 技术规格书\n"), "x.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "第四章 技术规格书" {
		t.Errorf("expected title %q, got %q", "第四章 技术规格书", doc.Title)
	}
}

func TestMarkdownParser_TitleFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"readme.md", "readme"},
		{"notes.markdown", "notes"},
		{"dir/plain.md", "plain"},
	}
	p := &MarkdownParser{}
	for _, tt := range tests {
		doc, err := p.Parse(strings.NewReader("text without headings"), tt.filename)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tt.filename, err)
		}
		if doc.Title != tt.want {
			t.Errorf("filename=%q: expected title %q, got %q", tt.filename, tt.want, doc.Title)
		}
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "" {
		t.Errorf("expected empty text, got %q", doc.Text)
	}
}
