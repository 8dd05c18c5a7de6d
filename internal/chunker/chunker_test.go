package chunker

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParagraphs_SplitsOnBlankLines(t *testing.T) {
	text := "  第一段第一行\n第一段第二行\n\n \n第二段  \n"
	base := 10
	segs := Paragraphs(text, base, DefaultConfig())

	if len(segs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(segs))
	}
	if segs[0].Text != "第一段第一行\n第一段第二行" {
		t.Errorf("expected first paragraph, got %q", segs[0].Text)
	}
	if segs[1].Text != "第二段" {
		t.Errorf("expected second paragraph, got %q", segs[1].Text)
	}
	for i, s := range segs {
		if s.Index != i {
			t.Errorf("segment %d: expected index %d, got %d", i, i, s.Index)
		}
		if got := text[s.Start-base : s.End-base]; got != s.Text {
			t.Errorf("segment %d: offsets select %q, expected %q", i, got, s.Text)
		}
	}
	if segs[1].LineStart != 4 || segs[1].LineEnd != 4 {
		t.Errorf("expected second paragraph on line 4, got %d-%d", segs[1].LineStart, segs[1].LineEnd)
	}
}

func TestParagraphs_LongParagraphSplitsOnSentences(t *testing.T) {
	text := strings.Repeat("施工方案说明。", 50)
	cfg := Config{MaxParagraph: 100, MinChars: 1}
	segs := Paragraphs(text, 0, cfg)

	if len(segs) < 2 {
		t.Fatalf("expected long paragraph to be split, got %d segments", len(segs))
	}
	var joined strings.Builder
	for i, s := range segs {
		if n := utf8.RuneCountInString(s.Text); n > cfg.MaxParagraph {
			t.Errorf("segment %d: %d runes exceeds %d", i, n, cfg.MaxParagraph)
		}
		if !strings.HasSuffix(s.Text, "。") {
			t.Errorf("segment %d: expected to end on a sentence boundary, got %q", i, s.Text)
		}
		if text[s.Start:s.End] != s.Text {
			t.Errorf("segment %d: offsets do not select its text", i)
		}
		joined.WriteString(s.Text)
	}
	if joined.String() != text {
		t.Error("expected split segments to cover the paragraph")
	}
}

func TestParagraphs_MinCharsFiltering(t *testing.T) {
	segs := Paragraphs("a\n\nbb", 0, Config{MinChars: 2})
	if len(segs) != 1 || segs[0].Text != "bb" {
		t.Errorf("expected only [bb], got %+v", segs)
	}
}

func TestParagraphs_Empty(t *testing.T) {
	if segs := Paragraphs("", 0, DefaultConfig()); len(segs) != 0 {
		t.Errorf("expected 0 segments, got %d", len(segs))
	}
	if segs := Paragraphs("\n\n  \n", 0, Config{}); len(segs) != 0 {
		t.Errorf("expected 0 segments for blank text, got %d", len(segs))
	}
}

func TestWindows_Sliding(t *testing.T) {
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, fmt.Sprintf("L%d", i))
	}
	text := strings.Join(lines, "\n")
	segs := Windows(text, Config{WindowSize: 15})

	if len(segs) != 6 {
		t.Fatalf("expected 6 windows, got %d", len(segs))
	}
	if want := strings.Join(lines[:15], " "); segs[0].Text != want {
		t.Errorf("expected first window %q, got %q", want, segs[0].Text)
	}
	last := segs[len(segs)-1]
	if last.LineStart != 5 || last.LineEnd != 19 {
		t.Errorf("expected last window lines 5-19, got %d-%d", last.LineStart, last.LineEnd)
	}
	if last.End != len(text) {
		t.Errorf("expected last window to end at %d, got %d", len(text), last.End)
	}
	if got := text[segs[1].Start:segs[1].End]; !strings.HasPrefix(got, "L1\n") || !strings.HasSuffix(got, "L15") {
		t.Errorf("expected second window span L1..L15, got %q", got)
	}
}

func TestWindows_ShortTextHasNoWindow(t *testing.T) {
	if segs := Windows("甲\n乙\n丙", DefaultConfig()); segs != nil {
		t.Errorf("expected no windows for a text shorter than the window, got %d", len(segs))
	}
	segs := Windows("甲\n乙\n丙", Config{WindowSize: 3})
	if len(segs) != 1 || segs[0].Text != "甲 乙 丙" {
		t.Errorf("expected one window of joined lines, got %+v", segs)
	}
}

func TestWindows_Empty(t *testing.T) {
	if segs := Windows("", Config{}); segs != nil {
		t.Errorf("expected nil, got %v", segs)
	}
}
