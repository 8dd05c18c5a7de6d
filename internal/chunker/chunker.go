// Package chunker cuts document text into scored units for the matcher's
// fallbacks: blank-line paragraphs and fixed-size sliding line windows. Every
// segment keeps byte offsets into the text it was cut from.
package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/tendermatch/internal/doctree"
)

// Config controls segmentation.
type Config struct {
	WindowSize   int // Lines per sliding window.
	MaxParagraph int // Paragraphs longer than this (runes) are split on sentence ends.
	MinChars     int // Segments shorter than this (runes) are dropped.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		WindowSize:   15,
		MaxParagraph: 800,
		MinChars:     2,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WindowSize <= 0 {
		c.WindowSize = d.WindowSize
	}
	if c.MaxParagraph <= 0 {
		c.MaxParagraph = d.MaxParagraph
	}
	if c.MinChars <= 0 {
		c.MinChars = d.MinChars
	}
	return c
}

// Segment is a slice of text with structural position.
type Segment struct {
	Text      string
	Index     int // Sequence number within the segmentation
	Start     int // Byte offset of the first byte
	End       int // Byte offset just past the last byte
	LineStart int // First line index covered
	LineEnd   int // Last line index covered
}

// Paragraphs splits text on blank lines. base is added to every offset so a
// caller can segment a sub-slice and still report document offsets.
func Paragraphs(text string, base int, cfg Config) []Segment {
	cfg = cfg.withDefaults()

	var segs []Segment
	emit := func(lines []doctree.Line) {
		if len(lines) == 0 {
			return
		}
		first, last := lines[0], lines[len(lines)-1]
		start, end := trimSpan(text, first.Start, last.End)
		if start >= end {
			return
		}
		para := Segment{Text: text[start:end], Start: start, End: end, LineStart: first.Index, LineEnd: last.Index}
		if utf8.RuneCountInString(para.Text) <= cfg.MaxParagraph {
			if utf8.RuneCountInString(para.Text) >= cfg.MinChars {
				segs = append(segs, para)
			}
			return
		}
		for _, part := range splitBySentences(text, para, cfg.MaxParagraph) {
			if utf8.RuneCountInString(part.Text) >= cfg.MinChars {
				segs = append(segs, part)
			}
		}
	}

	var run []doctree.Line
	for _, ln := range doctree.Lines(text) {
		if strings.TrimSpace(ln.Text) == "" {
			emit(run)
			run = run[:0]
			continue
		}
		run = append(run, ln)
	}
	emit(run)

	for i := range segs {
		segs[i].Index = i
		segs[i].Start += base
		segs[i].End += base
	}
	return segs
}

// Windows returns every run of cfg.WindowSize consecutive lines, stepping one
// line at a time, with the lines joined by a single space. A text shorter than
// the window yields no windows.
func Windows(text string, cfg Config) []Segment {
	cfg = cfg.withDefaults()
	lines := doctree.Lines(text)
	size := cfg.WindowSize
	if len(lines) == 0 || len(lines) < size {
		return nil
	}

	segs := make([]Segment, 0, len(lines)-size+1)
	parts := make([]string, size)
	for i := 0; i+size <= len(lines); i++ {
		for j := 0; j < size; j++ {
			parts[j] = lines[i+j].Text
		}
		segs = append(segs, Segment{
			Text:      strings.Join(parts, " "),
			Index:     i,
			Start:     lines[i].Start,
			End:       lines[i+size-1].End,
			LineStart: i,
			LineEnd:   i + size - 1,
		})
	}
	return segs
}

// splitBySentences breaks a long paragraph into pieces of at most maxRunes
// (a single over-long sentence is kept whole).
func splitBySentences(text string, para Segment, maxRunes int) []Segment {
	var out []Segment
	pieceStart, pieceRunes := para.Start, 0
	for _, s := range sentenceSpans(text, para.Start, para.End) {
		n := utf8.RuneCountInString(text[s[0]:s[1]])
		if pieceRunes+n > maxRunes && pieceRunes > 0 {
			out = appendTrimmed(out, text, pieceStart, s[0], para)
			pieceStart, pieceRunes = s[0], 0
		}
		pieceRunes += n
	}
	return appendTrimmed(out, text, pieceStart, para.End, para)
}

func appendTrimmed(out []Segment, text string, start, end int, para Segment) []Segment {
	start, end = trimSpan(text, start, end)
	if start >= end {
		return out
	}
	return append(out, Segment{Text: text[start:end], Start: start, End: end, LineStart: para.LineStart, LineEnd: para.LineEnd})
}

// sentenceSpans returns [start, end) pairs covering text[start:end], cut after
// sentence-ending punctuation.
func sentenceSpans(text string, start, end int) [][2]int {
	var spans [][2]int
	cur := start
	for i, r := range text[start:end] {
		if isSentenceEnd(r) {
			stop := start + i + utf8.RuneLen(r)
			spans = append(spans, [2]int{cur, stop})
			cur = stop
		}
	}
	if cur < end {
		spans = append(spans, [2]int{cur, end})
	}
	return spans
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '。', '！', '？', '；', '!', '?', ';', '\n':
		return true
	}
	return false
}

func trimSpan(text string, start, end int) (int, int) {
	for start < end {
		r, n := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += n
	}
	for end > start {
		r, n := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= n
	}
	return start, end
}
