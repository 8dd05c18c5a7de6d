// Package chapter slices whole chapters out of tender markdown. Chapter
// numbers in real tenders are unreliable, so a chapter ends where a heading
// names the following chapter's subject, not where the numbering says.
package chapter

import (
	"strings"

	"github.com/dgallion1/tendermatch/internal/doctree"
	"github.com/dgallion1/tendermatch/internal/heading"
)

// DefaultScanLimit is how many leading lines are searched for the first real
// chapter-1 heading.
const DefaultScanLimit = 200

// Options configures Extract.
type Options struct {
	StartChapter   int
	StartSynonyms  []string // Empty accepts any title.
	StopChapter    int      // Defaults to StartChapter+1; used only without StopSynonyms.
	StopSynonyms   []string
	IncludeHeading bool
	ScanLimit      int // Defaults to DefaultScanLimit.
}

// Tech-spec chapter presets.
var (
	TechSpecSynonyms  = []string{"技术规格书", "技术规范", "技术标准及规格", "技术标准", "技术条件"}
	BidFormatSynonyms = []string{"投标文件格式", "投标格式", "投标模板"}
)

// TechSpec returns the options for the technical specification chapter
// (第四章), which runs until the bid-format chapter.
func TechSpec(includeHeading bool) Options {
	return Options{
		StartChapter:   4,
		StartSynonyms:  TechSpecSynonyms,
		StopChapter:    5,
		StopSynonyms:   BidFormatSynonyms,
		IncludeHeading: includeHeading,
	}
}

// Span is an extracted range of the line-ending-normalized text.
type Span struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Heading string `json:"heading"`
	Text    string `json:"text"`
}

type state int

const (
	outside state = iota
	inTarget
)

// Extract runs the chapter state machine over text. ok is false when the
// start chapter was never entered; a found chapter with no body returns ok
// with an empty Text.
func Extract(text string, opts Options) (Span, bool) {
	if opts.StartChapter <= 0 {
		return Span{}, false
	}
	if opts.StopChapter <= 0 {
		opts.StopChapter = opts.StartChapter + 1
	}
	if opts.ScanLimit <= 0 {
		opts.ScanLimit = DefaultScanLimit
	}

	text = doctree.NormalizeNewlines(text)
	lines := doctree.Lines(text)

	st := outside
	var span Span
	for _, ln := range lines[bodyStart(lines, opts.ScanLimit):] {
		if heading.IsTOCLine(ln.Text) {
			continue
		}
		h := heading.Detect(ln.Text)
		if !h.IsChapter() {
			continue
		}

		switch st {
		case outside:
			if h.Chapter == opts.StartChapter && (len(opts.StartSynonyms) == 0 || h.Subject == "" || containsAny(h.Subject, opts.StartSynonyms)) {
				st = inTarget
				span.Heading = strings.TrimSpace(ln.Text)
				span.Start = ln.Start
				if !opts.IncludeHeading {
					span.Start = ln.NextLineStart(len(text))
				}
				span.End = len(text)
			}
		case inTarget:
			if isStop(h, opts) {
				span.End = ln.Start
				span.Text = text[span.Start:span.End]
				return span, true
			}
		}
	}

	if st == outside {
		return Span{}, false
	}
	span.Text = text[span.Start:span.End]
	return span, true
}

// bodyStart returns the index of the first non-TOC chapter-1 heading within
// limit lines, or 0.
func bodyStart(lines []doctree.Line, limit int) int {
	for i, ln := range lines {
		if i >= limit {
			break
		}
		if heading.IsTOCLine(ln.Text) {
			continue
		}
		if h := heading.Detect(ln.Text); h.IsChapter() && h.Chapter == 1 {
			return i
		}
	}
	return 0
}

// isStop reports whether h closes the target chapter: any chapter heading
// whose title names a stop synonym, whatever its number. Without stop
// synonyms the StopChapter number alone ends the chapter.
func isStop(h heading.Heading, opts Options) bool {
	if len(opts.StopSynonyms) == 0 {
		return h.Chapter == opts.StopChapter
	}
	return h.Subject != "" && containsAny(h.Subject, opts.StopSynonyms)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
