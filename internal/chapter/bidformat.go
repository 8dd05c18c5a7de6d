package chapter

import (
	"regexp"
	"strings"

	"github.com/dgallion1/tendermatch/internal/doctree"
	"github.com/dgallion1/tendermatch/internal/heading"
)

// DefaultBidFormatTitles are the chapter subjects that name the bid-format
// (response template) chapter.
var DefaultBidFormatTitles = []string{
	"投标文件格式",
	"投标文件模板",
	"投标格式",
	"投标文件范本",
	"投标文件样本",
}

var outlineRe = regexp.MustCompile(`^\s*#{2,6}\s+\S`)

// BidFormat is the extracted bid-format chapter.
type BidFormat struct {
	Span
	// Outline lists the ##..###### heading lines inside the chapter.
	Outline []string `json:"outline"`
}

// ExtractBidFormat locates the markup chapter heading ("# 第X章 ...") whose
// subject is a bid-format title, or hint, and returns the chapter up to the
// next markup chapter heading. When hint asks for the last chapter (最后 /
// last), or no title matches, the last chapter in the document is used.
// Chapter heading lines are removed from the returned text; the opening one
// is kept only when dropHeading is false.
func ExtractBidFormat(text, hint string, dropHeading bool) (BidFormat, bool) {
	text = doctree.NormalizeNewlines(text)
	lines := doctree.Lines(text)

	titles := DefaultBidFormatTitles
	if hint = strings.TrimSpace(hint); hint != "" {
		titles = append([]string{hint}, titles...)
	}

	var chapters []doctree.Line
	match := -1
	for _, ln := range lines {
		if !isMarkupChapter(ln.Text) {
			continue
		}
		subject := heading.Detect(ln.Text).Subject
		for _, t := range titles {
			if subject == t {
				match = len(chapters)
			}
		}
		chapters = append(chapters, ln)
	}
	if len(chapters) == 0 {
		return BidFormat{}, false
	}

	wantLast := strings.Contains(hint, "最后") || strings.Contains(strings.ToLower(hint), "last")
	if wantLast || match < 0 {
		match = len(chapters) - 1
	}

	open := chapters[match]
	end := len(text)
	if match+1 < len(chapters) {
		end = chapters[match+1].Start
	}

	out := BidFormat{
		Span: Span{
			Start:   open.Start,
			End:     end,
			Heading: strings.TrimSpace(open.Text),
		},
	}

	var kept []string
	for _, ln := range doctree.Lines(text[open.Start:end]) {
		if isMarkupChapter(ln.Text) && (dropHeading || ln.Index > 0) {
			continue
		}
		kept = append(kept, ln.Text)
	}
	section := strings.TrimLeft(strings.Join(kept, "\n"), "\n")
	if section != "" && strings.HasSuffix(text[open.Start:end], "\n") {
		section += "\n"
	}
	out.Text = section
	out.Outline = Outline(section)
	return out, true
}

// Outline returns the trimmed ##..###### heading lines of md in order.
func Outline(md string) []string {
	var items []string
	for _, ln := range doctree.Lines(doctree.NormalizeNewlines(md)) {
		if outlineRe.MatchString(ln.Text) {
			items = append(items, strings.TrimSpace(ln.Text))
		}
	}
	return items
}

func isMarkupChapter(line string) bool {
	h := heading.Detect(line)
	return h.Style == heading.StyleMarkup && h.IsChapter()
}
