// Package heading recognizes and canonicalizes section headings in tender
// documents converted to markdown. Tenders mix ATX markers, Chinese chapter
// numbering, bold pseudo-headings and copied tables of contents; this package
// turns a single line into a typed Heading and leaves structure to callers.
package heading

import (
	"regexp"
	"strings"
)

// Style identifies which heading convention a line follows.
type Style int

const (
	StyleNone Style = iota
	StyleMarkup
	StyleChapter
	StyleBareChapter
	StyleBold
)

func (s Style) String() string {
	switch s {
	case StyleMarkup:
		return "markup"
	case StyleChapter:
		return "chapter"
	case StyleBareChapter:
		return "bare_chapter"
	case StyleBold:
		return "bold"
	}
	return "none"
}

// MaxLevel is the deepest heading level tracked.
const MaxLevel = 6

// Heading is the result of classifying one line.
type Heading struct {
	Style Style
	Level int
	// Title is the heading text with markup removed, e.g. "第四章 技术规格书".
	Title string
	// Chapter is the chapter/section number when the title is numbered with
	// 章 or 节, otherwise 0.
	Chapter int
	// Unit is "章" or "节" when Chapter is set.
	Unit string
	// Subject is the title text after the chapter marker, e.g. "技术规格书".
	Subject string
}

// IsHeading reports whether the line was recognized as a heading.
func (h Heading) IsHeading() bool { return h.Style != StyleNone }

// IsChapter reports whether the heading opens a numbered chapter (第X章).
func (h Heading) IsChapter() bool { return h.Chapter > 0 && h.Unit == "章" }

const numeralClass = `[零〇一二三四五六七八九十百0-9]+`

var (
	markupRe      = regexp.MustCompile(`^(#{1,6})\s*([^#\s].*)$`)
	chapterRe     = regexp.MustCompile(`^\*{0,2}\s*第\s*(` + numeralClass + `)\s*([章节])[：:.．、\s-]*([^#]*?)\s*\*{0,2}\s*$`)
	bareChapterRe = regexp.MustCompile(`^\*{0,2}\s*(` + numeralClass + `)\s*(章)[：:.．、\s-]*([^#]*?)\s*\*{0,2}\s*$`)
	boldRe        = regexp.MustCompile(`^\*\*(.{0,50}章.{0,50})\*\*$`)
	boldNumberRe  = regexp.MustCompile(`第?\s*(` + numeralClass + `)\s*章`)
)

// Detect classifies a line. Patterns are tried in order: markup marker run,
// 第X章/节, bare X章, and a bold line containing 章. Lines matching none of
// them yield a Heading with StyleNone.
func Detect(line string) Heading {
	s := strings.TrimSpace(line)
	if s == "" {
		return Heading{}
	}

	if m := markupRe.FindStringSubmatch(s); m != nil {
		title := cleanTitle(m[2])
		h := Heading{Style: StyleMarkup, Level: len(m[1]), Title: title}
		if ch, ok := matchChapter(title); ok {
			h.Chapter, h.Unit, h.Subject = ch.Chapter, ch.Unit, ch.Subject
		}
		return h
	}

	if h, ok := matchChapter(s); ok {
		h.Title = cleanTitle(s)
		return h
	}

	if m := boldRe.FindStringSubmatch(s); m != nil {
		inner := m[1]
		nm := boldNumberRe.FindStringSubmatch(inner)
		if nm == nil {
			return Heading{}
		}
		n := ParseNumeral(nm[1])
		_, after, _ := strings.Cut(inner, "章")
		return Heading{
			Style:   StyleBold,
			Level:   clampLevel(n),
			Title:   cleanTitle(inner),
			Chapter: n,
			Unit:    "章",
			Subject: strings.Trim(after, " ：:．。.、-"),
		}
	}

	return Heading{}
}

func matchChapter(s string) (Heading, bool) {
	style := StyleChapter
	m := chapterRe.FindStringSubmatch(s)
	if m == nil {
		style = StyleBareChapter
		m = bareChapterRe.FindStringSubmatch(s)
	}
	if m == nil {
		return Heading{}, false
	}
	n := ParseNumeral(m[1])
	return Heading{
		Style:   style,
		Level:   clampLevel(n),
		Chapter: n,
		Unit:    m[2],
		Subject: cleanTitle(m[3]),
	}, true
}

func clampLevel(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxLevel {
		return MaxLevel
	}
	return n
}

func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "**")
	s = strings.TrimSuffix(s, "**")
	return strings.TrimSpace(s)
}
