package heading

import (
	"regexp"
	"strings"
)

var (
	linkLineRe   = regexp.MustCompile(`^\**\s*\[[^\]]*\]\([^)]*\)`)
	leaderPageRe = regexp.MustCompile(`(?:\.{3,}|…+|·{3,}|(?:\.\s){3,}|-{4,})\s*\d+\s*\**\s*$`)
)

// IsTOCLine reports whether a line looks like a table-of-contents entry
// rather than real document structure. Tenders usually repeat every chapter
// title in a front-matter TOC, so these lines must never open or close a
// chapter.
func IsTOCLine(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	if strings.Contains(s, "#_Toc") || strings.Contains(s, "](#") {
		return true
	}
	if linkLineRe.MatchString(s) {
		return true
	}
	if strings.Contains(s, "目录") && (strings.Contains(s, "..") || strings.Contains(s, ". .") || strings.Contains(s, "](")) {
		return true
	}
	return leaderPageRe.MatchString(s)
}
