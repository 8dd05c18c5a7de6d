package heading

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

var (
	strayRe     = regexp.MustCompile(`[（）()\[\]【】「」《》<>*\-+#\s]`)
	prefixRe    = regexp.MustCompile(`^第([零〇一二三四五六七八九十百0-9]+)[章节][:：]?`)
	separatorRe = regexp.MustCompile(`[、.:：．。]`)
	cnNumeralRe = regexp.MustCompile(`[零〇一二三四五六七八九十百]+`)
)

// Normalize canonicalizes heading text for comparison. The result is never
// shown to users.
//
// Bracket characters and stray markup are removed before the chapter prefix
// is rewritten so that a second pass cannot uncover a new "第X章" prefix;
// this keeps Normalize idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = width.Fold.String(s)
	s = strayRe.ReplaceAllString(s, "")
	s = prefixRe.ReplaceAllString(s, "$1、")
	s = separatorRe.ReplaceAllString(s, ".")
	s = cnNumeralRe.ReplaceAllStringFunc(s, func(m string) string {
		return strconv.Itoa(ParseNumeral(m))
	})
	return strings.ToLower(s)
}
