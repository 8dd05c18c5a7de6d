package score

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/go-ego/gse"
	"github.com/kljensen/snowball"
	"golang.org/x/text/width"
)

// Segmenter splits text into word candidates.
type Segmenter interface {
	Cut(text string) []string
}

// GSE segments Chinese text with the gse dictionary segmenter.
type GSE struct {
	seg *gse.Segmenter
}

// NewGSE loads the embedded gse dictionary. Loading takes a moment; share the
// result.
func NewGSE() (*GSE, error) {
	seg := new(gse.Segmenter)
	if err := seg.LoadDictEmbed(); err != nil {
		return nil, fmt.Errorf("load gse dictionary: %w", err)
	}
	return &GSE{seg: seg}, nil
}

func (g *GSE) Cut(text string) []string {
	return g.seg.Cut(text, true)
}

// Bigram is a dictionary-free segmenter: runs of Han characters become
// overlapping character bigrams, runs of letters and digits become words,
// everything else separates tokens.
type Bigram struct{}

func (Bigram) Cut(text string) []string {
	var out []string
	var han, word []rune

	flushHan := func() {
		switch len(han) {
		case 0:
		case 1:
			out = append(out, string(han))
		default:
			for i := 0; i+1 < len(han); i++ {
				out = append(out, string(han[i:i+2]))
			}
		}
		han = han[:0]
	}
	flushWord := func() {
		if len(word) > 0 {
			out = append(out, string(word))
			word = word[:0]
		}
	}

	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			flushWord()
			han = append(han, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			flushHan()
			word = append(word, r)
		default:
			flushHan()
			flushWord()
		}
	}
	flushHan()
	flushWord()
	return out
}

// Tokenize cuts text into scoring tokens: width-folded, lowercased, with
// punctuation-only pieces dropped and latin words stemmed.
func Tokenize(seg Segmenter, text string) []string {
	text = width.Fold.String(text)
	var out []string
	for _, piece := range seg.Cut(text) {
		tok := strings.ToLower(strings.TrimSpace(piece))
		if !hasWordRune(tok) {
			continue
		}
		if isLatinWord(tok) {
			if stemmed, err := snowball.Stem(tok, "english", true); err == nil && stemmed != "" {
				tok = stemmed
			}
		}
		out = append(out, tok)
	}
	return out
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func isLatinWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// memo caches tokenizations for the lifetime of one matching run.
type memo struct {
	mu sync.RWMutex
	m  map[string][]string
}

func newMemo() *memo {
	return &memo{m: make(map[string][]string)}
}

func (m *memo) get(text string) ([]string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.m[text]
	return v, ok
}

func (m *memo) put(text string, toks []string) {
	m.mu.Lock()
	m.m[text] = toks
	m.mu.Unlock()
}

func (m *memo) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.m)
}
