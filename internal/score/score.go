// Package score rates how well a candidate heading or paragraph matches a
// catalog target. A score blends a rule layer (aliases, keywords, synonyms,
// numbering) with a statistical layer (TF-IDF cosine, token Jaccard, prefix
// alignment), each in [0,1].
package score

import (
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/dgallion1/tendermatch/internal/catalog"
	"github.com/dgallion1/tendermatch/internal/doctree"
	"github.com/dgallion1/tendermatch/internal/heading"
)

// Weights holds every coefficient of the scoring formulas.
type Weights struct {
	// Rule layer.
	Alias            float64 `mapstructure:"alias" json:"alias"`
	Keyword          float64 `mapstructure:"keyword" json:"keyword"`
	Synonym          float64 `mapstructure:"synonym" json:"synonym"`
	SynonymHit       float64 `mapstructure:"synonym_hit" json:"synonymHit"`
	NumberingArabic  float64 `mapstructure:"numbering_arabic" json:"numberingArabic"`
	NumberingChinese float64 `mapstructure:"numbering_chinese" json:"numberingChinese"`

	// Statistical layer.
	TFIDF   float64 `mapstructure:"tfidf" json:"tfidf"`
	Jaccard float64 `mapstructure:"jaccard" json:"jaccard"`
	Prefix  float64 `mapstructure:"prefix" json:"prefix"`

	// Sub-section blend.
	SubRule     float64 `mapstructure:"sub_rule" json:"subRule"`
	SubSemantic float64 `mapstructure:"sub_semantic" json:"subSemantic"`
	SubLevel    float64 `mapstructure:"sub_level" json:"subLevel"`
	SubPosition float64 `mapstructure:"sub_position" json:"subPosition"`
	Position    float64 `mapstructure:"position" json:"position"` // uniform position score
	LevelStep   float64 `mapstructure:"level_step" json:"levelStep"`
	LevelFloor  float64 `mapstructure:"level_floor" json:"levelFloor"`

	// Chapter and paragraph blends.
	ChapterRule       float64 `mapstructure:"chapter_rule" json:"chapterRule"`
	ChapterSemantic   float64 `mapstructure:"chapter_semantic" json:"chapterSemantic"`
	ParagraphRule     float64 `mapstructure:"paragraph_rule" json:"paragraphRule"`
	ParagraphSemantic float64 `mapstructure:"paragraph_semantic" json:"paragraphSemantic"`
}

// DefaultWeights returns the standard coefficients.
func DefaultWeights() Weights {
	return Weights{
		Alias:            0.4,
		Keyword:          0.08,
		Synonym:          0.2,
		SynonymHit:       0.2,
		NumberingArabic:  0.3,
		NumberingChinese: 0.2,

		TFIDF:   0.5,
		Jaccard: 0.3,
		Prefix:  0.2,

		SubRule:     0.35,
		SubSemantic: 0.35,
		SubLevel:    0.2,
		SubPosition: 0.1,
		Position:    0.5,
		LevelStep:   0.3,
		LevelFloor:  0.1,

		ChapterRule:       0.4,
		ChapterSemantic:   0.6,
		ParagraphRule:     0.6,
		ParagraphSemantic: 0.4,
	}
}

var (
	arabicNumberingRe  = regexp.MustCompile(`\d+(\.\d+)*`)
	chineseNumberingRe = regexp.MustCompile(`[一二三四五六七八九十]+(?:[、.][一二三四五六七八九十]+)*`)
	numberingOnlyRe    = regexp.MustCompile(`^[0-9.]+$`)
)

// Scorer computes match scores. It is safe for concurrent use; the synonym
// table and weights are fixed at construction.
type Scorer struct {
	seg      Segmenter
	synonyms map[string][]string
	w        Weights
	log      *slog.Logger
	memo     *memo
}

// New returns a Scorer. synonyms maps a keyword to phrases that count as
// evidence for it.
func New(seg Segmenter, synonyms map[string][]string, w Weights, log *slog.Logger) *Scorer {
	if log == nil {
		log = slog.Default()
	}
	return &Scorer{seg: seg, synonyms: synonyms, w: w, log: log}
}

// WithMemo returns a copy of s that memoizes tokenization. Use one per
// matching run; the cache is dropped with it.
func (s *Scorer) WithMemo() *Scorer {
	c := *s
	c.memo = newMemo()
	return &c
}

// WithSynonyms returns a copy of s using a different synonym table.
func (s *Scorer) WithSynonyms(synonyms map[string][]string) *Scorer {
	c := *s
	c.synonyms = synonyms
	return &c
}

// Weights returns the coefficients in use.
func (s *Scorer) Weights() Weights { return s.w }

func (s *Scorer) tokens(text string) []string {
	if s.memo == nil {
		return Tokenize(s.seg, text)
	}
	if toks, ok := s.memo.get(text); ok {
		return toks
	}
	toks := Tokenize(s.seg, text)
	s.memo.put(text, toks)
	return toks
}

// RuleScore scores lexical evidence for t in text. Aliases and keywords match
// either verbatim or in heading-normalized form.
func (s *Scorer) RuleScore(text string, t catalog.Target) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	norm := heading.Normalize(text)
	var score float64

	for _, alias := range t.Aliases {
		if aliasMatches(text, norm, alias) {
			score += s.w.Alias
			break
		}
	}

	keywords := distinct(t.Keywords)
	for _, kw := range keywords {
		if contains(text, norm, kw) {
			score += s.w.Keyword
		}
	}

	hits := 0
	for _, kw := range keywords {
		for _, syn := range s.synonyms[kw] {
			if contains(text, norm, syn) {
				hits++
				break
			}
		}
	}
	score += s.w.Synonym * math.Min(1, s.w.SynonymHit*float64(hits))

	switch {
	case arabicNumberingRe.MatchString(text):
		score += s.w.NumberingArabic
	case chineseNumberingRe.MatchString(text):
		score += s.w.NumberingChinese
	}

	return clamp01(score)
}

func aliasMatches(text, norm, alias string) bool {
	if alias == "" {
		return false
	}
	if strings.Contains(text, alias) {
		return true
	}
	na := heading.Normalize(alias)
	if na == "" {
		return false
	}
	if numberingOnlyRe.MatchString(na) {
		// "一、" must open the heading and not be the prefix of "1.1".
		if !strings.HasPrefix(norm, na) {
			return false
		}
		rest := norm[len(na):]
		return rest == "" || rest[0] < '0' || rest[0] > '9'
	}
	return strings.Contains(norm, na)
}

func contains(text, norm, word string) bool {
	if word == "" {
		return false
	}
	if strings.Contains(text, word) {
		return true
	}
	nw := heading.Normalize(word)
	return nw != "" && strings.Contains(norm, nw)
}

// SemanticScore scores statistical similarity between text and the target
// description, with the target's aliases widening the IDF corpus.
func (s *Scorer) SemanticScore(text string, t catalog.Target) float64 {
	if strings.TrimSpace(text) == "" || t.Description == "" {
		return 0
	}
	textToks := s.tokens(text)
	descToks := s.tokens(t.Description)

	docs := make([][]string, 0, 2+len(t.Aliases))
	docs = append(docs, textToks, descToks)
	for _, a := range t.Aliases {
		docs = append(docs, s.tokens(a))
	}
	cos := NewCorpus(docs).Cosine(0, 1)

	score := s.w.TFIDF*cos +
		s.w.Jaccard*Jaccard(textToks, descToks) +
		s.w.Prefix*PrefixSimilarity(text, t.Description)
	return clamp01(score)
}

// LevelScore rewards candidates at the target's expected depth.
func (s *Scorer) LevelScore(level, expected int) float64 {
	d := level - expected
	if d < 0 {
		d = -d
	}
	return math.Max(s.w.LevelFloor, 1-s.w.LevelStep*float64(d))
}

// SubSectionScore scores a heading node against a non-chapter target.
func (s *Scorer) SubSectionScore(n *doctree.HeadingNode, t catalog.Target) float64 {
	rule := s.RuleScore(n.Title, t)
	sem := s.SemanticScore(n.Title, t)
	level := s.LevelScore(n.Level, t.ExpectedLevel)
	total := s.w.SubRule*rule + s.w.SubSemantic*sem + s.w.SubLevel*level + s.w.SubPosition*s.w.Position
	s.log.Debug("sub-section score",
		"target", t.Key, "title", n.Title,
		"rule", rule, "semantic", sem, "level", level, "total", total)
	return clamp01(total)
}

// ChapterScore scores a heading node against the chapter target.
func (s *Scorer) ChapterScore(n *doctree.HeadingNode, t catalog.Target) float64 {
	rule := s.RuleScore(n.Title, t)
	sem := s.SemanticScore(n.Title, t)
	total := s.w.ChapterRule*rule + s.w.ChapterSemantic*sem
	s.log.Debug("chapter score", "target", t.Key, "title", n.Title, "rule", rule, "semantic", sem, "total", total)
	return clamp01(total)
}

// ParagraphScore scores a body paragraph against a target, for sections that
// were never marked up as headings.
func (s *Scorer) ParagraphScore(text string, t catalog.Target) float64 {
	return clamp01(s.w.ParagraphRule*s.RuleScore(text, t) + s.w.ParagraphSemantic*s.SemanticScore(text, t))
}

func distinct(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := words[:0:0]
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}
