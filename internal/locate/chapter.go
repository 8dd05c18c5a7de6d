package locate

import (
	"strings"

	"github.com/dgallion1/tendermatch/internal/catalog"
	"github.com/dgallion1/tendermatch/internal/chunker"
	"github.com/dgallion1/tendermatch/internal/doctree"
)

const (
	numberPatternBonus = 0.3
	phraseBonus        = 0.2
)

// locateChapter finds the chapter target: the first root heading scoring at
// least ChapterExact, else the best such heading anywhere in the tree, else
// the densest keyword window. It returns nil when all three fail.
func (r *run) locateChapter(root catalog.Target) (*doctree.HeadingNode, ChapterMatch) {
	cm := ChapterMatch{TargetKey: root.Key}

	for _, n := range r.tree.Roots {
		if s := r.sc.ChapterScore(n, root); s >= r.Thresholds.ChapterExact {
			return n, headingMatch(cm, n, s)
		}
	}

	var best *doctree.HeadingNode
	bestScore := 0.0
	doctree.Walk(r.tree.Roots, func(n *doctree.HeadingNode, depth int) bool {
		if depth == 0 {
			return true
		}
		if s := r.sc.ChapterScore(n, root); s >= r.Thresholds.ChapterExact && s > bestScore {
			best, bestScore = n, s
		}
		return true
	})
	if best != nil {
		return best, headingMatch(cm, best, bestScore)
	}

	seg, s, ok := r.bestWindow()
	if !ok || s < r.Thresholds.WindowFloor {
		r.log.Warn("chapter not located", "target", root.Key, "best_window_score", s)
		cm.Confidence = 0
		return nil, cm
	}
	node := &doctree.HeadingNode{
		Level:          1,
		RawText:        firstLine(r.slice(seg.Start, seg.End)),
		Title:          root.Description,
		NormalizedText: root.NormalizedKey,
		StartOffset:    seg.Start,
		EndOffset:      seg.Start,
		ContentStart:   seg.Start,
		ContentEnd:     seg.End,
		Synthetic:      true,
	}
	cm.Found = true
	cm.Method = MethodWindow
	cm.Title = node.Title
	cm.Location = &Location{Start: seg.Start, End: seg.End}
	cm.Confidence = clamp(s)
	return node, cm
}

func headingMatch(cm ChapterMatch, n *doctree.HeadingNode, s float64) ChapterMatch {
	cm.Found = true
	cm.Method = MethodHeading
	cm.Title = n.Title
	cm.Location = &Location{Start: n.StartOffset, End: n.ContentEnd}
	cm.Confidence = s
	return cm
}

// bestWindow scores every line window by weighted keyword density plus
// number-pattern and phrase bonuses, returning the first highest scorer.
func (r *run) bestWindow() (chunker.Segment, float64, bool) {
	w := r.Catalog.Window
	cfg := r.Chunking
	if w.Size > 0 {
		cfg.WindowSize = w.Size
	}

	var total float64
	keys := w.WindowKeywords()
	for _, k := range keys {
		total += w.KeywordWeights[k]
	}

	var best chunker.Segment
	bestScore, found := 0.0, false
	for _, seg := range chunker.Windows(r.text, cfg) {
		s := windowScore(seg.Text, w, keys, total)
		if s > bestScore {
			best, bestScore, found = seg, s, true
		}
	}
	return best, bestScore, found
}

func windowScore(text string, w catalog.WindowConfig, keys []string, total float64) float64 {
	var s float64
	if total > 0 {
		for _, k := range keys {
			if strings.Contains(text, k) {
				s += w.KeywordWeights[k]
			}
		}
		s = s / total * 2
	}
	if containsAny(text, w.NumberPatterns) {
		s += numberPatternBonus
	}
	if containsAny(text, w.Phrases) {
		s += phraseBonus
	}
	return s
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
