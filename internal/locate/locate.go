// Package locate finds every catalog target in a tender document. The chapter
// target is located first, by heading or by a keyword-density window; each
// sub-target is then searched under its resolved parent, across the chapter's
// whole heading subtree, and finally among the chapter's body paragraphs.
package locate

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/tendermatch/internal/catalog"
	"github.com/dgallion1/tendermatch/internal/chunker"
	"github.com/dgallion1/tendermatch/internal/doctree"
	"github.com/dgallion1/tendermatch/internal/score"
)

// DefaultPreviewLength is the preview size in runes.
const DefaultPreviewLength = 200

// paragraphTitleRunes bounds the title of a paragraph candidate.
const paragraphTitleRunes = 100

// Locator matches documents against a catalog.
type Locator struct {
	Scorer     *score.Scorer
	Catalog    *catalog.Catalog
	Thresholds Thresholds
	Chunking   chunker.Config
	// PreviewLength bounds ContentPreview in runes; 0 means DefaultPreviewLength.
	PreviewLength int
	// Parallelism bounds concurrent target scoring; values below 2 run serially.
	Parallelism int
	Log         *slog.Logger
}

// candidate is one scored place a target might live.
type candidate struct {
	title        string
	node         *doctree.HeadingNode // nil for paragraph candidates
	start, end   int
	contentStart int
	contentEnd   int
	score        float64
}

// run carries per-document state through one Locate call.
type run struct {
	*Locator
	sc   *score.Scorer
	log  *slog.Logger
	text string
	tree *doctree.Tree

	parasOnce sync.Once
	paras     []chunker.Segment
}

// Locate runs the matcher over text. Malformed or empty input never fails: it
// yields a complete, possibly all-MISSING report. The only error is ctx's.
func (l *Locator) Locate(ctx context.Context, text string) (*Report, error) {
	log := l.Log
	if log == nil {
		log = slog.Default()
	}
	cat := l.Catalog
	runID := uuid.NewString()
	log = log.With("run_id", runID, "catalog", cat.Name)

	text = doctree.NormalizeNewlines(text)
	r := &run{
		Locator: l,
		sc:      l.Scorer.WithSynonyms(cat.Synonyms).WithMemo(),
		log:     log,
		text:    text,
		tree:    doctree.Build(text),
	}

	report := &Report{
		RunID:          runID,
		Catalog:        cat.Name,
		CatalogVersion: cat.Version,
	}

	chapter, cm := r.locateChapter(cat.Root())
	report.Chapter = cm
	log.Debug("chapter located", "found", cm.Found, "method", cm.Method, "title", cm.Title, "confidence", cm.Confidence)

	subs := cat.SubTargets()
	results := make([]MatchResult, len(subs))
	if chapter == nil {
		for i, t := range subs {
			results[i] = missing(t, 0, nil)
		}
	} else if err := r.locateSubTargets(ctx, chapter, subs, results); err != nil {
		return nil, err
	}

	report.Results = results
	report.Summary = Summarize(results)
	log.Info("match complete",
		"targets", report.Summary.Total,
		"ok", report.Summary.OK,
		"low", report.Summary.Low,
		"missing", report.Summary.Missing)
	return report, nil
}

// locateSubTargets fills results in catalog order. Targets are processed one
// depth at a time so every parent is resolved before its children.
func (r *run) locateSubTargets(ctx context.Context, chapter *doctree.HeadingNode, subs []catalog.Target, results []MatchResult) error {
	cat := r.Catalog
	byDepth := map[int][]int{}
	maxDepth := 0
	for i, t := range subs {
		d := cat.Depth(t.Key)
		byDepth[d] = append(byDepth[d], i)
		if d > maxDepth {
			maxDepth = d
		}
	}

	resolved := make(map[string]*doctree.HeadingNode)
	for d := 1; d <= maxDepth; d++ {
		idx := byDepth[d]
		if len(idx) == 0 {
			continue
		}
		nodes := make([]*doctree.HeadingNode, len(subs))

		g, gctx := errgroup.WithContext(ctx)
		if r.Parallelism > 1 {
			g.SetLimit(r.Parallelism)
		} else {
			g.SetLimit(1)
		}
		for _, i := range idx {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				t := subs[i]
				parent := chapter
				if p := resolved[t.ParentKey]; p != nil {
					parent = p
				}
				results[i], nodes[i] = r.matchTarget(chapter, parent, t)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for _, i := range idx {
			if nodes[i] != nil {
				resolved[subs[i].Key] = nodes[i]
			}
		}
	}
	return nil
}

// matchTarget searches for t and returns its result plus the heading node it
// resolved to (nil when missing or matched to a paragraph).
func (r *run) matchTarget(chapter, parent *doctree.HeadingNode, t catalog.Target) (MatchResult, *doctree.HeadingNode) {
	th := r.Thresholds
	var cands []candidate
	seen := make(map[*doctree.HeadingNode]bool)

	scoreNode := func(n *doctree.HeadingNode) {
		if seen[n] {
			return
		}
		seen[n] = true
		cands = append(cands, nodeCandidate(n, r.sc.SubSectionScore(n, t)))
	}

	for _, n := range parent.Children {
		scoreNode(n)
	}
	if bestScore(cands) < th.Low {
		for _, n := range r.chapterNodes(chapter) {
			scoreNode(n)
		}
	}
	if bestScore(cands) < th.Low {
		for _, p := range r.paragraphs(chapter) {
			cands = append(cands, candidate{
				title:        paragraphTitle(p.Text),
				start:        p.Start,
				end:          p.End,
				contentStart: p.Start,
				contentEnd:   p.End,
				score:        r.sc.ParagraphScore(p.Text, t),
			})
		}
	}

	if len(cands) == 0 {
		return missing(t, 0, nil), nil
	}

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })
	best := cands[0]
	alts := alternatives(cands[1:], th.Alternative)
	st := classifyAgainst(best.score, runnerUp(cands), len(cands) > 1, th)

	r.log.Debug("target matched", "target", t.Key, "title", best.title, "score", best.score, "status", st, "candidates", len(cands))

	if st == StatusMissing {
		return missing(t, best.score, alts), nil
	}
	return MatchResult{
		TargetKey:      t.Key,
		NormalizedKey:  t.NormalizedKey,
		FoundTitle:     best.title,
		Location:       &Location{Start: best.start, End: best.end},
		Confidence:     best.score,
		Status:         st,
		ContentPreview: doctree.Preview(r.slice(best.contentStart, best.contentEnd), r.previewLength()),
		Alternatives:   alts,
	}, best.node
}

// chapterNodes lists every heading inside the chapter. A synthetic chapter
// has no children of its own, so it covers the headings within its span.
func (r *run) chapterNodes(chapter *doctree.HeadingNode) []*doctree.HeadingNode {
	if !chapter.Synthetic {
		return chapter.Descendants()
	}
	var out []*doctree.HeadingNode
	doctree.Walk(r.tree.Roots, func(n *doctree.HeadingNode, _ int) bool {
		if n.StartOffset >= chapter.StartOffset && n.StartOffset < chapter.ContentEnd {
			out = append(out, n)
		}
		return n.StartOffset < chapter.ContentEnd
	})
	return out
}

// paragraphs returns the chapter body split on blank lines, computed once per
// run.
func (r *run) paragraphs(chapter *doctree.HeadingNode) []chunker.Segment {
	r.parasOnce.Do(func() {
		r.paras = chunker.Paragraphs(r.slice(chapter.ContentStart, chapter.ContentEnd), chapter.ContentStart, r.Chunking)
	})
	return r.paras
}

func (r *run) slice(start, end int) string {
	if start < 0 || end > len(r.text) || start >= end {
		return ""
	}
	return r.text[start:end]
}

func (r *run) previewLength() int {
	if r.PreviewLength > 0 {
		return r.PreviewLength
	}
	return DefaultPreviewLength
}

func nodeCandidate(n *doctree.HeadingNode, s float64) candidate {
	return candidate{
		title:        n.Title,
		node:         n,
		start:        n.StartOffset,
		end:          n.ContentEnd,
		contentStart: n.ContentStart,
		contentEnd:   n.ContentEnd,
		score:        s,
	}
}

func bestScore(cands []candidate) float64 {
	best := 0.0
	for _, c := range cands {
		if c.score > best {
			best = c.score
		}
	}
	return best
}

func runnerUp(sorted []candidate) float64 {
	if len(sorted) < 2 {
		return 0
	}
	return sorted[1].score
}

// alternatives keeps sorted candidates scoring at least floor, one per
// location.
func alternatives(sorted []candidate, floor float64) []Alternative {
	out := []Alternative{}
	seen := make(map[[2]int]bool)
	for _, c := range sorted {
		if c.score < floor {
			break
		}
		key := [2]int{c.start, c.end}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Alternative{Title: c.title, Score: c.score})
	}
	return out
}

func missing(t catalog.Target, confidence float64, alts []Alternative) MatchResult {
	if alts == nil {
		alts = []Alternative{}
	}
	return MatchResult{
		TargetKey:     t.Key,
		NormalizedKey: t.NormalizedKey,
		Confidence:    confidence,
		Status:        StatusMissing,
		Alternatives:  alts,
	}
}

func paragraphTitle(p string) string {
	p = strings.TrimSpace(p)
	if utf8.RuneCountInString(p) <= paragraphTitleRunes {
		return p
	}
	return string([]rune(p)[:paragraphTitleRunes]) + "..."
}
