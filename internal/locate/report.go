package locate

import (
	"fmt"
	"strings"
)

// Location is a byte range of the line-ending-normalized document.
type Location struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Alternative is a runner-up candidate.
type Alternative struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// MatchResult is the outcome for one non-chapter target.
type MatchResult struct {
	TargetKey      string        `json:"targetKey"`
	NormalizedKey  string        `json:"normalizedKey"`
	FoundTitle     string        `json:"foundTitle"`
	Location       *Location     `json:"location"`
	Confidence     float64       `json:"confidence"`
	Status         Status        `json:"status"`
	ContentPreview string        `json:"contentPreview"`
	Alternatives   []Alternative `json:"alternatives"`
}

// Chapter methods.
const (
	MethodHeading = "heading"
	MethodWindow  = "window"
)

// ChapterMatch describes how the chapter target was located.
type ChapterMatch struct {
	TargetKey  string    `json:"targetKey"`
	Found      bool      `json:"found"`
	Method     string    `json:"method,omitempty"`
	Title      string    `json:"title,omitempty"`
	Location   *Location `json:"location"`
	Confidence float64   `json:"confidence"`
}

// Summary aggregates result statuses.
type Summary struct {
	OK             int     `json:"ok"`
	Low            int     `json:"lowConfidence"`
	Missing        int     `json:"missing"`
	Conflict       int     `json:"conflict"`
	Total          int     `json:"total"`
	MeanConfidence float64 `json:"meanConfidence"`
}

// Report is the full outcome of one matching run.
type Report struct {
	RunID          string        `json:"runId"`
	Catalog        string        `json:"catalog"`
	CatalogVersion string        `json:"catalogVersion"`
	Chapter        ChapterMatch  `json:"chapter"`
	Results        []MatchResult `json:"results"`
	Summary        Summary       `json:"summary"`
}

// Summarize counts results by status.
func Summarize(results []MatchResult) Summary {
	s := Summary{Total: len(results)}
	var sum float64
	for _, r := range results {
		switch r.Status {
		case StatusOK:
			s.OK++
		case StatusLow:
			s.Low++
		case StatusConflict:
			s.Conflict++
		default:
			s.Missing++
		}
		sum += r.Confidence
	}
	if s.Total > 0 {
		s.MeanConfidence = sum / float64(s.Total)
	}
	return s
}

var statusLabels = map[Status]string{
	StatusOK:       "[OK]      ",
	StatusLow:      "[LOW]     ",
	StatusConflict: "[CONFLICT]",
	StatusMissing:  "[MISSING] ",
}

// Text renders a human-readable summary of the report.
func (r *Report) Text() string {
	var b strings.Builder
	s := r.Summary
	fmt.Fprintf(&b, "catalog %s (version %s): %d ok, %d low confidence, %d missing",
		r.Catalog, r.CatalogVersion, s.OK, s.Low, s.Missing)
	if s.Conflict > 0 {
		fmt.Fprintf(&b, ", %d conflict", s.Conflict)
	}
	b.WriteString("\n")

	if r.Chapter.Found {
		fmt.Fprintf(&b, "chapter: %s (%s, confidence %.2f)\n\n", r.Chapter.Title, r.Chapter.Method, r.Chapter.Confidence)
	} else {
		b.WriteString("chapter: not found\n\n")
	}

	for _, res := range r.Results {
		fmt.Fprintf(&b, "%s %s", statusLabels[res.Status], res.NormalizedKey)
		if res.FoundTitle != "" {
			fmt.Fprintf(&b, " -> %s (confidence %.2f)", res.FoundTitle, res.Confidence)
		}
		b.WriteString("\n")
		if res.ContentPreview != "" {
			fmt.Fprintf(&b, "    preview: %s\n", res.ContentPreview)
		}
		if n := len(res.Alternatives); n > 0 {
			fmt.Fprintf(&b, "    alternatives: %d\n", n)
		}
	}

	if s.Total > 0 {
		fmt.Fprintf(&b, "\nok %d/%d, low %d/%d, missing %d/%d, mean confidence %.2f\n",
			s.OK, s.Total, s.Low, s.Total, s.Missing, s.Total, s.MeanConfidence)
	}
	return b.String()
}
