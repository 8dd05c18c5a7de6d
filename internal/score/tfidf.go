package score

import "math"

// Corpus holds term statistics for a small set of tokenized documents.
// Weights follow the smoothed scheme tf * (ln((1+n)/(1+df)) + 1) with each
// document vector L2-normalized, so cosine similarity is a dot product.
type Corpus struct {
	TermCounts     []map[string]float64 // Raw term counts per document
	DocFrequencies map[string]int       // Documents containing each term
	TotalDocuments int
}

// NewCorpus counts terms of every document.
func NewCorpus(docs [][]string) *Corpus {
	c := &Corpus{
		TermCounts:     make([]map[string]float64, len(docs)),
		DocFrequencies: make(map[string]int),
		TotalDocuments: len(docs),
	}
	for i, toks := range docs {
		counts := make(map[string]float64, len(toks))
		for _, t := range toks {
			counts[t]++
		}
		c.TermCounts[i] = counts
		for t := range counts {
			c.DocFrequencies[t]++
		}
	}
	return c
}

func (c *Corpus) idf(term string) float64 {
	n := float64(c.TotalDocuments)
	df := float64(c.DocFrequencies[term])
	return math.Log((1+n)/(1+df)) + 1
}

// Vector returns the normalized TF-IDF vector of document i, or nil when the
// document has no terms.
func (c *Corpus) Vector(i int) map[string]float64 {
	if i < 0 || i >= len(c.TermCounts) || len(c.TermCounts[i]) == 0 {
		return nil
	}
	vec := make(map[string]float64, len(c.TermCounts[i]))
	var norm float64
	for t, tf := range c.TermCounts[i] {
		w := tf * c.idf(t)
		vec[t] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for t := range vec {
		vec[t] /= norm
	}
	return vec
}

// Cosine returns the cosine similarity of documents i and j in [0,1].
func (c *Corpus) Cosine(i, j int) float64 {
	a, b := c.Vector(i), c.Vector(j)
	if a == nil || b == nil {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for t, w := range a {
		dot += w * b[t]
	}
	return clamp01(dot)
}

// Jaccard returns |A∩B| / |A∪B| over the token sets of a and b.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]uint8, len(a)+len(b))
	for _, t := range a {
		set[t] |= 1
	}
	for _, t := range b {
		set[t] |= 2
	}
	inter := 0
	for _, v := range set {
		if v == 3 {
			inter++
		}
	}
	return float64(inter) / float64(len(set))
}

// PrefixSimilarity is the length of the common leading rune run of a and b
// divided by the longer length.
func PrefixSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	n := len(ra)
	if len(rb) < n {
		n = len(rb)
	}
	common := 0
	for common < n && ra[common] == rb[common] {
		common++
	}
	max := len(ra)
	if len(rb) > max {
		max = len(rb)
	}
	return float64(common) / float64(max)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
