package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/tendermatch/internal/catalog"
	"github.com/dgallion1/tendermatch/internal/chunker"
	"github.com/dgallion1/tendermatch/internal/config"
	"github.com/dgallion1/tendermatch/internal/locate"
	"github.com/dgallion1/tendermatch/internal/score"
)

// Matcher runs the locator against whatever catalog the holder currently
// serves, so a reload takes effect on the next document.
type Matcher struct {
	Catalogs      *catalog.Holder
	Scorer        *score.Scorer
	Thresholds    locate.Thresholds
	Chunking      chunker.Config
	PreviewLength int
	Parallelism   int
	Log           *slog.Logger
}

// Locator returns a locator bound to the current catalog.
func (m *Matcher) Locator() *locate.Locator {
	return &locate.Locator{
		Scorer:        m.Scorer,
		Catalog:       m.Catalogs.Current(),
		Thresholds:    m.Thresholds,
		Chunking:      m.Chunking,
		PreviewLength: m.PreviewLength,
		Parallelism:   m.Parallelism,
		Log:           m.Log,
	}
}

// Match locates every catalog target in text.
func (m *Matcher) Match(ctx context.Context, text string) (*locate.Report, error) {
	return m.Locator().Locate(ctx, text)
}

// NewMatcher builds a Matcher from cfg: the catalog at cfg.CatalogPath (or
// the built-in one), the configured segmenter, weights and thresholds.
func NewMatcher(cfg config.Config, log *slog.Logger) (*Matcher, error) {
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		c, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		cat = c
	}

	var seg score.Segmenter
	switch cfg.Segmenter {
	case "bigram":
		seg = score.Bigram{}
	case "gse", "":
		g, err := score.NewGSE()
		if err != nil {
			return nil, err
		}
		seg = g
	default:
		return nil, fmt.Errorf("unknown segmenter %q", cfg.Segmenter)
	}

	return &Matcher{
		Catalogs:      catalog.NewHolder(cat),
		Scorer:        score.New(seg, nil, cfg.Weights, log),
		Thresholds:    cfg.Thresholds,
		Chunking:      chunker.DefaultConfig(),
		PreviewLength: cfg.PreviewLength,
		Parallelism:   cfg.Parallelism,
		Log:           log,
	}, nil
}
