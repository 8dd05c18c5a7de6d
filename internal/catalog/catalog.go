// Package catalog defines the target sections a tender is matched against.
// A Catalog is a static, versioned configuration artifact: it is loaded from
// YAML, validated once, and never mutated afterwards.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/tendermatch/internal/heading"
)

// ErrInvalid is returned (wrapped) for catalogs that fail validation.
var ErrInvalid = errors.New("invalid catalog")

//go:embed default.yaml
var defaultYAML []byte

// Target is one section the matcher tries to locate.
type Target struct {
	Key           string   `yaml:"key" json:"key"`
	NormalizedKey string   `yaml:"normalized_key" json:"normalizedKey"`
	Description   string   `yaml:"description" json:"description"`
	Aliases       []string `yaml:"aliases" json:"aliases"`
	Keywords      []string `yaml:"keywords" json:"keywords"`
	ExpectedLevel int      `yaml:"expected_level" json:"expectedLevel"`
	ParentKey     string   `yaml:"parent_key,omitempty" json:"parentKey,omitempty"`
}

// IsRoot reports whether t is the chapter target.
func (t Target) IsRoot() bool { return t.ParentKey == "" }

// WindowConfig drives the sliding-window chapter fallback used when no
// heading matches the chapter target.
type WindowConfig struct {
	Size           int                `yaml:"size" json:"size"`
	KeywordWeights map[string]float64 `yaml:"keyword_weights" json:"keywordWeights"`
	// NumberPatterns earn a bonus when present, e.g. "第八章".
	NumberPatterns []string `yaml:"number_patterns" json:"numberPatterns"`
	// Phrases earn a smaller bonus, e.g. "施工组织".
	Phrases []string `yaml:"phrases" json:"phrases"`
}

// Catalog is an ordered list of targets plus the synonym table and window
// weights used to score them.
type Catalog struct {
	Name     string              `yaml:"name" json:"name"`
	Version  string              `yaml:"version" json:"version"`
	Targets  []Target            `yaml:"targets" json:"targets"`
	Synonyms map[string][]string `yaml:"synonyms" json:"synonyms"`
	Window   WindowConfig        `yaml:"window" json:"window"`

	byKey map[string]int
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and validates the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Default returns the built-in 第八章 (方案详细说明及施工组织设计) catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic("catalog: embedded default is invalid: " + err.Error())
	}
	return c
}

// Validate checks structural invariants and fills derived fields: keys are
// unique and non-empty, every parent key exists and precedes its child, there
// is exactly one root target, and levels are at least 1.
func (c *Catalog) Validate() error {
	if len(c.Targets) == 0 {
		return fmt.Errorf("%w: no targets", ErrInvalid)
	}
	c.byKey = make(map[string]int, len(c.Targets))
	roots := 0
	for i := range c.Targets {
		t := &c.Targets[i]
		if t.Key == "" {
			return fmt.Errorf("%w: target %d has no key", ErrInvalid, i)
		}
		if _, dup := c.byKey[t.Key]; dup {
			return fmt.Errorf("%w: duplicate key %q", ErrInvalid, t.Key)
		}
		if t.ExpectedLevel < 1 {
			return fmt.Errorf("%w: target %q: expected_level must be >= 1", ErrInvalid, t.Key)
		}
		if t.IsRoot() {
			roots++
		} else if _, ok := c.byKey[t.ParentKey]; !ok {
			return fmt.Errorf("%w: target %q: parent %q must be defined before it", ErrInvalid, t.Key, t.ParentKey)
		}
		if t.NormalizedKey == "" {
			t.NormalizedKey = t.Description
		}
		c.byKey[t.Key] = i
	}
	if roots != 1 {
		return fmt.Errorf("%w: expected exactly one root target, found %d", ErrInvalid, roots)
	}
	if c.Window.Size < 0 {
		return fmt.Errorf("%w: window size must not be negative", ErrInvalid)
	}
	for k, w := range c.Window.KeywordWeights {
		if w < 0 {
			return fmt.Errorf("%w: window keyword %q has negative weight", ErrInvalid, k)
		}
	}
	return nil
}

// Root returns the chapter target.
func (c *Catalog) Root() Target {
	for _, t := range c.Targets {
		if t.IsRoot() {
			return t
		}
	}
	return Target{}
}

// Target looks up a target by key.
func (c *Catalog) Target(key string) (Target, bool) {
	if c.byKey == nil {
		for _, t := range c.Targets {
			if t.Key == key {
				return t, true
			}
		}
		return Target{}, false
	}
	i, ok := c.byKey[key]
	if !ok {
		return Target{}, false
	}
	return c.Targets[i], true
}

// SubTargets returns every non-root target in catalog order.
func (c *Catalog) SubTargets() []Target {
	out := make([]Target, 0, len(c.Targets))
	for _, t := range c.Targets {
		if !t.IsRoot() {
			out = append(out, t)
		}
	}
	return out
}

// Depth returns how many parent links separate key from the root (root = 0).
func (c *Catalog) Depth(key string) int {
	d := 0
	for {
		t, ok := c.Target(key)
		if !ok || t.IsRoot() {
			return d
		}
		key = t.ParentKey
		d++
	}
}

// SynonymsOf returns the synonym list of word, or nil.
func (c *Catalog) SynonymsOf(word string) []string {
	return c.Synonyms[word]
}

// NormalizedAliases returns the aliases of t in heading-normalized form.
func (t Target) NormalizedAliases() []string {
	out := make([]string, len(t.Aliases))
	for i, a := range t.Aliases {
		out[i] = heading.Normalize(a)
	}
	return out
}

// WindowKeywords returns the window keywords sorted for deterministic
// iteration.
func (w WindowConfig) WindowKeywords() []string {
	keys := make([]string, 0, len(w.KeywordWeights))
	for k := range w.KeywordWeights {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
