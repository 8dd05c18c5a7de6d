package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c := Default()
	if len(c.Targets) != 11 {
		t.Fatalf("expected 11 targets, got %d", len(c.Targets))
	}
	root := c.Root()
	if root.Key != "chapter.8.plan_and_org" {
		t.Errorf("expected chapter root, got %q", root.Key)
	}
	if got := len(c.SubTargets()); got != 10 {
		t.Errorf("expected 10 sub-targets, got %d", got)
	}
	if c.Window.Size != 15 {
		t.Errorf("expected window size 15, got %d", c.Window.Size)
	}
	if c.Window.KeywordWeights["方案"] != 2.0 {
		t.Errorf("expected weight 2.0 for 方案, got %v", c.Window.KeywordWeights["方案"])
	}
	if syns := c.SynonymsOf("施工方法"); len(syns) != 4 {
		t.Errorf("expected 4 synonyms for 施工方法, got %v", syns)
	}
	if d := c.Depth("org.construction_method"); d != 2 {
		t.Errorf("expected depth 2, got %d", d)
	}
	tgt, ok := c.Target("plan.key_tech")
	if !ok || tgt.ExpectedLevel != 3 || tgt.ParentKey != "plan.detailed_description" {
		t.Errorf("unexpected target %+v (ok=%v)", tgt, ok)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "name: x\n", "no targets"},
		{"duplicate", "targets:\n- {key: a, expected_level: 1}\n- {key: a, expected_level: 2, parent_key: a}\n", "duplicate"},
		{"missing parent", "targets:\n- {key: a, expected_level: 1}\n- {key: b, expected_level: 2, parent_key: z}\n", "parent"},
		{"two roots", "targets:\n- {key: a, expected_level: 1}\n- {key: b, expected_level: 1}\n", "exactly one root"},
		{"bad level", "targets:\n- {key: a, expected_level: 0}\n", "expected_level"},
		{"no key", "targets:\n- {expected_level: 1}\n", "no key"},
		{"negative weight", "targets:\n- {key: a, expected_level: 1}\nwindow:\n  keyword_weights: {x: -1}\n", "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestParse_DecodeError(t *testing.T) {
	_, err := Parse([]byte("targets: [\n"))
	if err == nil {
		t.Fatal("expected decode error")
	}
	if errors.Is(err, ErrInvalid) {
		t.Errorf("expected decode error not to be ErrInvalid, got %v", err)
	}
}

func TestParse_NormalizedKeyDefaultsToDescription(t *testing.T) {
	c, err := Parse([]byte("targets:\n- {key: a, description: 投标函, expected_level: 1}\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Targets[0].NormalizedKey != "投标函" {
		t.Errorf("expected normalized key 投标函, got %q", c.Targets[0].NormalizedKey)
	}
}

func TestHolder_ReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, []byte("name: next\ntargets:\n- {key: a, expected_level: 1}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewHolder(Default())
	var seen []string
	h.OnReload = func(c *Catalog) { seen = append(seen, c.Name) }
	if err := h.Reload(path); err != nil {
		t.Fatalf("unexpected reload error: %v", err)
	}
	if h.Current().Name != "next" {
		t.Errorf("expected catalog next, got %q", h.Current().Name)
	}

	if err := os.WriteFile(path, []byte("targets: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := h.Reload(path); err == nil {
		t.Fatal("expected reload of invalid catalog to fail")
	}
	if h.Current().Name != "next" {
		t.Errorf("expected previous catalog to stay, got %q", h.Current().Name)
	}
	if h.Reloads() != 1 {
		t.Errorf("expected 1 reload, got %d", h.Reloads())
	}
	if len(seen) != 1 || seen[0] != "next" {
		t.Errorf("expected OnReload once with next, got %v", seen)
	}
}

func TestHolder_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, []byte("name: first\ntargets:\n- {key: a, expected_level: 1}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHolder(c)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := h.Watch(ctx, path, log); err != nil {
		t.Fatalf("watch: %v", err)
	}

	if err := os.WriteFile(path, []byte("name: second\ntargets:\n- {key: a, expected_level: 1}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if h.Current().Name == "second" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("expected catalog to reload to second, still %q", h.Current().Name)
}
