package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/tendermatch/internal/catalog"
	"github.com/dgallion1/tendermatch/internal/chunker"
	"github.com/dgallion1/tendermatch/internal/config"
	"github.com/dgallion1/tendermatch/internal/locate"
	"github.com/dgallion1/tendermatch/internal/metrics"
	"github.com/dgallion1/tendermatch/internal/parser"
	"github.com/dgallion1/tendermatch/internal/score"
)

const tender = `# 第八章 方案详细说明及施工组织设计
## 1、方案的详细说明
### 1.1 优化提升改造部分详细方案说明
改造内容。
### 1.6 关键技术说明等
关键技术内容。
## 2、施工组织设计
### 2.1 施工方法及主要技术措施（施工方案）
施工内容。
`

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func testMatcher() *Matcher {
	return &Matcher{
		Catalogs:   catalog.NewHolder(catalog.Default()),
		Scorer:     score.New(score.Bigram{}, nil, score.DefaultWeights(), discard()),
		Thresholds: locate.DefaultThresholds(),
		Chunking:   chunker.DefaultConfig(),
		Log:        discard(),
	}
}

func testConfig() config.Config {
	return config.Config{
		WorkerCount:  2,
		MaxQueueSize: 4,
		JobTTL:       time.Hour,
		StatsWindow:  time.Hour,
	}
}

func TestWorker_ProcessMarkdownFile(t *testing.T) {
	stats := NewLatencyStats(time.Hour)
	w := NewWorker(testMatcher(), metrics.New(), stats, discard(), parser.Options{})
	job := NewFileJob("tender.md", "", []byte(tender))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors %v)", snap.Status, snap.Errors)
	}
	if snap.Title != "第八章 方案详细说明及施工组织设计" {
		t.Errorf("expected title from first heading, got %q", snap.Title)
	}
	if snap.ContentHash != ContentHashHex([]byte(tender)) {
		t.Errorf("expected content hash of the converted text")
	}
	rep := job.Report()
	if rep == nil || !rep.Chapter.Found {
		t.Fatalf("expected chapter to be found, got %+v", rep)
	}
	if snap.Summary == nil || snap.Summary.OK == 0 {
		t.Errorf("expected some OK results, got %+v", snap.Summary)
	}
	if stats.Snapshot().Count != 1 {
		t.Errorf("expected one latency sample")
	}
	if job.FileData() != nil {
		t.Error("expected file data to be released")
	}
}

func TestWorker_UnsupportedFormatFails(t *testing.T) {
	stats := NewLatencyStats(time.Hour)
	w := NewWorker(testMatcher(), nil, stats, discard(), parser.Options{})
	job := NewFileJob("table.csv", "", []byte("a,b"))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "converting" {
		t.Fatalf("expected failed in converting, got %q in %q", snap.Status, snap.Phase)
	}
	if len(snap.Errors) != 1 {
		t.Errorf("expected one error, got %v", snap.Errors)
	}
	if stats.Snapshot().Failed != 1 {
		t.Error("expected failure to be recorded")
	}
}

func TestWorker_CancelledContextFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := NewWorker(testMatcher(), nil, NewLatencyStats(time.Hour), discard(), parser.Options{})
	job := NewTextJob("t", tender)

	w.Process(ctx, job)

	if got := job.Snapshot().Status; got != StatusFailed {
		t.Errorf("expected failed, got %q", got)
	}
}

func TestMatcher_UsesReloadedCatalog(t *testing.T) {
	m := testMatcher()
	next, err := catalog.Parse([]byte(`
name: other
version: "2"
targets:
  - key: chapter.tech
    description: 技术规格书
    aliases: [技术规格书]
    expected_level: 1
`))
	if err != nil {
		t.Fatal(err)
	}
	before := m.Locator().Catalog.Name
	m.Catalogs = catalog.NewHolder(next)
	if got := m.Locator().Catalog.Name; got == before || got != "other" {
		t.Errorf("expected locator to use the current catalog, got %q", got)
	}
}

func TestNewMatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("name: file\ntargets:\n- {key: a, description: 技术规格书, expected_level: 1}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{
		CatalogPath: path,
		Segmenter:   "bigram",
		Thresholds:  locate.DefaultThresholds(),
		Weights:     score.DefaultWeights(),
		Parallelism: 2,
	}
	m, err := NewMatcher(cfg, discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Catalogs.Current().Name != "file" {
		t.Errorf("expected catalog file, got %q", m.Catalogs.Current().Name)
	}
	if m.Parallelism != 2 {
		t.Errorf("expected parallelism 2, got %d", m.Parallelism)
	}

	cfg.Segmenter = "jieba"
	if _, err := NewMatcher(cfg, discard()); err == nil {
		t.Error("expected unknown segmenter to fail")
	}
	cfg.Segmenter = "bigram"
	cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := NewMatcher(cfg, discard()); err == nil {
		t.Error("expected missing catalog to fail")
	}
}

func TestOrchestrator_SubmitAndWait(t *testing.T) {
	o := NewOrchestrator(testConfig(), testMatcher(), metrics.New(), discard())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	o.Start(ctx)
	defer o.Stop()

	job := NewTextJob("标书", tender)
	if err := o.Submit(job); err != nil {
		t.Fatalf("unexpected submit error: %v", err)
	}

	select {
	case <-job.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for job")
	}
	if got := o.GetJob(job.ID); got == nil || got.Snapshot().Status != StatusCompleted {
		t.Fatalf("expected completed job in store")
	}
	if o.Stats().Count != 1 {
		t.Errorf("expected one latency sample, got %d", o.Stats().Count)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 1
	o := NewOrchestrator(cfg, testMatcher(), nil, discard())
	// Not started: nothing drains the queue.

	if err := o.Submit(NewTextJob("", "a")); err != nil {
		t.Fatalf("unexpected error on first submit: %v", err)
	}
	job := NewTextJob("", "b")
	err := o.Submit(job)
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if got := job.Snapshot().Status; got != StatusFailed {
		t.Errorf("expected rejected job to be failed, got %q", got)
	}
}

func TestOrchestrator_Run(t *testing.T) {
	o := NewOrchestrator(testConfig(), testMatcher(), nil, discard())
	job := NewTextJob("", "")
	o.Run(context.Background(), job)

	got := o.GetJob(job.ID)
	if got == nil {
		t.Fatal("expected job to be stored")
	}
	rep := got.Report()
	if rep == nil {
		t.Fatal("expected report")
	}
	if rep.Summary.Missing != rep.Summary.Total {
		t.Errorf("expected every target missing for empty text, got %+v", rep.Summary)
	}
}
