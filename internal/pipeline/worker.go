package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/tendermatch/internal/metrics"
	"github.com/dgallion1/tendermatch/internal/parser"
)

// Worker processes a single document job.
type Worker struct {
	matcher    *Matcher
	metrics    *metrics.Metrics
	stats      *LatencyStats
	log        *slog.Logger
	parserOpts parser.Options
}

func NewWorker(m *Matcher, mx *metrics.Metrics, stats *LatencyStats, log *slog.Logger, opts parser.Options) *Worker {
	return &Worker{
		matcher:    m,
		metrics:    mx,
		stats:      stats,
		log:        log,
		parserOpts: opts,
	}
}

// Process converts the job's input to text and matches it.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Convert
	text := job.Text()
	if text == "" && job.Filename != "" {
		job.SetStatus(StatusConverting, "converting")
		p, err := parser.ForFile(job.Filename, w.parserOpts)
		if err != nil {
			w.fail(log, job, "converting", err)
			return
		}
		doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
		if err != nil {
			w.fail(log, job, "converting", fmt.Errorf("parse: %w", err))
			return
		}
		job.setTitle(doc.Title)
		text = doc.Text
		log.Info("converted document", "title", doc.Title, "bytes", len(text))
	}
	job.setContentHash(ContentHashHex([]byte(text)))

	// Phase 2: Match
	job.SetStatus(StatusMatching, "matching")
	start := time.Now()
	report, err := w.matcher.Match(ctx, text)
	elapsed := time.Since(start)
	if err != nil {
		w.fail(log, job, "matching", fmt.Errorf("match: %w", err))
		return
	}

	w.stats.Record(elapsed.Milliseconds(), false)
	w.metrics.ObserveChapter(report.Chapter.Method)
	for _, r := range report.Results {
		w.metrics.ObserveResult(r.TargetKey, string(r.Status))
	}
	w.metrics.ObserveJob(string(StatusCompleted), elapsed.Seconds())

	job.SetReport(report)
	job.SetStatus(StatusCompleted, "done")
	log.Info("match complete",
		"run_id", report.RunID,
		"ok", report.Summary.OK,
		"missing", report.Summary.Missing,
		"duration_ms", elapsed.Milliseconds())
}

func (w *Worker) fail(log *slog.Logger, job *Job, phase string, err error) {
	log.Error("job failed", "phase", phase, "error", err)
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, phase)
	w.stats.Record(0, true)
	w.metrics.ObserveJob(string(StatusFailed), -1)
}
