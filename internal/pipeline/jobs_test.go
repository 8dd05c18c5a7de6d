package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/tendermatch/internal/locate"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestNewJobs(t *testing.T) {
	f := NewFileJob("tender.docx", "", []byte("data"))
	if f.ID == "" || f.Status != StatusQueued {
		t.Fatalf("expected queued job with id, got %q %q", f.ID, f.Status)
	}
	if string(f.FileData()) != "data" {
		t.Errorf("expected file data, got %q", f.FileData())
	}

	tj := NewTextJob("标书", "# 第八章")
	if tj.Text() != "# 第八章" {
		t.Errorf("expected text, got %q", tj.Text())
	}
	if tj.ID == f.ID {
		t.Error("expected distinct job ids")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewTextJob("", "x")

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusConverting, "converting"},
		{StatusMatching, "matching"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		snap := job.Snapshot()
		if snap.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, snap.Status)
		}
		if snap.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, snap.Phase)
		}
		if !snap.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}

	select {
	case <-job.Done():
	default:
		t.Error("expected Done to be closed after completion")
	}
	if job.Text() != "" {
		t.Error("expected input to be released after completion")
	}
}

func TestJob_TerminalStatusIsFinal(t *testing.T) {
	job := NewTextJob("", "x")
	job.SetStatus(StatusFailed, "matching")
	job.SetStatus(StatusCompleted, "done")
	if got := job.Snapshot().Status; got != StatusFailed {
		t.Errorf("expected status to stay %q, got %q", StatusFailed, got)
	}
}

func TestJob_AddError(t *testing.T) {
	job := NewTextJob("", "")
	job.AddError("parse failed")
	job.AddError("match failed")

	snap := job.Snapshot()
	if len(snap.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Errors))
	}
	if snap.Errors[0] != "parse failed" {
		t.Errorf("expected first error %q, got %q", "parse failed", snap.Errors[0])
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	snap := NewTextJob("", "").Snapshot()
	if snap.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if snap.Summary != nil {
		t.Error("expected no summary before a report exists")
	}
}

func TestJob_SnapshotSummary(t *testing.T) {
	job := NewTextJob("", "")
	job.SetReport(&locate.Report{Summary: locate.Summary{OK: 3, Total: 4}})
	snap := job.Snapshot()
	if snap.Summary == nil || snap.Summary.OK != 3 {
		t.Fatalf("expected summary with 3 ok, got %+v", snap.Summary)
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewTextJob("", "")
	store.Put(job)

	got := store.Get(job.ID)
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := NewTextJob("", "")
	expired.SetStatus(StatusCompleted, "done")
	running := NewTextJob("", "")
	running.SetStatus(StatusMatching, "matching")
	store.Put(expired)
	store.Put(running)

	time.Sleep(100 * time.Millisecond)

	fresh := NewTextJob("", "")
	fresh.SetStatus(StatusCompleted, "done")
	store.Put(fresh)

	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(running.ID) == nil {
		t.Error("expected running job to survive cleanup")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	store.Cleanup()
}
