package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/outliner/internal/outline"
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

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing"},
		{StatusNumbering, "numbering headings"},
		{StatusRelinking, "resynchronizing links"},
		{StatusRendering, "rendering"},
		{StatusStoring, "storing revision"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure the time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_Reports(t *testing.T) {
	job := &Job{ID: "rep-test", UpdatedAt: time.Now()}
	job.SetNumberReport(outline.NumberReport{Numbered: 4, Unchanged: 2, Frozen: true})
	job.SetRelinkReport(&outline.RelinkReport{
		Rewritten: 3,
		Stale:     true,
		Deprecated: []outline.DeprecatedLink{
			{URL: "#gone", Display: "old section"},
		},
	})

	snap := job.Snapshot()
	if snap.Progress.HeadingsNumbered != 4 || snap.Progress.HeadingsUnchanged != 2 {
		t.Errorf("unexpected numbering progress: %+v", snap.Progress)
	}
	if !snap.Progress.Frozen {
		t.Error("expected frozen flag carried into progress")
	}
	if snap.Progress.LinksRewritten != 3 || !snap.Progress.Stale {
		t.Errorf("unexpected relink progress: %+v", snap.Progress)
	}
	if len(snap.Progress.Deprecated) != 1 || snap.Progress.Deprecated[0].URL != "#gone" {
		t.Errorf("expected deprecated link in progress, got %+v", snap.Progress.Deprecated)
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("relink: document has no table of contents")
	job.AddError("store: status 503")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "relink: document has no table of contents" {
		t.Errorf("unexpected first error %q", snap.Progress.Errors[0])
	}
}

func TestJob_FileDataAndResult(t *testing.T) {
	job := &Job{ID: "data-test"}
	job.SetFileData([]byte("# Heading\n"))
	if string(job.FileData()) != "# Heading\n" {
		t.Errorf("unexpected file data %q", job.FileData())
	}
	job.SetResult("# 1. Heading\n")
	if job.Result() != "# 1. Heading\n" {
		t.Errorf("unexpected result %q", job.Result())
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	time.Sleep(100 * time.Millisecond)

	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestGenerateULID_UniqueAndSized(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := generateULID()
		if len(id) != 26 {
			t.Fatalf("expected 26-char ULID, got %d (%q)", len(id), id)
		}
		if seen[id] {
			t.Fatalf("duplicate ULID %q", id)
		}
		seen[id] = true
	}
}
