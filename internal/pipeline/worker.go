package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/outliner/internal/docstore"
	"github.com/dgallion1/outliner/internal/outline"
	"github.com/dgallion1/outliner/internal/parser"
	"github.com/dgallion1/outliner/internal/render"
)

// Worker runs the outline passes for a single document job.
type Worker struct {
	store *docstore.Client
	log   *slog.Logger
}

func NewWorker(store *docstore.Client, log *slog.Logger) *Worker {
	return &Worker{store: store, log: log}
}

// Process runs parse, renumber, optional relink, render, and store for
// one job. The relink pass failing (no TOC) degrades the job to
// partial; it never aborts the numbering result.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse.
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	}

	// Phase 2: Renumber headings.
	job.SetStatus(StatusNumbering, "numbering headings")
	numRep := outline.Renumber(doc)
	job.SetNumberReport(numRep)
	log.Info("numbering complete",
		"numbered", numRep.Numbered,
		"unchanged", numRep.Unchanged,
		"frozen", numRep.Frozen,
	)

	// Phase 3: Resynchronize heading links, when asked for.
	relinkFailed := false
	if job.Resync {
		job.SetStatus(StatusRelinking, "resynchronizing links")
		relRep, err := outline.ResyncLinks(doc)
		switch {
		case errors.Is(err, outline.ErrNoTOC):
			log.Warn("relink skipped", "error", err)
			job.AddError("relink: " + err.Error())
			relinkFailed = true
		case err != nil:
			log.Error("relink failed", "error", err)
			job.AddError("relink: " + err.Error())
			relinkFailed = true
		default:
			job.SetRelinkReport(relRep)
			if relRep.Stale {
				log.Warn("table of contents is stale", "doc_id", job.DocID)
			}
			log.Info("relink complete",
				"rewritten", relRep.Rewritten,
				"deprecated", len(relRep.Deprecated),
			)
		}
	}

	// Phase 4: Render.
	job.SetStatus(StatusRendering, "rendering")
	out := render.Markdown(doc)
	job.SetResult(out)

	// Phase 5: Store the revision, with backoff on transient failures.
	job.SetStatus(StatusStoring, "storing revision")
	storeErr := w.storeRevision(ctx, job, out, log)
	if storeErr != nil {
		log.Error("store failed", "error", storeErr)
		job.AddError(fmt.Sprintf("store: %s", storeErr))
	}

	switch {
	case storeErr != nil:
		job.SetStatus(StatusPartial, "stored locally only")
	case relinkFailed:
		job.SetStatus(StatusPartial, "done without relink")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

func (w *Worker) storeRevision(ctx context.Context, job *Job, content string, log *slog.Logger) error {
	rev := docstore.RevisionRequest{
		Content: content,
		Source:  "outliner:" + job.ID,
		Report:  job.Snapshot().Progress,
	}
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = w.store.PutRevision(ctx, job.DocID, rev)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		log.Warn("retryable store error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
