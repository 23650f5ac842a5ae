package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/bindery/bindery/internal/config"
	"github.com/bindery/bindery/internal/parser"
	"github.com/bindery/bindery/internal/translate"
)

// Worker processes a single conversion job.
type Worker struct {
	translator *translate.Client
	log        *slog.Logger
	cfg        config.Config
}

func NewWorker(translator *translate.Client, log *slog.Logger, cfg config.Config) *Worker {
	return &Worker{
		translator: translator,
		log:        log,
		cfg:        cfg,
	}
}

// Process runs the full conversion pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Parse and reconstruct.
	job.SetStatus(StatusParsing, "parsing")
	opts := parser.Options{
		Layout:    w.cfg.LayoutConfig(),
		Policy:    w.cfg.ArtifactPolicy(),
		StartPage: job.StartPage,
		EndPage:   job.EndPage,
	}
	p, err := parser.ForFile(job.Filename, opts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	data := job.FileData()
	doc, err := p.Parse(bytes.NewReader(data), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	}
	job.ContentHash = ContentHashHex(data)
	job.SetCounts(doc)
	log.Info("document reconstructed",
		"pages", len(doc.Pages), "chapters", len(doc.Chapters), "units", len(doc.AllUnits()))

	if doc.Empty() {
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Translate, when requested and configured.
	if job.Translate && w.translator != nil {
		job.SetStatus(StatusTranslating, "translating")
		err := w.translator.TranslateDocument(ctx, doc, w.cfg.TranslateFrom, w.cfg.TranslateTo,
			w.cfg.TranslateBatchSize, job.SetTranslated)
		if err != nil {
			log.Error("translation failed", "error", err)
			job.AddError(fmt.Sprintf("translate: %s", err))
			// The reconstruction itself succeeded; keep it.
			job.SetResult(doc)
			job.SetStatus(StatusPartial, "translating")
			return
		}
		log.Info("translation complete", "units", job.Snapshot().Progress.UnitsTranslated)
	}

	job.SetResult(doc)
	job.SetStatus(StatusCompleted, "done")
}
