package api

import (
	"net/http"

	"github.com/bindery/bindery/internal/pipeline"
	"github.com/bindery/bindery/internal/render"
	"github.com/go-chi/chi/v5"
)

// handleConvertResult returns the reconstructed document as JSON, in the
// bare-array interchange form.
func (s *Server) handleConvertResult(w http.ResponseWriter, r *http.Request) {
	job, ok := s.finishedJob(w, r)
	if !ok {
		return
	}

	out, err := render.JSON(job.Result())
	if err != nil {
		jsonError(w, "render failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(out)
}

// handleConvertMarkdown returns the reconstructed document as Markdown.
func (s *Server) handleConvertMarkdown(w http.ResponseWriter, r *http.Request) {
	job, ok := s.finishedJob(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(render.Markdown(job.Result())))
}

// finishedJob resolves the job and checks it has a result to serve.
// Partial jobs count: an untranslated reconstruction is still useful.
func (s *Server) finishedJob(w http.ResponseWriter, r *http.Request) (*pipeline.Job, bool) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return nil, false
	}
	if job.Result() == nil {
		snap := job.Snapshot()
		if snap.Status == pipeline.StatusFailed {
			jsonError(w, "job failed", http.StatusUnprocessableEntity)
		} else {
			jsonError(w, "job not finished", http.StatusConflict)
		}
		return nil, false
	}
	return job, true
}
