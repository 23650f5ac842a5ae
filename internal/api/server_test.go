package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bindery/bindery/internal/config"
	"github.com/bindery/bindery/internal/pipeline"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		APIKey:         "secret",
		WorkerCount:    1,
		MaxQueueSize:   10,
		MaxUploadBytes: 1 << 20,
		JobTTL:         time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, nil, log)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)
	return NewServer(orch, log, cfg)
}

func multipartUpload(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte(content))
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer secret")
	return req
}

func TestHealthIsPublic(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/convert/any/status", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/convert/any/status", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with bad token, got %d", rec.Code)
	}
}

func TestConvertFlow(t *testing.T) {
	s := testServer(t)

	content := "CHAPTER ONE\nDEFINING NATIONALISM\n\nA paragraph of content.\n1 A footnote."
	body, ctype := multipartUpload(t, "book.txt", content, nil)
	req := authedRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var accepted struct {
		JobID   string `json:"job_id"`
		PollURL string `json:"poll_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode accept response: %v", err)
	}
	if accepted.JobID == "" {
		t.Fatal("expected a job id")
	}

	// Poll until the worker finishes.
	deadline := time.Now().Add(5 * time.Second)
	var status string
	for time.Now().Before(deadline) {
		rec = httptest.NewRecorder()
		s.ServeHTTP(rec, authedRequest(http.MethodGet, accepted.PollURL, nil))
		var st struct {
			Status string `json:"status"`
		}
		json.Unmarshal(rec.Body.Bytes(), &st)
		status = st.Status
		if status == string(pipeline.StatusCompleted) || status == string(pipeline.StatusFailed) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if status != string(pipeline.StatusCompleted) {
		t.Fatalf("expected completed job, got %q", status)
	}

	// JSON result.
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/convert/"+accepted.JobID+"/result", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 result, got %d: %s", rec.Code, rec.Body.String())
	}
	var chapters []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &chapters); err != nil {
		t.Fatalf("result not a bare array: %v", err)
	}
	if len(chapters) != 1 || chapters[0]["chapter"] != "ONE" {
		t.Errorf("unexpected result payload: %v", chapters)
	}

	// Markdown view.
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/convert/"+accepted.JobID+"/markdown", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 markdown, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "## DEFINING NATIONALISM") {
		t.Errorf("expected chapter heading in markdown, got:\n%s", rec.Body.String())
	}
}

func TestConvertRejectsUnsupportedType(t *testing.T) {
	s := testServer(t)
	body, ctype := multipartUpload(t, "image.png", "bytes", nil)
	req := authedRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestConvertRejectsTranslateWithoutTranslator(t *testing.T) {
	s := testServer(t)
	body, ctype := multipartUpload(t, "book.txt", "text", map[string]string{"translate": "true"})
	req := authedRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestResultBeforeCompletion(t *testing.T) {
	s := testServer(t)
	// A job that was never submitted.
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/convert/missing/result", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown job, got %d", rec.Code)
	}
}

func TestTranslatorStatsUnavailable(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/stats/translator", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without translator, got %d", rec.Code)
	}
}
