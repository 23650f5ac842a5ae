package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/bindery/bindery/internal/bookdoc"
)

// JobStatus represents the state of a conversion job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusParsing     JobStatus = "parsing"
	StatusTranslating JobStatus = "translating"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
	StatusPartial     JobStatus = "partial"
)

// Job tracks the state of a single document conversion.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	// Request settings.
	Translate bool `json:"translate"`
	StartPage int  `json:"start_page,omitempty"`
	EndPage   int  `json:"end_page,omitempty"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	result   *bookdoc.Document
	errors   []string
}

// Progress tracks conversion progress.
type Progress struct {
	Pages            int      `json:"pages"`
	Chapters         int      `json:"chapters"`
	TotalUnits       int      `json:"total_units"`
	Paragraphs       int      `json:"paragraphs"`
	Footnotes        int      `json:"footnotes"`
	UnitsToTranslate int      `json:"units_to_translate"`
	UnitsTranslated  int      `json:"units_translated"`
	Errors           []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetCounts records the reconstruction result shape.
func (j *Job) SetCounts(doc *bookdoc.Document) {
	units := doc.AllUnits()

	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Pages = len(doc.Pages)
	j.Progress.Chapters = len(doc.Chapters)
	j.Progress.TotalUnits = len(units)
	j.Progress.Paragraphs = 0
	j.Progress.Footnotes = 0
	for _, u := range units {
		switch u.Type {
		case bookdoc.UnitParagraph:
			j.Progress.Paragraphs++
		case bookdoc.UnitFootnote:
			j.Progress.Footnotes++
		}
	}
	j.UpdatedAt = time.Now()
}

// SetTranslated records translation progress.
func (j *Job) SetTranslated(done, total int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.UnitsTranslated = done
	j.Progress.UnitsToTranslate = total
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetResult stores the reconstructed document and drops the file bytes,
// which are no longer needed.
func (j *Job) SetResult(doc *bookdoc.Document) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = doc
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Result returns the reconstructed document, or nil while processing.
func (j *Job) Result() *bookdoc.Document {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	progress := j.Progress
	progress.Errors = errs
	return JobSnapshot{
		ID:       j.ID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Title:    j.Title,
		Progress: progress,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
