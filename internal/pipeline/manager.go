// Package pipeline runs the upload and reprocess operations: extraction,
// metrics, analysis, and persistence, tracked as async jobs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/analysis"
	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/extract"
	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/metrics"
	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/models"
	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/storage"
)

// ErrBusy is returned when an upload or reprocess is requested while another
// operation holds the single in-flight slot.
var ErrBusy = errors.New("another document is being processed")

// Status represents the state of a pipeline job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusExtracting Status = "extracting"
	StatusAnalyzing  Status = "analyzing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// Job tracks one upload or reprocess operation from start to completion.
type Job struct {
	ID          string     `json:"id"`
	FileName    string     `json:"fileName"`
	Operation   string     `json:"operation"` // "upload" or "reprocess"
	Status      Status     `json:"status"`
	Progress    float64    `json:"progress"` // 0-100
	DocumentID  string     `json:"documentId,omitempty"`
	Fallback    bool       `json:"fallback,omitempty"` // analysis used default values
	Error       string     `json:"error,omitempty"`
	ErrorCode   string     `json:"errorCode,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Manager owns the in-flight slot and the job table. One upload or reprocess
// runs to completion (or failure) before another is accepted; every failure
// path releases the slot and leaves the manager idle and retry-ready.
type Manager struct {
	jobs     map[string]*Job
	mu       sync.RWMutex
	slot     chan struct{}
	store    storage.DocumentStore
	analyzer analysis.Analyzer
}

// NewManager creates a pipeline manager.
func NewManager(store storage.DocumentStore, analyzer analysis.Analyzer) *Manager {
	return &Manager{
		jobs:     make(map[string]*Job),
		slot:     make(chan struct{}, 1),
		store:    store,
		analyzer: analyzer,
	}
}

// StartUpload begins processing an uploaded source file. It returns ErrBusy
// if another operation is in flight.
func (m *Manager) StartUpload(src extract.SourceFile) (*Job, error) {
	if !m.acquire() {
		return nil, ErrBusy
	}

	job := m.newJob(src.Name, "upload")
	go m.runUpload(job.ID, src)
	return job, nil
}

// StartReprocess reruns analysis for a stored document over its existing
// extracted text. The document id and full text are preserved; everything
// else is replaced.
func (m *Manager) StartReprocess(id string) (*Job, error) {
	doc, err := m.store.Get(id)
	if err != nil {
		return nil, err
	}

	if !m.acquire() {
		return nil, ErrBusy
	}

	job := m.newJob(doc.Name, "reprocess")
	go m.runReprocess(job.ID, doc)
	return job, nil
}

// GetJob returns a snapshot of a job by id.
func (m *Manager) GetJob(id string) (*Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, false
	}
	snapshot := *job
	return &snapshot, true
}

// CleanupOldJobs drops finished jobs older than maxAge and returns how many
// were removed.
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, job := range m.jobs {
		done := job.Status == StatusComplete || job.Status == StatusError
		if done && job.CreatedAt.Before(cutoff) {
			delete(m.jobs, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) acquire() bool {
	select {
	case m.slot <- struct{}{}:
		return true
	default:
		return false
	}
}

func (m *Manager) release() {
	<-m.slot
}

func (m *Manager) newJob(fileName, operation string) *Job {
	job := &Job{
		ID:        uuid.New().String(),
		FileName:  fileName,
		Operation: operation,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	return job
}

func (m *Manager) runUpload(jobID string, src extract.SourceFile) {
	defer m.release()
	defer m.recoverPanic(jobID)

	m.update(jobID, StatusExtracting, 10)

	res, err := extract.Extract(src)
	if err != nil {
		m.fail(jobID, err)
		return
	}

	m.update(jobID, StatusAnalyzing, 50)

	result, err := m.analyzer.Analyze(context.Background(), res.Text)
	if err != nil {
		// Transport failure: the document is not saved.
		m.fail(jobID, err)
		return
	}

	doc := buildDocument(uuid.New().String(), src.Name, res.Text, res.PageCount, result)

	if err := m.store.Put(doc); err != nil {
		m.fail(jobID, fmt.Errorf("failed to save document: %w", err))
		return
	}

	m.complete(jobID, doc.ID, isFallback(result))
}

func (m *Manager) runReprocess(jobID string, doc *models.AnalyzedDocument) {
	defer m.release()
	defer m.recoverPanic(jobID)

	m.update(jobID, StatusAnalyzing, 30)

	result, err := m.analyzer.Analyze(context.Background(), doc.FullText)
	if err != nil {
		// The stored record stays untouched on transport failure.
		m.fail(jobID, err)
		return
	}

	replacement := buildDocument(doc.ID, doc.Name, doc.FullText, doc.Metrics.PageCount, result)

	if err := m.store.Put(replacement); err != nil {
		m.fail(jobID, fmt.Errorf("failed to save document: %w", err))
		return
	}

	m.complete(jobID, doc.ID, isFallback(result))
}

// buildDocument assembles the persisted record from extracted text and the
// analysis reply.
func buildDocument(id, name, text string, pageCount int, result *models.Analysis) *models.AnalyzedDocument {
	words := metrics.WordCount(text)

	return &models.AnalyzedDocument{
		ID:       id,
		Name:     name,
		Type:     result.Classification,
		Tags:     result.Tags,
		Summary:  result.Summary,
		FullText: text,
		Date:     time.Now(),
		Metrics: models.Metrics{
			WordCount:   words,
			PageCount:   pageCount,
			ReadingTime: metrics.ReadingTime(words),
			Sentiment:   result.Sentiment,
		},
		Insights: result.Insights,
		Graphs:   result.Graphs,
	}
}

func isFallback(result *models.Analysis) bool {
	fb := analysis.Fallback()
	return result.Classification == fb.Classification && result.Summary == fb.Summary
}

func (m *Manager) recoverPanic(jobID string) {
	if r := recover(); r != nil {
		fmt.Printf("[Pipeline %s] PANIC recovered: %v\n", shortID(jobID), r)
		m.fail(jobID, fmt.Errorf("processing panicked: %v", r))
	}
}

func (m *Manager) update(jobID string, status Status, progress float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if job, ok := m.jobs[jobID]; ok {
		job.Status = status
		job.Progress = progress
	}
}

func (m *Manager) complete(jobID, documentID string, fallback bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if job, ok := m.jobs[jobID]; ok {
		now := time.Now()
		job.Status = StatusComplete
		job.Progress = 100
		job.DocumentID = documentID
		job.Fallback = fallback
		job.CompletedAt = &now
	}
}

func (m *Manager) fail(jobID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if job, ok := m.jobs[jobID]; ok {
		now := time.Now()
		job.Status = StatusError
		job.Error = err.Error()
		job.ErrorCode = errorCode(err)
		job.CompletedAt = &now
	}
}

// errorCode maps pipeline failures onto stable codes the frontend keys on.
func errorCode(err error) string {
	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return "UNSUPPORTED_FORMAT"
	case errors.Is(err, extract.ErrEmptyContent):
		return "EMPTY_CONTENT"
	case errors.Is(err, extract.ErrMalformedPDF):
		return "MALFORMED_PDF"
	case errors.Is(err, extract.ErrMalformedWord):
		return "MALFORMED_DOCUMENT"
	case errors.Is(err, extract.ErrNoSupportedEntries):
		return "NO_SUPPORTED_ENTRIES"
	case errors.Is(err, analysis.ErrServiceUnavailable):
		return "ANALYSIS_UNAVAILABLE"
	default:
		return "PROCESSING_ERROR"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
