package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docread/docread/internal/providers"
)

// DefaultCapacity is the number of recent metrics a Recorder keeps.
const DefaultCapacity = 1000

// Error types recorded for failed scans.
const (
	ErrorTypeInvalidUpload = "invalid_upload"
	ErrorTypeOCR           = "ocr_error"
	ErrorTypeNoProviders   = "no_providers"
	ErrorTypeSchema        = "schema_error"
)

// Recorder keeps a bounded ring of recent metrics in memory.
type Recorder struct {
	mu   sync.RWMutex
	buf  []Metric
	next int
	full bool
}

// NewRecorder creates a recorder holding up to capacity metrics.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{buf: make([]Metric, capacity)}
}

// RecordOpts provides context for a metric recording.
type RecordOpts struct {
	RequestID    string
	DocumentType string
	Source       string
	FieldCount   int
	TotalTime    time.Duration
}

// Record stores a single metric and returns its ID.
// The oldest metric is dropped once the ring is full.
func (r *Recorder) Record(m Metric) string {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = m
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
	return m.ID
}

// RecordOCRCall records metrics from an OCR result.
func (r *Recorder) RecordOCRCall(opts RecordOpts, provider string, result *providers.OCRResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("nil OCR result")
	}

	m := Metric{
		// Attribution
		RequestID:    opts.RequestID,
		DocumentType: opts.DocumentType,
		Source:       opts.Source,

		// Provider info
		Provider: provider,

		// Cost and volume
		CostUSD:    result.CostUSD,
		LineCount:  len(result.Lines),
		FieldCount: opts.FieldCount,
		RetryCount: result.RetryCount,

		// Timing
		OCRSeconds:   result.ExecutionTime.Seconds(),
		TotalSeconds: opts.TotalTime.Seconds(),

		// Status
		Success: result.Success,
	}
	if m.TotalSeconds == 0 {
		m.TotalSeconds = m.OCRSeconds
	}
	if result.ErrorMessage != "" {
		m.ErrorType = ErrorTypeOCR
	}

	return r.Record(m), nil
}

// RecordError records a failed operation as a metric.
func (r *Recorder) RecordError(opts RecordOpts, provider, errorType string) string {
	return r.Record(Metric{
		RequestID:    opts.RequestID,
		DocumentType: opts.DocumentType,
		Source:       opts.Source,
		Provider:     provider,
		TotalSeconds: opts.TotalTime.Seconds(),
		Success:      false,
		ErrorType:    errorType,
	})
}

// Len returns the number of metrics currently held.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.full {
		return len(r.buf)
	}
	return r.next
}

// snapshot returns held metrics oldest first.
func (r *Recorder) snapshot() []Metric {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.full {
		out := make([]Metric, r.next)
		copy(out, r.buf[:r.next])
		return out
	}
	out := make([]Metric, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	out = append(out, r.buf[:r.next]...)
	return out
}
