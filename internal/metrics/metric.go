// Package metrics provides cost and usage tracking for document scans.
package metrics

import "time"

// Metric represents a single recorded scan.
// Metrics are append-only records held in memory with full attribution.
type Metric struct {
	ID string `json:"id"`

	// Attribution (for filtering/aggregation)
	RequestID    string `json:"request_id,omitempty"`
	DocumentType string `json:"document_type,omitempty"`
	Source       string `json:"source,omitempty"` // "upload", "text", "cli"

	// Provider info
	Provider string `json:"provider,omitempty"`

	// Cost and volume
	CostUSD    float64 `json:"cost_usd,omitempty"`
	LineCount  int     `json:"line_count,omitempty"`
	FieldCount int     `json:"field_count,omitempty"`
	RetryCount int     `json:"retry_count,omitempty"`

	// Timing
	OCRSeconds   float64 `json:"ocr_seconds,omitempty"`
	TotalSeconds float64 `json:"total_seconds,omitempty"`

	// Status
	Success   bool   `json:"success"`
	ErrorType string `json:"error_type,omitempty"`

	// Metadata
	CreatedAt time.Time `json:"created_at"`
}
