package providers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Supported document formats.
const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
	MIMETIFF = "image/tiff"
	MIMEPDF  = "application/pdf"
)

// ErrUnsupportedFormat is returned when a provider cannot read the given format.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// OCRProvider turns a document image into recognized text lines.
type OCRProvider interface {
	// Name returns the provider identifier (e.g., "textract", "mistral-ocr").
	Name() string

	// Recognize extracts the text lines of a single-page document.
	Recognize(ctx context.Context, image []byte, mime string) (*OCRResult, error)

	// Rate limiting properties
	RequestsPerSecond() float64
	MaxRetries() int
	RetryDelayBase() time.Duration
}

// OCRResult is the response from an OCR provider.
type OCRResult struct {
	// Success/content
	Success bool     `json:"success"`
	Lines   []string `json:"lines"` // In reading order

	// Metadata from provider (model, page count, confidence, etc.)
	Metadata map[string]any `json:"metadata,omitempty"`

	// Cost and timing
	CostUSD       float64       `json:"cost_usd"`
	ExecutionTime time.Duration `json:"execution_time"`

	// Error info
	ErrorMessage string `json:"error_message,omitempty"`
	RetryCount   int    `json:"retry_count"`
}

// Text joins the recognized lines with newlines.
func (r *OCRResult) Text() string {
	return strings.Join(r.Lines, "\n")
}

// failed builds the result returned alongside err.
func failed(start time.Time, err error) (*OCRResult, error) {
	return &OCRResult{
		Success:       false,
		ErrorMessage:  err.Error(),
		ExecutionTime: time.Since(start),
	}, err
}

// RateLimitError reports a throttled request.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
	StatusCode int
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %s)", e.Message, e.RetryAfter)
	}
	return e.Message
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// dataURL encodes the document as a base64 data URL.
func dataURL(mime string, b64 string) string {
	if mime == "" {
		mime = MIMEPNG
	}
	return "data:" + mime + ";base64," + b64
}
