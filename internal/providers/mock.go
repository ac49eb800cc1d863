package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockOCRName = "mock-ocr"

// MockOCRProvider is an OCRProvider for testing and offline demos.
type MockOCRProvider struct {
	ProviderName string
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	FailFirst    int // Fail the first N requests (0 = never)
	Lines        []string
	RPS          float64
	Retries      int
	RetryDelay   time.Duration

	requestCount atomic.Int64
	lastMIME     atomic.Value
}

// NewMockOCRProvider creates a new mock OCR provider.
func NewMockOCRProvider() *MockOCRProvider {
	return &MockOCRProvider{
		ProviderName: MockOCRName,
		Latency:      10 * time.Millisecond,
		Lines:        []string{"mock OCR text"},
		RPS:          10.0,
		Retries:      3,
		RetryDelay:   time.Second,
	}
}

// Name returns the provider identifier.
func (p *MockOCRProvider) Name() string {
	return p.ProviderName
}

// RequestsPerSecond returns the rate limit.
func (p *MockOCRProvider) RequestsPerSecond() float64 {
	return p.RPS
}

// MaxRetries returns the max retry count.
func (p *MockOCRProvider) MaxRetries() int {
	return p.Retries
}

// RetryDelayBase returns the base retry delay.
func (p *MockOCRProvider) RetryDelayBase() time.Duration {
	return p.RetryDelay
}

// Recognize returns the configured lines.
func (p *MockOCRProvider) Recognize(ctx context.Context, image []byte, mime string) (*OCRResult, error) {
	start := time.Now()
	count := p.requestCount.Add(1)
	p.lastMIME.Store(mime)

	if p.ShouldFail {
		return failed(start, fmt.Errorf("mock OCR provider configured to fail"))
	}
	if p.FailFirst > 0 && int(count) <= p.FailFirst {
		return failed(start, fmt.Errorf("mock OCR provider failing request %d of %d", count, p.FailFirst))
	}
	if p.FailAfter > 0 && int(count) > p.FailAfter {
		return failed(start, fmt.Errorf("mock OCR provider failed after %d requests", p.FailAfter))
	}

	// Simulate latency
	select {
	case <-time.After(p.Latency):
	case <-ctx.Done():
		return failed(start, ctx.Err())
	}

	lines := make([]string, len(p.Lines))
	copy(lines, p.Lines)

	return &OCRResult{
		Success:       true,
		Lines:         lines,
		CostUSD:       0.001,
		ExecutionTime: time.Since(start),
		Metadata: map[string]any{
			"provider":    p.ProviderName,
			"mime":        mime,
			"image_bytes": len(image),
		},
	}, nil
}

// RequestCount returns the number of requests made.
func (p *MockOCRProvider) RequestCount() int64 {
	return p.requestCount.Load()
}

// LastMIME returns the format passed to the most recent Recognize call.
func (p *MockOCRProvider) LastMIME() string {
	v, _ := p.lastMIME.Load().(string)
	return v
}

// Reset resets the request counter.
func (p *MockOCRProvider) Reset() {
	p.requestCount.Store(0)
}

// Verify interface
var _ OCRProvider = (*MockOCRProvider)(nil)
