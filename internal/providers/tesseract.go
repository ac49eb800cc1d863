//go:build tesseract

package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// TesseractAvailable reports whether the binary was built with Tesseract support.
const TesseractAvailable = true

// TesseractClient implements OCRProvider with a local Tesseract engine.
type TesseractClient struct {
	languages []string
	rateLimit float64
}

// NewTesseractClient creates a new Tesseract client.
func NewTesseractClient(cfg TesseractConfig) (*TesseractClient, error) {
	cfg = cfg.withDefaults()
	return &TesseractClient{languages: cfg.Languages, rateLimit: cfg.RateLimit}, nil
}

// Name returns the provider identifier.
func (c *TesseractClient) Name() string { return TesseractName }

// RequestsPerSecond returns the rate limit.
func (c *TesseractClient) RequestsPerSecond() float64 { return c.rateLimit }

// MaxRetries returns the maximum retry attempts. Local failures do not heal.
func (c *TesseractClient) MaxRetries() int { return 0 }

// RetryDelayBase returns the base delay for exponential backoff.
func (c *TesseractClient) RetryDelayBase() time.Duration { return 0 }

// Recognize runs Tesseract over the image.
func (c *TesseractClient) Recognize(ctx context.Context, image []byte, mime string) (*OCRResult, error) {
	start := time.Now()

	switch mime {
	case MIMEPNG, MIMEJPEG, MIMETIFF, "":
	default:
		return failed(start, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mime))
	}
	if err := ctx.Err(); err != nil {
		return failed(start, err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(c.languages...); err != nil {
		return failed(start, fmt.Errorf("set languages: %w", err))
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return failed(start, fmt.Errorf("set image: %w", err))
	}
	text, err := client.Text()
	if err != nil {
		return failed(start, fmt.Errorf("tesseract: %w", err))
	}

	return &OCRResult{
		Success: true,
		Lines:   SplitLines(text),
		Metadata: map[string]any{
			"languages": c.languages,
		},
		ExecutionTime: time.Since(start),
	}, nil
}

// Verify interface
var _ OCRProvider = (*TesseractClient)(nil)
