//go:build !tesseract

package providers

import (
	"errors"
	"fmt"
)

// TesseractAvailable reports whether the binary was built with Tesseract support.
const TesseractAvailable = false

// ErrTesseractUnavailable is returned when Tesseract support was not compiled in.
var ErrTesseractUnavailable = errors.New("tesseract support not compiled in (build with -tags tesseract)")

// TesseractClient is a placeholder in builds without the tesseract tag.
type TesseractClient struct{ OCRProvider }

// NewTesseractClient always fails in builds without the tesseract tag.
func NewTesseractClient(cfg TesseractConfig) (*TesseractClient, error) {
	return nil, fmt.Errorf("%w: languages %v", ErrTesseractUnavailable, cfg.withDefaults().Languages)
}
