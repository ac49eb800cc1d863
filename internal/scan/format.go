package scan

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/docread/docread/internal/providers"
)

var (
	tiffLE = []byte("II*\x00")
	tiffBE = []byte("MM\x00*")

	pdfcpuOnce sync.Once
)

// DetectFormat returns the MIME type of an upload from its leading bytes,
// falling back to the file extension for TIFF. Only PNG, JPEG, TIFF and
// PDF are accepted.
func DetectFormat(filename string, data []byte) (string, error) {
	if bytes.HasPrefix(data, tiffLE) || bytes.HasPrefix(data, tiffBE) {
		return providers.MIMETIFF, nil
	}

	sniffed := http.DetectContentType(data)
	if i := strings.IndexByte(sniffed, ';'); i >= 0 {
		sniffed = sniffed[:i]
	}
	switch sniffed {
	case providers.MIMEPNG, providers.MIMEJPEG, providers.MIMEPDF:
		return sniffed, nil
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tif", ".tiff":
		if sniffed == "application/octet-stream" {
			return providers.MIMETIFF, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported format %s", ErrInvalidUpload, sniffed)
}

// uploadExt returns the lowercased extension of a client file name when it
// is one of the accepted ones, so staged files never take arbitrary suffixes.
func uploadExt(filename string) string {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".pdf":
		return ext
	}
	return ""
}

// validatePDF checks that a PDF parses and has exactly one page.
func validatePDF(data []byte) error {
	pdfcpuOnce.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageCount, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return fmt.Errorf("%w: unreadable PDF: %v", ErrInvalidUpload, err)
	}
	if pageCount != 1 {
		return fmt.Errorf("%w: PDF must have exactly one page, got %d", ErrInvalidUpload, pageCount)
	}
	return nil
}
