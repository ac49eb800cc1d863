package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docread/docread/internal/api"
	"github.com/docread/docread/internal/document"
	"github.com/docread/docread/internal/scan"
	"github.com/docread/docread/internal/svcctx"
)

// DefaultScanRoute is used when no scan route is configured.
const DefaultScanRoute = "/api/documents/scan"

// multipartOverhead is allowed on top of the file limit for form framing.
const multipartOverhead = 1 << 20

// Response headers describing a scan. The body is the bare record.
const (
	HeaderRequestID    = "X-Request-ID"
	HeaderDocumentType = "X-Document-Type"
	HeaderProvider     = "X-OCR-Provider"
)

// ScanEndpoint handles POST {server.scan_route} with a multipart "file".
type ScanEndpoint struct {
	Path string
}

var _ api.Endpoint = (*ScanEndpoint)(nil)

func (e *ScanEndpoint) path() string {
	if e.Path == "" {
		return DefaultScanRoute
	}
	return e.Path
}

func (e *ScanEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", e.path(), e.handler
}

func (e *ScanEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Scan a document
//	@Description	OCR an uploaded cedula, licencia or certificado image and return its fields
//	@Tags			documents
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"PNG, JPEG, TIFF or single page PDF"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/documents/scan [post]
func (e *ScanEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	scanner := svcctx.ScannerFrom(r.Context())
	if scanner == nil {
		writeError(w, http.StatusServiceUnavailable, "scan service not initialized")
		return
	}

	limit := scanner.Settings().MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	if err := r.ParseMultipartForm(limit + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: file exceeds %d bytes", scan.ErrInvalidUpload, limit))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: failed to parse form: %v", scan.ErrInvalidUpload, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: no file received", scan.ErrInvalidUpload))
		return
	}
	defer file.Close()

	result, err := scanner.Scan(r.Context(), scan.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		writeScanError(w, err)
		return
	}

	w.Header().Set(HeaderRequestID, result.ID)
	w.Header().Set(HeaderDocumentType, string(result.DocumentType))
	w.Header().Set(HeaderProvider, result.Provider)
	writeJSON(w, http.StatusOK, result.Record)
}

// writeScanError maps scan errors to status codes. Upload problems carry
// their reason; everything else is the generic processing error.
func writeScanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scan.ErrInvalidUpload):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scan.ErrNoProviders):
		writeError(w, http.StatusServiceUnavailable, scan.ErrNoProviders.Error())
	default:
		writeError(w, http.StatusInternalServerError, scan.ErrOCRFailed.Error())
	}
}

func (e *ScanEndpoint) Command(getServerURL func() string) *cobra.Command {
	var route string
	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Upload a document image for OCR and field extraction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			client := api.NewClient(getServerURL())
			var rec document.OutputRecord
			if err := client.PostFile(cmd.Context(), route, "file", filepath.Base(args[0]), f, &rec); err != nil {
				return err
			}
			return api.Output(rec)
		},
	}
	cmd.Flags().StringVar(&route, "route", e.path(), "Scan route configured on the server")
	return cmd
}
