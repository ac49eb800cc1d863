package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/docread/docread/internal/api"
	"github.com/docread/docread/internal/document"
	"github.com/docread/docread/internal/scan"
	"github.com/docread/docread/internal/schema"
	"github.com/docread/docread/internal/svcctx"
)

// maxExtractBody bounds the JSON body of an extract request.
const maxExtractBody = 1 << 20

// ExtractRequest carries already recognized text. Lines wins when both are set.
type ExtractRequest struct {
	Text  string   `json:"text,omitempty"`
	Lines []string `json:"lines,omitempty"`
}

// ExtractResponse is the result of running the document core on text.
type ExtractResponse struct {
	DocumentType document.DocumentType `json:"document_type"`
	Record       document.OutputRecord `json:"record"`
	Fields       map[string]string     `json:"fields"`
}

// ExtractEndpoint handles POST /api/documents/extract.
type ExtractEndpoint struct{}

func (e *ExtractEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/extract", e.handler
}

func (e *ExtractEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Extract fields from text
//	@Description	Classify recognized text and extract its fields without OCR
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ExtractRequest	true	"Recognized text or lines"
//	@Success		200		{object}	ExtractResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/documents/extract [post]
func (e *ExtractEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	scanner := svcctx.ScannerFrom(r.Context())
	if scanner == nil {
		writeError(w, http.StatusServiceUnavailable, "scan service not initialized")
		return
	}

	var req ExtractRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxExtractBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Text == "" && len(req.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "text or lines is required")
		return
	}

	var result *scan.Result
	if len(req.Lines) > 0 {
		result = scanner.ExtractLines(req.Lines)
	} else {
		result = scanner.ExtractText(req.Text)
	}

	fields := result.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	writeJSON(w, http.StatusOK, ExtractResponse{
		DocumentType: result.DocumentType,
		Record:       result.Record,
		Fields:       fields,
	})
}

func (e *ExtractEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract fields from recognized text (file or stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if file == "" || file == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(file)
			}
			if err != nil {
				return fmt.Errorf("failed to read text: %w", err)
			}

			client := api.NewClient(getServerURL())
			var resp ExtractResponse
			if err := client.Post(cmd.Context(), "/api/documents/extract", ExtractRequest{Text: string(data)}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Text file to read (default stdin)")
	return cmd
}

// DocumentTypeInfo describes one known document type.
type DocumentTypeInfo struct {
	Type   document.DocumentType `json:"type"`
	Fields []string              `json:"fields"`
}

// ListDocumentTypesResponse lists the known document types.
type ListDocumentTypesResponse struct {
	DocumentTypes []DocumentTypeInfo `json:"document_types"`
}

// ListDocumentTypesEndpoint handles GET /api/document-types.
type ListDocumentTypesEndpoint struct{}

func (e *ListDocumentTypesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/document-types", e.handler
}

func (e *ListDocumentTypesEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		List document types
//	@Description	Each recognized document type with its output fields in record order
//	@Tags			documents
//	@Produce		json
//	@Success		200	{object}	ListDocumentTypesResponse
//	@Router			/api/document-types [get]
func (e *ListDocumentTypesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	types := document.DocumentTypes()
	resp := ListDocumentTypesResponse{DocumentTypes: make([]DocumentTypeInfo, 0, len(types))}
	for _, t := range types {
		resp.DocumentTypes = append(resp.DocumentTypes, DocumentTypeInfo{Type: t, Fields: document.Fields(t)})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *ListDocumentTypesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "document-types",
		Short: "List recognized document types and their fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ListDocumentTypesResponse
			if err := client.Get(cmd.Context(), "/api/document-types", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// DocumentSchemaEndpoint handles GET /api/document-types/{type}/schema.
type DocumentSchemaEndpoint struct{}

func (e *DocumentSchemaEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/document-types/{type}/schema", e.handler
}

func (e *DocumentSchemaEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Record schema
//	@Description	JSON Schema of the output record for a document type
//	@Tags			documents
//	@Produce		json
//	@Param			type	path		string	true	"cedula, licencia, certificado or desconocido"
//	@Success		200		{object}	map[string]any
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/document-types/{type}/schema [get]
func (e *DocumentSchemaEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, err := schema.Get(document.DocumentType(r.PathValue("type")))
	if err != nil {
		if errors.Is(err, schema.ErrUnknownType) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	w.Write(s.JSON)
}

func (e *DocumentSchemaEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <type>",
		Short: "Get the JSON Schema of a document type's record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp map[string]any
			if err := client.Get(cmd.Context(), "/api/document-types/"+args[0]+"/schema", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
