package scan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docread/docread/internal/document"
	"github.com/docread/docread/internal/home"
	"github.com/docread/docread/internal/metrics"
	"github.com/docread/docread/internal/providers"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	jpegBytes = append([]byte("\xff\xd8\xff\xe0"), bytes.Repeat([]byte{0}, 32)...)

	cedulaLines = []string{
		"REPUBLICA BOLIVARIANA DE VENEZUELA",
		"NOMBRES JUAN PEREZ",
		"APELLIDOS GOMEZ",
		"V-12.345.678",
	}
)

// buildPDF returns a minimal PDF with the given number of empty pages.
func buildPDF(pages int) []byte {
	var b bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, b.Len())
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	b.WriteString("%PDF-1.4\n")
	var kids []string
	for i := 0; i < pages; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+i))
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>")
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return b.Bytes()
}

func mockProvider(name string, lines ...string) *providers.MockOCRProvider {
	p := providers.NewMockOCRProvider()
	p.ProviderName = name
	p.Latency = 0
	p.RetryDelay = time.Millisecond
	p.RPS = 100
	if len(lines) > 0 {
		p.Lines = lines
	}
	return p
}

func newTestService(t *testing.T, settings Settings, provs ...*providers.MockOCRProvider) (*Service, *home.Dir, *metrics.Recorder) {
	t.Helper()
	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatalf("home.New() error = %v", err)
	}
	reg := providers.NewRegistry()
	for _, p := range provs {
		reg.RegisterOCR(p.Name(), p)
	}
	rec := metrics.NewRecorder(100)
	svc, err := New(Config{Registry: reg, Home: h, Metrics: rec, Settings: settings})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return svc, h, rec
}

func assertNoStagedFiles(t *testing.T, h *home.Dir) {
	t.Helper()
	entries, err := os.ReadDir(h.UploadsPath())
	if err != nil {
		t.Fatalf("read uploads: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("staged files left behind: %d", len(entries))
	}
}

func TestNew(t *testing.T) {
	h, _ := home.New(t.TempDir())
	if _, err := New(Config{Home: h}); err == nil {
		t.Error("expected error without registry")
	}
	if _, err := New(Config{Registry: providers.NewRegistry()}); err == nil {
		t.Error("expected error without home")
	}

	svc, err := New(Config{Registry: providers.NewRegistry(), Home: h})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := svc.Settings().MaxUploadBytes; got != DefaultMaxUploadBytes {
		t.Errorf("MaxUploadBytes = %d, want %d", got, DefaultMaxUploadBytes)
	}
}

func TestService_Scan(t *testing.T) {
	t.Run("recognizes cedula", func(t *testing.T) {
		p := mockProvider("mock", cedulaLines...)
		svc, h, rec := newTestService(t, Settings{}, p)

		res, err := svc.Scan(context.Background(), Upload{Filename: "id.png", Body: bytes.NewReader(pngBytes)})
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		if res.DocumentType != document.Cedula {
			t.Errorf("DocumentType = %s, want cedula", res.DocumentType)
		}
		if v, _ := res.Record.Get("numero_de_cedula"); v != "V-12.345.678" {
			t.Errorf("numero_de_cedula = %q, want V-12.345.678", v)
		}
		if v, _ := res.Record.Get("nombre"); v != "JUAN PEREZ" {
			t.Errorf("nombre = %q, want JUAN PEREZ", v)
		}
		if res.Provider != "mock" {
			t.Errorf("Provider = %q, want mock", res.Provider)
		}
		if res.ID == "" {
			t.Error("expected request id")
		}
		if p.LastMIME() != providers.MIMEPNG {
			t.Errorf("provider got %q, want %q", p.LastMIME(), providers.MIMEPNG)
		}
		assertNoStagedFiles(t, h)

		ms := rec.List(metrics.Filter{}, 0)
		if len(ms) != 1 {
			t.Fatalf("metrics = %d, want 1", len(ms))
		}
		if !ms[0].Success || ms[0].DocumentType != "cedula" || ms[0].Provider != "mock" {
			t.Errorf("metric = %+v", ms[0])
		}
		if ms[0].FieldCount < 3 {
			t.Errorf("FieldCount = %d, want at least 3", ms[0].FieldCount)
		}
	})

	t.Run("unknown document still succeeds", func(t *testing.T) {
		svc, _, _ := newTestService(t, Settings{}, mockProvider("mock", "FACTURA 123"))

		res, err := svc.Scan(context.Background(), Upload{Filename: "x.jpg", Body: bytes.NewReader(jpegBytes)})
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if res.DocumentType != document.Desconocido {
			t.Errorf("DocumentType = %s, want desconocido", res.DocumentType)
		}
		if v, _ := res.Record.Get("error"); v != document.UnknownTypeError {
			t.Errorf("error = %q, want %q", v, document.UnknownTypeError)
		}
	})

	t.Run("falls back to next provider", func(t *testing.T) {
		bad := mockProvider("a-bad")
		bad.ShouldFail = true
		bad.Retries = 1
		good := mockProvider("b-good", cedulaLines...)
		svc, _, rec := newTestService(t, Settings{}, bad, good)

		res, err := svc.Scan(context.Background(), Upload{Body: bytes.NewReader(pngBytes)})
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if res.Provider != "b-good" {
			t.Errorf("Provider = %q, want b-good", res.Provider)
		}
		if bad.RequestCount() != 2 {
			t.Errorf("bad provider requests = %d, want 2 (one retry)", bad.RequestCount())
		}
		if rec.Len() != 1 {
			t.Errorf("metrics = %d, want 1", rec.Len())
		}
	})

	t.Run("follows configured provider order", func(t *testing.T) {
		first := mockProvider("zeta", cedulaLines...)
		second := mockProvider("alpha", cedulaLines...)
		svc, _, _ := newTestService(t, Settings{ProviderOrder: []string{"missing", "zeta", "alpha"}}, first, second)

		res, err := svc.Scan(context.Background(), Upload{Body: bytes.NewReader(pngBytes)})
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if res.Provider != "zeta" {
			t.Errorf("Provider = %q, want zeta", res.Provider)
		}
		if second.RequestCount() != 0 {
			t.Errorf("alpha requests = %d, want 0", second.RequestCount())
		}
	})

	t.Run("retries transient failures", func(t *testing.T) {
		p := mockProvider("mock", cedulaLines...)
		p.FailFirst = 2
		p.Retries = 3
		svc, _, _ := newTestService(t, Settings{}, p)

		res, err := svc.Scan(context.Background(), Upload{Body: bytes.NewReader(pngBytes)})
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if res.Retries != 2 {
			t.Errorf("Retries = %d, want 2", res.Retries)
		}
		if p.RequestCount() != 3 {
			t.Errorf("RequestCount = %d, want 3", p.RequestCount())
		}
	})

	t.Run("max retries override", func(t *testing.T) {
		p := mockProvider("mock")
		p.ShouldFail = true
		p.Retries = 5
		svc, _, _ := newTestService(t, Settings{MaxRetries: 1}, p)

		_, err := svc.Scan(context.Background(), Upload{Body: bytes.NewReader(pngBytes)})
		if !errors.Is(err, ErrOCRFailed) {
			t.Fatalf("error = %v, want ErrOCRFailed", err)
		}
		if p.RequestCount() != 2 {
			t.Errorf("RequestCount = %d, want 2", p.RequestCount())
		}
	})

	t.Run("all providers fail", func(t *testing.T) {
		p := mockProvider("mock")
		p.ShouldFail = true
		p.Retries = 0
		svc, h, rec := newTestService(t, Settings{}, p)

		_, err := svc.Scan(context.Background(), Upload{Filename: "id.png", Body: bytes.NewReader(pngBytes)})
		if !errors.Is(err, ErrOCRFailed) {
			t.Fatalf("error = %v, want ErrOCRFailed", err)
		}
		assertNoStagedFiles(t, h)

		ms := rec.List(metrics.Filter{}, 0)
		if len(ms) != 1 || ms[0].Success || ms[0].ErrorType != metrics.ErrorTypeOCR {
			t.Errorf("metrics = %+v, want one OCR error", ms)
		}
	})

	t.Run("no providers", func(t *testing.T) {
		svc, _, _ := newTestService(t, Settings{})

		_, err := svc.Scan(context.Background(), Upload{Body: bytes.NewReader(pngBytes)})
		if !errors.Is(err, ErrNoProviders) {
			t.Errorf("error = %v, want ErrNoProviders", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		p := mockProvider("mock")
		p.Latency = time.Second
		p.Retries = 0
		svc, _, _ := newTestService(t, Settings{Timeout: 20 * time.Millisecond}, p)

		start := time.Now()
		_, err := svc.Scan(context.Background(), Upload{Body: bytes.NewReader(pngBytes)})
		if !errors.Is(err, ErrOCRFailed) {
			t.Errorf("error = %v, want ErrOCRFailed", err)
		}
		if time.Since(start) > 500*time.Millisecond {
			t.Errorf("scan took %v, want it cut short", time.Since(start))
		}
	})

	t.Run("strict schema", func(t *testing.T) {
		svc, _, _ := newTestService(t, Settings{StrictSchema: true}, mockProvider("mock", cedulaLines...))

		if _, err := svc.Scan(context.Background(), Upload{Body: bytes.NewReader(pngBytes)}); err != nil {
			t.Errorf("Scan() error = %v", err)
		}
	})
}

func TestService_Scan_InvalidUploads(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		body     io.Reader
		limit    int64
	}{
		{"no body", "a.png", nil, 0},
		{"empty", "a.png", bytes.NewReader(nil), 0},
		{"too large", "a.png", bytes.NewReader(pngBytes), 8},
		{"gif", "a.gif", strings.NewReader("GIF89a" + strings.Repeat("\x00", 20)), 0},
		{"text", "a.txt", strings.NewReader("hello world"), 0},
		{"two page pdf", "a.pdf", bytes.NewReader(buildPDF(2)), 0},
		{"broken pdf", "a.pdf", strings.NewReader("%PDF-1.4\nnot really"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mockProvider("mock", cedulaLines...)
			svc, h, rec := newTestService(t, Settings{MaxUploadBytes: tt.limit}, p)

			_, err := svc.Scan(context.Background(), Upload{Filename: tt.filename, Body: tt.body})
			if !errors.Is(err, ErrInvalidUpload) {
				t.Fatalf("error = %v, want ErrInvalidUpload", err)
			}
			if p.RequestCount() != 0 {
				t.Error("OCR should not run for invalid uploads")
			}
			assertNoStagedFiles(t, h)

			ms := rec.List(metrics.Filter{}, 0)
			if len(ms) != 1 || ms[0].ErrorType != metrics.ErrorTypeInvalidUpload {
				t.Errorf("metrics = %+v, want one invalid upload", ms)
			}
		})
	}
}

func TestService_Scan_SinglePagePDF(t *testing.T) {
	p := mockProvider("mock", "LICENCIA PARA CONDUCIR", "Sexo: M")
	svc, h, _ := newTestService(t, Settings{}, p)

	res, err := svc.Scan(context.Background(), Upload{Filename: "lic.pdf", Body: bytes.NewReader(buildPDF(1))})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if res.DocumentType != document.Licencia {
		t.Errorf("DocumentType = %s, want licencia", res.DocumentType)
	}
	if p.LastMIME() != providers.MIMEPDF {
		t.Errorf("provider got %q, want %q", p.LastMIME(), providers.MIMEPDF)
	}
	assertNoStagedFiles(t, h)
}

func TestService_Apply(t *testing.T) {
	svc, _, _ := newTestService(t, Settings{ProviderOrder: []string{"a"}})

	order := []string{"b", "c"}
	svc.Apply(Settings{ProviderOrder: order, MaxUploadBytes: 5})
	order[0] = "mutated"

	got := svc.Settings()
	if got.ProviderOrder[0] != "b" {
		t.Errorf("ProviderOrder = %v, want copy of [b c]", got.ProviderOrder)
	}
	if got.MaxUploadBytes != 5 {
		t.Errorf("MaxUploadBytes = %d, want 5", got.MaxUploadBytes)
	}
}

func TestService_ExtractText(t *testing.T) {
	svc, _, rec := newTestService(t, Settings{})

	res := svc.ExtractText("CERTIFICADO DE CIRCULACIÓN\nPlaca: AB123CD\nMarca: FORD\n")
	if res.DocumentType != document.Certificado {
		t.Fatalf("DocumentType = %s, want certificado", res.DocumentType)
	}
	if v, _ := res.Record.Get("placa"); v != "AB123CD" {
		t.Errorf("placa = %q, want AB123CD", v)
	}
	if len(res.Lines) != 3 {
		t.Errorf("Lines = %q, want 3 lines", res.Lines)
	}

	res = svc.ExtractLines([]string{"  ", "LICENCIA PARA CONDUCIR"})
	if res.DocumentType != document.Licencia {
		t.Errorf("DocumentType = %s, want licencia", res.DocumentType)
	}

	ms := rec.List(metrics.Filter{Source: SourceText}, 0)
	if len(ms) != 2 {
		t.Errorf("text metrics = %d, want 2", len(ms))
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     string
		wantErr  bool
	}{
		{"png", "a.bin", pngBytes, providers.MIMEPNG, false},
		{"jpeg", "", jpegBytes, providers.MIMEJPEG, false},
		{"pdf", "doc", []byte("%PDF-1.7\n"), providers.MIMEPDF, false},
		{"tiff little endian", "", []byte("II*\x00\x08\x00\x00\x00"), providers.MIMETIFF, false},
		{"tiff big endian", "", []byte("MM\x00*\x00\x00\x00\x08"), providers.MIMETIFF, false},
		{"tiff by extension", "scan.TIF", []byte{0x01, 0x02, 0x03, 0x00}, providers.MIMETIFF, false},
		{"gif rejected", "a.gif", []byte("GIF89a"), "", true},
		{"text rejected", "a.tif", []byte("plain text"), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.filename, tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DetectFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidUpload) {
				t.Errorf("error = %v, want ErrInvalidUpload", err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}
