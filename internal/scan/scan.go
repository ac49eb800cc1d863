// Package scan turns uploaded document images into output records: it
// stages the upload, runs OCR with retry and provider fallback, hands the
// recognized lines to the document core and records metrics.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docread/docread/internal/document"
	"github.com/docread/docread/internal/home"
	"github.com/docread/docread/internal/metrics"
	"github.com/docread/docread/internal/providers"
	"github.com/docread/docread/internal/schema"
)

var (
	// ErrInvalidUpload is returned for empty, oversized or unsupported uploads.
	ErrInvalidUpload = errors.New("invalid upload")

	// ErrNoProviders is returned when no OCR provider is registered.
	ErrNoProviders = errors.New("no OCR providers available")

	// ErrOCRFailed is returned when every provider failed. Its text is the
	// generic processing error reported to clients.
	ErrOCRFailed = errors.New("error processing document")
)

// Metric sources.
const (
	SourceUpload = "upload"
	SourceText   = "text"
)

// Upload is a document received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Result is the outcome of a scan.
type Result struct {
	ID           string                `json:"id"`
	Provider     string                `json:"provider,omitempty"`
	DocumentType document.DocumentType `json:"document_type"`
	Record       document.OutputRecord `json:"record"`
	Fields       map[string]string     `json:"fields,omitempty"`
	Lines        []string              `json:"lines,omitempty"`
	CostUSD      float64               `json:"cost_usd,omitempty"`
	Retries      int                   `json:"retries,omitempty"`
	OCRTime      time.Duration         `json:"ocr_time"`
	TotalTime    time.Duration         `json:"total_time"`
}

// Settings are the hot-reloadable knobs of a Service.
type Settings struct {
	// ProviderOrder lists providers to try, in order. Names that are not
	// registered are skipped; when none remain every registered provider
	// is tried, sorted by name.
	ProviderOrder []string
	// MaxRetries overrides each provider's retry count when > 0.
	MaxRetries int
	// Timeout bounds a whole scan when > 0.
	Timeout time.Duration
	// MaxUploadBytes rejects larger uploads (default 10 MiB).
	MaxUploadBytes int64
	// StrictSchema validates every record against its JSON Schema.
	StrictSchema bool
}

// DefaultMaxUploadBytes is used when Settings.MaxUploadBytes is zero.
const DefaultMaxUploadBytes = 10 << 20

// Config holds the collaborators of a Service.
type Config struct {
	Registry *providers.Registry
	Home     *home.Dir
	Metrics  *metrics.Recorder // Optional
	Logger   *slog.Logger
	Settings Settings
}

// Service runs document scans.
type Service struct {
	registry *providers.Registry
	home     *home.Dir
	metrics  *metrics.Recorder
	logger   *slog.Logger

	mu       sync.RWMutex
	settings Settings
}

// New creates a scan service.
func New(cfg Config) (*Service, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("provider registry is required")
	}
	if cfg.Home == nil {
		return nil, fmt.Errorf("home directory is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.Home.UploadsPath(), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	s := &Service{
		registry: cfg.Registry,
		home:     cfg.Home,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
	s.Apply(cfg.Settings)
	return s, nil
}

// Apply replaces the service settings. Safe to call while scans run.
func (s *Service) Apply(settings Settings) {
	if settings.MaxUploadBytes <= 0 {
		settings.MaxUploadBytes = DefaultMaxUploadBytes
	}
	settings.ProviderOrder = append([]string(nil), settings.ProviderOrder...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// Settings returns the current settings.
func (s *Service) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.settings
	out.ProviderOrder = append([]string(nil), s.settings.ProviderOrder...)
	return out
}

// Registry returns the provider registry the service draws from.
func (s *Service) Registry() *providers.Registry {
	return s.registry
}

// Scan stages the upload, runs OCR and processes the recognized text.
// The staged file is removed before Scan returns.
func (s *Service) Scan(ctx context.Context, up Upload) (*Result, error) {
	start := time.Now()
	settings := s.Settings()
	id := uuid.NewString()
	logger := s.logger.With("request_id", id, "filename", up.Filename)

	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}

	data, mime, err := s.stage(id, up, settings.MaxUploadBytes)
	if err != nil {
		logger.Warn("rejected upload", "error", err)
		s.recordError(id, "", metrics.ErrorTypeInvalidUpload, start)
		return nil, err
	}
	logger.Debug("upload staged", "mime", mime, "bytes", len(data))

	ocr, provider, err := s.recognize(ctx, logger, data, mime, settings)
	if err != nil {
		errType := metrics.ErrorTypeOCR
		if errors.Is(err, ErrNoProviders) {
			errType = metrics.ErrorTypeNoProviders
		}
		logger.Error("OCR failed", "error", err)
		s.recordError(id, provider, errType, start)
		return nil, err
	}

	res := document.Run(document.NewRecognizedText(ocr.Lines), func(stage document.Stage, t document.DocumentType) {
		logger.Debug("document stage", "stage", stage, "document_type", t)
	})

	if settings.StrictSchema {
		if err := schema.Validate(res.Type, res.Record); err != nil {
			logger.Error("record failed schema validation", "document_type", res.Type, "error", err)
			s.recordError(id, provider, metrics.ErrorTypeSchema, start)
			return nil, fmt.Errorf("%w: %w", ErrOCRFailed, err)
		}
	}

	result := &Result{
		ID:           id,
		Provider:     provider,
		DocumentType: res.Type,
		Record:       res.Record,
		Fields:       res.Fields.Map(),
		Lines:        ocr.Lines,
		CostUSD:      ocr.CostUSD,
		Retries:      ocr.RetryCount,
		OCRTime:      ocr.ExecutionTime,
		TotalTime:    time.Since(start),
	}

	if s.metrics != nil {
		s.metrics.RecordOCRCall(metrics.RecordOpts{
			RequestID:    id,
			DocumentType: string(res.Type),
			Source:       SourceUpload,
			FieldCount:   res.Fields.Len(),
			TotalTime:    result.TotalTime,
		}, provider, ocr)
	}

	logger.Info("document scanned",
		"provider", provider,
		"document_type", res.Type,
		"fields", res.Fields.Len(),
		"lines", len(ocr.Lines),
		"duration", result.TotalTime)
	return result, nil
}

// ExtractText runs only the document core on already recognized text.
func (s *Service) ExtractText(text string) *Result {
	return s.extract(document.SplitText(text))
}

// ExtractLines runs only the document core on already recognized lines.
func (s *Service) ExtractLines(lines []string) *Result {
	return s.extract(document.NewRecognizedText(lines))
}

func (s *Service) extract(rt document.RecognizedText) *Result {
	start := time.Now()
	id := uuid.NewString()
	res := document.Run(rt, nil)

	result := &Result{
		ID:           id,
		DocumentType: res.Type,
		Record:       res.Record,
		Fields:       res.Fields.Map(),
		Lines:        rt.Lines(),
		TotalTime:    time.Since(start),
	}
	if s.metrics != nil {
		s.metrics.Record(metrics.Metric{
			RequestID:    id,
			DocumentType: string(res.Type),
			Source:       SourceText,
			LineCount:    len(result.Lines),
			FieldCount:   res.Fields.Len(),
			TotalSeconds: result.TotalTime.Seconds(),
			Success:      true,
		})
	}
	return result
}

// stage writes the upload to the uploads directory, bounded by limit, and
// reads it back. The staged file never outlives the call.
func (s *Service) stage(id string, up Upload, limit int64) ([]byte, string, error) {
	if up.Body == nil {
		return nil, "", fmt.Errorf("%w: no file received", ErrInvalidUpload)
	}

	f, err := os.CreateTemp(s.home.UploadsPath(), id+"-*"+uploadExt(up.Filename))
	if err != nil {
		return nil, "", fmt.Errorf("failed to stage upload: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	n, err := io.Copy(f, io.LimitReader(up.Body, limit+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to stage upload: %w", err)
	}
	if n == 0 {
		return nil, "", fmt.Errorf("%w: empty file", ErrInvalidUpload)
	}
	if n > limit {
		return nil, "", fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidUpload, limit)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read staged upload: %w", err)
	}

	mime, err := DetectFormat(up.Filename, data)
	if err != nil {
		return nil, "", err
	}
	if mime == providers.MIMEPDF {
		if err := validatePDF(data); err != nil {
			return nil, "", err
		}
	}
	return data, mime, nil
}

func (s *Service) recordError(id, provider, errorType string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordError(metrics.RecordOpts{
		RequestID: id,
		Source:    SourceUpload,
		TotalTime: time.Since(start),
	}, provider, errorType)
}
