package providers

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"
)

// Provider types accepted in configuration.
const (
	TypeTextract  = "textract"
	TypeMistral   = "mistral-ocr"
	TypeOpenAI    = "openai"
	TypeDeepInfra = "deepinfra"
	TypeTesseract = "tesseract"
)

// Registry holds the configured OCR providers and one rate limiter per provider.
// It supports config-driven instantiation, hot-reload, and provides thread-safe access.
type Registry struct {
	mu           sync.RWMutex
	ocrProviders map[string]OCRProvider
	limiters     map[string]*RateLimiter
	configs      map[string]OCRProviderConfig
	logger       *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		ocrProviders: make(map[string]OCRProvider),
		limiters:     make(map[string]*RateLimiter),
		configs:      make(map[string]OCRProviderConfig),
		logger:       slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterOCR registers an OCR provider by name.
func (r *Registry) RegisterOCR(name string, provider OCRProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setLocked(name, provider)
	delete(r.configs, name)
	if r.logger != nil {
		r.logger.Info("registered OCR provider", "name", name)
	}
}

// UnregisterOCR removes an OCR provider by name.
func (r *Registry) UnregisterOCR(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteLocked(name)
	if r.logger != nil {
		r.logger.Info("unregistered OCR provider", "name", name)
	}
}

// GetOCR returns an OCR provider by name.
func (r *Registry) GetOCR(name string) (OCRProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.ocrProviders[name]
	if !ok {
		return nil, fmt.Errorf("OCR provider not found: %s", name)
	}
	return provider, nil
}

// Limiter returns the rate limiter of a registered provider.
func (r *Registry) Limiter(name string) (*RateLimiter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.limiters[name]
	return l, ok
}

// ListOCR returns all registered OCR provider names, sorted.
func (r *Registry) ListOCR() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ocrProviders))
	for name := range r.ocrProviders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasOCR checks if an OCR provider is registered.
func (r *Registry) HasOCR(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ocrProviders[name]
	return ok
}

// Len returns the number of registered OCR providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ocrProviders)
}

// LimiterStatus reports the limiter state of every registered provider.
func (r *Registry) LimiterStatus() map[string]RateLimiterStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]RateLimiterStatus, len(r.limiters))
	for name, l := range r.limiters {
		out[name] = l.Status()
	}
	return out
}

// RegistryConfig defines the providers to instantiate from config.
// This mirrors the config.Config structure for provider setup.
type RegistryConfig struct {
	// OCRProviders maps provider names to their config
	OCRProviders map[string]OCRProviderConfig
}

// OCRProviderConfig matches config.OCRProviderCfg with resolved secrets.
type OCRProviderConfig struct {
	Type      string   // "textract", "mistral-ocr", "openai", "deepinfra", "tesseract"
	Model     string   // Model name (openai, deepinfra, mistral-ocr)
	BaseURL   string   // Optional API base URL
	APIKey    string   // Resolved API key (AWS access key id for textract)
	SecretKey string   // Resolved AWS secret access key (textract)
	Region    string   // AWS region (textract)
	Languages []string // Tesseract languages
	RateLimit float64  // Requests per second
	Enabled   bool
}

// NeedsAPIKey reports whether a provider type cannot run without an API key.
func NeedsAPIKey(providerType string) bool {
	switch providerType {
	case TypeMistral, TypeOpenAI, TypeDeepInfra:
		return true
	}
	return false
}

// NewRegistryFromConfig creates a registry with providers based on configuration.
// Only enabled providers with their required keys will be registered.
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	r.Reload(cfg)
	return r
}

// Reload updates the registry based on new configuration.
// Providers that are no longer configured will be unregistered.
// Providers with changed settings will be re-registered.
// Providers registered directly with RegisterOCR are left alone.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)

	for name, provCfg := range cfg.OCRProviders {
		if !provCfg.Enabled {
			continue
		}
		if NeedsAPIKey(provCfg.Type) && provCfg.APIKey == "" {
			if r.logger != nil {
				r.logger.Warn("skipping OCR provider without API key", "name", name, "type", provCfg.Type)
			}
			continue
		}
		want[name] = true

		old, hasExisting := r.configs[name]
		if hasExisting && reflect.DeepEqual(old, provCfg) {
			continue
		}

		provider, err := createOCRProvider(provCfg)
		if err != nil {
			if r.logger != nil {
				r.logger.Error("failed to create OCR provider", "name", name, "type", provCfg.Type, "error", err)
			}
			delete(want, name)
			continue
		}
		r.setLocked(name, provider)
		r.configs[name] = provCfg
		if r.logger != nil {
			if hasExisting {
				r.logger.Info("updated OCR provider", "name", name, "type", provCfg.Type)
			} else {
				r.logger.Info("registered OCR provider", "name", name, "type", provCfg.Type)
			}
		}
	}

	// Remove config-managed providers that are no longer configured
	for name := range r.configs {
		if !want[name] {
			r.deleteLocked(name)
			if r.logger != nil {
				r.logger.Info("unregistered OCR provider", "name", name)
			}
		}
	}
}

func (r *Registry) setLocked(name string, provider OCRProvider) {
	r.ocrProviders[name] = provider
	r.limiters[name] = NewRateLimiter(provider.RequestsPerSecond())
}

func (r *Registry) deleteLocked(name string) {
	delete(r.ocrProviders, name)
	delete(r.limiters, name)
	delete(r.configs, name)
}

// createOCRProvider creates an OCR provider based on provider type.
func createOCRProvider(cfg OCRProviderConfig) (OCRProvider, error) {
	switch cfg.Type {
	case TypeTextract:
		return NewTextractClient(TextractConfig{
			Region:          cfg.Region,
			AccessKeyID:     cfg.APIKey,
			SecretAccessKey: cfg.SecretKey,
			Endpoint:        cfg.BaseURL,
			RateLimit:       cfg.RateLimit,
		})
	case TypeMistral:
		return NewMistralOCRClient(MistralOCRConfig{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			RateLimit: cfg.RateLimit,
		}), nil
	case TypeOpenAI:
		return NewOpenAIOCRClient(OpenAIOCRConfig{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			RateLimit: cfg.RateLimit,
		}), nil
	case TypeDeepInfra:
		return NewDeepInfraOCRClient(OpenAIOCRConfig{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			RateLimit: cfg.RateLimit,
		}), nil
	case TypeTesseract:
		return NewTesseractClient(TesseractConfig{
			Languages: cfg.Languages,
			RateLimit: cfg.RateLimit,
		})
	default:
		return nil, fmt.Errorf("unknown OCR provider type: %q", cfg.Type)
	}
}
