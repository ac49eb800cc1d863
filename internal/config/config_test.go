package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"gopkg.in/yaml.v2"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configFile
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.ScanRoute != "/api/documents/scan" {
		t.Errorf("ScanRoute = %q, want /api/documents/scan", cfg.Server.ScanRoute)
	}
	if cfg.Server.MaxUploadMB != 10 {
		t.Errorf("MaxUploadMB = %d, want 10", cfg.Server.MaxUploadMB)
	}
	if cfg.MaxUploadBytes() != 10<<20 {
		t.Errorf("MaxUploadBytes() = %d, want %d", cfg.MaxUploadBytes(), 10<<20)
	}
	tx, ok := cfg.GetOCRProvider("textract")
	if !ok || tx.Type != "textract" {
		t.Fatalf("textract provider = %+v, %v", tx, ok)
	}
	if tx.APIKey != "${AWS_ACCESS_KEY_ID}" {
		t.Errorf("textract APIKey = %q, want env reference", tx.APIKey)
	}
	for _, name := range cfg.Defaults.OCRProviders {
		if _, ok := cfg.OCRProviders[name]; !ok {
			t.Errorf("default provider %q has no config", name)
		}
	}
	enabled := cfg.EnabledOCRProviders()
	if _, ok := enabled["tesseract"]; ok {
		t.Error("tesseract should be disabled by default")
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret123")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestConfig_ToProviderRegistryConfig(t *testing.T) {
	t.Setenv("TEST_AWS_ID", "AKIA123")
	t.Setenv("TEST_AWS_SECRET", "shh")

	cfg := &Config{
		OCRProviders: map[string]OCRProviderCfg{
			"textract": {
				Type:      "textract",
				APIKey:    "${TEST_AWS_ID}",
				SecretKey: "${TEST_AWS_SECRET}",
				Region:    "us-west-2",
				RateLimit: 1,
				Enabled:   true,
			},
			"tesseract": {Type: "tesseract", Languages: []string{"spa", "eng"}},
		},
	}

	reg := cfg.ToProviderRegistryConfig()
	tx := reg.OCRProviders["textract"]
	if tx.APIKey != "AKIA123" || tx.SecretKey != "shh" {
		t.Errorf("textract keys = %q/%q, want resolved values", tx.APIKey, tx.SecretKey)
	}
	if tx.Region != "us-west-2" || !tx.Enabled {
		t.Errorf("textract = %+v", tx)
	}
	if got := reg.OCRProviders["tesseract"].Languages; len(got) != 2 {
		t.Errorf("tesseract Languages = %v, want 2 entries", got)
	}
}

func TestConfig_ScanSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.MaxUploadMB = 2
	cfg.Server.StrictSchema = true
	cfg.Defaults.MaxRetries = 4

	s := cfg.ScanSettings()
	if s.MaxUploadBytes != 2<<20 {
		t.Errorf("MaxUploadBytes = %d, want %d", s.MaxUploadBytes, 2<<20)
	}
	if s.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", s.Timeout)
	}
	if !s.StrictSchema || s.MaxRetries != 4 {
		t.Errorf("settings = %+v", s)
	}
	if len(s.ProviderOrder) != 2 || s.ProviderOrder[0] != "textract" {
		t.Errorf("ProviderOrder = %v, want [textract mistral]", s.ProviderOrder)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		configFile := writeConfig(t, `
server:
  port: "9090"
  strict_schema: true
ocr_providers:
  mistral:
    type: mistral-ocr
    api_key: "${MISTRAL_API_KEY}"
    rate_limit: 2
    enabled: true
defaults:
  ocr_providers: [mistral]
`)

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Server.Port != "9090" {
			t.Errorf("Port = %q, want 9090", cfg.Server.Port)
		}
		if !cfg.Server.StrictSchema {
			t.Error("StrictSchema = false, want true")
		}
		if cfg.Server.ScanRoute != "/api/documents/scan" {
			t.Errorf("ScanRoute = %q, want default", cfg.Server.ScanRoute)
		}
		if len(cfg.OCRProviders) != 1 || cfg.OCRProviders["mistral"].RateLimit != 2 {
			t.Errorf("OCRProviders = %+v", cfg.OCRProviders)
		}
		if len(cfg.Defaults.OCRProviders) != 1 || cfg.Defaults.OCRProviders[0] != "mistral" {
			t.Errorf("Defaults.OCRProviders = %v", cfg.Defaults.OCRProviders)
		}
		if mgr.ConfigFile() != configFile {
			t.Errorf("ConfigFile() = %q, want %q", mgr.ConfigFile(), configFile)
		}
	})

	t.Run("falls back to default providers", func(t *testing.T) {
		mgr, err := NewManager(writeConfig(t, "server:\n  host: 0.0.0.0\n"))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if len(mgr.Get().OCRProviders) != len(DefaultConfig().OCRProviders) {
			t.Errorf("OCRProviders = %v, want defaults", mgr.Get().OCRProviders)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("DOCREAD_SERVER_MAX_UPLOAD_MB", "25")

		mgr, err := NewManager(writeConfig(t, "server:\n  port: \"8181\"\n"))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if got := mgr.Get().Server.MaxUploadMB; got != 25 {
			t.Errorf("MaxUploadMB = %d, want 25", got)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		if _, err := NewManager(writeConfig(t, "server: [unclosed\n")); err == nil {
			t.Error("expected error for invalid config file")
		}
	})
}

func TestManager_Set(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "server:\n  port: \"8080\"\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	var calls atomic.Int32
	mgr.OnChange(func(*Config) { calls.Add(1) })

	if err := mgr.Set("server.port", "9191"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := mgr.Get().Server.Port; got != "9191" {
		t.Errorf("Port = %q, want 9191", got)
	}
	if calls.Load() != 1 {
		t.Errorf("callbacks = %d, want 1", calls.Load())
	}

	if err := mgr.Set("server port", "1"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Set() error = %v, want ErrInvalidKey", err)
	}

	if err := mgr.ResetToDefault("server.port"); err != nil {
		t.Fatalf("ResetToDefault() error = %v", err)
	}
	if got := mgr.Get().Server.Port; got != "8080" {
		t.Errorf("Port after reset = %q, want 8080", got)
	}
	if err := mgr.ResetToDefault("no.such.key"); !errors.Is(err, ErrNoDefault) {
		t.Errorf("ResetToDefault() error = %v, want ErrNoDefault", err)
	}
}

func TestManager_Lookup(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, `
ocr_providers:
  mistral:
    type: mistral-ocr
    api_key: literal-secret
    enabled: true
`))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	e, err := mgr.Lookup("server.scan_route")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if e == nil || e.Value != "/api/documents/scan" {
		t.Fatalf("Lookup() = %+v, want scan route", e)
	}
	if e.Description == "" {
		t.Error("expected description for a default key")
	}

	if e, _ := mgr.Lookup("ocr_providers.mistral.api_key"); e == nil || e.Value != "****" {
		t.Errorf("Lookup(api_key) = %+v, want masked", e)
	}

	if e, _ := mgr.Lookup("not.set"); e != nil {
		t.Errorf("Lookup(not.set) = %+v, want nil", e)
	}
	if _, err := mgr.Lookup(".bad"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Lookup(.bad) error = %v, want ErrInvalidKey", err)
	}

	var found bool
	for _, e := range mgr.Entries() {
		if e.Key == "ocr_providers.mistral.api_key" {
			found = true
			if e.Value != "****" {
				t.Errorf("api_key = %v, want masked", e.Value)
			}
		}
	}
	if !found {
		t.Error("Entries() missing ocr_providers.mistral.api_key")
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"server.port", false},
		{"ocr_providers.deep-infra.rate_limit", false},
		{"", true},
		{"server port", true},
		{".server", true},
		{"server.", true},
		{"server/port", true},
	}
	for _, tt := range tests {
		err := ValidateKey(tt.key)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
		}
	}
}

func TestDefaultEntries(t *testing.T) {
	requiredKeys := []string{
		"server.host",
		"server.port",
		"server.scan_route",
		"server.max_upload_mb",
		"server.strict_schema",
		"defaults.ocr_providers",
		"defaults.max_retries",
		"defaults.timeout_seconds",
	}
	for _, key := range requiredKeys {
		entry := GetDefault(key)
		if entry == nil {
			t.Errorf("DefaultEntries() missing required key: %s", key)
			continue
		}
		if entry.Description == "" {
			t.Errorf("%s has no description", key)
		}
	}
	if GetDefault("does.not.exist") != nil {
		t.Error("GetDefault() should return nil for unknown keys")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "# docread configuration") {
		t.Error("missing header comment")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not valid YAML: %v", err)
	}
	if cfg.Server.ScanRoute != DefaultConfig().Server.ScanRoute {
		t.Errorf("ScanRoute = %q", cfg.Server.ScanRoute)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() on written default: %v", err)
	}
	if mgr.Get().OCRProviders["textract"].Type != "textract" {
		t.Error("textract provider missing after round trip")
	}
}

func TestManager_OnChange_Multiple(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "server:\n  port: \"8080\"\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	// Register multiple callbacks
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "server:\n  port: \"8080\"\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	// Call Get concurrently to verify no race conditions
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				cfg := mgr.Get()
				_ = cfg.Server.Port
			}
			done <- struct{}{}
		}()
	}

	// Wait for all goroutines
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	configFile := writeConfig(t, "server:\n  scan_route: /ocr\n")

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	// Verify initial value
	if got := mgr.Get().Server.ScanRoute; got != "/ocr" {
		t.Errorf("initial value mismatch: expected /ocr, got %s", got)
	}

	// Track callback invocations
	var callbackCount atomic.Int32
	var lastValue atomic.Value

	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.Server.ScanRoute)
	})

	// Start watching
	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	// Update the config file
	if err := os.WriteFile(configFile, []byte("server:\n  scan_route: /ocr/v2\n"), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	// Wait for the watcher to detect the change (fsnotify is async)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v, _ := lastValue.Load().(string); v == "/ocr/v2" {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Error("callback was not invoked after config file change")
	}
	if got := mgr.Get().Server.ScanRoute; got != "/ocr/v2" {
		t.Errorf("config not updated: expected /ocr/v2, got %s", got)
	}
}
