package config

// Config holds docread configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Server       ServerCfg                 `mapstructure:"server" yaml:"server"`
	OCRProviders map[string]OCRProviderCfg `mapstructure:"ocr_providers" yaml:"ocr_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host         string   `mapstructure:"host" yaml:"host"`
	Port         string   `mapstructure:"port" yaml:"port"`
	ScanRoute    string   `mapstructure:"scan_route" yaml:"scan_route"`       // Upload route for document scans
	MaxUploadMB  int      `mapstructure:"max_upload_mb" yaml:"max_upload_mb"` // Upload size limit
	StrictSchema bool     `mapstructure:"strict_schema" yaml:"strict_schema"` // Validate each record against its JSON Schema
	CORSOrigins  []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// OCRProviderCfg configures an OCR provider.
type OCRProviderCfg struct {
	Type      string   `mapstructure:"type" yaml:"type"`             // "textract", "mistral-ocr", "openai", "deepinfra", "tesseract"
	Model     string   `mapstructure:"model" yaml:"model"`           // Model name (mistral-ocr, openai, deepinfra)
	BaseURL   string   `mapstructure:"base_url" yaml:"base_url"`     // Optional endpoint override
	APIKey    string   `mapstructure:"api_key" yaml:"api_key"`       // API key or AWS access key id (supports ${ENV_VAR} syntax)
	SecretKey string   `mapstructure:"secret_key" yaml:"secret_key"` // AWS secret access key (supports ${ENV_VAR} syntax)
	Region    string   `mapstructure:"region" yaml:"region"`         // AWS region
	Languages []string `mapstructure:"languages" yaml:"languages"`   // Tesseract languages
	RateLimit float64  `mapstructure:"rate_limit" yaml:"rate_limit"` // Requests per second
	Enabled   bool     `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default provider selections.
type DefaultsCfg struct {
	OCRProviders   []string `mapstructure:"ocr_providers" yaml:"ocr_providers"`     // Ordered fallback list of OCR providers
	MaxRetries     int      `mapstructure:"max_retries" yaml:"max_retries"`         // Retry attempts per provider (0 = provider default)
	TimeoutSeconds int      `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // Deadline for a whole scan
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host:        "127.0.0.1",
			Port:        "8080",
			ScanRoute:   "/api/documents/scan",
			MaxUploadMB: 10,
			CORSOrigins: []string{"*"},
		},
		OCRProviders: map[string]OCRProviderCfg{
			"textract": {
				Type:      "textract",
				APIKey:    "${AWS_ACCESS_KEY_ID}",
				SecretKey: "${AWS_SECRET_ACCESS_KEY}",
				Region:    "${AWS_REGION}",
				RateLimit: 1.0,
				Enabled:   true,
			},
			"mistral": {
				Type:      "mistral-ocr",
				APIKey:    "${MISTRAL_API_KEY}",
				RateLimit: 6.0,
				Enabled:   true,
			},
			"openai": {
				Type:      "openai",
				Model:     "gpt-4o-mini",
				APIKey:    "${OPENAI_API_KEY}",
				RateLimit: 5.0,
				Enabled:   false,
			},
			"deepinfra": {
				Type:      "deepinfra",
				Model:     "Qwen/Qwen2.5-VL-32B-Instruct",
				APIKey:    "${DEEPINFRA_API_KEY}",
				RateLimit: 5.0,
				Enabled:   false,
			},
			"tesseract": {
				Type:      "tesseract",
				Languages: []string{"spa"},
				RateLimit: 2.0,
				Enabled:   false,
			},
		},
		Defaults: DefaultsCfg{
			OCRProviders:   []string{"textract", "mistral"},
			MaxRetries:     0,
			TimeoutSeconds: 60,
		},
	}
}

// GetOCRProvider returns an OCR provider config by name.
func (c *Config) GetOCRProvider(name string) (OCRProviderCfg, bool) {
	cfg, ok := c.OCRProviders[name]
	return cfg, ok
}

// EnabledOCRProviders returns all enabled OCR providers.
func (c *Config) EnabledOCRProviders() map[string]OCRProviderCfg {
	result := make(map[string]OCRProviderCfg)
	for name, cfg := range c.OCRProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}
