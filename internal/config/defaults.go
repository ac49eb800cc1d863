package config

import (
	"errors"
	"fmt"
)

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// DefaultEntries returns the scalar configuration keys with their defaults.
// They seed viper, so each one can be overridden from the environment.
// Provider entries live under ocr_providers and come from DefaultConfig.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		// ===================
		// Server
		// ===================
		{
			Key:         "server.host",
			Value:       d.Server.Host,
			Description: "Address the HTTP server binds to",
		},
		{
			Key:         "server.port",
			Value:       d.Server.Port,
			Description: "Port the HTTP server listens on",
		},
		{
			Key:         "server.scan_route",
			Value:       d.Server.ScanRoute,
			Description: "Route accepting multipart document uploads",
		},
		{
			Key:         "server.max_upload_mb",
			Value:       d.Server.MaxUploadMB,
			Description: "Maximum upload size in megabytes",
		},
		{
			Key:         "server.strict_schema",
			Value:       d.Server.StrictSchema,
			Description: "Validate every output record against its JSON Schema",
		},
		{
			Key:         "server.cors_origins",
			Value:       d.Server.CORSOrigins,
			Description: "Origins allowed by CORS (\"*\" allows any)",
		},

		// ===================
		// Scan Defaults
		// ===================
		{
			Key:         "defaults.ocr_providers",
			Value:       d.Defaults.OCRProviders,
			Description: "Ordered list of OCR providers tried for each scan",
		},
		{
			Key:         "defaults.max_retries",
			Value:       d.Defaults.MaxRetries,
			Description: "Retry attempts per provider (0 uses the provider default)",
		},
		{
			Key:         "defaults.timeout_seconds",
			Value:       d.Defaults.TimeoutSeconds,
			Description: "Deadline in seconds for a whole scan",
		},
	}
}

// GetDefault returns the default value for a config key.
// Returns nil if no default exists for the key.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}

// ResetToDefault resets a config key to its default value.
// Returns ErrNoDefault if no default exists for the key.
func (cm *Manager) ResetToDefault(key string) error {
	def := GetDefault(key)
	if def == nil {
		return fmt.Errorf("%w for key %q", ErrNoDefault, key)
	}
	return cm.Set(key, def.Value)
}
