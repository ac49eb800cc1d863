package endpoints

import (
	"github.com/docread/docread/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	// ScanRoute is the upload route (server.scan_route).
	ScanRoute       string
	SwaggerSpecPath string
	Version         string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{Version: cfg.Version},

		// Document endpoints
		&ScanEndpoint{Path: cfg.ScanRoute},
		&ExtractEndpoint{},
		&ListDocumentTypesEndpoint{},
		&DocumentSchemaEndpoint{},

		// Metrics endpoints
		&ListMetricsEndpoint{},
		&MetricsSummaryEndpoint{},

		// Settings endpoints
		&ListSettingsEndpoint{},
		&GetSettingEndpoint{},
		&UpdateSettingEndpoint{},
		&ResetSettingEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
		&SwaggerUIEndpoint{},
	}
}
