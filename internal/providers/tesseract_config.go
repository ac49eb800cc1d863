package providers

const (
	TesseractName            = "tesseract"
	TesseractDefaultLanguage = "spa"
)

// TesseractConfig holds configuration for the local Tesseract provider.
type TesseractConfig struct {
	Languages []string // Tesseract language codes (default: spa)
	RateLimit float64  // Requests per second (default: 2.0)
}

func (cfg TesseractConfig) withDefaults() TesseractConfig {
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{TesseractDefaultLanguage}
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 2.0
	}
	return cfg
}
