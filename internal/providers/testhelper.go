package providers

import (
	"os"
)

// TestConfig holds provider configurations loaded from environment variables.
// This allows live tests to use the same configuration pattern as production.
type TestConfig struct {
	MistralAPIKey      string
	OpenAIAPIKey       string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
}

// LoadTestConfig loads provider credentials from environment variables.
// Returns a TestConfig with whatever keys are available.
func LoadTestConfig() TestConfig {
	return TestConfig{
		MistralAPIKey:      os.Getenv("MISTRAL_API_KEY"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:          os.Getenv("AWS_REGION"),
	}
}

// HasMistral returns true if a Mistral API key is configured.
func (c TestConfig) HasMistral() bool {
	return c.MistralAPIKey != ""
}

// HasOpenAI returns true if an OpenAI API key is configured.
func (c TestConfig) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

// HasTextract returns true if static AWS credentials are configured.
func (c TestConfig) HasTextract() bool {
	return c.AWSAccessKeyID != "" && c.AWSSecretAccessKey != ""
}

// HasAnyOCR returns true if any remote OCR provider is configured.
func (c TestConfig) HasAnyOCR() bool {
	return c.HasMistral() || c.HasOpenAI() || c.HasTextract()
}

// ToRegistryConfig converts test config to a RegistryConfig for the provider registry.
// Only includes providers that have credentials configured.
func (c TestConfig) ToRegistryConfig() RegistryConfig {
	cfg := RegistryConfig{
		OCRProviders: make(map[string]OCRProviderConfig),
	}

	if c.HasTextract() {
		cfg.OCRProviders["textract"] = OCRProviderConfig{
			Type:      TypeTextract,
			APIKey:    c.AWSAccessKeyID,
			SecretKey: c.AWSSecretAccessKey,
			Region:    c.AWSRegion,
			RateLimit: 1,
			Enabled:   true,
		}
	}

	if c.HasMistral() {
		cfg.OCRProviders["mistral"] = OCRProviderConfig{
			Type:      TypeMistral,
			APIKey:    c.MistralAPIKey,
			RateLimit: 6,
			Enabled:   true,
		}
	}

	if c.HasOpenAI() {
		cfg.OCRProviders["openai"] = OCRProviderConfig{
			Type:      TypeOpenAI,
			APIKey:    c.OpenAIAPIKey,
			RateLimit: 5,
			Enabled:   true,
		}
	}

	return cfg
}
