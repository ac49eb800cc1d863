package providers

import (
	"reflect"
	"testing"
)

func TestRegistry(t *testing.T) {
	t.Run("register and get OCR provider", func(t *testing.T) {
		r := NewRegistry()
		p := NewMockOCRProvider()

		r.RegisterOCR("mock", p)

		got, err := r.GetOCR("mock")
		if err != nil {
			t.Fatalf("GetOCR() error = %v", err)
		}
		if got != p {
			t.Error("GetOCR() returned wrong provider")
		}
		if !r.HasOCR("mock") {
			t.Error("HasOCR() = false, want true")
		}
	})

	t.Run("get missing provider", func(t *testing.T) {
		r := NewRegistry()
		if _, err := r.GetOCR("nope"); err == nil {
			t.Error("expected error for missing provider")
		}
	})

	t.Run("list is sorted", func(t *testing.T) {
		r := NewRegistry()
		r.RegisterOCR("textract", NewMockOCRProvider())
		r.RegisterOCR("mistral", NewMockOCRProvider())
		r.RegisterOCR("deepinfra", NewMockOCRProvider())

		want := []string{"deepinfra", "mistral", "textract"}
		if got := r.ListOCR(); !reflect.DeepEqual(got, want) {
			t.Errorf("ListOCR() = %v, want %v", got, want)
		}
		if r.Len() != 3 {
			t.Errorf("Len() = %d, want 3", r.Len())
		}
	})

	t.Run("limiter follows provider rate", func(t *testing.T) {
		r := NewRegistry()
		p := NewMockOCRProvider()
		p.RPS = 4
		r.RegisterOCR("mock", p)

		l, ok := r.Limiter("mock")
		if !ok {
			t.Fatal("expected limiter for registered provider")
		}
		if got := l.Status().RPS; got != 4 {
			t.Errorf("limiter RPS = %v, want 4", got)
		}
		status := r.LimiterStatus()
		if _, ok := status["mock"]; !ok {
			t.Error("LimiterStatus() missing mock")
		}
	})

	t.Run("unregister", func(t *testing.T) {
		r := NewRegistry()
		r.RegisterOCR("mock", NewMockOCRProvider())
		r.UnregisterOCR("mock")

		if r.HasOCR("mock") {
			t.Error("provider still registered")
		}
		if _, ok := r.Limiter("mock"); ok {
			t.Error("limiter still registered")
		}
	})
}

func TestNeedsAPIKey(t *testing.T) {
	tests := []struct {
		typ  string
		want bool
	}{
		{TypeMistral, true},
		{TypeOpenAI, true},
		{TypeDeepInfra, true},
		{TypeTextract, false},
		{TypeTesseract, false},
	}
	for _, tt := range tests {
		if got := NeedsAPIKey(tt.typ); got != tt.want {
			t.Errorf("NeedsAPIKey(%q) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestNewRegistryFromConfig(t *testing.T) {
	t.Run("registers enabled providers with keys", func(t *testing.T) {
		cfg := RegistryConfig{
			OCRProviders: map[string]OCRProviderConfig{
				"mistral": {Type: TypeMistral, APIKey: "m-key", RateLimit: 6, Enabled: true},
				"openai":  {Type: TypeOpenAI, APIKey: "o-key", Enabled: true},
				"textract": {
					Type:      TypeTextract,
					Region:    "us-west-2",
					RateLimit: 1,
					Enabled:   true,
				},
			},
		}

		r := NewRegistryFromConfig(cfg)

		want := []string{"mistral", "openai", "textract"}
		if got := r.ListOCR(); !reflect.DeepEqual(got, want) {
			t.Errorf("ListOCR() = %v, want %v", got, want)
		}
		p, _ := r.GetOCR("mistral")
		if p.Name() != MistralOCRName {
			t.Errorf("mistral Name() = %q, want %q", p.Name(), MistralOCRName)
		}
		if l, _ := r.Limiter("mistral"); l.Status().RPS != 6 {
			t.Errorf("mistral limiter RPS = %v, want 6", l.Status().RPS)
		}
	})

	t.Run("skips disabled providers", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			OCRProviders: map[string]OCRProviderConfig{
				"mistral": {Type: TypeMistral, APIKey: "m-key", Enabled: false},
			},
		})
		if r.Len() != 0 {
			t.Errorf("Len() = %d, want 0", r.Len())
		}
	})

	t.Run("skips providers missing API key", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			OCRProviders: map[string]OCRProviderConfig{
				"mistral":   {Type: TypeMistral, Enabled: true},
				"deepinfra": {Type: TypeDeepInfra, Enabled: true},
			},
		})
		if r.Len() != 0 {
			t.Errorf("Len() = %d, want 0", r.Len())
		}
	})

	t.Run("skips unknown types", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			OCRProviders: map[string]OCRProviderConfig{
				"weird": {Type: "carrier-pigeon", Enabled: true},
			},
		})
		if r.HasOCR("weird") {
			t.Error("unknown provider type should not register")
		}
	})

	t.Run("deepinfra uses its defaults", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			OCRProviders: map[string]OCRProviderConfig{
				"deepinfra": {Type: TypeDeepInfra, APIKey: "d-key", Enabled: true},
			},
		})
		p, err := r.GetOCR("deepinfra")
		if err != nil {
			t.Fatalf("GetOCR() error = %v", err)
		}
		c, ok := p.(*OpenAIOCRClient)
		if !ok {
			t.Fatalf("provider type = %T, want *OpenAIOCRClient", p)
		}
		if c.Name() != DeepInfraOCRName {
			t.Errorf("Name() = %q, want %q", c.Name(), DeepInfraOCRName)
		}
		if c.Model() != DeepInfraDefaultModel {
			t.Errorf("Model() = %q, want %q", c.Model(), DeepInfraDefaultModel)
		}
	})
}

func TestRegistry_Reload(t *testing.T) {
	base := RegistryConfig{
		OCRProviders: map[string]OCRProviderConfig{
			"mistral": {Type: TypeMistral, APIKey: "m-key", Enabled: true},
			"openai":  {Type: TypeOpenAI, APIKey: "o-key", Enabled: true},
		},
	}

	t.Run("removes providers no longer configured", func(t *testing.T) {
		r := NewRegistryFromConfig(base)
		r.Reload(RegistryConfig{
			OCRProviders: map[string]OCRProviderConfig{
				"mistral": base.OCRProviders["mistral"],
			},
		})

		if r.HasOCR("openai") {
			t.Error("openai should be unregistered")
		}
		if !r.HasOCR("mistral") {
			t.Error("mistral should remain")
		}
	})

	t.Run("keeps unchanged providers", func(t *testing.T) {
		r := NewRegistryFromConfig(base)
		before, _ := r.GetOCR("mistral")

		r.Reload(base)

		after, _ := r.GetOCR("mistral")
		if before != after {
			t.Error("unchanged provider should not be recreated")
		}
	})

	t.Run("recreates changed providers", func(t *testing.T) {
		r := NewRegistryFromConfig(base)
		before, _ := r.GetOCR("mistral")

		changed := RegistryConfig{OCRProviders: map[string]OCRProviderConfig{
			"mistral": {Type: TypeMistral, APIKey: "m-key", RateLimit: 2, Enabled: true},
			"openai":  base.OCRProviders["openai"],
		}}
		r.Reload(changed)

		after, _ := r.GetOCR("mistral")
		if before == after {
			t.Error("changed provider should be recreated")
		}
		if after.RequestsPerSecond() != 2 {
			t.Errorf("RequestsPerSecond() = %v, want 2", after.RequestsPerSecond())
		}
	})

	t.Run("disabling removes provider", func(t *testing.T) {
		r := NewRegistryFromConfig(base)
		disabled := RegistryConfig{OCRProviders: map[string]OCRProviderConfig{
			"mistral": {Type: TypeMistral, APIKey: "m-key", Enabled: false},
			"openai":  base.OCRProviders["openai"],
		}}
		r.Reload(disabled)

		if r.HasOCR("mistral") {
			t.Error("disabled provider should be unregistered")
		}
	})

	t.Run("leaves directly registered providers", func(t *testing.T) {
		r := NewRegistryFromConfig(base)
		r.RegisterOCR("mock", NewMockOCRProvider())

		r.Reload(RegistryConfig{})

		if !r.HasOCR("mock") {
			t.Error("directly registered provider should survive reload")
		}
		if r.Len() != 1 {
			t.Errorf("Len() = %d, want 1", r.Len())
		}
	})
}
