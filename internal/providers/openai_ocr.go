package providers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIOCRName         = "openai"
	OpenAIOCRDefaultModel = "gpt-4o-mini"

	DeepInfraOCRName      = "deepinfra"
	DeepInfraBaseURL      = "https://api.deepinfra.com/v1/openai"
	DeepInfraDefaultModel = "Qwen/Qwen2.5-VL-32B-Instruct"

	DefaultTranscriptionPrompt = "Transcribe every line of text visible in this identity or vehicle document, " +
		"top to bottom. Output one recognized line per output line, exactly as printed, " +
		"keeping accents and punctuation. Output only the transcription with no commentary or formatting."

	// Rough per-token pricing used when the response does not carry a cost.
	openAIOCRInputCostPer1M  = 0.15
	openAIOCROutputCostPer1M = 0.60
)

// OpenAIOCRConfig holds configuration for an OpenAI-compatible vision OCR client.
type OpenAIOCRConfig struct {
	Name       string // Provider name reported by Name() (default "openai")
	APIKey     string
	BaseURL    string // Empty uses api.openai.com
	Model      string
	Prompt     string
	MaxTokens  int
	RateLimit  float64       // Requests per second
	MaxRetries int           // Retry attempts for SDK transport
	RetryDelay time.Duration // Base retry delay
	Timeout    time.Duration
	HTTPClient *http.Client // Optional (tests)
}

// OpenAIOCRClient implements OCRProvider with a vision chat completion.
type OpenAIOCRClient struct {
	name       string
	apiKey     string
	baseURL    string
	model      string
	prompt     string
	maxTokens  int
	rateLimit  float64
	maxRetries int
	retryDelay time.Duration
	client     openai.Client
}

// NewOpenAIOCRClient creates a new OpenAI-compatible OCR client.
func NewOpenAIOCRClient(cfg OpenAIOCRConfig) *OpenAIOCRClient {
	if cfg.Name == "" {
		cfg.Name = OpenAIOCRName
	}
	if cfg.Model == "" {
		cfg.Model = OpenAIOCRDefaultModel
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultTranscriptionPrompt
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5.0
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	// Retries are driven by the scan service, not the SDK.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIOCRClient{
		name:       cfg.Name,
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		prompt:     cfg.Prompt,
		maxTokens:  cfg.MaxTokens,
		rateLimit:  cfg.RateLimit,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		client:     openai.NewClient(opts...),
	}
}

// NewDeepInfraOCRClient creates an OCR client for DeepInfra's OpenAI-compatible API.
func NewDeepInfraOCRClient(cfg OpenAIOCRConfig) *OpenAIOCRClient {
	if cfg.Name == "" {
		cfg.Name = DeepInfraOCRName
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DeepInfraBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DeepInfraDefaultModel
	}
	return NewOpenAIOCRClient(cfg)
}

// Name returns the provider identifier.
func (c *OpenAIOCRClient) Name() string {
	return c.name
}

// Model returns the configured model.
func (c *OpenAIOCRClient) Model() string {
	return c.model
}

// RequestsPerSecond returns the configured rate limit.
func (c *OpenAIOCRClient) RequestsPerSecond() float64 {
	return c.rateLimit
}

// MaxRetries returns the maximum retry attempts.
func (c *OpenAIOCRClient) MaxRetries() int {
	return c.maxRetries
}

// RetryDelayBase returns the base delay for exponential backoff.
func (c *OpenAIOCRClient) RetryDelayBase() time.Duration {
	return c.retryDelay
}

// Recognize transcribes the document image with the vision model.
func (c *OpenAIOCRClient) Recognize(ctx context.Context, image []byte, mime string) (*OCRResult, error) {
	start := time.Now()

	switch mime {
	case MIMEPNG, MIMEJPEG, "":
	default:
		return failed(start, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mime))
	}

	url := dataURL(mime, base64.StdEncoding.EncodeToString(image))
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.prompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: url}),
			}),
		},
		Temperature:         openai.Float(0),
		MaxCompletionTokens: openai.Int(int64(c.maxTokens)),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return failed(start, mapOpenAIError(c.name, err))
	}
	if len(resp.Choices) == 0 {
		return failed(start, fmt.Errorf("no response choices from model"))
	}

	text := stripCodeFence(resp.Choices[0].Message.Content)
	metadata := map[string]any{
		"model_used":        resp.Model,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"total_tokens":      resp.Usage.TotalTokens,
		"finish_reason":     resp.Choices[0].FinishReason,
	}

	cost := float64(resp.Usage.PromptTokens)*(openAIOCRInputCostPer1M/1_000_000.0) +
		float64(resp.Usage.CompletionTokens)*(openAIOCROutputCostPer1M/1_000_000.0)

	return &OCRResult{
		Success:       true,
		Lines:         SplitLines(text),
		Metadata:      metadata,
		CostUSD:       cost,
		ExecutionTime: time.Since(start),
	}, nil
}

// stripCodeFence removes a surrounding ``` block some models add anyway.
func stripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		t = t[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "```"))
}

func mapOpenAIError(name string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			retryAfter := time.Duration(0)
			if apiErr.Response != nil {
				retryAfter = parseRetryAfter(apiErr.Response.Header.Get("Retry-After"))
			}
			return &RateLimitError{
				Message:    fmt.Sprintf("%s rate limited: %s", name, apiErr.Message),
				RetryAfter: retryAfter,
				StatusCode: apiErr.StatusCode,
			}
		}
		if apiErr.Message != "" {
			return fmt.Errorf("%s OCR error (status %d): %s", name, apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("%s OCR error (status %d)", name, apiErr.StatusCode)
	}
	return err
}

// Verify interface
var _ OCRProvider = (*OpenAIOCRClient)(nil)
