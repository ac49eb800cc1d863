package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/textract"
	"github.com/aws/aws-sdk-go/service/textract/textractiface"
)

const (
	TextractName          = "textract"
	TextractDefaultRegion = "us-east-1"

	// DetectDocumentText pricing: $1.50 per 1000 pages.
	TextractCostPerPage = 0.0015
)

// TextractConfig holds configuration for the AWS Textract client.
// Empty credentials fall back to the default AWS credential chain.
type TextractConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string  // Optional (localstack, tests)
	RateLimit       float64 // Requests per second (default: 1.0)
	Timeout         time.Duration

	// API overrides the SDK client (tests).
	API textractiface.TextractAPI
}

// TextractClient implements OCRProvider using AWS Textract DetectDocumentText.
type TextractClient struct {
	region    string
	accessKey string
	rateLimit float64
	timeout   time.Duration
	api       textractiface.TextractAPI
}

// NewTextractClient creates a new Textract client.
func NewTextractClient(cfg TextractConfig) (*TextractClient, error) {
	if cfg.Region == "" {
		cfg.Region = TextractDefaultRegion
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 1.0 // Textract sync API default TPS
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	api := cfg.API
	if api == nil {
		awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
		if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
			awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		}
		if cfg.Endpoint != "" {
			awsCfg.Endpoint = aws.String(cfg.Endpoint)
		}
		sess, err := session.NewSession(awsCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %w", err)
		}
		api = textract.New(sess)
	}

	return &TextractClient{
		region:    cfg.Region,
		accessKey: cfg.AccessKeyID,
		rateLimit: cfg.RateLimit,
		timeout:   cfg.Timeout,
		api:       api,
	}, nil
}

// Name returns the provider identifier.
func (c *TextractClient) Name() string {
	return TextractName
}

// RequestsPerSecond returns the rate limit for Textract.
func (c *TextractClient) RequestsPerSecond() float64 {
	return c.rateLimit
}

// MaxRetries returns the maximum retry attempts.
func (c *TextractClient) MaxRetries() int {
	return 3
}

// RetryDelayBase returns the base delay for exponential backoff.
func (c *TextractClient) RetryDelayBase() time.Duration {
	return time.Second
}

// Recognize runs DetectDocumentText and returns the LINE blocks in order.
func (c *TextractClient) Recognize(ctx context.Context, image []byte, mime string) (*OCRResult, error) {
	start := time.Now()

	switch mime {
	case MIMEPNG, MIMEJPEG, MIMETIFF, MIMEPDF, "":
	default:
		return failed(start, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mime))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.api.DetectDocumentTextWithContext(ctx, &textract.DetectDocumentTextInput{
		Document: &textract.Document{Bytes: image},
	})
	if err != nil {
		return failed(start, mapTextractError(err))
	}

	var (
		lines      []string
		confidence float64
	)
	for _, b := range out.Blocks {
		if aws.StringValue(b.BlockType) != textract.BlockTypeLine {
			continue
		}
		lines = append(lines, aws.StringValue(b.Text))
		confidence += aws.Float64Value(b.Confidence)
	}

	pages := int64(1)
	if out.DocumentMetadata != nil && aws.Int64Value(out.DocumentMetadata.Pages) > 0 {
		pages = aws.Int64Value(out.DocumentMetadata.Pages)
	}

	metadata := map[string]any{
		"region":     c.region,
		"pages":      pages,
		"blocks":     len(out.Blocks),
		"line_count": len(lines),
	}
	if len(lines) > 0 {
		metadata["mean_confidence"] = confidence / float64(len(lines))
	}

	return &OCRResult{
		Success:       true,
		Lines:         lines,
		Metadata:      metadata,
		CostUSD:       TextractCostPerPage * float64(pages),
		ExecutionTime: time.Since(start),
	}, nil
}

func mapTextractError(err error) error {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case textract.ErrCodeThrottlingException, textract.ErrCodeProvisionedThroughputExceededException:
			return &RateLimitError{
				Message:    fmt.Sprintf("Textract throttled: %s", aerr.Message()),
				StatusCode: 429,
			}
		case textract.ErrCodeUnsupportedDocumentException, textract.ErrCodeBadDocumentException:
			return fmt.Errorf("%w: %s", ErrUnsupportedFormat, aerr.Message())
		}
		return fmt.Errorf("Textract error (%s): %s", aerr.Code(), aerr.Message())
	}
	return fmt.Errorf("Textract request failed: %w", err)
}

// Verify interface
var _ OCRProvider = (*TextractClient)(nil)
