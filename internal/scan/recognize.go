package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/docread/docread/internal/providers"
)

// maxRetryDelay caps exponential backoff between attempts.
const maxRetryDelay = 30 * time.Second

// providerOrder returns the providers to try for a scan.
func (s *Service) providerOrder(settings Settings) []string {
	var names []string
	for _, name := range settings.ProviderOrder {
		if s.registry.HasOCR(name) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		names = s.registry.ListOCR()
	}
	return names
}

// recognize tries each provider in order and returns the first success.
func (s *Service) recognize(ctx context.Context, logger *slog.Logger, data []byte, mime string, settings Settings) (*providers.OCRResult, string, error) {
	names := s.providerOrder(settings)
	if len(names) == 0 {
		return nil, "", ErrNoProviders
	}

	var errs []error
	last := ""
	for _, name := range names {
		p, err := s.registry.GetOCR(name)
		if err != nil {
			// Unregistered by a reload since providerOrder ran.
			continue
		}
		last = name

		result, err := s.recognizeWith(ctx, logger, name, p, data, mime, settings.MaxRetries)
		if err == nil {
			return result, name, nil
		}

		logger.Warn("OCR provider failed", "provider", name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return nil, "", ErrNoProviders
	}
	return nil, last, fmt.Errorf("%w: %w", ErrOCRFailed, errors.Join(errs...))
}

// recognizeWith runs one provider, waiting on its rate limiter before each
// attempt and retrying with exponential backoff.
func (s *Service) recognizeWith(ctx context.Context, logger *slog.Logger, name string, p providers.OCRProvider, data []byte, mime string, maxRetries int) (*providers.OCRResult, error) {
	if maxRetries <= 0 {
		maxRetries = p.MaxRetries()
	}
	limiter, _ := s.registry.Limiter(name)

	var (
		result  *providers.OCRResult
		retries int
	)
	err := retry.Do(
		func() error {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					return retry.Unrecoverable(err)
				}
			}
			res, err := p.Recognize(ctx, data, mime)
			if err != nil {
				var rl *providers.RateLimitError
				if errors.As(err, &rl) && limiter != nil {
					limiter.Record429(rl.RetryAfter)
				}
				if errors.Is(err, providers.ErrUnsupportedFormat) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			if res == nil || !res.Success {
				return fmt.Errorf("provider returned no result")
			}
			result = res
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(maxRetries)+1),
		retry.Delay(p.RetryDelayBase()),
		retry.MaxDelay(maxRetryDelay),
		retry.DelayType(retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			retries = int(n) + 1
			logger.Debug("retrying OCR", "provider", name, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	result.RetryCount = retries
	return result, nil
}

// retryDelay honors a provider's Retry-After and otherwise backs off exponentially.
func retryDelay(n uint, err error, config *retry.Config) time.Duration {
	var rl *providers.RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	return retry.BackOffDelay(n, err, config)
}
