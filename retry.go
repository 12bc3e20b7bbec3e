package chattl

import (
	"context"
	"errors"
	"time"
)

// RetryConfig holds configuration for rate-limit retry behavior.
type RetryConfig struct {
	MaxRetries     int           // Maximum number of retry attempts
	InitialBackoff time.Duration // Delay before the first retry
	MaxBackoff     time.Duration // Upper bound for a single delay (0 = unbounded)
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
	}
}

// Backoff returns the delay before retrying a request that has already been
// retried retryCount times: InitialBackoff * 2^retryCount.
func (c RetryConfig) Backoff(retryCount int) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}
	delay := c.InitialBackoff * time.Duration(1<<retryCount)
	if c.MaxBackoff > 0 && delay > c.MaxBackoff {
		delay = c.MaxBackoff
	}
	return delay
}

// IsRateLimited reports whether err is a provider too-many-requests failure.
// Only these failures are retried by the RequestQueue.
func IsRateLimited(err error) bool {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.RateLimited()
	}
	return false
}

// IsTransient reports whether a failed request could succeed if sent again
// later. Rate limiting and provider-flagged failures (5xx, network) qualify;
// a rejected key or an unsupported language does not.
func IsTransient(err error) bool {
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		return false
	}
	return providerErr.Retryable || providerErr.RateLimited()
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
