package google

import (
	"context"
	"fmt"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// Call waits for the limiter, runs fn and translates any Google error.
// A 429 pauses the limiter for the period Google asks for.
func Call[T any](
	ctx context.Context, limiter *Limiter, service domain.Service, operation string, fn func() (T, error),
) (T, error) {
	var zero T

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return zero, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	v, err := fn()
	if err != nil {
		if limiter != nil && IsRateLimited(err) {
			limiter.Pause(RetryAfter(err))
		}
		return zero, WrapError(service, operation, err)
	}
	return v, nil
}
