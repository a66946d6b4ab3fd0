package generation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy implements exponential backoff with jitter for generation
// calls. One policy instance is shared by every call site so backoff
// behavior stays uniform across foreground and warmup requests.
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first call.
	MaxRetries int

	// BaseDelay is the backoff delay before the first retry; each
	// subsequent retry doubles it.
	BaseDelay time.Duration

	// Retryable decides whether an error is worth another attempt.
	// Defaults to IsRetryable.
	Retryable func(error) bool

	// rng adds jitter to backoff delays. Injectable for tests.
	rng *rand.Rand
}

// NewRetryPolicy creates a retry policy with the given attempt budget and
// base delay, retrying transient failures only.
func NewRetryPolicy(maxRetries int, baseDelay time.Duration) *RetryPolicy {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}

	return &RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  baseDelay,
		Retryable:  IsRetryable,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Do invokes fn until it succeeds, returns a non-retryable error, exhausts
// the attempt budget, or the context is cancelled.
func (p *RetryPolicy) Do(ctx context.Context, logger *slog.Logger, fn func(ctx context.Context) error) error {
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}

		if !retryable(err) {
			logger.DebugContext(ctx, "non-retryable generation error",
				slog.String("error", err.Error()),
				slog.Int("attempt", attempt+1))
			return err
		}

		if attempt >= p.MaxRetries {
			return fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				ErrTransientFailure, p.MaxRetries)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoff := float64(p.BaseDelay) * math.Pow(2, float64(attempt))
		jitter := 0.5 + p.rng.Float64()*0.5
		delay := time.Duration(backoff * jitter)

		logger.InfoContext(ctx, "retrying generation after delay",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrTransientFailure, ctx.Err())
		}
	}
}
