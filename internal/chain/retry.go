package chain

import (
	"context"
	"time"
)

// retryPolicy retries read calls with doubling backoff. Writes never
// pass through here; the batch is signed and submitted externally.
type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
}

func newRetryPolicy(maxRetries int, baseDelay time.Duration) retryPolicy {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}
	return retryPolicy{maxAttempts: maxRetries + 1, baseDelay: baseDelay}
}

func (p retryPolicy) do(ctx context.Context, fn func(context.Context) error) error {
	delay := p.baseDelay

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt >= p.maxAttempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
