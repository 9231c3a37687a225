package chain

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyEventualSuccess(t *testing.T) {
	p := newRetryPolicy(3, time.Millisecond)

	calls := 0
	err := p.do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("call count mismatch: got %d, want 3", calls)
	}
}

func TestRetryPolicyExhaustsAttempts(t *testing.T) {
	p := newRetryPolicy(2, time.Millisecond)

	failure := errors.New("down")
	calls := 0
	err := p.do(context.Background(), func(context.Context) error {
		calls++
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected the last error, got %v", err)
	}
	if calls != 3 { // initial attempt plus two retries
		t.Fatalf("call count mismatch: got %d, want 3", calls)
	}
}

func TestRetryPolicyHonorsCancellation(t *testing.T) {
	p := newRetryPolicy(10, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.do(ctx, func(context.Context) error {
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
