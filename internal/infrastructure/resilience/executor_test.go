package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/summary-service/internal/core/domain"
)

func fastPolicy() Policy {
	p := DefaultPolicy()
	p.Retry = RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		Multiplier:     2,
	}
	p.Breaker.Enabled = false
	return p
}

func TestRunRetriesTemporaryFailure(t *testing.T) {
	exec := NewExecutor(fastPolicy())

	attempts := 0
	err := exec.Run(context.Background(), "publish", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return domain.WrapError(domain.ErrTemporary, "publish", errors.New("timeout"))
		}
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRunDoesNotRetryPermanentFailure(t *testing.T) {
	exec := NewExecutor(fastPolicy())

	attempts := 0
	errPermanent := errors.New("bad request")
	err := exec.Run(context.Background(), "publish", func(context.Context) error {
		attempts++
		return errPermanent
	}, nil)
	if !errors.Is(err, errPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestNoRetryRunsOnce(t *testing.T) {
	exec := NewExecutor(fastPolicy().NoRetry())

	attempts := 0
	_ = exec.Run(context.Background(), "train", func(context.Context) error {
		attempts++
		return domain.ErrTemporary
	}, nil)
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestCallReturnsValue(t *testing.T) {
	exec := NewExecutor(DefaultPolicy())

	got, err := Call(context.Background(), exec, "generate", func(context.Context) (string, error) {
		return "summary", nil
	}, nil)
	if err != nil || got != "summary" {
		t.Fatalf("Call() = %q, %v", got, err)
	}
}

func TestRunOpensCircuitAfterFailures(t *testing.T) {
	p := fastPolicy()
	p.Retry.MaxAttempts = 1
	p.Breaker = BreakerPolicy{
		Enabled:          true,
		MinRequests:      2,
		FailureRatio:     0.5,
		OpenTimeout:      50 * time.Millisecond,
		HalfOpenMaxCalls: 1,
	}
	exec := NewExecutor(p)

	errDown := errors.New("connection refused")
	for i := 0; i < 2; i++ {
		err := exec.Run(context.Background(), "publish", func(context.Context) error {
			return errDown
		}, nil)
		if !errors.Is(err, errDown) {
			t.Fatalf("expected error on iteration %d, got %v", i, err)
		}
	}

	err := exec.Run(context.Background(), "publish", func(context.Context) error {
		t.Fatalf("circuit should be open and must not call operation")
		return nil
	}, nil)
	if !errors.Is(err, gobreaker.ErrOpenState) || !IsCircuitOpen(err) {
		t.Fatalf("expected open state error, got %v", err)
	}
}

func TestRetryDelayIsCapped(t *testing.T) {
	r := RetryPolicy{InitialBackoff: 100 * time.Millisecond, MaxBackoff: 250 * time.Millisecond, Multiplier: 2}
	if d := r.delay(1); d != 100*time.Millisecond {
		t.Fatalf("delay(1) = %v", d)
	}
	if d := r.delay(2); d != 200*time.Millisecond {
		t.Fatalf("delay(2) = %v", d)
	}
	if d := r.delay(5); d != 250*time.Millisecond {
		t.Fatalf("delay(5) = %v", d)
	}
}
