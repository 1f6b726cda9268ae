package resilience

import "time"

// RetryPolicy bounds attempts on retryable failures with capped exponential backoff.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// BreakerPolicy trips a per-operation breaker once the failure ratio crosses FailureRatio
// over at least MinRequests calls.
type BreakerPolicy struct {
	Enabled          bool
	MinRequests      uint32
	FailureRatio     float64
	OpenTimeout      time.Duration
	HalfOpenMaxCalls uint32
}

type Policy struct {
	Retry   RetryPolicy
	Breaker BreakerPolicy
}

func DefaultPolicy() Policy {
	return Policy{
		Retry: RetryPolicy{
			MaxAttempts:    3,
			InitialBackoff: 100 * time.Millisecond,
			MaxBackoff:     400 * time.Millisecond,
			Multiplier:     2.0,
		},
		Breaker: BreakerPolicy{
			Enabled:          true,
			MinRequests:      10,
			FailureRatio:     0.5,
			OpenTimeout:      30 * time.Second,
			HalfOpenMaxCalls: 2,
		},
	}
}

// NoRetry keeps the breaker but runs each call once; used for non-idempotent calls.
func (p Policy) NoRetry() Policy {
	p.Retry.MaxAttempts = 1
	return p
}

func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	r := &p.Retry
	if r.MaxAttempts <= 0 {
		r.MaxAttempts = def.Retry.MaxAttempts
	}
	if r.InitialBackoff <= 0 {
		r.InitialBackoff = def.Retry.InitialBackoff
	}
	if r.MaxBackoff < r.InitialBackoff {
		r.MaxBackoff = max(def.Retry.MaxBackoff, r.InitialBackoff)
	}
	if r.Multiplier < 1 {
		r.Multiplier = def.Retry.Multiplier
	}

	b := &p.Breaker
	if b.MinRequests == 0 {
		b.MinRequests = def.Breaker.MinRequests
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		b.FailureRatio = def.Breaker.FailureRatio
	}
	if b.OpenTimeout <= 0 {
		b.OpenTimeout = def.Breaker.OpenTimeout
	}
	if b.HalfOpenMaxCalls == 0 {
		b.HalfOpenMaxCalls = def.Breaker.HalfOpenMaxCalls
	}
	return p
}

// delay returns the wait before the attempt following attempt n (1-based).
func (r RetryPolicy) delay(n int) time.Duration {
	d := float64(r.InitialBackoff)
	for i := 1; i < n; i++ {
		d *= r.Multiplier
		if d >= float64(r.MaxBackoff) {
			return r.MaxBackoff
		}
	}
	return min(time.Duration(d), r.MaxBackoff)
}
