package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

type retrying struct {
	Provider
	cfg RetryConfig
}

// WithRetry retries p on transient failures, backing off exponentially
// with jitter. A reply that fails schema validation gets exactly one
// more try; permanent errors are returned at once.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &retrying{Provider: p, cfg: cfg}
}

func (r *retrying) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.cfg.MaxAttempts, 1)
	reasked := false
	for n := 1; ; n++ {
		resp, err := r.Provider.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		var bad *ErrInvalidResponse
		switch {
		case errors.As(err, &bad):
			if reasked {
				return nil, err
			}
			reasked = true
		case !Transient(err):
			return nil, err
		}
		if n >= attempts {
			return nil, err
		}

		t := time.NewTimer(r.wait(n, err))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

// wait is the pause after the nth failed attempt. A rate limit's
// Retry-After wins over the computed backoff.
func (r *retrying) wait(n int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	d := float64(r.cfg.InitialWait)
	for range n - 1 {
		d *= r.cfg.Multiplier
		if d >= float64(r.cfg.MaxWait) {
			break
		}
	}
	d = min(d, float64(r.cfg.MaxWait))
	// ±20%
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(max(d, 0))
}
