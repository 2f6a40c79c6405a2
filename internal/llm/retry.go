package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// Retry re-sends requests that failed for transient reasons, waiting
// with exponential backoff and jitter between attempts. A reply that
// does not match the schema is re-requested once.
func Retry(cfg RetryConfig) Middleware {
	return func(next Provider) Provider {
		return &retryProvider{next: next, cfg: cfg, sleep: sleepCtx}
	}
}

type retryProvider struct {
	next  Provider
	cfg   RetryConfig
	sleep func(ctx context.Context, d time.Duration) error
}

func (r *retryProvider) Complete(ctx context.Context, req Request) (*Completion, error) {
	attempts := max(r.cfg.MaxAttempts, 1)
	invalidSeen := false

	var err error
	for attempt := range attempts {
		var c *Completion
		c, err = r.next.Complete(ctx, req)
		if err == nil {
			return c, nil
		}

		retry := retryable(err)
		if _, ok := asInvalid(err); ok {
			retry = !invalidSeen
			invalidSeen = true
		}
		if !retry || attempt == attempts-1 {
			return nil, err
		}
		if serr := r.sleep(ctx, r.backoff(attempt, err)); serr != nil {
			return nil, serr
		}
	}
	return nil, err
}

func (r *retryProvider) Model() string { return r.next.Model() }

// retryable reports whether err may succeed on a second try. Cancelled
// requests and truncated replies never do.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if _, ok := asMaxTokens(err); ok {
		return false
	}
	return true
}

// backoff is the wait before attempt+1. A rate limit's RetryAfter wins.
func (r *retryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.cfg.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1) // ±20%
	return time.Duration(math.Max(wait, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func asInvalid(err error) (*ErrInvalidResponse, bool) {
	var inv *ErrInvalidResponse
	ok := errors.As(err, &inv)
	return inv, ok
}

func asMaxTokens(err error) (*ErrMaxTokensExceeded, bool) {
	var mt *ErrMaxTokensExceeded
	ok := errors.As(err, &mt)
	return mt, ok
}
