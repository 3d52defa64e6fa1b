package clients

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen/quote-service/internal/platform/config"
)

// retryPolicy decides whether an attempt is retried and how long to wait.
type retryPolicy struct {
	maxAttempts int
	initial     time.Duration
	max         time.Duration
	multiplier  float64
	jitter      float64

	// Overridden in tests.
	rand  func() float64
	sleep func(ctx context.Context, d time.Duration) error
}

func newRetryPolicy(cfg config.RetryConfig) retryPolicy {
	return retryPolicy{
		maxAttempts: max(cfg.MaxAttempts, 1),
		initial:     cfg.InitialInterval,
		max:         cfg.MaxInterval,
		multiplier:  cfg.Multiplier,
		jitter:      cfg.JitterFactor,
		rand:        rand.Float64, //nolint:gosec // jitter needs no crypto randomness
		sleep:       sleepCtx,
	}
}

// next inspects the outcome of attempt n (1-based). Transport timeouts,
// connection errors, 5xx and 429 are retried. A Retry-After header on the
// reply replaces the computed backoff, capped at the max interval.
func (p retryPolicy) next(n int, resp *http.Response, err error) (time.Duration, bool) {
	if err != nil {
		return p.backoff(n), isRetryableError(err)
	}

	if resp.StatusCode < http.StatusInternalServerError && resp.StatusCode != http.StatusTooManyRequests {
		return 0, false
	}

	if wait, ok := retryAfter(resp.Header.Get("Retry-After"), time.Now()); ok {
		return min(wait, p.max), true
	}

	return p.backoff(n), true
}

// backoff is initial * multiplier^(n-1), capped at max, with symmetric
// jitter of up to ±jitter of the result.
func (p retryPolicy) backoff(n int) time.Duration {
	d := float64(p.initial) * math.Pow(p.multiplier, float64(n-1))
	if p.max > 0 && d > float64(p.max) {
		d = float64(p.max)
	}

	d += d * p.jitter * (p.rand()*2 - 1)

	return time.Duration(d)
}

// retryAfter parses delta-seconds or an HTTP date.
func retryAfter(v string, now time.Time) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}

	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}

	if at, err := http.ParseTime(v); err == nil {
		return max(at.Sub(now), 0), true
	}

	return 0, false
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

// isRetryableError reports transport failures worth another attempt.
// Cancellation and deadlines from the caller's context never are.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
