package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen/quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-service/internal/platform/config"
	"github.com/jsamuelsen/quote-service/internal/platform/logging"
)

// DefaultSweepInterval is how often idle clients are dropped when unset.
const DefaultSweepInterval = 10 * time.Minute

var rateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "quote_service_rate_limited_requests_total",
	Help: "Requests rejected by the per-client rate limiter, by rejecting window.",
}, []string{"window"})

// Window admits at most Limit requests per Period for one client.
type Window struct {
	Name   string
	Limit  int
	Period time.Duration
}

// RetryAfterSeconds is the Retry-After value reported when this window rejects.
func (w Window) RetryAfterSeconds() int {
	return int(w.Period / time.Second)
}

// RateLimiter tracks token buckets per client key. A request is admitted
// only when every window admits it; a rejection consumes no tokens from
// any window.
type RateLimiter struct {
	windows []Window
	maxIdle time.Duration
	now     func() time.Time

	mu      sync.Mutex
	clients map[string]*clientBuckets
}

type clientBuckets struct {
	limiters []*rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter over the given windows.
// Windows with a non-positive limit or period are ignored.
func NewRateLimiter(windows ...Window) *RateLimiter {
	rl := &RateLimiter{
		now:     time.Now,
		clients: make(map[string]*clientBuckets),
	}

	for _, w := range windows {
		if w.Limit <= 0 || w.Period <= 0 {
			continue
		}

		rl.windows = append(rl.windows, w)
		if w.Period > rl.maxIdle {
			rl.maxIdle = w.Period
		}
	}

	return rl
}

// NewRateLimiterFromConfig builds the minute, hour and day windows.
// Returns nil when rate limiting is disabled.
func NewRateLimiterFromConfig(cfg *config.RateLimitConfig) *RateLimiter {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	return NewRateLimiter(
		Window{Name: "minute", Limit: cfg.PerMinute, Period: time.Minute},
		Window{Name: "hour", Limit: cfg.PerHour, Period: time.Hour},
		Window{Name: "day", Limit: cfg.PerDay, Period: 24 * time.Hour},
	)
}

// Windows returns the active windows.
func (rl *RateLimiter) Windows() []Window {
	out := make([]Window, len(rl.windows))
	copy(out, rl.windows)

	return out
}

// Allow reports whether key may make a request now. When it may not, the
// first rejecting window is returned.
func (rl *RateLimiter) Allow(key string) (bool, Window) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cb := rl.bucketsLocked(key, now)
	cb.lastSeen = now

	reservations := make([]*rate.Reservation, 0, len(cb.limiters))
	for i, l := range cb.limiters {
		r := l.ReserveN(now, 1)
		if !r.OK() || r.DelayFrom(now) > 0 {
			r.CancelAt(now)
			for _, prev := range reservations {
				prev.CancelAt(now)
			}

			return false, rl.windows[i]
		}

		reservations = append(reservations, r)
	}

	return true, Window{}
}

func (rl *RateLimiter) bucketsLocked(key string, now time.Time) *clientBuckets {
	if cb, ok := rl.clients[key]; ok {
		return cb
	}

	cb := &clientBuckets{
		limiters: make([]*rate.Limiter, len(rl.windows)),
		lastSeen: now,
	}
	for i, w := range rl.windows {
		cb.limiters[i] = rate.NewLimiter(rate.Every(w.Period/time.Duration(w.Limit)), w.Limit)
	}
	rl.clients[key] = cb

	return cb
}

// Sweep drops clients idle for at least the longest window. Their buckets
// are full again by then, so a fresh entry behaves identically.
func (rl *RateLimiter) Sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for key, cb := range rl.clients {
		if now.Sub(cb.lastSeen) >= rl.maxIdle {
			delete(rl.clients, key)
			removed++
		}
	}

	return removed
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return len(rl.clients)
}

// Run sweeps idle clients every interval until ctx is canceled.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Sweep(); n > 0 {
				logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "rate limiter swept idle clients",
					slog.Int("removed", n))
			}
		}
	}
}

// RateLimit returns middleware that rejects clients over any window with
// 429, a Retry-After header and the rejecting window's period.
// Clients are keyed by gin's ClientIP, which honors trusted proxies.
// A nil limiter admits everything.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil {
			c.Next()
			return
		}

		ok, window := rl.Allow(c.ClientIP())
		if ok {
			c.Next()
			return
		}

		retryAfter := window.RetryAfterSeconds()
		rateLimitedTotal.WithLabelValues(window.Name).Inc()

		logging.FromContext(c.Request.Context()).Info("rate limit exceeded",
			slog.String("client_ip", c.ClientIP()),
			slog.String("window", window.Name),
			slog.Int("retry_after_seconds", retryAfter),
		)

		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.RateLimitResponse{
			Detail:            dto.DetailRateLimited,
			RetryAfterSeconds: retryAfter,
		})
	}
}
