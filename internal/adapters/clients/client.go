package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-service/internal/platform/config"
	"github.com/jsamuelsen/quote-service/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/quote-service/internal/adapters/clients"

	defaultTimeout = 30 * time.Second

	defaultTransportMaxIdleConns        = 100
	defaultTransportMaxIdleConnsPerHost = 10
	defaultTransportIdleConnTimeout     = 90 * time.Second
)

// Config configures a Client.
type Config struct {
	// BaseURL prefixes relative paths. Absolute URLs passed to Get are used
	// as-is, which is how avatar URLs from the dataset are fetched.
	BaseURL string

	// ServiceName labels logs, spans and metrics. Required.
	ServiceName string

	// Timeout bounds each attempt, not the whole retry sequence.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	UserAgent string
	Logger    *slog.Logger
}

// Client is an outbound HTTP client with retries, circuit breaking,
// tracing, metrics and request ID propagation.
//
// With Circuit.PerHost set each host gets its own breaker, created on first
// use, so one failing host does not block requests to the others.
type Client struct {
	http        *http.Client
	baseURL     string
	serviceName string
	userAgent   string
	logger      *slog.Logger
	retry       retryPolicy
	tracer      trace.Tracer
	metrics     *clientMetrics

	circuit  config.CircuitBreakerConfig
	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// New validates cfg and builds a Client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "clients.Client"))

	metrics, err := newClientMetrics()
	if err != nil {
		return nil, err
	}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(cfg.Transport),
		},
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		serviceName: cfg.ServiceName,
		userAgent:   cfg.UserAgent,
		logger:      logger,
		retry:       newRetryPolicy(cfg.Retry),
		tracer:      otel.Tracer(instrumentationName),
		metrics:     metrics,
		circuit:     cfg.Circuit,
		breakers:    make(map[string]*CircuitBreaker),
	}, nil
}

// Get fetches target, a path relative to BaseURL or an absolute http(s) URL.
func (c *Client) Get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(target), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return c.Do(ctx, req)
}

// Do sends req through the circuit breaker and retry loop. Only bodiless
// requests, or those with GetBody set, can be retried safely.
//
// A returned response may carry any status below 500 and must be closed
// by the caller. Exhausted retries yield ErrMaxRetriesExceeded wrapping the
// last failure, which is a *StatusError for 5xx and 429 replies.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContextOr(ctx, c.logger).With(
		slog.String("downstream", c.serviceName),
		slog.String("method", req.Method),
		slog.String("host", req.URL.Host),
		slog.String("path", req.URL.Path),
	)

	cb := c.breaker(req.URL.Host)
	if !cb.Allow() {
		c.metrics.record(ctx, c.serviceName, req.Method, 0, time.Since(start), "circuit_open")
		logger.Warn("request blocked by circuit breaker")
		return nil, ErrCircuitOpen
	}

	ctx, span := c.tracer.Start(ctx, "HTTP "+req.Method+" "+c.serviceName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("server.address", req.URL.Host),
			attribute.String("peer.service", c.serviceName),
		),
	)
	defer span.End()

	c.injectHeaders(ctx, req)

	resp, attempts, err := c.attempt(ctx, req, logger)
	span.SetAttributes(attribute.Int("http.attempts", attempts))
	elapsed := time.Since(start)

	switch {
	case err == nil:
		cb.RecordSuccess()
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		if resp.StatusCode >= http.StatusBadRequest {
			span.SetStatus(codes.Error, "HTTP "+http.StatusText(resp.StatusCode))
		}
		c.metrics.record(ctx, c.serviceName, req.Method, resp.StatusCode, elapsed, statusClass(resp.StatusCode))
		logger.Debug("request completed",
			slog.Int("status", resp.StatusCode),
			slog.Int("attempts", attempts),
			slog.Duration("duration", elapsed),
		)

		return resp, nil

	case ctx.Err() != nil:
		// The caller gave up. That says nothing about the downstream.
		cb.Release()
		span.SetStatus(codes.Error, ctx.Err().Error())
		c.metrics.record(ctx, c.serviceName, req.Method, 0, elapsed, "context_canceled")

		return nil, err

	default:
		cb.RecordFailure()
		span.SetStatus(codes.Error, err.Error())
		c.metrics.record(ctx, c.serviceName, req.Method, 0, elapsed, "error")
		logger.Warn("request failed",
			slog.Int("attempts", attempts),
			slog.Duration("duration", elapsed),
			slog.Any("error", err),
		)

		return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
	}
}

// attempt runs the retry loop and reports how many attempts were made.
func (c *Client) attempt(ctx context.Context, req *http.Request, logger *slog.Logger) (*http.Response, int, error) {
	var lastErr error

	for n := 1; ; n++ {
		resp, err := c.http.Do(req.WithContext(ctx))

		wait, retry := c.retry.next(n, resp, err)
		if !retry {
			return resp, n, err
		}

		if err == nil {
			err = &StatusError{StatusCode: resp.StatusCode}
			_ = resp.Body.Close()
		}
		lastErr = err

		if n >= c.retry.maxAttempts {
			return nil, n, lastErr
		}

		logger.Debug("retrying request",
			slog.Int("attempt", n+1),
			slog.Duration("backoff", wait),
			slog.Any("error", lastErr),
		)

		if err := c.retry.sleep(ctx, wait); err != nil {
			return nil, n, err
		}
	}
}

func (c *Client) injectHeaders(ctx context.Context, req *http.Request) {
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// breaker returns the breaker guarding host, creating it on first use.
// Without PerHost every host shares one breaker.
func (c *Client) breaker(host string) *CircuitBreaker {
	key, name := "", c.serviceName
	if c.circuit.PerHost {
		key, name = host, c.serviceName+":"+host
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cb, ok := c.breakers[key]; ok {
		return cb
	}

	cb := NewCircuitBreaker(name, c.circuit)
	cb.OnStateChange(func(from, to State) {
		c.logger.Warn("circuit breaker state changed",
			slog.String("downstream", c.serviceName),
			slog.String("breaker", name),
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})
	c.breakers[key] = cb

	return cb
}

// CircuitState summarises every breaker: closed if any is closed, else
// half-open if any is half-open, else open. A client that has sent nothing
// is closed.
func (c *Client) CircuitState() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.breakers) == 0 {
		return StateClosed
	}

	summary := StateOpen
	for _, cb := range c.breakers {
		switch cb.State() {
		case StateClosed:
			return StateClosed
		case StateHalfOpen:
			summary = StateHalfOpen
		}
	}

	return summary
}

// HostCircuitState reports the breaker state for host.
func (c *Client) HostCircuitState(host string) State {
	return c.breaker(host).State()
}

func (c *Client) buildURL(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}

	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}

	return c.baseURL + target
}

// newTransport fills unset pool limits with defaults.
func newTransport(cfg config.TransportConfig) *http.Transport {
	t := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
	}

	if t.MaxIdleConns <= 0 {
		t.MaxIdleConns = defaultTransportMaxIdleConns
	}

	if t.MaxIdleConnsPerHost <= 0 {
		t.MaxIdleConnsPerHost = defaultTransportMaxIdleConnsPerHost
	}

	if t.IdleConnTimeout <= 0 {
		t.IdleConnTimeout = defaultTransportIdleConnTimeout
	}

	return t
}
