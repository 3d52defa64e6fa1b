package telemetry

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/jsamuelsen/quote-service/internal/platform/telemetry"

	// HeaderTraceID exposes the request's trace ID to callers.
	HeaderTraceID = "X-Trace-ID"

	unmatchedRoute = "unmatched"
)

// Metrics holds the HTTP server instruments.
type Metrics struct {
	duration     metric.Float64Histogram
	requests     metric.Int64Counter
	active       metric.Int64UpDownCounter
	responseSize metric.Int64Histogram
}

// NewMetrics creates the HTTP server instruments on the global meter.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	var (
		m   Metrics
		err error
	)

	if m.duration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.requests, err = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("HTTP requests served"),
	); err != nil {
		return nil, err
	}

	if m.active, err = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("HTTP requests in flight"),
	); err != nil {
		return nil, err
	}

	// SVG bodies grow with wrapped lines and embedded avatars.
	if m.responseSize, err = meter.Int64Histogram("http.server.response.body.size",
		metric.WithDescription("HTTP response body size"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

// Middleware records server metrics and sets X-Trace-ID. It must run after
// TracingMiddleware so the span is already on the context.
func Middleware() gin.HandlerFunc {
	metrics, err := NewMetrics()
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
			c.Header(HeaderTraceID, sc.TraceID().String())
		}

		if metrics == nil {
			c.Next()
			return
		}

		start := time.Now()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		base := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
		}

		metrics.active.Add(ctx, 1, metric.WithAttributes(base...))
		defer metrics.active.Add(ctx, -1, metric.WithAttributes(base...))

		c.Next()

		done := metric.WithAttributes(append(base,
			attribute.Int("http.status_code", c.Writer.Status()),
			attribute.String("quote.format", responseFormat(c)),
		)...)

		metrics.duration.Record(ctx, time.Since(start).Seconds(), done)
		metrics.requests.Add(ctx, 1, done)
		metrics.responseSize.Record(ctx, int64(max(c.Writer.Size(), 0)), done)
	}
}

// responseFormat labels responses by the requested representation. Only
// the two known values are used so arbitrary input cannot grow cardinality.
func responseFormat(c *gin.Context) string {
	if strings.EqualFold(c.Query("response_type"), "svg") {
		return "svg"
	}

	return "json"
}

// TracingMiddleware returns the otelgin tracing middleware. Probe paths
// under /-/ are not traced.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			return !strings.HasPrefix(r.URL.Path, "/-/")
		}),
	)
}
