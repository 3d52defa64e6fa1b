package clients

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type clientMetrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
}

func newClientMetrics() (*clientMetrics, error) {
	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Outbound request duration including retries"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	total, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Outbound requests by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	return &clientMetrics{duration: duration, total: total}, nil
}

// record adds one request. status is omitted when no response was received.
func (m *clientMetrics) record(ctx context.Context, downstream, method string, status int, elapsed time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", downstream),
		attribute.String("result", result),
	}
	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	opt := metric.WithAttributes(attrs...)
	m.duration.Record(ctx, elapsed.Seconds(), opt)
	m.total.Add(ctx, 1, opt)
}

// statusClass buckets a status code as "2xx", "4xx" and so on.
func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}
