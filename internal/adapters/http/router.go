package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-service/internal/platform/config"
	"github.com/jsamuelsen/quote-service/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds a quote request when the caller has no
// configured timeout.
const DefaultRequestTimeout = 30 * time.Second

// healthPath is the public liveness endpoint. It is neither logged nor rate limited.
const healthPath = "/health"

// RouterConfig is everything SetupRouter mounts. Nil handlers leave their
// routes out.
type RouterConfig struct {
	// Logger seeds the per-request context logger.
	Logger *slog.Logger

	// AppConfig names the service in spans.
	AppConfig *config.AppConfig

	// HealthHandler handles /health and the /-/ operational endpoints.
	HealthHandler *handlers.HealthHandler

	// QuoteHandler handles the /quotes endpoints.
	QuoteHandler *handlers.QuoteHandler

	// RateLimiter throttles the quote endpoints per client. Nil disables limiting.
	RateLimiter *middleware.RateLimiter

	// Timeout bounds each quote request. Zero disables the deadline.
	Timeout time.Duration
}

// SetupRouter mounts the quote and health routes on engine.
//
// Every route runs recovery, the context logger, request and correlation
// ids, tracing, server metrics and the access log, in that order. Only the
// /quotes routes are rate limited per client IP and bounded by Timeout;
// /health and /-/ stay reachable for probes when a client is throttled.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(NoRoute)
	engine.NoMethod(NoMethod)

	engine.Use(
		middleware.Recovery(),
		middleware.ContextLogger(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(serviceName(cfg.AppConfig)),
		telemetry.Middleware(),
		middleware.AccessLog(healthPath),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	if cfg.QuoteHandler != nil {
		quotes := engine.Group("")
		quotes.Use(middleware.RateLimit(cfg.RateLimiter))
		if cfg.Timeout > 0 {
			quotes.Use(middleware.Deadline(cfg.Timeout))
		}

		cfg.QuoteHandler.RegisterQuoteRoutes(quotes)
	}
}

func serviceName(cfg *config.AppConfig) string {
	if cfg == nil || cfg.Name == "" {
		return "quote-service"
	}

	return cfg.Name
}
