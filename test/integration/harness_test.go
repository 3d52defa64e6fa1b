//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-service/internal/adapters/clients/acl"
	apphttp "github.com/jsamuelsen/quote-service/internal/adapters/http"
	"github.com/jsamuelsen/quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-service/internal/adapters/quotestore"
	"github.com/jsamuelsen/quote-service/internal/app"
	"github.com/jsamuelsen/quote-service/internal/app/render"
	"github.com/jsamuelsen/quote-service/internal/platform/config"
	"github.com/jsamuelsen/quote-service/internal/ports"
)

// pngHeader is enough of a PNG for content-type checks.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// datasetRecord mirrors the on-disk dataset format.
type datasetRecord struct {
	Quote           string `json:"quote"`
	Author          string `json:"author,omitempty"`
	AuthorAvatarURL string `json:"author_avatar_url,omitempty"`
	Type            string `json:"type"`
}

// harness is an in-process quote service backed by a temporary dataset
// and a fake avatar host.
type harness struct {
	server       *httptest.Server
	avatarServer *httptest.Server
	avatars      *acl.AvatarClient
	datasetPath  string
}

// harnessOptions tunes the in-process service.
type harnessOptions struct {
	// rateLimit enables the per-minute/hour/day limiter with these limits.
	rateLimit *config.RateLimitConfig

	// avatarHandler serves avatar downloads. Nil serves a PNG.
	avatarHandler http.HandlerFunc

	// avatarFailures is the circuit breaker threshold. Zero uses the default.
	avatarFailures int
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newHarness starts the service. The dataset holds three quotes, the second
// one with an avatar hosted by the fake avatar server.
func newHarness(opts harnessOptions) (*harness, error) {
	gin.SetMode(gin.TestMode)

	avatarHandler := opts.avatarHandler
	if avatarHandler == nil {
		avatarHandler = func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngHeader)
		}
	}
	avatarServer := httptest.NewServer(avatarHandler)

	dir, err := os.MkdirTemp("", "quote-service-it")
	if err != nil {
		avatarServer.Close()
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}

	records := []datasetRecord{
		{Quote: "The best way to get started is to quit talking and begin doing.", Author: "Walt Disney", Type: "inspiration"},
		{Quote: "Simplicity is prerequisite for reliability.", Author: "Edsger W. Dijkstra",
			AuthorAvatarURL: avatarServer.URL + "/dijkstra.png", Type: "practical"},
		{Quote: "Well begun is half done.", Type: "practical"},
	}

	data, err := json.Marshal(records)
	if err != nil {
		avatarServer.Close()
		return nil, fmt.Errorf("encoding dataset: %w", err)
	}

	datasetPath := filepath.Join(dir, "quotes.json")
	if err := os.WriteFile(datasetPath, data, 0o600); err != nil {
		avatarServer.Close()
		return nil, fmt.Errorf("writing dataset: %w", err)
	}

	store, err := quotestore.Open(datasetPath)
	if err != nil {
		avatarServer.Close()
		return nil, err
	}

	failures := opts.avatarFailures
	if failures == 0 {
		failures = config.DefaultClientCircuitMaxFailures
	}

	avatars, err := acl.NewAvatarClientFromConfig(&config.AvatarConfig{
		Enabled:  true,
		Timeout:  2 * time.Second,
		MaxBytes: config.DefaultAvatarMaxBytes,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   failures,
			Timeout:       time.Minute,
			HalfOpenLimit: 1,
			PerHost:       true,
		},
		Transport: config.TransportConfig{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     time.Minute,
		},
	}, "quote-service-it", discardLogger())
	if err != nil {
		avatarServer.Close()
		return nil, err
	}

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Repository: store,
		Renderer:   render.New(render.Config{Avatars: avatars, AvatarTimeout: 2 * time.Second}),
		Logger:     discardLogger(),
	})

	registry := ports.NewHealthRegistry()
	for _, checker := range []ports.HealthChecker{store, avatars} {
		if err := registry.Register(checker); err != nil {
			avatarServer.Close()
			return nil, err
		}
	}

	var limiter *middleware.RateLimiter
	if opts.rateLimit != nil {
		limiter = middleware.NewRateLimiterFromConfig(opts.rateLimit)
	}

	engine := gin.New()
	apphttp.SetupRouter(engine, apphttp.RouterConfig{
		Logger:        discardLogger(),
		AppConfig:     &config.AppConfig{Name: "quote-service", Version: "it", Environment: "test"},
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("it", "none", "now")),
		QuoteHandler:  handlers.NewQuoteHandler(service),
		RateLimiter:   limiter,
		Timeout:       5 * time.Second,
	})

	return &harness{
		server:       httptest.NewServer(engine),
		avatarServer: avatarServer,
		avatars:      avatars,
		datasetPath:  datasetPath,
	}, nil
}

// URL returns the base URL of the in-process service.
func (h *harness) URL() string {
	return h.server.URL
}

// Close stops both servers and removes the dataset.
func (h *harness) Close() {
	h.server.Close()
	h.avatarServer.Close()
	_ = os.RemoveAll(filepath.Dir(h.datasetPath))
}
