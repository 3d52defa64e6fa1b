package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-service/internal/platform/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.LoadDir(t.TempDir(), "")
	require.NoError(t, err)

	cfg.Avatar.Enabled = false
	cfg.Server.Compression = false

	return cfg
}

func TestWire_ServesEmbeddedDataset(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.PerMinute, cfg.RateLimit.PerHour, cfg.RateLimit.PerDay = 100, 100, 100

	c, err := wire(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), handlers.NewBuildInfo("test", "abc", "now"))
	require.NoError(t, err)
	require.NotNil(t, c.limiter)

	for path, want := range map[string]int{
		"/health":        http.StatusOK,
		"/-/ready":       http.StatusOK,
		"/quotes/1":      http.StatusOK,
		"/quotes/random": http.StatusOK,
		"/quotes/0":      http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, path, nil)
		r.RemoteAddr = "192.0.2.1:1234"
		c.server.Handler().ServeHTTP(w, r)

		assert.Equal(t, want, w.Code, path)
	}
}

func TestWire_RateLimitDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Enabled = false

	c, err := wire(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), handlers.BuildInfo{})
	require.NoError(t, err)

	assert.Nil(t, c.limiter)
}

func TestWire_MissingDataset(t *testing.T) {
	cfg := testConfig(t)
	cfg.Quotes.Path = filepath.Join(t.TempDir(), "missing.json")

	_, err := wire(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), handlers.BuildInfo{})
	require.ErrorContains(t, err, "loading quotes")
}

func TestDatasetName(t *testing.T) {
	assert.Equal(t, "embedded", datasetName(""))
	assert.Equal(t, "/data/quotes.json", datasetName("/data/quotes.json"))
}
