package main

import (
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quote-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-service/internal/adapters/http"
	"github.com/jsamuelsen/quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-service/internal/adapters/quotestore"
	"github.com/jsamuelsen/quote-service/internal/app"
	"github.com/jsamuelsen/quote-service/internal/app/render"
	"github.com/jsamuelsen/quote-service/internal/platform/config"
	"github.com/jsamuelsen/quote-service/internal/ports"
)

// components are the long-lived pieces serve drives.
type components struct {
	server  *http.Server
	limiter *middleware.RateLimiter
}

// wire loads the dataset and assembles the service. A dataset that cannot
// be loaded is fatal; avatar downloads are optional.
func wire(cfg *config.Config, logger *slog.Logger, build handlers.BuildInfo) (*components, error) {
	store, err := quotestore.Open(cfg.Quotes.Path)
	if err != nil {
		return nil, fmt.Errorf("loading quotes: %w", err)
	}

	logger.Info("loaded quotes",
		slog.Int("count", store.Count()),
		slog.String("source", datasetName(cfg.Quotes.Path)),
	)

	registry := ports.NewHealthRegistry()
	if err := registry.Register(store); err != nil {
		return nil, fmt.Errorf("registering quote store health check: %w", err)
	}

	renderCfg := render.Config{AvatarTimeout: cfg.Avatar.Timeout}
	if cfg.Avatar.Enabled {
		avatars, err := acl.NewAvatarClientFromConfig(&cfg.Avatar, cfg.App.Name+"/"+build.Version, logger)
		if err != nil {
			return nil, fmt.Errorf("creating avatar client: %w", err)
		}

		if err := registry.Register(avatars); err != nil {
			return nil, fmt.Errorf("registering avatar health check: %w", err)
		}

		renderCfg.Avatars = avatars
	}

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Repository: store,
		Renderer:   render.New(renderCfg),
		Logger:     logger,
	})

	server, err := http.New(&cfg.Server, logger)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP server: %w", err)
	}

	limiter := middleware.NewRateLimiterFromConfig(&cfg.RateLimit)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:        logger,
		AppConfig:     &cfg.App,
		HealthHandler: handlers.NewHealthHandler(registry, build),
		QuoteHandler:  handlers.NewQuoteHandler(service),
		RateLimiter:   limiter,
		Timeout:       cfg.Server.RequestTimeout,
	})

	return &components{server: server, limiter: limiter}, nil
}

func datasetName(path string) string {
	if path == "" {
		return "embedded"
	}

	return path
}
