// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/jsamuelsen/quote-service/internal/domain"
	"github.com/jsamuelsen/quote-service/internal/platform/logging"
	"github.com/jsamuelsen/quote-service/internal/ports"
)

// QuoteService orchestrates quote-related use cases.
// It depends on port interfaces, not concrete implementations,
// following the Dependency Inversion Principle.
type QuoteService struct {
	repo     ports.QuoteRepository
	renderer ports.QuoteRenderer
	logger   *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	Repository ports.QuoteRepository
	Renderer   ports.QuoteRenderer
	Logger     *slog.Logger
}

// NewQuoteService creates a new quote service with the provided dependencies.
// Panics if Repository or Renderer is nil.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Repository == nil {
		panic("app: QuoteServiceConfig.Repository is required")
	}

	if cfg.Renderer == nil {
		panic("app: QuoteServiceConfig.Renderer is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		repo:     cfg.Repository,
		renderer: cfg.Renderer,
		logger:   logger,
	}
}

// GetRandomQuote returns a random quote, restricted to quoteType unless it is empty.
func (s *QuoteService) GetRandomQuote(ctx context.Context, quoteType domain.QuoteType) (*domain.Quote, error) {
	s.log(ctx).DebugContext(ctx, "selecting random quote",
		slog.String("quote_type", string(quoteType)),
	)

	quote, err := s.repo.GetRandom(ctx, quoteType)
	if err != nil {
		s.logFailure(ctx, "failed to select random quote", err,
			slog.String("quote_type", string(quoteType)),
		)
		return nil, err
	}

	s.log(ctx).InfoContext(ctx, "selected random quote",
		slog.Int("quote_id", quote.ID),
		slog.String("quote_type", string(quote.Type)),
	)

	return quote, nil
}

// GetQuoteByID returns the quote with the given id.
func (s *QuoteService) GetQuoteByID(ctx context.Context, id int) (*domain.Quote, error) {
	s.log(ctx).DebugContext(ctx, "fetching quote by ID",
		slog.Int("quote_id", id),
	)

	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logFailure(ctx, "failed to fetch quote", err,
			slog.String("quote_id", strconv.Itoa(id)),
		)
		return nil, err
	}

	s.log(ctx).InfoContext(ctx, "fetched quote",
		slog.Int("quote_id", quote.ID),
		slog.String("author", quote.Author),
	)

	return quote, nil
}

// RenderQuote renders quote as SVG markup. Rendering never fails.
func (s *QuoteService) RenderQuote(ctx context.Context, quote *domain.Quote, cfg domain.RenderConfig) string {
	svg := s.renderer.Render(ctx, quote, cfg)

	s.log(ctx).DebugContext(ctx, "rendered quote",
		slog.Int("quote_id", quote.ID),
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		slog.String("theme", string(cfg.Theme)),
		slog.Int("bytes", len(svg)),
	)

	return svg
}

// log prefers the request-scoped logger so records carry request IDs.
func (s *QuoteService) log(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

// logFailure logs expected misses at info and everything else at error.
func (s *QuoteService) logFailure(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	level := slog.LevelError
	if domain.IsNotFound(err) {
		level = slog.LevelInfo
	}

	s.log(ctx).LogAttrs(ctx, level, msg, append(attrs, slog.Any("error", err))...)
}
