// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/jsamuelsen/quote-service/internal/domain"
)

// QuoteRepository provides read-only access to the loaded quote collection.
// Implementations must be safe for concurrent use.
type QuoteRepository interface {
	// GetByID returns the quote with the given id.
	// Returns domain.ErrNotFound if no quote has that id.
	GetByID(ctx context.Context, id int) (*domain.Quote, error)

	// GetRandom returns a uniformly chosen quote, restricted to quoteType
	// unless it is the zero value.
	// Returns domain.ErrNotFound if no quote matches the filter.
	GetRandom(ctx context.Context, quoteType domain.QuoteType) (*domain.Quote, error)
}

// AvatarFetcher downloads author pictures for embedding into rendered quotes.
//
// Key considerations:
//   - Respect the context deadline; a slow host must not stall rendering
//   - Single attempt, no retries
//   - Map transport and status failures to domain.ErrUnavailable
type AvatarFetcher interface {
	// FetchAvatar downloads the image at the absolute URL.
	FetchAvatar(ctx context.Context, url string) (*domain.Avatar, error)
}

// QuoteRenderer converts a quote into SVG markup.
// Rendering is best-effort and never fails.
type QuoteRenderer interface {
	Render(ctx context.Context, quote *domain.Quote, cfg domain.RenderConfig) string
}
