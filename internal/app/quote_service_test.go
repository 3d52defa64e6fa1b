package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-service/internal/domain"
	"github.com/jsamuelsen/quote-service/internal/mocks"
	"github.com/jsamuelsen/quote-service/internal/platform/logging"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewQuoteService_PanicsWithoutDependencies(t *testing.T) {
	assert.Panics(t, func() {
		NewQuoteService(QuoteServiceConfig{
			Renderer: mocks.NewMockQuoteRenderer(t),
			Logger:   slog.Default(),
		})
	})

	assert.Panics(t, func() {
		NewQuoteService(QuoteServiceConfig{
			Repository: mocks.NewMockQuoteRepository(t),
			Logger:     slog.Default(),
		})
	})
}

func TestNewQuoteService_DefaultsLogger(t *testing.T) {
	svc := NewQuoteService(QuoteServiceConfig{
		Repository: mocks.NewMockQuoteRepository(t),
		Renderer:   mocks.NewMockQuoteRenderer(t),
		Logger:     nil, // Should default to slog.Default()
	})

	require.NotNil(t, svc)
	assert.NotNil(t, svc.logger)
}

func TestQuoteService_GetRandomQuote(t *testing.T) {
	stayHungry := &domain.Quote{
		ID:     1,
		Text:   "Stay hungry.",
		Author: "Steve Jobs",
		Type:   domain.QuoteTypeInspiration,
	}

	tests := []struct {
		name          string
		quoteType     domain.QuoteType
		setupMock     func(*mocks.MockQuoteRepository)
		expectedQuote *domain.Quote
		errCheck      func(error) bool
	}{
		{
			name: "any type",
			setupMock: func(m *mocks.MockQuoteRepository) {
				m.EXPECT().GetRandom(mock.Anything, domain.QuoteType("")).Return(stayHungry, nil)
			},
			expectedQuote: stayHungry,
		},
		{
			name:      "filtered by type",
			quoteType: domain.QuoteTypeInspiration,
			setupMock: func(m *mocks.MockQuoteRepository) {
				m.EXPECT().GetRandom(mock.Anything, domain.QuoteTypeInspiration).Return(stayHungry, nil)
			},
			expectedQuote: stayHungry,
		},
		{
			name:      "no quote of type",
			quoteType: domain.QuoteTypePractical,
			setupMock: func(m *mocks.MockQuoteRepository) {
				m.EXPECT().GetRandom(mock.Anything, domain.QuoteTypePractical).
					Return(nil, domain.NewNotFoundError("quote", ""))
			},
			errCheck: domain.IsNotFound,
		},
		{
			name: "repository returns generic error",
			setupMock: func(m *mocks.MockQuoteRepository) {
				m.EXPECT().GetRandom(mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
			},
			errCheck: func(err error) bool {
				return err != nil && err.Error() == "boom"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockQuoteRepository(t)
			tt.setupMock(repo)

			svc := NewQuoteService(QuoteServiceConfig{
				Repository: repo,
				Renderer:   mocks.NewMockQuoteRenderer(t),
				Logger:     discardLogger(),
			})

			quote, err := svc.GetRandomQuote(context.Background(), tt.quoteType)

			if tt.errCheck != nil {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err))
				assert.Nil(t, quote)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedQuote, quote)
			}
		})
	}
}

func TestQuoteService_GetQuoteByID(t *testing.T) {
	tests := []struct {
		name          string
		quoteID       int
		setupMock     func(*mocks.MockQuoteRepository)
		expectedQuote *domain.Quote
		errCheck      func(error) bool
	}{
		{
			name:    "success",
			quoteID: 3,
			setupMock: func(m *mocks.MockQuoteRepository) {
				m.EXPECT().GetByID(mock.Anything, 3).
					Return(&domain.Quote{ID: 3, Text: "Specific quote", Author: "Author"}, nil)
			},
			expectedQuote: &domain.Quote{ID: 3, Text: "Specific quote", Author: "Author"},
		},
		{
			name:    "not found",
			quoteID: 99,
			setupMock: func(m *mocks.MockQuoteRepository) {
				m.EXPECT().GetByID(mock.Anything, 99).
					Return(nil, domain.NewNotFoundError("quote", "99"))
			},
			errCheck: domain.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockQuoteRepository(t)
			tt.setupMock(repo)

			svc := NewQuoteService(QuoteServiceConfig{
				Repository: repo,
				Renderer:   mocks.NewMockQuoteRenderer(t),
				Logger:     discardLogger(),
			})

			quote, err := svc.GetQuoteByID(context.Background(), tt.quoteID)

			if tt.errCheck != nil {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedQuote, quote)
			}
		})
	}
}

func TestQuoteService_LogsNotFoundAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	repo := mocks.NewMockQuoteRepository(t)
	repo.EXPECT().GetByID(mock.Anything, 0).Return(nil, domain.NewNotFoundError("quote", "0"))

	svc := NewQuoteService(QuoteServiceConfig{
		Repository: repo,
		Renderer:   mocks.NewMockQuoteRenderer(t),
		Logger:     logger,
	})

	_, err := svc.GetQuoteByID(context.Background(), 0)
	require.Error(t, err)

	assert.Contains(t, buf.String(), `"level":"INFO"`)
	assert.Contains(t, buf.String(), `"quote_id":"0"`)
	assert.NotContains(t, buf.String(), `"level":"ERROR"`)
}

func TestQuoteService_RenderQuote(t *testing.T) {
	quote := &domain.Quote{ID: 1, Text: "Render me."}
	cfg := domain.RenderConfig{Width: 500, Height: 200, Theme: domain.ThemeDark}

	renderer := mocks.NewMockQuoteRenderer(t)
	renderer.EXPECT().Render(mock.Anything, quote, cfg).Return("<svg/>")

	svc := NewQuoteService(QuoteServiceConfig{
		Repository: mocks.NewMockQuoteRepository(t),
		Renderer:   renderer,
		Logger:     discardLogger(),
	})

	assert.Equal(t, "<svg/>", svc.RenderQuote(context.Background(), quote, cfg))
}

func TestQuoteService_LogsWithRequestLogger(t *testing.T) {
	repo := mocks.NewMockQuoteRepository(t)
	repo.EXPECT().GetByID(mock.Anything, 1).Return(&domain.Quote{ID: 1, Text: "q", Type: domain.QuoteTypePractical}, nil)

	var serviceBuf, requestBuf bytes.Buffer
	svc := NewQuoteService(QuoteServiceConfig{
		Repository: repo,
		Renderer:   mocks.NewMockQuoteRenderer(t),
		Logger:     slog.New(slog.NewJSONHandler(&serviceBuf, nil)),
	})

	ctx := logging.WithContext(context.Background(), slog.New(slog.NewJSONHandler(&requestBuf, nil)))
	ctx = logging.WithRequestID(ctx, "req-42")

	_, err := svc.GetQuoteByID(ctx, 1)
	require.NoError(t, err)

	assert.Empty(t, serviceBuf.String())
	assert.Contains(t, requestBuf.String(), `"request_id":"req-42"`)
	assert.Contains(t, requestBuf.String(), "fetched quote")
}
