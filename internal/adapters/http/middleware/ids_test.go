package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedIDs struct {
	request, correlation       string
	ctxRequest, ctxCorrelation string
	header                     http.Header
}

func serveWithIDs(t *testing.T, headers map[string]string, handlers ...gin.HandlerFunc) capturedIDs {
	t.Helper()

	var got capturedIDs

	router := gin.New()
	router.Use(handlers...)
	router.GET("/quotes/random", func(c *gin.Context) {
		got.request = GetRequestID(c)
		got.correlation = GetCorrelationID(c)
		got.ctxRequest = RequestIDFromContext(c.Request.Context())
		got.ctxCorrelation = CorrelationIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/quotes/random", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	got.header = w.Header()

	return got
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		inbound  string
		wantKept bool
	}{
		{"generated when absent", "", false},
		{"caller id kept", "req-123", true},
		{"uuid kept", "550e8400-e29b-41d4-a716-446655440000", true},
		{"spaces rejected", "req 123", false},
		{"quotes rejected", `req"123`, false},
		{"control characters rejected", "req\x01", false},
		{"too long rejected", strings.Repeat("a", maxIDLength+1), false},
		{"max length kept", strings.Repeat("a", maxIDLength), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.inbound != "" {
				headers[HeaderRequestID] = tt.inbound
			}

			got := serveWithIDs(t, headers, RequestID())

			assert.Equal(t, got.request, got.header.Get(HeaderRequestID))
			assert.Equal(t, got.request, got.ctxRequest)

			if tt.wantKept {
				assert.Equal(t, tt.inbound, got.request)
				return
			}

			_, err := uuid.Parse(got.request)
			assert.NoError(t, err, "expected generated UUID, got %q", got.request)
		})
	}
}

func TestCorrelationID(t *testing.T) {
	t.Run("caller id kept", func(t *testing.T) {
		got := serveWithIDs(t, map[string]string{
			HeaderRequestID:     "req-1",
			HeaderCorrelationID: "corr-1",
		}, RequestID(), CorrelationID())

		assert.Equal(t, "req-1", got.request)
		assert.Equal(t, "corr-1", got.correlation)
		assert.Equal(t, "corr-1", got.ctxCorrelation)
		assert.Equal(t, "corr-1", got.header.Get(HeaderCorrelationID))
	})

	t.Run("defaults to request id", func(t *testing.T) {
		got := serveWithIDs(t, map[string]string{HeaderRequestID: "req-2"}, RequestID(), CorrelationID())

		assert.Equal(t, "req-2", got.correlation)
		assert.Equal(t, "req-2", got.header.Get(HeaderCorrelationID))
	})

	t.Run("invalid id replaced by request id", func(t *testing.T) {
		got := serveWithIDs(t, map[string]string{
			HeaderRequestID:     "req-3",
			HeaderCorrelationID: "bad id",
		}, RequestID(), CorrelationID())

		assert.Equal(t, "req-3", got.correlation)
	})

	t.Run("generated without request id middleware", func(t *testing.T) {
		got := serveWithIDs(t, nil, CorrelationID())

		assert.Empty(t, got.request)
		_, err := uuid.Parse(got.correlation)
		assert.NoError(t, err)
	})
}

func TestIDsFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(ctx))

	//nolint:staticcheck // nil context is tolerated on purpose
	assert.Empty(t, RequestIDFromContext(nil))

	ctx = ContextWithRequestID(ctx, "request-123")
	ctx = ContextWithCorrelationID(ctx, "correlation-456")

	assert.Equal(t, "request-123", RequestIDFromContext(ctx))
	assert.Equal(t, "correlation-456", CorrelationIDFromContext(ctx))
}

func TestGetIDs_UnsetOrWrongType(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetRequestID(c))

	c.Set(ContextKeyCorrelationID, 42)
	assert.Empty(t, GetCorrelationID(c))
}
