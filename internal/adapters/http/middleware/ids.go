package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quote-service/internal/platform/logging"
)

const (
	// HeaderRequestID identifies one HTTP exchange.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID ties together every request made on behalf of one
	// caller operation, including avatar downloads.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin.Context key for the request ID.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin.Context key for the correlation ID.
	ContextKeyCorrelationID = "correlation_id"

	// maxIDLength bounds IDs accepted from callers. They are echoed in
	// headers and logs.
	maxIDLength = 128
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyCorrelationID
)

// RequestID accepts a well-formed X-Request-ID or generates a UUID. The ID
// is echoed in the response, stored on the gin and request contexts, and
// attached to the request logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := inboundID(c, HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		setID(c, HeaderRequestID, ContextKeyRequestID, id, ContextWithRequestID, logging.WithRequestID)
		c.Next()
	}
}

// CorrelationID accepts a well-formed X-Correlation-ID. Without one the
// request ID is reused when RequestID ran first; otherwise a UUID is
// generated.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := inboundID(c, HeaderCorrelationID)
		if id == "" {
			id = GetRequestID(c)
		}
		if id == "" {
			id = uuid.NewString()
		}

		setID(c, HeaderCorrelationID, ContextKeyCorrelationID, id, ContextWithCorrelationID, logging.WithCorrelationID)
		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID set by CorrelationID, or "".
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

// RequestIDFromContext returns the request ID carried by ctx, or "".
// The avatar client forwards it.
func RequestIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, ctxKeyRequestID)
}

// CorrelationIDFromContext returns the correlation ID carried by ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, ctxKeyCorrelationID)
}

// ContextWithRequestID stores id for RequestIDFromContext.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// ContextWithCorrelationID stores id for CorrelationIDFromContext.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyCorrelationID, id)
}

func setID(
	c *gin.Context,
	header, key, id string,
	store, enrich func(context.Context, string) context.Context,
) {
	c.Set(key, id)
	c.Header(header, id)

	ctx := enrich(store(c.Request.Context(), id), id)
	c.Request = c.Request.WithContext(ctx)
}

func idFromContext(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}

// inboundID returns the caller's ID when it is safe to echo, or "".
func inboundID(c *gin.Context, header string) string {
	id := c.GetHeader(header)
	if !validID(id) {
		return ""
	}

	return id
}

// validID accepts 1 to maxIDLength printable ASCII characters without
// spaces or quotes.
func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}

	for i := range len(id) {
		ch := id[i]
		if ch <= ' ' || ch > '~' || ch == '"' || ch == '\\' {
			return false
		}
	}

	return true
}
