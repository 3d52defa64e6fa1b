// Package middleware holds the gin middleware shared by every route:
// request and correlation IDs, logging, recovery, timeouts and per-client
// rate limiting.
package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-service/internal/platform/logging"
)

// ContextLogger seeds each request context with logger so the ID middleware
// and handlers enrich and use it. A nil logger leaves the process default.
func ContextLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if logger != nil {
			c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		}

		c.Next()
	}
}
