package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-service/internal/adapters/http/dto"
)

// Deadline bounds the request context by timeout. Handlers observe
// ctx.Done() themselves. If one returns without writing after the
// deadline passed, Deadline answers 504 with the error envelope.
func Deadline(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if !c.Writer.Written() && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			dto.AbortWithErrorCode(c, dto.ErrorCodeTimeout, dto.DetailTimeout)
		}
	}
}
