package http

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-service/internal/adapters/http/dto"
)

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic detail.
func MapDomainError(err error) (int, *dto.ErrorResponse) {
	return dto.FromError(err)
}

// RespondWithError writes an error response to the gin.Context.
// Server-side failures are logged with the trace ID.
func RespondWithError(c *gin.Context, err error) {
	dto.HandleError(c, err)
}

// NoRoute answers unmatched paths with the same body a missing quote gets.
func NoRoute(c *gin.Context) {
	dto.AbortWithErrorCode(c, dto.ErrorCodeNotFound, dto.DetailNotFound)
}

// NoMethod answers known paths requested with an unsupported method.
func NoMethod(c *gin.Context) {
	dto.AbortWithErrorCode(c, dto.ErrorCodeMethodNotAllowed, dto.DetailMethodNotAllowed)
}
