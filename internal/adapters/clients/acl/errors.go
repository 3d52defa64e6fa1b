package acl

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jsamuelsen/quote-service/internal/adapters/clients"
	"github.com/jsamuelsen/quote-service/internal/domain"
)

// MapHTTPError maps a failed remote call to a domain error.
//
// Parameters:
//   - resp: The HTTP response (may be nil for transport errors)
//   - clientErr: Any error from the HTTP client (may be nil)
//   - resource: Name of the remote resource for error context
//   - operation: The operation being performed (e.g., "fetch avatar")
//   - entityID: The identifier of the requested entity, used for NotFoundError
//
// Returns nil for 2xx responses.
func MapHTTPError(resp *http.Response, clientErr error, resource, operation, entityID string) error {
	if clientErr != nil {
		return mapClientError(clientErr, resource, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(resource, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	return mapStatusCode(resp.StatusCode, resource, operation, entityID)
}

// mapClientError translates client-level errors to domain errors.
func mapClientError(err error, resource, operation string) error {
	var statusErr *clients.StatusError

	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(resource,
			fmt.Sprintf("circuit breaker open during %s", operation))

	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests:
		return domain.NewUnavailableError(resource, "rate limit exceeded")

	case errors.As(err, &statusErr):
		return domain.NewUnavailableError(resource,
			fmt.Sprintf("%s failed with status %d", operation, statusErr.StatusCode))

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(resource,
			fmt.Sprintf("max retries exceeded during %s", operation))

	default:
		return domain.NewUnavailableError(resource,
			fmt.Sprintf("%s failed: %v", operation, err))
	}
}

// mapStatusCode translates non-2xx HTTP status codes to domain errors.
func mapStatusCode(status int, resource, operation, entityID string) error {
	switch {
	case status == http.StatusNotFound:
		return domain.NewNotFoundError(resource, entityID)

	case status == http.StatusTooManyRequests:
		return domain.NewUnavailableError(resource, "rate limit exceeded")

	default:
		return domain.NewUnavailableError(resource,
			fmt.Sprintf("%s failed with status %d", operation, status))
	}
}
