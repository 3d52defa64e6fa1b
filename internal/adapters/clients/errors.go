// Package clients provides the instrumented HTTP client used to reach
// outside resources such as avatar image hosts.
package clients

import (
	"errors"
	"fmt"
)

// Transport-level failures. Callers translate these into domain errors;
// see the acl package.
var (
	// ErrCircuitOpen means the breaker rejected the call without contacting the host.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt is used.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// StatusError is a 5xx answer from the remote host. Such responses count
// against the circuit breaker and are retried.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: %d", e.StatusCode)
}
