// Package acl holds the anti-corruption layer between remote resources and
// the domain model.
//
// Remote responses never leave this package in their raw form. HTTP status
// codes and client failures ([clients.ErrCircuitOpen],
// [clients.ErrMaxRetriesExceeded], transport errors) are translated to
// domain errors by [MapHTTPError], and response payloads are validated and
// converted into domain values before they are returned.
//
// Mapping used for remote failures:
//   - 404 Not Found → [domain.ErrNotFound]
//   - 429 and 5xx → [domain.ErrUnavailable]
//   - other 4xx → [domain.ErrUnavailable] with the status in the reason
//   - circuit open, retries exhausted, network errors → [domain.ErrUnavailable]
//
// [AvatarClient] is the only adapter today. It downloads author avatars for
// the SVG renderer and implements ports.AvatarFetcher.
package acl
