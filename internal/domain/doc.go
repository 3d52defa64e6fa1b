// Package domain holds the quote model, rendering options and the errors
// the rest of the service reports. Nothing here knows about HTTP; adapters
// map these errors to status codes.
package domain
