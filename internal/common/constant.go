// Package common contains shared constants, sentinel errors and small helpers
// used across the patrimoine client packages.
package common

const (
	// AuthorizationHeaderName carries the bearer token on outbound API requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token value in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName carries a per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"
)
