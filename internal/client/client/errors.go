package client

import "errors"

var (
	// ErrUnavailable covers transport failures, timeouts and 5xx replies.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized is returned when the backend refuses the credentials
	// or the bearer token (401, 403, 422).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRejected is returned for a well-formed reply with ok=false or for
	// any other 4xx.
	ErrRejected = errors.New("request rejected")
	// ErrMalformedResponse is returned when a 2xx body does not match the
	// expected schema.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrLocalDataNotAvailable is returned when local storage cannot be opened.
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
)
