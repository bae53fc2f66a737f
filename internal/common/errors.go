package common

import "errors"

var (
	// Validation errors.
	ErrorValidation = errors.New("validation error")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
