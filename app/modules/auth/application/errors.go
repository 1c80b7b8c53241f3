package authservice

import "errors"

var (
	// ErrMissingToken is returned when no bearer token is provided.
	ErrMissingToken = errors.New("missing authentication token")

	// ErrUnauthorized is returned when a bearer token cannot be resolved to an identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidGuest is returned when a guest session is requested without a name or email.
	ErrInvalidGuest = errors.New("name and email are required")

	// ErrGenerateToken is returned when token generation fails.
	ErrGenerateToken = errors.New("failed to generate token")
)
