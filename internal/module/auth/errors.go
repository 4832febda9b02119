package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the email or password is wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering with an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidToken is returned when a token fails validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidTokenClaims is returned when token claims cannot be parsed.
	ErrInvalidTokenClaims = errors.New("invalid token claims")

	// ErrTokenExpired is returned when a refresh token has expired or been revoked.
	ErrTokenExpired = errors.New("token expired or revoked")

	// ErrTooManyAttempts is returned when the login rate limit is exceeded.
	ErrTooManyAttempts = errors.New("too many login attempts")
)
