package auth

import "errors"

var (
	ErrUnauthenticated    = errors.New("auth: authentication required")
	ErrForbidden          = errors.New("auth: admin role required")
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrTooManyAttempts    = errors.New("auth: too many sign-in attempts")
	ErrAuthUnavailable    = errors.New("auth: provider unavailable")
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrUserExists         = errors.New("auth: user already exists")
	ErrInvalidInput       = errors.New("auth: invalid input")
)
