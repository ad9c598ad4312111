package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation marks malformed or missing input. Wrap it with the offending field.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized indicates a missing or stale session token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmptyCart is returned when a checkout selects no lines.
	ErrEmptyCart = errors.New("cart is empty")
)
