package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the email or username is already taken.
	// The message stays generic so callers cannot learn which field collided.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials indicates an unknown username or wrong password.
	// Both causes map here so they are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPersistence indicates an unexpected store failure, including a
	// uniqueness race lost at creation time
	ErrPersistence = errors.New("persistence failure")

	// ErrTokenExpired indicates the token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")
)
