// Package common defines shared constants and sentinel errors used across
// SafeDrive server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors. ErrorNotFound deliberately covers both
	// "row absent" and "row owned by someone else" so existence of other
	// users' resources never leaks.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal       = errors.New("internal error")
	ErrorUnauthorized   = errors.New("unauthorized")
	ErrorIncorrectInput = errors.New("incorrect input")

	// Identity / access-control errors.
	ErrorNoIdentity   = errors.New("no authenticated identity")
	ErrorAccessDenied = errors.New("access denied")

	// Uniqueness violations.
	ErrorAlreadyExists   = errors.New("already exists")
	ErrorDuplicateSecret = errors.New("credential already exists for service")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")

	// Cipher errors (bad key, corrupt or truncated ciphertext).
	ErrCipher = errors.New("cipher error")
)
