package common

import "errors"

var (
	// Transport-level errors.
	ErrUnavailable = errors.New("server unavailable")

	// Server rejected the credential (401/403).
	ErrUnauthorized = errors.New("unauthorized")

	// Requested record does not exist (404).
	ErrNotFound = errors.New("not found")
)
