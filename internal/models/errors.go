package models

import "errors"

// Sentinel errors for input validation.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid confirmation token")
)

// Sentinel errors for store failures. Store methods wrap the driver error
// with one of these so callers can classify without inspecting pgx types.
var (
	ErrWriteFailure = errors.New("write failure")
	ErrReadFailure  = errors.New("read failure")
)
