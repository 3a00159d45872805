package errors

import "errors"

var (
	ErrNotFound = errors.New("room not found")

	ErrPersistence = errors.New("failed to persist rooms")

	ErrMalformedSnapshot = errors.New("room snapshot is malformed")
)
