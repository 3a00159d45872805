package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrPersistence = errors.New("failed to persist reservations")

	ErrMalformedSnapshot = errors.New("reservation snapshot is malformed")
)
