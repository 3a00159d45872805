package db

import (
	"context"
	"errors"
)

var (
	// ErrNoSnapshot is returned by Load when nothing has been flushed yet.
	ErrNoSnapshot = errors.New("snapshot does not exist")

	// ErrMalformedSnapshot is returned by Load when stored bytes cannot be decoded.
	ErrMalformedSnapshot = errors.New("snapshot is malformed")
)

// Persister stores a whole collection as one versioned document. Flush
// replaces the previous document atomically from the reader's point of view.
type Persister[T any] interface {
	Load(ctx context.Context) (T, error)
	Flush(ctx context.Context, doc T) error
	Ping(ctx context.Context) error
}

// Pinger is the readiness view of a persister.
type Pinger interface {
	Ping(ctx context.Context) error
}
