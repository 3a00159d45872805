package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roombook/pkg/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const SnapshotsCollection = "Snapshots"

type snapshotEnvelope[T any] struct {
	ID        string    `bson:"_id"`
	Document  T         `bson:"document"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// SnapshotPersister stores one named snapshot document per collection in
// the Snapshots collection, replacing it wholesale on every flush.
type SnapshotPersister[T any] struct {
	client       *mongo.Client
	collection   *mongo.Collection
	name         string
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewSnapshotPersister[T any](client *mongo.Client, database, name string, readTimeout, writeTimeout time.Duration) *SnapshotPersister[T] {
	return &SnapshotPersister[T]{
		client:       client,
		collection:   client.Database(database).Collection(SnapshotsCollection),
		name:         name,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// withTimeout bounds ctx by timeout unless ctx already has an earlier deadline.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (p *SnapshotPersister[T]) Load(ctx context.Context) (T, error) {
	ctx, cancel := withTimeout(ctx, p.readTimeout)
	defer cancel()

	var zero T
	result := p.collection.FindOne(ctx, bson.M{"_id": p.name})
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, db.ErrNoSnapshot
		}
		return zero, fmt.Errorf("failed to load snapshot %s: %w", p.name, err)
	}

	var envelope snapshotEnvelope[T]
	if err := result.Decode(&envelope); err != nil {
		return zero, fmt.Errorf("%w: %s: %v", db.ErrMalformedSnapshot, p.name, err)
	}

	return envelope.Document, nil
}

func (p *SnapshotPersister[T]) Flush(ctx context.Context, doc T) error {
	ctx, cancel := withTimeout(ctx, p.writeTimeout)
	defer cancel()

	envelope := snapshotEnvelope[T]{
		ID:        p.name,
		Document:  doc,
		UpdatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := p.collection.ReplaceOne(ctx, bson.M{"_id": p.name}, envelope, opts); err != nil {
		return fmt.Errorf("failed to flush snapshot %s: %w", p.name, err)
	}
	return nil
}

func (p *SnapshotPersister[T]) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, p.readTimeout)
	defer cancel()
	return p.client.Ping(ctx, readpref.Primary())
}
