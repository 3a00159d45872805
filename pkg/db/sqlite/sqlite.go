package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"roombook/pkg/db"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	name           TEXT PRIMARY KEY,
	schema_version TEXT NOT NULL,
	payload        TEXT NOT NULL,
	updated_at     TEXT NOT NULL
)`

// Open connects to a SQLite database and creates the snapshots table.
// The pool is capped at one connection so writers serialize on the driver.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := EnsureSchema(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

func EnsureSchema(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}
	return nil
}

// SnapshotPersister stores a snapshot as one JSON row in the snapshots table.
type SnapshotPersister[T any] struct {
	conn          *sql.DB
	name          string
	schemaVersion string
}

func NewSnapshotPersister[T any](conn *sql.DB, name, schemaVersion string) *SnapshotPersister[T] {
	return &SnapshotPersister[T]{conn: conn, name: name, schemaVersion: schemaVersion}
}

func (p *SnapshotPersister[T]) Load(ctx context.Context) (T, error) {
	var doc T
	var payload string

	err := p.conn.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE name = ?`, p.name,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return doc, db.ErrNoSnapshot
		}
		return doc, fmt.Errorf("failed to load snapshot %s: %w", p.name, err)
	}

	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return doc, fmt.Errorf("%w: %s: %v", db.ErrMalformedSnapshot, p.name, err)
	}
	return doc, nil
}

func (p *SnapshotPersister[T]) Flush(ctx context.Context, doc T) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = p.conn.ExecContext(ctx, `
		INSERT INTO snapshots (name, schema_version, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			schema_version = excluded.schema_version,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		p.name, p.schemaVersion, string(payload), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to flush snapshot %s: %w", p.name, err)
	}
	return nil
}

func (p *SnapshotPersister[T]) Ping(ctx context.Context) error {
	return p.conn.PingContext(ctx)
}
