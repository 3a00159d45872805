package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"roombook/pkg/db"
)

type testDoc struct {
	SchemaVersion string   `json:"schema_version"`
	Items         []string `json:"items"`
}

func TestJSONPersister_LoadMissing(t *testing.T) {
	p := NewJSONPersister[testDoc](filepath.Join(t.TempDir(), "missing.json"))

	_, err := p.Load(context.Background())
	if !errors.Is(err, db.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestJSONPersister_FlushThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	p := NewJSONPersister[testDoc](path)
	ctx := context.Background()

	want := testDoc{SchemaVersion: "1", Items: []string{"a", "b", "a"}}
	if err := p.Flush(ctx, want); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	got, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.SchemaVersion != want.SchemaVersion || len(got.Items) != 3 || got.Items[2] != "a" {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the snapshot file to remain, found %d entries", len(entries))
	}
}

func TestJSONPersister_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"schema_version": "1", "items": [`), 0o644); err != nil {
		t.Fatal(err)
	}
	p := NewJSONPersister[testDoc](path)

	_, err := p.Load(context.Background())
	if !errors.Is(err, db.ErrMalformedSnapshot) {
		t.Fatalf("expected ErrMalformedSnapshot, got %v", err)
	}
}

func TestJSONPersister_FlushIntoUnwritableLocation(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := NewJSONPersister[testDoc](filepath.Join(blocker, "data.json"))

	if err := p.Flush(context.Background(), testDoc{}); err == nil {
		t.Fatal("expected flush under a regular file to fail")
	}
	if err := p.Ping(context.Background()); err == nil {
		t.Fatal("expected ping to fail when the data directory is a file")
	}
}
