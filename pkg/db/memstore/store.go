// Package memstore keeps a collection in memory and flushes the whole of it
// to a db.Persister after every mutation.
//
// All mutations and the initial load hold the write lock across
// "update memory + flush", so readers never observe a mutation whose flush is
// still in flight. A failed flush is reported as ErrFlush and the in-memory
// change is kept. Cancelling the caller's context before the lock is acquired
// aborts the mutation; once memory has changed the flush runs to completion.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"roombook/pkg/db"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("entity not found")

	ErrFlush = errors.New("failed to flush collection")
)

// Codec describes how the store handles one entity type T and its
// snapshot document D.
type Codec[T any, D any] struct {
	ID       func(T) string
	SetID    func(T, string)
	Clone    func(T) T
	Encode   func([]T) D
	Decode   func(D) []T
	Validate func(T) error
}

type Store[T any, D any] struct {
	mu        sync.RWMutex
	byID      map[string]T
	order     []string
	persister db.Persister[D]
	codec     Codec[T, D]
	newID     func() string
}

// New loads the current snapshot. A missing snapshot starts an empty
// collection and flushes it once; an undecodable or inconsistent snapshot
// fails with db.ErrMalformedSnapshot.
func New[T any, D any](ctx context.Context, persister db.Persister[D], codec Codec[T, D]) (*Store[T, D], error) {
	s := &Store[T, D]{
		byID:      make(map[string]T),
		persister: persister,
		codec:     codec,
		newID:     uuid.NewString,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := persister.Load(ctx)
	if err != nil {
		if errors.Is(err, db.ErrNoSnapshot) {
			if err := s.flush(ctx); err != nil {
				return nil, err
			}
			return s, nil
		}
		return nil, err
	}

	for i, entity := range codec.Decode(doc) {
		id := codec.ID(entity)
		if id == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", db.ErrMalformedSnapshot, i)
		}
		if _, exists := s.byID[id]; exists {
			return nil, fmt.Errorf("%w: duplicate id %s", db.ErrMalformedSnapshot, id)
		}
		if codec.Validate != nil {
			if err := codec.Validate(entity); err != nil {
				return nil, fmt.Errorf("%w: entry %s: %v", db.ErrMalformedSnapshot, id, err)
			}
		}
		s.byID[id] = entity
		s.order = append(s.order, id)
	}

	return s, nil
}

func (s *Store[T, D]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(id)
}

// List returns copies of every entity accepted by keep, in insertion order.
// A nil keep returns everything.
func (s *Store[T, D]) List(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(keep)
}

func (s *Store[T, D]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Update runs fn with the write lock held. Everything fn reads through tx
// stays consistent with what it writes. A context that is already done when
// the lock is acquired returns its error without running fn.
func (s *Store[T, D]) Update(ctx context.Context, fn func(tx *Tx[T, D]) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(&Tx[T, D]{store: s, ctx: ctx})
}

func (s *Store[T, D]) Put(ctx context.Context, entity T) (T, error) {
	var saved T
	err := s.Update(ctx, func(tx *Tx[T, D]) error {
		var err error
		saved, err = tx.Put(entity)
		return err
	})
	return saved, err
}

func (s *Store[T, D]) Delete(ctx context.Context, id string) error {
	return s.Update(ctx, func(tx *Tx[T, D]) error {
		return tx.Delete(id)
	})
}

func (s *Store[T, D]) Ping(ctx context.Context) error {
	return s.persister.Ping(ctx)
}

// Tx is the view handed to Update. It must not be used after fn returns.
type Tx[T any, D any] struct {
	store *Store[T, D]
	ctx   context.Context
}

func (tx *Tx[T, D]) Get(id string) (T, bool) {
	return tx.store.get(id)
}

func (tx *Tx[T, D]) List(keep func(T) bool) []T {
	return tx.store.list(keep)
}

// Put upserts entity by id, minting a new id when it has none, and flushes.
// Existing entities keep their position in insertion order.
func (tx *Tx[T, D]) Put(entity T) (T, error) {
	s := tx.store
	stored := s.codec.Clone(entity)

	id := s.codec.ID(stored)
	if id == "" {
		id = s.newID()
		s.codec.SetID(stored, id)
	}

	if _, exists := s.byID[id]; !exists {
		s.order = append(s.order, id)
	}
	s.byID[id] = stored

	if err := s.flush(tx.ctx); err != nil {
		return s.codec.Clone(stored), err
	}
	return s.codec.Clone(stored), nil
}

func (tx *Tx[T, D]) Delete(id string) error {
	s := tx.store
	if _, exists := s.byID[id]; !exists {
		return ErrNotFound
	}

	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return s.flush(tx.ctx)
}

func (s *Store[T, D]) get(id string) (T, bool) {
	entity, ok := s.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return s.codec.Clone(entity), true
}

func (s *Store[T, D]) list(keep func(T) bool) []T {
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		entity := s.byID[id]
		if keep != nil && !keep(entity) {
			continue
		}
		out = append(out, s.codec.Clone(entity))
	}
	return out
}

func (s *Store[T, D]) flush(ctx context.Context) error {
	entities := make([]T, 0, len(s.order))
	for _, id := range s.order {
		entities = append(entities, s.byID[id])
	}
	// Memory is already updated, so the caller's cancellation must not leave
	// it ahead of disk. Persisters bound the call with their own timeouts.
	if err := s.persister.Flush(context.WithoutCancel(ctx), s.codec.Encode(entities)); err != nil {
		return fmt.Errorf("%w: %w", ErrFlush, err)
	}
	return nil
}
