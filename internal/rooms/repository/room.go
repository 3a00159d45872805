package repository

import (
	"context"
	"errors"
	"fmt"

	roomserrors "roombook/internal/rooms/errors"
	"roombook/pkg/db"
	"roombook/pkg/db/memstore"
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
)

type RoomRepository interface {
	FindByID(ctx context.Context, id string) (*model.Room, error)
	FindAll(ctx context.Context) ([]*model.Room, error)
	FindByLocation(ctx context.Context, location string) ([]*model.Room, error)
	Save(ctx context.Context, room *model.Room) (*model.Room, error)
	// Replace overwrites an existing room and fails with ErrNotFound
	// when there is nothing to overwrite.
	Replace(ctx context.Context, room *model.Room) (*model.Room, error)
	DeleteByID(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

var codec = memstore.Codec[*model.Room, model.RoomDocument]{
	ID: func(r *model.Room) string {
		if r == nil {
			return ""
		}
		return r.ID
	},
	SetID: func(r *model.Room, id string) { r.ID = id },
	Clone: (*model.Room).Clone,
	Encode: func(rooms []*model.Room) model.RoomDocument {
		return model.RoomDocument{
			SchemaVersion: model.CurrentSchemaVersion,
			Rooms:         rooms,
		}
	},
	Decode: func(doc model.RoomDocument) []*model.Room {
		return doc.Rooms
	},
	Validate: func(r *model.Room) error {
		if r == nil {
			return errors.New("null room")
		}
		return nil
	},
}

type memoryRoomRepository struct {
	store *memstore.Store[*model.Room, model.RoomDocument]
	log   *logger.Logger
}

func NewRoomRepository(ctx context.Context, persister db.Persister[model.RoomDocument], log *logger.Logger) (RoomRepository, error) {
	store, err := memstore.New(ctx, persister, codec)
	if err != nil {
		if errors.Is(err, db.ErrMalformedSnapshot) {
			return nil, fmt.Errorf("%w: %w", roomserrors.ErrMalformedSnapshot, err)
		}
		return nil, fmt.Errorf("%w: %w", roomserrors.ErrPersistence, err)
	}

	log.Info("Room store loaded", "count", store.Len())
	return &memoryRoomRepository{store: store, log: log}, nil
}

func (r *memoryRoomRepository) FindByID(_ context.Context, id string) (*model.Room, error) {
	room, ok := r.store.Get(id)
	if !ok {
		return nil, roomserrors.ErrNotFound
	}
	return room, nil
}

func (r *memoryRoomRepository) FindAll(_ context.Context) ([]*model.Room, error) {
	return r.store.List(nil), nil
}

// FindByLocation matches locations by LocationKey, so case and inner
// whitespace do not matter.
func (r *memoryRoomRepository) FindByLocation(_ context.Context, location string) ([]*model.Room, error) {
	key := sanitizer.LocationKey(location)
	return r.store.List(func(room *model.Room) bool {
		return sanitizer.LocationKey(room.Location) == key
	}), nil
}

func (r *memoryRoomRepository) Save(ctx context.Context, room *model.Room) (*model.Room, error) {
	saved, err := r.store.Put(ctx, room)
	return saved, r.translate(err)
}

func (r *memoryRoomRepository) Replace(ctx context.Context, room *model.Room) (*model.Room, error) {
	var saved *model.Room
	err := r.store.Update(ctx, func(tx *memstore.Tx[*model.Room, model.RoomDocument]) error {
		if _, ok := tx.Get(room.ID); !ok {
			return memstore.ErrNotFound
		}
		var err error
		saved, err = tx.Put(room)
		return err
	})
	return saved, r.translate(err)
}

func (r *memoryRoomRepository) DeleteByID(ctx context.Context, id string) error {
	return r.translate(r.store.Delete(ctx, id))
}

func (r *memoryRoomRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *memoryRoomRepository) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, memstore.ErrNotFound):
		return roomserrors.ErrNotFound
	case errors.Is(err, memstore.ErrFlush):
		r.log.Error("Failed to flush rooms", "error", err)
		return fmt.Errorf("%w: %w", roomserrors.ErrPersistence, err)
	default:
		return err
	}
}
