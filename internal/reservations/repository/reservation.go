package repository

import (
	"context"
	"errors"
	"fmt"

	reservationserrors "roombook/internal/reservations/errors"
	"roombook/pkg/db"
	"roombook/pkg/db/memstore"
	"roombook/pkg/logger"
	"roombook/pkg/model"
)

// Tx is the view of the store available inside ExecuteTransaction. Reads and
// writes made through it are not interleaved with any other mutation.
type Tx interface {
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	FindByRoomAndDay(ctx context.Context, roomID string, day model.Date) ([]*model.Reservation, error)
	FindAll(ctx context.Context) ([]*model.Reservation, error)
	Save(ctx context.Context, reservation *model.Reservation) (*model.Reservation, error)
	DeleteByID(ctx context.Context, id string) error
}

type TransactionFunc func(tx Tx) error

type ReservationRepository interface {
	Tx
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
	Ping(ctx context.Context) error
}

type reservationStore = memstore.Store[*model.Reservation, model.ReservationDocument]
type reservationTx = memstore.Tx[*model.Reservation, model.ReservationDocument]

var codec = memstore.Codec[*model.Reservation, model.ReservationDocument]{
	ID: func(r *model.Reservation) string {
		if r == nil {
			return ""
		}
		return r.ID
	},
	SetID: func(r *model.Reservation, id string) { r.ID = id },
	Clone: (*model.Reservation).Clone,
	Encode: func(reservations []*model.Reservation) model.ReservationDocument {
		return model.ReservationDocument{
			SchemaVersion: model.CurrentSchemaVersion,
			Reservations:  reservations,
		}
	},
	Decode: func(doc model.ReservationDocument) []*model.Reservation {
		return doc.Reservations
	},
	Validate: validateStored,
}

func validateStored(r *model.Reservation) error {
	if r == nil {
		return errors.New("null reservation")
	}
	if !r.StartTime.Before(r.EndTime) {
		return fmt.Errorf("start_time %s is not before end_time %s", r.StartTime, r.EndTime)
	}
	return nil
}

type memoryReservationRepository struct {
	store *reservationStore
	log   *logger.Logger
}

// NewReservationRepository loads the reservation snapshot from persister.
func NewReservationRepository(ctx context.Context, persister db.Persister[model.ReservationDocument], log *logger.Logger) (ReservationRepository, error) {
	store, err := memstore.New(ctx, persister, codec)
	if err != nil {
		if errors.Is(err, db.ErrMalformedSnapshot) {
			return nil, fmt.Errorf("%w: %w", reservationserrors.ErrMalformedSnapshot, err)
		}
		return nil, fmt.Errorf("%w: %w", reservationserrors.ErrPersistence, err)
	}

	log.Info("Reservation store loaded", "count", store.Len())
	return &memoryReservationRepository{store: store, log: log}, nil
}

func (r *memoryReservationRepository) FindByID(_ context.Context, id string) (*model.Reservation, error) {
	reservation, ok := r.store.Get(id)
	if !ok {
		return nil, reservationserrors.ErrNotFound
	}
	return reservation, nil
}

func (r *memoryReservationRepository) FindByRoomAndDay(_ context.Context, roomID string, day model.Date) ([]*model.Reservation, error) {
	return r.store.List(roomAndDay(roomID, day)), nil
}

func (r *memoryReservationRepository) FindAll(_ context.Context) ([]*model.Reservation, error) {
	return r.store.List(nil), nil
}

func (r *memoryReservationRepository) Save(ctx context.Context, reservation *model.Reservation) (*model.Reservation, error) {
	saved, err := r.store.Put(ctx, reservation)
	return saved, r.translate(err)
}

func (r *memoryReservationRepository) DeleteByID(ctx context.Context, id string) error {
	return r.translate(r.store.Delete(ctx, id))
}

func (r *memoryReservationRepository) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	return r.store.Update(ctx, func(tx *reservationTx) error {
		return fn(&txView{tx: tx, repo: r})
	})
}

func (r *memoryReservationRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *memoryReservationRepository) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, memstore.ErrNotFound):
		return reservationserrors.ErrNotFound
	case errors.Is(err, memstore.ErrFlush):
		r.log.Error("Failed to flush reservations", "error", err)
		return fmt.Errorf("%w: %w", reservationserrors.ErrPersistence, err)
	default:
		return err
	}
}

type txView struct {
	tx   *reservationTx
	repo *memoryReservationRepository
}

func (v *txView) FindByID(_ context.Context, id string) (*model.Reservation, error) {
	reservation, ok := v.tx.Get(id)
	if !ok {
		return nil, reservationserrors.ErrNotFound
	}
	return reservation, nil
}

func (v *txView) FindByRoomAndDay(_ context.Context, roomID string, day model.Date) ([]*model.Reservation, error) {
	return v.tx.List(roomAndDay(roomID, day)), nil
}

func (v *txView) FindAll(_ context.Context) ([]*model.Reservation, error) {
	return v.tx.List(nil), nil
}

func (v *txView) Save(_ context.Context, reservation *model.Reservation) (*model.Reservation, error) {
	saved, err := v.tx.Put(reservation)
	return saved, v.repo.translate(err)
}

func (v *txView) DeleteByID(_ context.Context, id string) error {
	return v.repo.translate(v.tx.Delete(id))
}

func roomAndDay(roomID string, day model.Date) func(*model.Reservation) bool {
	return func(r *model.Reservation) bool {
		return r.RoomID == roomID && r.Day.Equal(day)
	}
}
