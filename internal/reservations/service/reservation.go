package service

import (
	"context"
	"errors"
	"time"

	"roombook/internal/notifications"
	"roombook/internal/reservations/conflict"
	reservationserrors "roombook/internal/reservations/errors"
	"roombook/internal/reservations/repository"
	"roombook/internal/reservations/validator"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
)

type ReservationService interface {
	Create(ctx context.Context, r *model.Reservation) (*model.Reservation, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetAll(ctx context.Context) ([]*model.Reservation, error)
	Update(ctx context.Context, id string, r *model.Reservation) (*model.Reservation, error)
	Cancel(ctx context.Context, id string) (*model.Reservation, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	validator *validator.ReservationValidator
	sink      notifications.Sink
	cfg       *config.Config
	now       func() time.Time
}

func NewReservationService(
	repo repository.ReservationRepository,
	validator *validator.ReservationValidator,
	sink notifications.Sink,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		validator: validator,
		sink:      sink,
		cfg:       cfg,
		now:       defaultClock,
	}
}

func defaultClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (s *reservationService) Create(ctx context.Context, r *model.Reservation) (*model.Reservation, error) {
	if r == nil {
		return nil, apperrors.InvalidInput("Reservation cannot be empty")
	}
	s.sanitize(r)

	if err := s.validate(r); err != nil {
		return nil, err
	}

	var saved *model.Reservation
	err := s.repo.ExecuteTransaction(ctx, func(tx repository.Tx) error {
		existing, err := tx.FindByRoomAndDay(ctx, r.RoomID, r.Day)
		if err != nil {
			return err
		}
		if err := conflict.Check(existing, r.RoomID, r.Day, r.StartTime, r.EndTime, ""); err != nil {
			return err
		}

		now := s.now()
		r.ID = ""
		r.Status = model.StatusActive
		r.CreatedAt = now
		r.UpdatedAt = now
		r.SchemaVersion = model.CurrentSchemaVersion

		saved, err = tx.Save(ctx, r)
		return err
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to create reservation",
			"room_id", r.RoomID,
			"day", r.Day.String(),
			"start_time", r.StartTime.String(),
			"end_time", r.EndTime.String(),
			"error", err,
		)
		return nil, s.mapError(err, "")
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", saved.ID,
		"room_id", saved.RoomID,
		"day", saved.Day.String(),
		"start_time", saved.StartTime.String(),
		"end_time", saved.EndTime.String(),
	)
	s.notify(ctx, notifications.EventReservationCreated, saved)
	return saved, nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err, id)
	}
	return r, nil
}

func (s *reservationService) GetAll(ctx context.Context) ([]*model.Reservation, error) {
	reservations, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservations", "error", err)
		return nil, s.mapError(err, "")
	}
	return reservations, nil
}

// Update overwrites the caller-editable fields of the reservation with id.
// The conflict check only runs when the room or the time slot moves.
func (s *reservationService) Update(ctx context.Context, id string, r *model.Reservation) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	if r == nil {
		return nil, apperrors.InvalidInput("Reservation cannot be empty")
	}
	s.sanitize(r)

	var saved *model.Reservation
	err := s.repo.ExecuteTransaction(ctx, func(tx repository.Tx) error {
		current, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if err := s.validate(r); err != nil {
			return err
		}

		if current.IsActive() && !current.SameSlot(r) {
			existing, err := tx.FindByRoomAndDay(ctx, r.RoomID, r.Day)
			if err != nil {
				return err
			}
			if err := conflict.Check(existing, r.RoomID, r.Day, r.StartTime, r.EndTime, id); err != nil {
				return err
			}
		}

		current.RoomID = r.RoomID
		current.Day = r.Day
		current.StartTime = r.StartTime
		current.EndTime = r.EndTime
		current.Title = r.Title
		current.OrganizerContact = r.OrganizerContact
		current.Participants = r.Participants
		current.UpdatedAt = s.bump(current.UpdatedAt)

		saved, err = tx.Save(ctx, current)
		return err
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to update reservation",
			"id", id,
			"room_id", r.RoomID,
			"day", r.Day.String(),
			"error", err,
		)
		return nil, s.mapError(err, id)
	}

	s.cfg.Log.Info("Reservation updated successfully",
		"id", saved.ID,
		"room_id", saved.RoomID,
		"day", saved.Day.String(),
	)
	s.notify(ctx, notifications.EventReservationUpdated, saved)
	return saved, nil
}

// Cancel flips the reservation to CANCELLED. Cancelling twice is accepted
// and refreshes UpdatedAt again.
func (s *reservationService) Cancel(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	var saved *model.Reservation
	err := s.repo.ExecuteTransaction(ctx, func(tx repository.Tx) error {
		current, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		current.Status = model.StatusCancelled
		current.UpdatedAt = s.bump(current.UpdatedAt)

		saved, err = tx.Save(ctx, current)
		return err
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to cancel reservation", "id", id, "error", err)
		return nil, s.mapError(err, id)
	}

	s.cfg.Log.Info("Reservation cancelled successfully",
		"id", saved.ID,
		"room_id", saved.RoomID,
		"day", saved.Day.String(),
	)
	s.notify(ctx, notifications.EventReservationCancelled, saved)
	return saved, nil
}

func (s *reservationService) sanitize(r *model.Reservation) {
	r.RoomID = sanitizer.TrimAndNormalize(r.RoomID)
	r.Title = sanitizer.NormalizeTitle(r.Title)
	r.OrganizerContact = sanitizer.NormalizeContact(r.OrganizerContact)
	r.Participants = sanitizer.NormalizeParticipants(r.Participants)
}

func (s *reservationService) validate(r *model.Reservation) error {
	err := s.validator.Validate(r)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		s.cfg.Log.Warn("Reservation validation failed",
			"room_id", r.RoomID,
			"fields", validationErrs.Fields(),
		)
		return apperrors.ValidationFields("Reservation validation failed", validationErrs.Fields(), validationErrs.Messages())
	}
	return apperrors.Internal("Failed to validate reservation", err)
}

// bump keeps UpdatedAt non-decreasing even if the clock steps backwards.
func (s *reservationService) bump(previous time.Time) time.Time {
	now := s.now()
	if now.Before(previous) {
		return previous
	}
	return now
}

func (s *reservationService) notify(ctx context.Context, eventType notifications.EventType, r *model.Reservation) {
	if s.sink == nil {
		return
	}

	err := notifications.Dispatch(ctx, s.sink, notifications.Event{
		Type:        eventType,
		Reservation: r,
		OccurredAt:  r.UpdatedAt,
	})
	if err != nil {
		s.cfg.Log.Error("Failed to send reservation notification",
			"id", r.ID,
			"event", string(eventType),
			"error", err,
		)
	}
}

func (s *reservationService) mapError(err error, id string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	switch {
	case errors.Is(err, reservationserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Reservation", id)
	case errors.Is(err, reservationserrors.ErrPersistence):
		return apperrors.Persistence("Failed to persist reservations", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout("Reservation request timed out")
	default:
		return apperrors.Internal("Unexpected reservation failure", err)
	}
}
