package service

import (
	"context"
	"errors"

	roomserrors "roombook/internal/rooms/errors"
	"roombook/internal/rooms/repository"
	"roombook/internal/rooms/validator"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
)

// ReservationReader is the slice of the reservation store the status board needs.
type ReservationReader interface {
	FindByRoomAndDay(ctx context.Context, roomID string, day model.Date) ([]*model.Reservation, error)
}

type RoomService interface {
	Create(ctx context.Context, room *model.Room) (*model.Room, error)
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context) ([]*model.Room, error)
	GetByLocation(ctx context.Context, location string) ([]*model.Room, error)
	Update(ctx context.Context, id string, room *model.Room) (*model.Room, error)
	Delete(ctx context.Context, id string) error
	Status(ctx context.Context, location string, day model.Date) (*model.RoomStatusBoard, error)
}

type roomService struct {
	repo         repository.RoomRepository
	reservations ReservationReader
	validator    *validator.RoomValidator
	cfg          *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	reservations ReservationReader,
	validator *validator.RoomValidator,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:         repo,
		reservations: reservations,
		validator:    validator,
		cfg:          cfg,
	}
}

func (s *roomService) Create(ctx context.Context, room *model.Room) (*model.Room, error) {
	if room == nil {
		return nil, apperrors.InvalidInput("Room cannot be empty")
	}
	s.sanitize(room)
	if err := s.validate(room); err != nil {
		return nil, err
	}

	room.ID = ""
	created, err := s.repo.Save(ctx, room)
	if err != nil {
		s.cfg.Log.Error("Failed to create room", "name", room.Name, "location", room.Location, "error", err)
		return nil, s.mapError(err, "")
	}

	s.cfg.Log.Info("Room created successfully",
		"id", created.ID,
		"name", created.Name,
		"location", created.Location,
	)
	return created, nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err, id)
	}
	return room, nil
}

func (s *roomService) GetAll(ctx context.Context) ([]*model.Room, error) {
	rooms, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.mapError(err, "")
	}
	return rooms, nil
}

func (s *roomService) GetByLocation(ctx context.Context, location string) ([]*model.Room, error) {
	if sanitizer.LocationKey(location) == "" {
		return s.GetAll(ctx)
	}

	rooms, err := s.repo.FindByLocation(ctx, location)
	if err != nil {
		return nil, s.mapError(err, "")
	}
	return rooms, nil
}

func (s *roomService) Update(ctx context.Context, id string, room *model.Room) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}
	if room == nil {
		return nil, apperrors.InvalidInput("Room cannot be empty")
	}
	s.sanitize(room)
	if err := s.validate(room); err != nil {
		return nil, err
	}

	room.ID = id
	updated, err := s.repo.Replace(ctx, room)
	if err != nil {
		if !errors.Is(err, roomserrors.ErrNotFound) {
			s.cfg.Log.Error("Failed to update room", "id", id, "error", err)
		}
		return nil, s.mapError(err, id)
	}

	s.cfg.Log.Info("Room updated successfully", "id", id, "name", updated.Name)
	return updated, nil
}

// Delete removes the room only. Reservations that reference it are kept
// so their history stays readable.
func (s *roomService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if !errors.Is(err, roomserrors.ErrNotFound) {
			s.cfg.Log.Error("Failed to delete room", "id", id, "error", err)
		}
		return s.mapError(err, id)
	}

	s.cfg.Log.Info("Room deleted successfully", "id", id)
	return nil
}

// Status lists, for each room at location (all rooms when location is
// blank), every reservation it holds on day, cancelled ones included.
func (s *roomService) Status(ctx context.Context, location string, day model.Date) (*model.RoomStatusBoard, error) {
	if day.IsZero() {
		return nil, apperrors.ValidationFields("Room status query is invalid", []string{"date"}, []string{"date is required"})
	}

	rooms, err := s.GetByLocation(ctx, location)
	if err != nil {
		return nil, err
	}

	board := &model.RoomStatusBoard{
		Day:      day,
		Location: sanitizer.NormalizeLocation(location),
		Rooms:    make([]model.RoomStatus, 0, len(rooms)),
	}
	for _, room := range rooms {
		reservations, err := s.reservations.FindByRoomAndDay(ctx, room.ID, day)
		if err != nil {
			s.cfg.Log.Error("Failed to load reservations for room status", "room_id", room.ID, "error", err)
			return nil, apperrors.Internal("Failed to load room status", err)
		}
		if reservations == nil {
			reservations = []*model.Reservation{}
		}
		board.Rooms = append(board.Rooms, model.RoomStatus{
			RoomID:       room.ID,
			RoomName:     room.Name,
			Floor:        room.Floor,
			Reservations: reservations,
		})
	}
	return board, nil
}

func (s *roomService) sanitize(room *model.Room) {
	room.Name = sanitizer.TrimAndNormalize(room.Name)
	room.Location = sanitizer.NormalizeLocation(room.Location)
	room.Floor = sanitizer.TrimAndNormalize(room.Floor)
	room.Metadata = sanitizer.NormalizeMetadata(room.Metadata)
}

func (s *roomService) validate(room *model.Room) error {
	err := s.validator.Validate(room)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		s.cfg.Log.Warn("Room validation failed", "name", room.Name, "fields", validationErrs.Fields())
		return apperrors.ValidationFields("Room validation failed", validationErrs.Fields(), validationErrs.Messages())
	}
	return apperrors.Internal("Failed to validate room", err)
}

func (s *roomService) mapError(err error, id string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	switch {
	case errors.Is(err, roomserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Room", id)
	case errors.Is(err, roomserrors.ErrPersistence):
		return apperrors.Persistence("Failed to persist rooms", err)
	default:
		return apperrors.Internal("Unexpected room failure", err)
	}
}
