package notifications

import (
	"context"
	"time"

	"roombook/pkg/model"
)

// Sink is told about every successful reservation change. Callers log and
// swallow its errors.
type Sink interface {
	NotifyCreated(ctx context.Context, reservation *model.Reservation) error
	NotifyUpdated(ctx context.Context, reservation *model.Reservation) error
	NotifyCancelled(ctx context.Context, reservation *model.Reservation) error
}

type EventType string

const (
	EventReservationCreated   EventType = "reservation.created"
	EventReservationUpdated   EventType = "reservation.updated"
	EventReservationCancelled EventType = "reservation.cancelled"
)

// Event is the payload published for each reservation change.
type Event struct {
	Type        EventType          `json:"type"`
	Reservation *model.Reservation `json:"reservation"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// Dispatch routes an event to the matching Sink method.
func Dispatch(ctx context.Context, sink Sink, event Event) error {
	switch event.Type {
	case EventReservationCreated:
		return sink.NotifyCreated(ctx, event.Reservation)
	case EventReservationUpdated:
		return sink.NotifyUpdated(ctx, event.Reservation)
	case EventReservationCancelled:
		return sink.NotifyCancelled(ctx, event.Reservation)
	default:
		return ErrUnknownEvent
	}
}
