package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roombook/pkg/kafka"
	"roombook/pkg/model"
)

// Publisher is the part of *kafka.Producer the sink needs.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaSink publishes one event per notification, keyed by reservation ID so
// events for a reservation keep their order.
type KafkaSink struct {
	publisher Publisher
	source    string
}

func NewKafkaSink(publisher Publisher, source string) *KafkaSink {
	return &KafkaSink{publisher: publisher, source: source}
}

func (s *KafkaSink) NotifyCreated(ctx context.Context, r *model.Reservation) error {
	return s.publish(ctx, EventReservationCreated, r)
}

func (s *KafkaSink) NotifyUpdated(ctx context.Context, r *model.Reservation) error {
	return s.publish(ctx, EventReservationUpdated, r)
}

func (s *KafkaSink) NotifyCancelled(ctx context.Context, r *model.Reservation) error {
	return s.publish(ctx, EventReservationCancelled, r)
}

func (s *KafkaSink) publish(ctx context.Context, eventType EventType, r *model.Reservation) error {
	if r == nil {
		return ErrMissingReservation
	}

	event := Event{
		Type:        eventType,
		Reservation: r,
		OccurredAt:  time.Now().UTC().Truncate(time.Millisecond),
	}

	msg, err := kafka.NewEvent(r.ID, string(eventType), event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}
	msg.SetHeader(kafka.HeaderSchemaVersion, model.CurrentSchemaVersion)
	if s.source != "" {
		msg.SetHeader(kafka.HeaderSource, s.source)
	}

	if err := s.publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

// EventHandler decodes reservation events and hands them to sink. Payloads
// that cannot be decoded are permanent failures and go to the DLQ.
func EventHandler(sink Sink) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event Event
		if err := msg.DecodeValue(&event); err != nil {
			return kafka.NewPermanentError("failed to decode reservation event", err)
		}
		if event.Type == "" {
			event.Type = EventType(msg.GetEventType())
		}
		if event.Reservation == nil {
			return kafka.NewPermanentError("reservation event has no reservation", ErrMissingReservation)
		}

		if err := Dispatch(ctx, sink, event); err != nil {
			if errors.Is(err, ErrUnknownEvent) {
				return kafka.NewPermanentError(fmt.Sprintf("event type %q", event.Type), err)
			}
			return err
		}
		return nil
	}
}
