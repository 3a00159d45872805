package notifications

import (
	"context"

	"roombook/pkg/logger"
	"roombook/pkg/model"
)

// LogSink stands in for e-mail delivery: each notification is rendered as a
// structured log line addressed to the organizer.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log.Component("mailer")}
}

func (s *LogSink) NotifyCreated(_ context.Context, r *model.Reservation) error {
	if r == nil {
		return ErrMissingReservation
	}
	s.log.Info("Sending reservation confirmation",
		"to", r.OrganizerContact,
		"reservation_id", r.ID,
		"title", r.Title,
		"room_id", r.RoomID,
		"day", r.Day.String(),
		"start_time", r.StartTime.String(),
		"end_time", r.EndTime.String(),
		"participants", len(r.Participants),
	)
	return nil
}

func (s *LogSink) NotifyUpdated(_ context.Context, r *model.Reservation) error {
	if r == nil {
		return ErrMissingReservation
	}
	s.log.Info("Sending reservation update",
		"to", r.OrganizerContact,
		"reservation_id", r.ID,
		"room_id", r.RoomID,
		"day", r.Day.String(),
		"start_time", r.StartTime.String(),
		"end_time", r.EndTime.String(),
	)
	return nil
}

func (s *LogSink) NotifyCancelled(_ context.Context, r *model.Reservation) error {
	if r == nil {
		return ErrMissingReservation
	}
	s.log.Info("Sending reservation cancellation",
		"to", r.OrganizerContact,
		"reservation_id", r.ID,
	)
	return nil
}
