package notifications

import "errors"

var (
	ErrUnknownEvent = errors.New("unknown notification event")

	ErrMissingReservation = errors.New("notification has no reservation")

	ErrSinkClosed = errors.New("notification sink is closed")
)
