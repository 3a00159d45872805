package notifications

import (
	"context"
	"sync"
	"time"

	"roombook/pkg/logger"
	"roombook/pkg/model"
)

// AsyncSink hands every notification to next on its own goroutine, bounded
// by timeout, so callers never wait on delivery. Close waits for in-flight
// deliveries.
type AsyncSink struct {
	next    Sink
	timeout time.Duration
	log     *logger.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewAsyncSink(next Sink, timeout time.Duration, log *logger.Logger) *AsyncSink {
	return &AsyncSink{
		next:    next,
		timeout: timeout,
		log:     log.Component("notifications"),
	}
}

func (s *AsyncSink) NotifyCreated(ctx context.Context, r *model.Reservation) error {
	return s.dispatch(ctx, EventReservationCreated, r)
}

func (s *AsyncSink) NotifyUpdated(ctx context.Context, r *model.Reservation) error {
	return s.dispatch(ctx, EventReservationUpdated, r)
}

func (s *AsyncSink) NotifyCancelled(ctx context.Context, r *model.Reservation) error {
	return s.dispatch(ctx, EventReservationCancelled, r)
}

func (s *AsyncSink) dispatch(ctx context.Context, eventType EventType, r *model.Reservation) error {
	if r == nil {
		return ErrMissingReservation
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSinkClosed
	}

	event := Event{Type: eventType, Reservation: r.Clone()}
	// Delivery outlives the request, so only values are carried over.
	base := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		deliverCtx, cancel := base, context.CancelFunc(func() {})
		if s.timeout > 0 {
			deliverCtx, cancel = context.WithTimeout(base, s.timeout)
		}
		defer cancel()

		if err := Dispatch(deliverCtx, s.next, event); err != nil {
			s.log.Error("Failed to deliver notification",
				"event_type", event.Type,
				"reservation_id", event.Reservation.ID,
				"error", err,
			)
		}
	}()
	return nil
}

// Close stops accepting notifications and waits for pending ones until ctx
// is done.
func (s *AsyncSink) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
