package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"roombook/internal/notifications"
	"roombook/internal/reservations/repository"
	"roombook/internal/reservations/validator"
	"roombook/pkg/config"
	"roombook/pkg/db"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPersister struct {
	mu      sync.Mutex
	doc     *model.ReservationDocument
	flushes int
	flushFn func(doc model.ReservationDocument) error
}

func (p *memoryPersister) Load(context.Context) (model.ReservationDocument, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.doc == nil {
		return model.ReservationDocument{}, db.ErrNoSnapshot
	}
	return *p.doc, nil
}

func (p *memoryPersister) Flush(_ context.Context, doc model.ReservationDocument) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.flushFn != nil {
		if err := p.flushFn(doc); err != nil {
			return err
		}
	}
	p.flushes++
	p.doc = &doc
	return nil
}

func (p *memoryPersister) Ping(context.Context) error { return nil }

type recordingSink struct {
	mu     sync.Mutex
	events []notifications.EventType
	err    error
}

func (s *recordingSink) record(t notifications.EventType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, t)
	return s.err
}

func (s *recordingSink) NotifyCreated(context.Context, *model.Reservation) error {
	return s.record(notifications.EventReservationCreated)
}

func (s *recordingSink) NotifyUpdated(context.Context, *model.Reservation) error {
	return s.record(notifications.EventReservationUpdated)
}

func (s *recordingSink) NotifyCancelled(context.Context, *model.Reservation) error {
	return s.record(notifications.EventReservationCancelled)
}

func (s *recordingSink) Events() []notifications.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notifications.EventType(nil), s.events...)
}

type fixture struct {
	svc       *reservationService
	persister *memoryPersister
	sink      *recordingSink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewNop()
	persister := &memoryPersister{}

	repo, err := repository.NewReservationRepository(context.Background(), persister, log)
	require.NoError(t, err)

	sink := &recordingSink{}
	cfg := &config.Config{Log: log}
	svc := NewReservationService(repo, validator.NewReservationValidator(log), sink, cfg).(*reservationService)
	return &fixture{svc: svc, persister: persister, sink: sink}
}

func request(room string, startH, startM, endH, endM int) *model.Reservation {
	return &model.Reservation{
		RoomID:           room,
		Day:              model.NewDate(2025, 11, 4),
		StartTime:        model.NewTimeOfDay(startH, startM, 0),
		EndTime:          model.NewTimeOfDay(endH, endM, 0),
		Title:            "Design review",
		OrganizerContact: "alice@example.com",
		Participants:     []string{"bob", "carol"},
	}
}

func TestCreate_AssignsIdentityAndTimestamps(t *testing.T) {
	f := newFixture(t)
	fixed := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }

	in := request("R1", 9, 0, 10, 0)
	in.ID = "caller-chosen"
	in.Status = model.StatusCancelled

	got, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.NotEqual(t, "caller-chosen", got.ID)
	assert.Equal(t, model.StatusActive, got.Status)
	assert.Equal(t, fixed, got.CreatedAt)
	assert.Equal(t, fixed, got.UpdatedAt)
	assert.Equal(t, model.CurrentSchemaVersion, got.SchemaVersion)
	assert.Equal(t, []notifications.EventType{notifications.EventReservationCreated}, f.sink.Events())

	stored, err := f.svc.GetByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, got.ID, stored.ID)
}

func TestCreate_OverlapInSameRoomConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, request("R1", 9, 0, 10, 0))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, request("R1", 9, 30, 10, 30))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.Equal(t, 1, apperrors.AsAppError(err).Details[apperrors.DetailConflictCount])

	all, err := f.svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Len(t, f.sink.Events(), 1, "no notification for the rejected request")
}

func TestCreate_NonOverlappingCases(t *testing.T) {
	tests := []struct {
		name string
		next *model.Reservation
	}{
		{"back to back", request("R1", 10, 0, 11, 0)},
		{"other room", request("R2", 9, 30, 10, 30)},
		{"other day", func() *model.Reservation {
			r := request("R1", 9, 30, 10, 30)
			r.Day = model.NewDate(2025, 11, 5)
			return r
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			_, err := f.svc.Create(ctx, request("R1", 9, 0, 10, 0))
			require.NoError(t, err)
			_, err = f.svc.Create(ctx, tt.next)
			assert.NoError(t, err)
		})
	}
}

func TestCreate_ValidationListsEveryField(t *testing.T) {
	f := newFixture(t)

	in := &model.Reservation{
		StartTime:    model.NewTimeOfDay(11, 0, 0),
		EndTime:      model.NewTimeOfDay(10, 0, 0),
		Title:        "   ",
		Participants: []string{" ", "dave"},
	}

	_, err := f.svc.Create(context.Background(), in)
	require.Error(t, err)
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	fields := apperrors.AsAppError(err).Details[apperrors.DetailFields].([]string)
	assert.ElementsMatch(t, []string{"room_id", "day", "end_time", "title", "organizer_contact"}, fields)
	assert.Equal(t, 1, f.persister.flushes, "only the startup snapshot may be written")
}

func TestCreate_NilReservation(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestCancelThenRebookSameSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, request("R1", 9, 0, 10, 0))
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	second, err := f.svc.Create(ctx, request("R1", 9, 0, 10, 0))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	assert.Equal(t, []notifications.EventType{
		notifications.EventReservationCreated,
		notifications.EventReservationCancelled,
		notifications.EventReservationCreated,
	}, f.sink.Events())
}

func TestCancel_TwiceIsAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, request("R1", 9, 0, 10, 0))
	require.NoError(t, err)

	first, err := f.svc.Cancel(ctx, r.ID)
	require.NoError(t, err)
	second, err := f.svc.Cancel(ctx, r.ID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusCancelled, second.Status)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestCancel_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Cancel(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	assert.Equal(t, "missing", apperrors.AsAppError(err).Details[apperrors.DetailID])
}

func TestUpdate_ExcludesItselfFromConflictCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, request("R1", 9, 0, 10, 0))
	require.NoError(t, err)

	// extend by 30 minutes over its own old slot
	got, err := f.svc.Update(ctx, r.ID, request("R1", 9, 0, 10, 30))
	require.NoError(t, err)
	assert.Equal(t, model.NewTimeOfDay(10, 30, 0), got.EndTime)
	assert.Equal(t, r.CreatedAt, got.CreatedAt)
	assert.Equal(t, r.ID, got.ID)
}

func TestUpdate_MovingOntoAnotherBookingConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, request("R1", 9, 0, 10, 0))
	require.NoError(t, err)
	other, err := f.svc.Create(ctx, request("R1", 11, 0, 12, 0))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, other.ID, request("R1", 9, 45, 11, 0))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	unchanged, err := f.svc.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NewTimeOfDay(11, 0, 0), unchanged.StartTime)
}

func TestUpdate_SameSlotSkipsConflictCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, request("R1", 9, 0, 10, 0))
	require.NoError(t, err)

	in := request("R1", 9, 0, 10, 0)
	in.Title = "Renamed"
	in.Participants = []string{"erin", "erin"}

	got, err := f.svc.Update(ctx, r.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, []string{"erin", "erin"}, got.Participants)
	assert.Equal(t, model.StatusActive, got.Status)
}

func TestUpdate_KeepsUpdatedAtMonotonic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	later := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return later }
	r, err := f.svc.Create(ctx, request("R1", 9, 0, 10, 0))
	require.NoError(t, err)

	f.svc.now = func() time.Time { return later.Add(-time.Hour) }
	got, err := f.svc.Update(ctx, r.ID, request("R1", 9, 0, 10, 0))
	require.NoError(t, err)

	assert.Equal(t, later, got.UpdatedAt)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestUpdate_NotFoundAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, "missing", request("R1", 9, 0, 10, 0))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	r, err := f.svc.Create(ctx, request("R1", 9, 0, 10, 0))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, r.ID, request("R1", 10, 0, 9, 0))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestSinkFailureDoesNotFailTheOperation(t *testing.T) {
	f := newFixture(t)
	f.sink.err = errors.New("smtp down")

	r, err := f.svc.Create(context.Background(), request("R1", 9, 0, 10, 0))
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
}

func TestPersistenceFailureIsReported(t *testing.T) {
	f := newFixture(t)
	f.persister.mu.Lock()
	f.persister.flushFn = func(model.ReservationDocument) error { return errors.New("disk full") }
	f.persister.mu.Unlock()

	_, err := f.svc.Create(context.Background(), request("R1", 9, 0, 10, 0))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodePersistence))
	assert.Empty(t, f.sink.Events())
}

func TestGetByID_EmptyID(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetByID(context.Background(), "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestConcurrentCreatesNeverDoubleBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 30
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, conflicts := 0, 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// every request overlaps 09:30-10:00
			_, err := f.svc.Create(ctx, request("R1", 9, i%30, 10, 0))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperrors.HasCode(err, apperrors.CodeConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)

	all, err := f.svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
