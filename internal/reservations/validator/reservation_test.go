package validator

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"roombook/pkg/logger"
	"roombook/pkg/model"
)

func validReservation() *model.Reservation {
	return &model.Reservation{
		RoomID:           "R1",
		Day:              model.NewDate(2025, 11, 4),
		StartTime:        model.NewTimeOfDay(9, 0, 0),
		EndTime:          model.NewTimeOfDay(10, 0, 0),
		Title:            "Planning",
		OrganizerContact: "alice@example.com",
		Participants:     []string{"bob", "bob"},
	}
}

func TestReservationValidator_Validate(t *testing.T) {
	v := NewReservationValidator(logger.NewNop())

	tests := []struct {
		name       string
		mutate     func(r *model.Reservation)
		wantFields []string
	}{
		{
			name:   "valid reservation",
			mutate: func(r *model.Reservation) {},
		},
		{
			name:   "no participants",
			mutate: func(r *model.Reservation) { r.Participants = nil },
		},
		{
			name:   "midnight start",
			mutate: func(r *model.Reservation) { r.StartTime = model.NewTimeOfDay(0, 0, 0) },
		},
		{
			name:       "missing room",
			mutate:     func(r *model.Reservation) { r.RoomID = "" },
			wantFields: []string{"room_id"},
		},
		{
			name:       "missing day",
			mutate:     func(r *model.Reservation) { r.Day = model.Date{} },
			wantFields: []string{"day"},
		},
		{
			name:       "missing start and end",
			mutate:     func(r *model.Reservation) { r.StartTime, r.EndTime = model.TimeOfDay{}, model.TimeOfDay{} },
			wantFields: []string{"start_time", "end_time"},
		},
		{
			name:       "start equals end",
			mutate:     func(r *model.Reservation) { r.EndTime = r.StartTime },
			wantFields: []string{"end_time"},
		},
		{
			name:       "start after end",
			mutate:     func(r *model.Reservation) { r.StartTime = model.NewTimeOfDay(11, 0, 0) },
			wantFields: []string{"end_time"},
		},
		{
			name:       "missing title and contact",
			mutate:     func(r *model.Reservation) { r.Title, r.OrganizerContact = "", "" },
			wantFields: []string{"title", "organizer_contact"},
		},
		{
			name:       "title too long",
			mutate:     func(r *model.Reservation) { r.Title = strings.Repeat("x", 201) },
			wantFields: []string{"title"},
		},
		{
			name:       "blank participant",
			mutate:     func(r *model.Reservation) { r.Participants = []string{"bob", ""} },
			wantFields: []string{"participants"},
		},
		{
			name: "everything wrong at once",
			mutate: func(r *model.Reservation) {
				*r = model.Reservation{}
			},
			wantFields: []string{"room_id", "day", "start_time", "end_time", "title", "organizer_contact"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReservation()
			tt.mutate(r)

			err := v.Validate(r)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
			}
			got := verrs.Fields()
			for _, field := range tt.wantFields {
				if !slices.Contains(got, field) {
					t.Errorf("expected field %q in %v", field, got)
				}
			}
			if len(got) != len(tt.wantFields) {
				t.Errorf("expected fields %v, got %v", tt.wantFields, got)
			}
			if len(verrs.Messages()) < len(got) {
				t.Errorf("expected a message per field, got %v", verrs.Messages())
			}
		})
	}
}

func TestReservationValidator_Nil(t *testing.T) {
	v := NewReservationValidator(logger.NewNop())
	if err := v.Validate(nil); err == nil {
		t.Fatal("expected error for nil reservation")
	}
}

func TestValidationErrors_FieldsDeduplicated(t *testing.T) {
	errs := ValidationErrors{
		{Field: "participants", Message: "a"},
		{Field: "title", Message: "b"},
		{Field: "participants", Message: "c"},
	}
	got := errs.Fields()
	want := []string{"participants", "title"}
	if !slices.Equal(got, want) {
		t.Errorf("Fields() = %v, want %v", got, want)
	}
	if len(errs.Messages()) != 3 {
		t.Errorf("Messages() should keep every message, got %v", errs.Messages())
	}
}
