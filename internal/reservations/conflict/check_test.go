package conflict

import (
	"testing"

	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
)

var day = model.NewDate(2025, 11, 4)

func reservation(id, room string, d model.Date, start, end model.TimeOfDay, status model.ReservationStatus) *model.Reservation {
	return &model.Reservation{
		ID:        id,
		RoomID:    room,
		Day:       d,
		StartTime: start,
		EndTime:   end,
		Title:     "Sync",
		Status:    status,
	}
}

func TestCheck(t *testing.T) {
	existing := reservation("a", "R1", day, tod(9, 0), tod(10, 0), model.StatusActive)

	tests := []struct {
		name       string
		candidates []*model.Reservation
		room       string
		day        model.Date
		start, end model.TimeOfDay
		excludeID  string
		wantCount  int
	}{
		{
			name:       "overlapping active reservation",
			candidates: []*model.Reservation{existing},
			room:       "R1", day: day, start: tod(9, 30), end: tod(10, 30),
			wantCount: 1,
		},
		{
			name:       "adjacent slot",
			candidates: []*model.Reservation{existing},
			room:       "R1", day: day, start: tod(10, 0), end: tod(11, 0),
		},
		{
			name:       "cancelled reservation ignored",
			candidates: []*model.Reservation{reservation("b", "R1", day, tod(9, 0), tod(10, 0), model.StatusCancelled)},
			room:       "R1", day: day, start: tod(9, 0), end: tod(10, 0),
		},
		{
			name:       "self excluded",
			candidates: []*model.Reservation{existing},
			room:       "R1", day: day, start: tod(9, 15), end: tod(10, 15),
			excludeID: "a",
		},
		{
			name:       "other room",
			candidates: []*model.Reservation{existing},
			room:       "R2", day: day, start: tod(9, 0), end: tod(10, 0),
		},
		{
			name:       "other day",
			candidates: []*model.Reservation{existing},
			room:       "R1", day: model.NewDate(2025, 11, 5), start: tod(9, 0), end: tod(10, 0),
		},
		{
			name: "counts every overlap",
			candidates: []*model.Reservation{
				existing,
				reservation("b", "R1", day, tod(10, 0), tod(11, 0), model.StatusActive),
				reservation("c", "R1", day, tod(11, 0), tod(12, 0), model.StatusActive),
				nil,
			},
			room: "R1", day: day, start: tod(9, 30), end: tod(10, 30),
			wantCount: 2,
		},
		{
			name: "empty candidates",
			room: "R1", day: day, start: tod(9, 0), end: tod(10, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.candidates, tt.room, tt.day, tt.start, tt.end, tt.excludeID)

			if tt.wantCount == 0 {
				if err != nil {
					t.Fatalf("expected no conflict, got %v", err)
				}
				return
			}

			appErr := apperrors.AsAppError(err)
			if appErr == nil {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.Code != apperrors.CodeConflict {
				t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
			}
			if got := appErr.Details[apperrors.DetailConflictCount]; got != tt.wantCount {
				t.Errorf("expected conflict_count %d, got %v", tt.wantCount, got)
			}
			if len(appErr.Details) != 1 {
				t.Errorf("conflict details must only carry the count, got %v", appErr.Details)
			}
		})
	}
}

func TestCheck_DoesNotMutateCandidates(t *testing.T) {
	original := reservation("a", "R1", day, tod(9, 0), tod(10, 0), model.StatusActive)
	snapshot := *original

	_ = Check([]*model.Reservation{original}, "R1", day, tod(9, 0), tod(10, 0), "")

	if original.ID != snapshot.ID || original.Status != snapshot.Status || !original.SameSlot(&snapshot) {
		t.Errorf("candidate mutated: got %+v, want %+v", original, snapshot)
	}
}
