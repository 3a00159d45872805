package conflict

import (
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
)

// Check returns a CONFLICT error when any active candidate other than
// excludeID holds roomID on day with a time range overlapping [start, end).
// The error carries only the number of conflicts.
func Check(candidates []*model.Reservation, roomID string, day model.Date, start, end model.TimeOfDay, excludeID string) error {
	if n := Count(candidates, roomID, day, start, end, excludeID); n > 0 {
		return apperrors.ConflictCount(n)
	}
	return nil
}

func Count(candidates []*model.Reservation, roomID string, day model.Date, start, end model.TimeOfDay, excludeID string) int {
	count := 0
	for _, r := range candidates {
		if r == nil || !r.IsActive() {
			continue
		}
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if r.RoomID != roomID || !r.Day.Equal(day) {
			continue
		}
		if Overlaps(r.StartTime, r.EndTime, start, end) {
			count++
		}
	}
	return count
}
