package conflict

import "roombook/pkg/model"

// Overlaps reports whether [startA, endA) and [startB, endB) intersect.
// Ranges that only touch at an endpoint do not overlap, and any unset bound
// yields false.
func Overlaps(startA, endA, startB, endB model.TimeOfDay) bool {
	if startA.IsZero() || endA.IsZero() || startB.IsZero() || endB.IsZero() {
		return false
	}
	return startA.Before(endB) && endA.After(startB)
}
