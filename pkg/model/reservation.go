package model

import (
	"slices"
	"time"
)

// CurrentSchemaVersion tags reservations and snapshot documents written by this build.
const CurrentSchemaVersion = "1"

type ReservationStatus string

const (
	StatusActive    ReservationStatus = "ACTIVE"
	StatusCancelled ReservationStatus = "CANCELLED"
)

type Reservation struct {
	ID               string            `json:"id,omitempty" bson:"id"`
	RoomID           string            `json:"room_id" bson:"room_id" validate:"required"`
	Day              Date              `json:"day" bson:"day" validate:"required"`
	StartTime        TimeOfDay         `json:"start_time" bson:"start_time" validate:"required"`
	EndTime          TimeOfDay         `json:"end_time" bson:"end_time" validate:"required"`
	Title            string            `json:"title" bson:"title" validate:"required,max=200"`
	OrganizerContact string            `json:"organizer_contact" bson:"organizer_contact" validate:"required,max=254"`
	Participants     []string          `json:"participants" bson:"participants" validate:"omitempty,dive,required"`
	Status           ReservationStatus `json:"status,omitempty" bson:"status"`
	CreatedAt        time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" bson:"updated_at"`
	SchemaVersion    string            `json:"schema_version,omitempty" bson:"schema_version"`
}

func (r *Reservation) IsActive() bool {
	return r.Status == StatusActive
}

// Clone returns a deep copy so callers never share the participants slice.
func (r *Reservation) Clone() *Reservation {
	if r == nil {
		return nil
	}
	c := *r
	if r.Participants != nil {
		c.Participants = slices.Clone(r.Participants)
	}
	return &c
}

// SameSlot reports whether both reservations claim the same room, day and time range.
func (r *Reservation) SameSlot(other *Reservation) bool {
	return r.RoomID == other.RoomID &&
		r.Day.Equal(other.Day) &&
		r.StartTime.Equal(other.StartTime) &&
		r.EndTime.Equal(other.EndTime)
}

// ReservationDocument is the versioned snapshot persisted by the reservation store.
type ReservationDocument struct {
	SchemaVersion string         `json:"schema_version" bson:"schema_version"`
	Reservations  []*Reservation `json:"reservations" bson:"reservations"`
}
