package model

import "maps"

type Room struct {
	ID       string            `json:"id,omitempty" bson:"id"`
	Name     string            `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Location string            `json:"location" bson:"location" validate:"required,max=100"`
	Floor    string            `json:"floor" bson:"floor" validate:"max=20"`
	Capacity int               `json:"capacity" bson:"capacity" validate:"min=0,max=10000"`
	Metadata map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	c := *r
	if r.Metadata != nil {
		c.Metadata = maps.Clone(r.Metadata)
	}
	return &c
}

type RoomDocument struct {
	SchemaVersion string  `json:"schema_version" bson:"schema_version"`
	Rooms         []*Room `json:"rooms" bson:"rooms"`
}

// RoomStatus lists every reservation a room holds on a single day.
type RoomStatus struct {
	RoomID       string         `json:"room_id"`
	RoomName     string         `json:"room_name"`
	Floor        string         `json:"floor"`
	Reservations []*Reservation `json:"reservations"`
}

type RoomStatusBoard struct {
	Day      Date         `json:"day"`
	Location string       `json:"location,omitempty"`
	Rooms    []RoomStatus `json:"rooms"`
}
