package model

import "time"

type RoomStatus string

const (
	RoomActive      RoomStatus = "active"
	RoomMaintenance RoomStatus = "maintenance"
	RoomInactive    RoomStatus = "inactive"

	// RoomNightRest is a display-only status substituted outside business
	// hours. It is never persisted.
	RoomNightRest RoomStatus = "night_rest"
)

// NormalizeRoomStatus maps arbitrary input onto the stored enumeration.
// Unrecognized values normalize to active rather than propagating silently.
func NormalizeRoomStatus(s string) RoomStatus {
	switch RoomStatus(s) {
	case RoomMaintenance, RoomInactive:
		return RoomStatus(s)
	default:
		return RoomActive
	}
}

// AcceptsBookings is the room-availability gate: rooms under maintenance or
// deactivated cannot take new bookings regardless of time.
func (s RoomStatus) AcceptsBookings() bool {
	return s != RoomMaintenance && s != RoomInactive
}

type Room struct {
	ID        string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string     `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Capacity  int        `json:"capacity" bson:"capacity" validate:"required,min=1,max=1000"`
	Status    RoomStatus `json:"status" bson:"status" validate:"required,oneof=active maintenance inactive"`
	Location  string     `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
	Amenities []string   `json:"amenities,omitempty" bson:"amenities,omitempty" validate:"omitempty,max=50,dive,min=1,max=50"`
	Icon      string     `json:"icon,omitempty" bson:"icon,omitempty" validate:"omitempty,max=50"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type RoomUpdate struct {
	Name      string    `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Capacity  *int      `json:"capacity,omitempty" validate:"omitempty,min=1,max=1000"`
	Status    string    `json:"status,omitempty" validate:"omitempty"`
	Location  *string   `json:"location,omitempty" validate:"omitempty,max=200"`
	Amenities *[]string `json:"amenities,omitempty" validate:"omitempty,max=50,dive,min=1,max=50"`
	Icon      *string   `json:"icon,omitempty" validate:"omitempty,max=50"`
}
