package service

import (
	"roomly/pkg/config"
	"roomly/pkg/model"
)

// DisplayStatus projects a room's stored status into what a client should
// render at the given moment. Outside business hours every room shows
// night_rest, whatever its stored status; during the day the normalized
// stored status comes through. The stored status is never modified, so the
// projection costs nothing to change.
func DisplayStatus(room *model.Room, asOf model.WallClock, cfg *config.Config) model.RoomStatus {
	hour := asOf.Hour()
	if hour < cfg.BusinessHoursStart || hour >= cfg.BusinessHoursEnd {
		return model.RoomNightRest
	}

	return model.NormalizeRoomStatus(string(room.Status))
}

// RedactBookings blanks content fields on every booking, for guest viewers.
func RedactBookings(bookings []*model.Booking) {
	for _, b := range bookings {
		b.Redact()
	}
}
