package service

import (
	"testing"

	"roomly/pkg/config"
	"roomly/pkg/model"
)

func TestDisplayStatus(t *testing.T) {
	cfg := &config.Config{
		BusinessHoursStart: 8,
		BusinessHoursEnd:   20,
	}

	cases := []struct {
		name   string
		status model.RoomStatus
		asOf   model.WallClock
		want   model.RoomStatus
	}{
		{"active during business hours", model.RoomActive, "2026-09-01 10:00:00", model.RoomActive},
		{"active at opening boundary", model.RoomActive, "2026-09-01 08:00:00", model.RoomActive},
		{"active at closing boundary", model.RoomActive, "2026-09-01 20:00:00", model.RoomNightRest},
		{"active before opening", model.RoomActive, "2026-09-01 07:59:59", model.RoomNightRest},
		{"active late at night", model.RoomActive, "2026-09-01 23:30:00", model.RoomNightRest},
		{"maintenance shows night_rest at night", model.RoomMaintenance, "2026-09-01 23:30:00", model.RoomNightRest},
		{"inactive shows night_rest at night", model.RoomInactive, "2026-09-01 03:00:00", model.RoomNightRest},
		{"maintenance shows night_rest at dawn", model.RoomMaintenance, "2026-09-01 06:00:00", model.RoomNightRest},
		{"maintenance during the day", model.RoomMaintenance, "2026-09-01 12:00:00", model.RoomMaintenance},
		{"unknown status normalizes to active", model.RoomStatus("weird"), "2026-09-01 12:00:00", model.RoomActive},
		{"unknown status at night", model.RoomStatus("weird"), "2026-09-01 02:00:00", model.RoomNightRest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			room := &model.Room{Status: tc.status}
			if got := DisplayStatus(room, tc.asOf, cfg); got != tc.want {
				t.Errorf("DisplayStatus(%s at %s) = %s, want %s", tc.status, tc.asOf, got, tc.want)
			}
		})
	}
}

func TestDisplayStatus_CustomBusinessHours(t *testing.T) {
	cfg := &config.Config{
		BusinessHoursStart: 6,
		BusinessHoursEnd:   22,
	}

	room := &model.Room{Status: model.RoomActive}

	if got := DisplayStatus(room, "2026-09-01 06:30:00", cfg); got != model.RoomActive {
		t.Errorf("expected active at 06:30 with extended hours, got %s", got)
	}
	if got := DisplayStatus(room, "2026-09-01 22:00:00", cfg); got != model.RoomNightRest {
		t.Errorf("expected night_rest at 22:00 with extended hours, got %s", got)
	}
}

func TestRedactBookings(t *testing.T) {
	bookings := []*model.Booking{
		{Title: "Budget review", Comment: "bring the numbers", CreatedBy: "user-1"},
		{Title: "1:1"},
	}

	RedactBookings(bookings)

	for i, b := range bookings {
		if b.Title != model.RedactedPlaceholder {
			t.Errorf("booking %d title not redacted: %q", i, b.Title)
		}
	}
	if bookings[0].Comment != model.RedactedPlaceholder {
		t.Errorf("comment not redacted: %q", bookings[0].Comment)
	}
	if bookings[0].CreatedBy != model.RedactedPlaceholder {
		t.Errorf("creator not redacted: %q", bookings[0].CreatedBy)
	}
	if bookings[1].Comment != "" {
		t.Errorf("empty comment should stay empty, got %q", bookings[1].Comment)
	}
}
