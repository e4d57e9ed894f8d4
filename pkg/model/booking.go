package model

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCanceled  BookingStatus = "canceled"
)

// RedactedPlaceholder replaces title, comment and creator on bookings served
// to guests. Booking times stay visible so the timeline still renders.
const RedactedPlaceholder = "Reserved"

// Booking is a confirmed or canceled reservation of a room for a half-open
// wall-clock interval [start_time, end_time). The core invariant: for a
// fixed room, no two confirmed bookings overlap.
type Booking struct {
	ID        string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomID    string        `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	Title     string        `json:"title" bson:"title" validate:"required,min=1,max=200"`
	StartTime WallClock     `json:"start_time" bson:"start_time" validate:"required,wallclock"`
	EndTime   WallClock     `json:"end_time" bson:"end_time" validate:"required,wallclock"`
	Comment   string        `json:"comment,omitempty" bson:"comment,omitempty" validate:"omitempty,max=1000"`
	CreatedBy string        `json:"created_by,omitempty" bson:"created_by,omitempty" validate:"omitempty,max=100"`
	Status    BookingStatus `json:"status" bson:"status" validate:"required,oneof=confirmed canceled"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// DurationMinutes returns the booking length in whole minutes, floor-rounded.
func (b *Booking) DurationMinutes() int {
	return MinutesBetween(b.StartTime, b.EndTime)
}

// Covers reports whether t falls inside the booking interval.
func (b *Booking) Covers(t WallClock) bool {
	return !b.StartTime.After(t) && b.EndTime.After(t)
}

// Redact blanks the content fields for guest viewers. Times and room stay
// visible so availability timelines still render; only what was written is
// hidden. Applied at the response boundary, never persisted.
func (b *Booking) Redact() {
	b.Title = RedactedPlaceholder
	if b.Comment != "" {
		b.Comment = RedactedPlaceholder
	}
	if b.CreatedBy != "" {
		b.CreatedBy = RedactedPlaceholder
	}
}

// BookingUpdate carries a reschedule request. Title and comment alone make a
// metadata-only update; supplying any time or room field requires both
// StartTime and EndTime.
type BookingUpdate struct {
	Title     *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Comment   *string    `json:"comment,omitempty" validate:"omitempty,max=1000"`
	RoomID    *string    `json:"room_id,omitempty" validate:"omitempty,mongodb"`
	StartTime *WallClock `json:"start_time,omitempty" validate:"omitempty,wallclock"`
	EndTime   *WallClock `json:"end_time,omitempty" validate:"omitempty,wallclock"`
}

// ChangesTime reports whether the update touches the booking's placement,
// which forces a fresh conflict check against the target room.
func (u *BookingUpdate) ChangesTime() bool {
	return u.StartTime != nil || u.EndTime != nil || u.RoomID != nil
}
