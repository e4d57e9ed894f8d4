package service

import (
	"context"
	"errors"
	"fmt"

	roomserrors "roomly/internal/rooms/errors"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
)

// RoomGate resolves the room-availability gate: a booking write first checks
// that the target room exists and accepts bookings, and only then runs the
// overlap query. Satisfied by the rooms repository.
type RoomGate interface {
	FindByID(ctx context.Context, id string) (*model.Room, error)
}

// gateRoom rejects writes against missing, maintenance or inactive rooms.
// Distinct from a time conflict so clients can tell why the slot is closed.
func (s *bookingService) gateRoom(ctx context.Context, roomID string) (*model.Room, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) || errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.RoomUnavailable("Room not found")
		}
		return nil, apperrors.Internal("Failed to resolve room", err)
	}

	if !room.Status.AcceptsBookings() {
		return nil, apperrors.RoomUnavailable(fmt.Sprintf("Room %q is not accepting bookings (%s)", room.Name, room.Status))
	}

	return room, nil
}

// verifyNoOverlap is the time-conflict gate. It reports the earliest
// colliding confirmed booking so the rejection payload is deterministic when
// several overlap. excludeID skips the booking being rescheduled so it never
// conflicts with itself.
func (s *bookingService) verifyNoOverlap(ctx context.Context, roomID string, start, end model.WallClock, excludeID string) error {
	colliding, err := s.repo.FindFirstConflict(ctx, roomID, start, end, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	if colliding != nil {
		return apperrors.ConflictWithBooking(
			colliding.Title,
			colliding.StartTime.String(),
			colliding.EndTime.String(),
		)
	}

	return nil
}

// CheckConflict is the read-only probe behind the conflict-check endpoint.
// It returns the colliding confirmed booking for the requested slot, or nil
// when the slot is free. No lock is taken; the authoritative check happens
// again inside the write path.
func (s *bookingService) CheckConflict(ctx context.Context, roomID, date, startTime, endTime string) (*model.Booking, error) {
	if roomID == "" {
		return nil, apperrors.InvalidInput("room_id is required")
	}

	start, err := model.CombineWallClock(date, startTime)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	end, err := model.CombineWallClock(date, endTime)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if !end.After(start) {
		return nil, apperrors.InvalidInput("end_time must be after start_time")
	}

	colliding, err := s.repo.FindFirstConflict(ctx, roomID, start, end, "")
	if err != nil {
		return nil, apperrors.Internal("Failed to check for conflicts", err)
	}

	return colliding, nil
}
