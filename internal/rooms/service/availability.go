package service

import (
	"context"

	"roomly/pkg/cache"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
)

// RoomOverview is one room's slice of the dashboard: projected status, what
// is happening in it right now, what comes next, and how loaded the day is.
type RoomOverview struct {
	Room          *model.Room      `json:"room"`
	DisplayStatus model.RoomStatus `json:"display_status"`
	Available     bool             `json:"available"`
	Current       *model.Booking   `json:"current_booking,omitempty"`
	Next          *model.Booking   `json:"next_booking,omitempty"`
	BookingsToday int              `json:"bookings_today"`
	BookedMinutes int              `json:"booked_minutes"`
	Bookings      []*model.Booking `json:"bookings"`
}

// overviewDay is the cacheable part of the dashboard: the full room
// inventory and the day's confirmed bookings. Everything derived from the
// query moment (current, next, night_rest) is projected after retrieval, so
// a cached entry stays correct for its whole TTL.
type overviewDay struct {
	Rooms    []*model.Room    `json:"rooms"`
	Bookings []*model.Booking `json:"bookings"`
}

// Overview builds the per-room dashboard for the day asOf falls on. The
// room-and-booking load is cached per date; redaction for guests happens at
// the response boundary, never before the cache.
func (s *roomService) Overview(ctx context.Context, asOf model.WallClock) ([]*RoomOverview, error) {
	date := asOf.Date()
	dayStart, dayEnd, err := model.DayBounds(date)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	var day overviewDay
	err = s.cache.GetOrCompute(ctx, cache.RoomOverviewKey(date), s.cfg.OverviewCacheTTL, &day, func(ctx context.Context) (any, error) {
		return s.loadOverviewDay(ctx, dayStart, dayEnd)
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to load room overview", err)
	}

	byRoom := make(map[string][]*model.Booking, len(day.Rooms))
	for _, b := range day.Bookings {
		byRoom[b.RoomID] = append(byRoom[b.RoomID], b)
	}

	overviews := make([]*RoomOverview, 0, len(day.Rooms))
	for _, room := range day.Rooms {
		overviews = append(overviews, s.projectRoom(room, byRoom[room.ID], asOf))
	}

	return overviews, nil
}

func (s *roomService) loadOverviewDay(ctx context.Context, dayStart, dayEnd model.WallClock) (*overviewDay, error) {
	rooms, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.FindConfirmedInWindow(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return &overviewDay{Rooms: rooms, Bookings: bookings}, nil
}

// projectRoom derives one room's overview from its day bookings, which
// arrive sorted by start time.
func (s *roomService) projectRoom(room *model.Room, bookings []*model.Booking, asOf model.WallClock) *RoomOverview {
	overview := &RoomOverview{
		Room:          room,
		DisplayStatus: DisplayStatus(room, asOf, s.cfg),
		BookingsToday: len(bookings),
		Bookings:      bookings,
	}
	if overview.Bookings == nil {
		overview.Bookings = []*model.Booking{}
	}

	for _, b := range bookings {
		overview.BookedMinutes += b.DurationMinutes()

		if b.Covers(asOf) && overview.Current == nil {
			overview.Current = b
		}
		if b.StartTime.After(asOf) && overview.Next == nil {
			overview.Next = b
		}
	}

	overview.Available = room.Status.AcceptsBookings() && overview.Current == nil
	return overview
}

// AvailableRooms lists the active rooms free for the whole requested window:
// the complement of the rooms holding a confirmed booking that overlaps it.
func (s *roomService) AvailableRooms(ctx context.Context, date, startTime, endTime string) ([]*model.Room, error) {
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

	rooms, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch rooms", err)
	}

	overlapping, err := s.bookings.FindConfirmedInWindow(ctx, start, end)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch bookings", err)
	}

	busy := make(map[string]struct{}, len(overlapping))
	for _, b := range overlapping {
		busy[b.RoomID] = struct{}{}
	}

	free := make([]*model.Room, 0, len(rooms))
	for _, room := range rooms {
		if _, ok := busy[room.ID]; !ok {
			free = append(free, room)
		}
	}

	return free, nil
}
