package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	roomserrors "roomly/internal/rooms/errors"
	"roomly/internal/rooms/validator"
	"roomly/pkg/cache"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

// Mock repository for testing
type mockRoomRepository struct {
	createFunc     func(ctx context.Context, room *model.Room) error
	findByIDFunc   func(ctx context.Context, id string) (*model.Room, error)
	findByNameFunc func(ctx context.Context, name string) (*model.Room, error)
	findAllFunc    func(ctx context.Context, limit int, offset int64) ([]*model.Room, error)
	findActiveFunc func(ctx context.Context) ([]*model.Room, error)
	listAllFunc    func(ctx context.Context) ([]*model.Room, error)
	countFunc      func(ctx context.Context) (int64, error)
	updateFunc     func(ctx context.Context, id string, room *model.Room) error
	deleteFunc     func(ctx context.Context, id string) error
}

func (m *mockRoomRepository) Create(ctx context.Context, room *model.Room) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, room)
	}
	room.ID = "68b1c2d3e4f5a6b7c8d9e0a1"
	return nil
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, roomserrors.ErrNotFound
}

func (m *mockRoomRepository) FindByName(ctx context.Context, name string) (*model.Room, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, name)
	}
	return nil, roomserrors.ErrNotFound
}

func (m *mockRoomRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Room, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Room{}, nil
}

func (m *mockRoomRepository) FindActive(ctx context.Context) ([]*model.Room, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx)
	}
	return []*model.Room{}, nil
}

func (m *mockRoomRepository) ListAll(ctx context.Context) ([]*model.Room, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return []*model.Room{}, nil
}

func (m *mockRoomRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockRoomRepository) Update(ctx context.Context, id string, room *model.Room) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, room)
	}
	return nil
}

func (m *mockRoomRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockBookingSource struct {
	findInWindowFunc func(ctx context.Context, start, end model.WallClock) ([]*model.Booking, error)
}

func (m *mockBookingSource) FindConfirmedInWindow(ctx context.Context, start, end model.WallClock) ([]*model.Booking, error) {
	if m.findInWindowFunc != nil {
		return m.findInWindowFunc(ctx, start, end)
	}
	return []*model.Booking{}, nil
}

// passthroughCache computes on every call, funneling the result through JSON
// the way the real cache does.
type passthroughCache struct {
	invalidated []string
}

func (c *passthroughCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, dest any, compute cache.ComputeFunc) error {
	value, err := compute(ctx)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, dest)
}

func (c *passthroughCache) Invalidate(ctx context.Context, keys ...string) error {
	c.invalidated = append(c.invalidated, keys...)
	return nil
}

type mockRecorder struct {
	actions []string
}

func (m *mockRecorder) Record(actorID, action, entityType, entityID string, details map[string]any) {
	m.actions = append(m.actions, action)
}

func newTestRoomService(repo *mockRoomRepository, bookings *mockBookingSource) (*roomService, *passthroughCache, *mockRecorder) {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})

	cfg := &config.Config{
		Log:                log,
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       5 * time.Second,
		BusinessHoursStart: 8,
		BusinessHoursEnd:   20,
		OverviewCacheTTL:   15 * time.Second,
	}

	c := &passthroughCache{}
	rec := &mockRecorder{}

	return &roomService{
		cfg:       cfg,
		repo:      repo,
		bookings:  bookings,
		validator: validator.NewRoomValidator(log),
		cache:     c,
		audit:     rec,
	}, c, rec
}

func activeRooms(ids ...string) []*model.Room {
	rooms := make([]*model.Room, 0, len(ids))
	for _, id := range ids {
		rooms = append(rooms, &model.Room{
			ID:       id,
			Name:     "Room " + id,
			Capacity: 8,
			Status:   model.RoomActive,
		})
	}
	return rooms
}

func TestAvailableRooms_ComplementOfBusyRooms(t *testing.T) {
	repo := &mockRoomRepository{
		findActiveFunc: func(ctx context.Context) ([]*model.Room, error) {
			return activeRooms("a", "b", "c"), nil
		},
	}
	bookings := &mockBookingSource{
		findInWindowFunc: func(ctx context.Context, start, end model.WallClock) ([]*model.Booking, error) {
			return []*model.Booking{
				{RoomID: "b", StartTime: "2026-09-01 10:30:00", EndTime: "2026-09-01 11:30:00"},
			}, nil
		},
	}
	svc, _, _ := newTestRoomService(repo, bookings)

	free, err := svc.AvailableRooms(context.Background(), "2026-09-01", "10:00", "11:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(free) != 2 {
		t.Fatalf("expected 2 free rooms, got %d", len(free))
	}
	for _, room := range free {
		if room.ID == "b" {
			t.Error("room b has an overlapping booking and must not be listed as free")
		}
	}
}

func TestAvailableRooms_AllFreeWhenNoOverlap(t *testing.T) {
	repo := &mockRoomRepository{
		findActiveFunc: func(ctx context.Context) ([]*model.Room, error) {
			return activeRooms("a", "b"), nil
		},
	}
	svc, _, _ := newTestRoomService(repo, &mockBookingSource{})

	free, err := svc.AvailableRooms(context.Background(), "2026-09-01", "10:00", "11:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(free) != 2 {
		t.Errorf("expected all active rooms to be free, got %d", len(free))
	}
}

func TestAvailableRooms_RejectsInvertedWindow(t *testing.T) {
	svc, _, _ := newTestRoomService(&mockRoomRepository{}, &mockBookingSource{})

	_, err := svc.AvailableRooms(context.Background(), "2026-09-01", "11:00", "10:00")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected %s, got %v", apperrors.CodeInvalidInput, err)
	}
}

func TestOverview_CurrentNextAndMinutes(t *testing.T) {
	repo := &mockRoomRepository{
		listAllFunc: func(ctx context.Context) ([]*model.Room, error) {
			return activeRooms("a"), nil
		},
	}
	bookings := &mockBookingSource{
		findInWindowFunc: func(ctx context.Context, start, end model.WallClock) ([]*model.Booking, error) {
			return []*model.Booking{
				{RoomID: "a", Title: "Morning", StartTime: "2026-09-01 09:00:00", EndTime: "2026-09-01 10:00:00"},
				{RoomID: "a", Title: "Ongoing", StartTime: "2026-09-01 10:00:00", EndTime: "2026-09-01 11:30:00"},
				{RoomID: "a", Title: "Later", StartTime: "2026-09-01 14:00:00", EndTime: "2026-09-01 15:00:00"},
			}, nil
		},
	}
	svc, _, _ := newTestRoomService(repo, bookings)

	overviews, err := svc.Overview(context.Background(), "2026-09-01 10:30:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(overviews) != 1 {
		t.Fatalf("expected 1 overview, got %d", len(overviews))
	}

	o := overviews[0]
	if o.Current == nil || o.Current.Title != "Ongoing" {
		t.Errorf("expected Ongoing as current booking, got %+v", o.Current)
	}
	if o.Next == nil || o.Next.Title != "Later" {
		t.Errorf("expected Later as next booking, got %+v", o.Next)
	}
	if o.BookingsToday != 3 {
		t.Errorf("expected 3 bookings today, got %d", o.BookingsToday)
	}
	// 60 + 90 + 60 minutes booked across the day.
	if o.BookedMinutes != 210 {
		t.Errorf("expected 210 booked minutes, got %d", o.BookedMinutes)
	}
	if o.Available {
		t.Error("room with a current booking must not be available")
	}
}

func TestOverview_FreeRoomIsAvailable(t *testing.T) {
	repo := &mockRoomRepository{
		listAllFunc: func(ctx context.Context) ([]*model.Room, error) {
			return activeRooms("a"), nil
		},
	}
	svc, _, _ := newTestRoomService(repo, &mockBookingSource{})

	overviews, err := svc.Overview(context.Background(), "2026-09-01 10:30:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o := overviews[0]
	if !o.Available {
		t.Error("a booking-free active room should be available")
	}
	if o.Current != nil || o.Next != nil {
		t.Errorf("expected no current or next booking, got %+v / %+v", o.Current, o.Next)
	}
	if o.Bookings == nil {
		t.Error("bookings list should serialize as an empty array, not null")
	}
}

func TestOverview_IncludesNonActiveRooms(t *testing.T) {
	repo := &mockRoomRepository{
		listAllFunc: func(ctx context.Context) ([]*model.Room, error) {
			rooms := activeRooms("a", "m")
			rooms[1].Status = model.RoomMaintenance
			return rooms, nil
		},
	}
	svc, _, _ := newTestRoomService(repo, &mockBookingSource{})

	overviews, err := svc.Overview(context.Background(), "2026-09-01 10:30:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(overviews) != 2 {
		t.Fatalf("expected the full room inventory in the overview, got %d rooms", len(overviews))
	}

	var maint *RoomOverview
	for _, o := range overviews {
		if o.Room.ID == "m" {
			maint = o
		}
	}
	if maint == nil {
		t.Fatal("maintenance room missing from the overview")
	}
	if maint.Available {
		t.Error("a maintenance room must not be available")
	}
	if maint.DisplayStatus != model.RoomMaintenance {
		t.Errorf("expected maintenance display status during the day, got %s", maint.DisplayStatus)
	}
}
