package service

import (
	"context"
	"testing"

	roomserrors "roomly/internal/rooms/errors"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
)

func TestRoomCreate_NormalizesStatusAndSanitizes(t *testing.T) {
	var stored *model.Room
	repo := &mockRoomRepository{
		createFunc: func(ctx context.Context, room *model.Room) error {
			room.ID = "68b1c2d3e4f5a6b7c8d9e0a1"
			stored = room
			return nil
		},
	}
	svc, _, rec := newTestRoomService(repo, &mockBookingSource{})

	room := &model.Room{
		Name:      "  Blue   Room ",
		Capacity:  10,
		Status:    model.RoomStatus("banana"),
		Amenities: []string{"TV", "tv", " Whiteboard "},
	}

	created, err := svc.Create(context.Background(), room, "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored.Name != "Blue Room" {
		t.Errorf("expected sanitized name, got %q", stored.Name)
	}
	if created.Status != model.RoomActive {
		t.Errorf("unknown status should normalize to active, got %s", created.Status)
	}
	if len(stored.Amenities) != 2 {
		t.Errorf("expected deduplicated amenities, got %v", stored.Amenities)
	}
	if len(rec.actions) != 1 || rec.actions[0] != "room.created" {
		t.Errorf("expected room.created audit action, got %v", rec.actions)
	}
}

func TestRoomCreate_DuplicateName(t *testing.T) {
	repo := &mockRoomRepository{
		createFunc: func(ctx context.Context, room *model.Room) error {
			return roomserrors.ErrDuplicate
		},
	}
	svc, _, _ := newTestRoomService(repo, &mockBookingSource{})

	_, err := svc.Create(context.Background(), &model.Room{Name: "Blue Room", Capacity: 10}, "admin-1")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected %s for a duplicate name, got %v", apperrors.CodeConflict, err)
	}
}

func TestRoomCreate_ValidationFailure(t *testing.T) {
	svc, _, _ := newTestRoomService(&mockRoomRepository{}, &mockBookingSource{})

	_, err := svc.Create(context.Background(), &model.Room{Name: "", Capacity: 0}, "admin-1")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected %s, got %v", apperrors.CodeValidation, err)
	}
}

func TestRoomUpdate_StatusFlipInvalidatesOverview(t *testing.T) {
	existing := &model.Room{
		ID:       "68b1c2d3e4f5a6b7c8d9e0a1",
		Name:     "Blue Room",
		Capacity: 10,
		Status:   model.RoomActive,
	}
	repo := &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Room, error) {
			r := *existing
			return &r, nil
		},
	}
	svc, c, rec := newTestRoomService(repo, &mockBookingSource{})

	updated, err := svc.Update(context.Background(), existing.ID, &model.RoomUpdate{Status: "maintenance"}, "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Status != model.RoomMaintenance {
		t.Errorf("expected maintenance status, got %s", updated.Status)
	}
	if updated.Name != existing.Name {
		t.Errorf("unset fields must survive the merge, got name %q", updated.Name)
	}
	if len(c.invalidated) == 0 {
		t.Error("expected overview cache invalidation after status change")
	}
	if len(rec.actions) != 1 || rec.actions[0] != "room.updated" {
		t.Errorf("expected room.updated audit action, got %v", rec.actions)
	}
}

func TestRoomDelete_NotFound(t *testing.T) {
	repo := &mockRoomRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			return roomserrors.ErrNotFound
		},
	}
	svc, _, rec := newTestRoomService(repo, &mockBookingSource{})

	err := svc.Delete(context.Background(), "68b1c2d3e4f5a6b7c8d9e0a1", "admin-1")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected %s, got %v", apperrors.CodeNotFound, err)
	}
	if len(rec.actions) != 0 {
		t.Errorf("no audit event for a failed delete, got %v", rec.actions)
	}
}
