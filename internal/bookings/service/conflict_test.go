package service

import (
	"context"
	"testing"

	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
)

func TestCheckConflict_ReportsCollidingBooking(t *testing.T) {
	colliding := &model.Booking{
		Title:     "Board review",
		StartTime: "2026-09-01 14:00:00",
		EndTime:   "2026-09-01 15:00:00",
	}

	var capturedStart, capturedEnd model.WallClock
	repo := &mockBookingRepository{
		findFirstConflictFunc: func(ctx context.Context, roomID string, start, end model.WallClock, excludeID string) (*model.Booking, error) {
			capturedStart, capturedEnd = start, end
			return colliding, nil
		},
	}
	svc, _, _ := newTestService(repo, &mockRoomLockRepository{}, &mockRoomGate{})

	got, err := svc.CheckConflict(context.Background(), "68b1c2d3e4f5a6b7c8d9e0a1", "2026-09-01", "14:30", "15:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got == nil || got.Title != "Board review" {
		t.Fatalf("expected colliding booking back, got %+v", got)
	}
	if capturedStart != "2026-09-01 14:30:00" || capturedEnd != "2026-09-01 15:30:00" {
		t.Errorf("date and clock were not combined correctly: [%s, %s)", capturedStart, capturedEnd)
	}
}

func TestCheckConflict_FreeSlotReturnsNil(t *testing.T) {
	svc, _, _ := newTestService(&mockBookingRepository{}, &mockRoomLockRepository{}, &mockRoomGate{})

	got, err := svc.CheckConflict(context.Background(), "68b1c2d3e4f5a6b7c8d9e0a1", "2026-09-01", "14:30:00", "15:30:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for a free slot, got %+v", got)
	}
}

func TestCheckConflict_RejectsInvertedWindow(t *testing.T) {
	svc, _, _ := newTestService(&mockBookingRepository{}, &mockRoomLockRepository{}, &mockRoomGate{})

	cases := []struct {
		name       string
		start, end string
	}{
		{"inverted", "15:30", "14:30"},
		{"zero length", "14:30", "14:30"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CheckConflict(context.Background(), "68b1c2d3e4f5a6b7c8d9e0a1", "2026-09-01", tc.start, tc.end)
			appErr := apperrors.AsAppError(err)
			if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
				t.Fatalf("expected %s, got %v", apperrors.CodeInvalidInput, err)
			}
		})
	}
}

func TestCheckConflict_RequiresRoom(t *testing.T) {
	svc, _, _ := newTestService(&mockBookingRepository{}, &mockRoomLockRepository{}, &mockRoomGate{})

	_, err := svc.CheckConflict(context.Background(), "", "2026-09-01", "14:30", "15:30")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected %s, got %v", apperrors.CodeInvalidInput, err)
	}
}
