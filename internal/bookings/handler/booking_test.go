package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"roomly/pkg/identity"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	createFunc        func(ctx context.Context, booking *model.Booking, actorID string) (*model.Booking, error)
	getByIDFunc       func(ctx context.Context, id string) (*model.Booking, error)
	getAllFunc        func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	updateFunc        func(ctx context.Context, id string, updates *model.BookingUpdate, actorID string) (*model.Booking, error)
	cancelFunc        func(ctx context.Context, id string, actorID string) error
	searchByRoomFunc  func(ctx context.Context, roomID, date string, limit int, offset int64) ([]*model.Booking, int64, error)
	checkConflictFunc func(ctx context.Context, roomID, date, startTime, endTime string) (*model.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, booking *model.Booking, actorID string) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking, actorID)
	}
	return booking, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Booking{ID: id}, nil
}

func (m *mockBookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate, actorID string) (*model.Booking, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates, actorID)
	}
	return &model.Booking{ID: id}, nil
}

func (m *mockBookingService) Cancel(ctx context.Context, id string, actorID string) error {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id, actorID)
	}
	return nil
}

func (m *mockBookingService) SearchByRoom(ctx context.Context, roomID, date string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.searchByRoomFunc != nil {
		return m.searchByRoomFunc(ctx, roomID, date, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) CheckConflict(ctx context.Context, roomID, date, startTime, endTime string) (*model.Booking, error) {
	if m.checkConflictFunc != nil {
		return m.checkConflictFunc(ctx, roomID, date, startTime, endTime)
	}
	return nil, nil
}

func newTestHandler(svc *mockBookingService) *BookingHandler {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	return NewBookingHandler(svc, log)
}

func asPrincipal(r *http.Request, id string, role identity.Role) *http.Request {
	ctx := identity.WithPrincipal(r.Context(), &identity.Principal{ID: id, Role: role})
	return r.WithContext(ctx)
}

func storedBooking() *model.Booking {
	return &model.Booking{
		ID:        "68b1c2d3e4f5a6b7c8d9e0f1",
		RoomID:    "68b1c2d3e4f5a6b7c8d9e0a1",
		Title:     "Budget review",
		Comment:   "bring the numbers",
		CreatedBy: "user-1",
		StartTime: "2026-09-01 10:00:00",
		EndTime:   "2026-09-01 11:00:00",
		Status:    model.BookingConfirmed,
	}
}

func TestGetByID_GuestSeesRedactedBooking(t *testing.T) {
	svc := &mockBookingService{
		getByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(), nil
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/68b1c2d3e4f5a6b7c8d9e0f1", nil)
	rec := httptest.NewRecorder()
	h.GetByID(rec, req, httprouter.Params{{Key: "id", Value: "68b1c2d3e4f5a6b7c8d9e0f1"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data model.Booking `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Data.Title != model.RedactedPlaceholder {
		t.Errorf("guest must not see the title, got %q", resp.Data.Title)
	}
	if resp.Data.Comment != model.RedactedPlaceholder {
		t.Errorf("guest must not see the comment, got %q", resp.Data.Comment)
	}
	// The slot itself stays visible so the timeline renders.
	if resp.Data.StartTime != "2026-09-01 10:00:00" || resp.Data.EndTime != "2026-09-01 11:00:00" {
		t.Errorf("booking times must survive redaction, got [%s, %s)", resp.Data.StartTime, resp.Data.EndTime)
	}
}

func TestGetByID_AuthenticatedSeesFullBooking(t *testing.T) {
	svc := &mockBookingService{
		getByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(), nil
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/68b1c2d3e4f5a6b7c8d9e0f1", nil)
	req = asPrincipal(req, "user-2", identity.RoleUser)
	rec := httptest.NewRecorder()
	h.GetByID(rec, req, httprouter.Params{{Key: "id", Value: "68b1c2d3e4f5a6b7c8d9e0f1"}})

	var resp struct {
		Data model.Booking `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Data.Title != "Budget review" {
		t.Errorf("authenticated viewer sees the full booking, got title %q", resp.Data.Title)
	}
}

func TestCancel_Authorization(t *testing.T) {
	cases := []struct {
		name       string
		principal  *identity.Principal
		wantStatus int
	}{
		{"owner may cancel", &identity.Principal{ID: "user-1", Role: identity.RoleUser}, http.StatusNoContent},
		{"admin may cancel", &identity.Principal{ID: "root", Role: identity.RoleAdmin}, http.StatusNoContent},
		{"other user may not", &identity.Principal{ID: "user-2", Role: identity.RoleUser}, http.StatusForbidden},
		{"guest may not", nil, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockBookingService{
				getByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					return storedBooking(), nil
				},
			}
			h := newTestHandler(svc)

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/id/68b1c2d3e4f5a6b7c8d9e0f1", nil)
			if tc.principal != nil {
				req = req.WithContext(identity.WithPrincipal(req.Context(), tc.principal))
			}
			rec := httptest.NewRecorder()
			h.Cancel(rec, req, httprouter.Params{{Key: "id", Value: "68b1c2d3e4f5a6b7c8d9e0f1"}})

			if rec.Code != tc.wantStatus {
				t.Errorf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestCheckConflict_RedactsForGuest(t *testing.T) {
	svc := &mockBookingService{
		checkConflictFunc: func(ctx context.Context, roomID, date, startTime, endTime string) (*model.Booking, error) {
			return storedBooking(), nil
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/conflict?room_id=68b1c2d3e4f5a6b7c8d9e0a1&date=2026-09-01&start_time=10:30&end_time=11:30", nil)
	rec := httptest.NewRecorder()
	h.CheckConflict(rec, req, nil)

	var resp struct {
		Data *model.Booking `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Data == nil {
		t.Fatal("expected a colliding booking in the response")
	}
	if resp.Data.Title != model.RedactedPlaceholder {
		t.Errorf("guest must not see the colliding title, got %q", resp.Data.Title)
	}
}

func TestCheckConflict_FreeSlotReturnsNull(t *testing.T) {
	h := newTestHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/conflict?room_id=68b1c2d3e4f5a6b7c8d9e0a1&date=2026-09-01&start_time=10:30&end_time=11:30", nil)
	rec := httptest.NewRecorder()
	h.CheckConflict(rec, req, nil)

	var resp struct {
		Data *model.Booking `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data != nil {
		t.Errorf("expected null for a free slot, got %+v", resp.Data)
	}
}
