package handler

import (
	"encoding/json"
	"net/http"

	"roomly/internal/bookings/service"
	apperrors "roomly/pkg/errors"
	httputil "roomly/pkg/http"
	"roomly/pkg/identity"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	actorID := ""
	if p := identity.FromContext(r.Context()); p != nil {
		actorID = p.ID
	}

	created, err := h.service.Create(r.Context(), &booking, actorID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	redactForViewer(r, booking)

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	redactAllForViewer(r, bookings)

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	principal, err := h.authorizeManage(r, id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	updated, err := h.service.Update(r.Context(), id, &updates, principal.ID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, updated); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	principal, err := h.authorizeManage(r, id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "error", writeErr)
		}
		return
	}

	if err := h.service.Cancel(r.Context(), id, principal.ID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	roomID := query.Get("room_id")
	date := query.Get("date")

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
		}
		return
	}

	bookings, total, err := h.service.SearchByRoom(r.Context(), roomID, date, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
		}
		return
	}

	redactAllForViewer(r, bookings)

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "error", err)
	}
}

// CheckConflict probes a slot without writing. The body is the colliding
// booking (redacted for guests) or null when the slot is free.
func (h *BookingHandler) CheckConflict(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	colliding, err := h.service.CheckConflict(
		r.Context(),
		query.Get("room_id"),
		query.Get("date"),
		query.Get("start_time"),
		query.Get("end_time"),
	)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckConflict", "error", writeErr)
		}
		return
	}

	if colliding != nil {
		redactForViewer(r, colliding)
	}

	if err := httputil.WriteSuccess(w, colliding); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckConflict", "error", err)
	}
}

// authorizeManage loads the booking and checks the caller may modify it.
// The existence check runs first so an unauthorized caller probing a missing
// ID still sees 404, not 403.
func (h *BookingHandler) authorizeManage(r *http.Request, id string) (*identity.Principal, error) {
	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		return nil, err
	}

	principal := identity.FromContext(r.Context())
	if !principal.CanManage(booking.CreatedBy) {
		return nil, apperrors.Forbidden("You are not allowed to manage this booking")
	}

	return principal, nil
}

func redactForViewer(r *http.Request, booking *model.Booking) {
	if identity.IsGuest(r.Context()) {
		booking.Redact()
	}
}

func redactAllForViewer(r *http.Request, bookings []*model.Booking) {
	if !identity.IsGuest(r.Context()) {
		return
	}
	for _, b := range bookings {
		b.Redact()
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id", h.Update)
	router.DELETE("/api/v1/bookings/id/:id", h.Cancel)
	router.GET("/api/v1/bookings/search", h.Search)
	router.GET("/api/v1/bookings/conflict", h.CheckConflict)
}
