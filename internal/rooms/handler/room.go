package handler

import (
	"encoding/json"
	"net/http"

	"roomly/internal/rooms/service"
	apperrors "roomly/pkg/errors"
	httputil "roomly/pkg/http"
	"roomly/pkg/identity"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type RoomHandler struct {
	service service.RoomService
	log     *logger.Logger
}

func NewRoomHandler(service service.RoomService, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		log:     log,
	}
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := requireAdmin(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var room model.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	created, err := h.service.Create(r.Context(), &room, principal.ID)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *RoomHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *RoomHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	rooms, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, rooms, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, err := requireAdmin(r)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	var updates model.RoomUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	updated, err := h.service.Update(r.Context(), ps.ByName("id"), &updates, principal.ID)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, updated); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, err := requireAdmin(r)
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := h.service.Delete(r.Context(), ps.ByName("id"), principal.ID); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

// Overview serves the per-room dashboard. An explicit as_of pins the query
// moment, mostly for clients rendering a chosen day; it defaults to now.
func (h *RoomHandler) Overview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	asOf := model.NowWallClock()
	if s := r.URL.Query().Get("as_of"); s != "" {
		parsed, err := model.ParseWallClock(s)
		if err != nil {
			h.writeError(w, "Overview", apperrors.InvalidInput(err.Error()))
			return
		}
		asOf = parsed
	}

	overviews, err := h.service.Overview(r.Context(), asOf)
	if err != nil {
		h.writeError(w, "Overview", err)
		return
	}

	// Redaction happens after the cache, so the cached entry keeps full
	// fidelity for authenticated viewers.
	if identity.IsGuest(r.Context()) {
		for _, o := range overviews {
			if o.Current != nil {
				o.Current.Redact()
			}
			if o.Next != nil {
				o.Next.Redact()
			}
			service.RedactBookings(o.Bookings)
		}
	}

	if err := httputil.WriteSuccess(w, overviews); err != nil {
		h.log.Error("failed to write success response", "handler", "Overview", "error", err)
	}
}

func (h *RoomHandler) Available(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	rooms, err := h.service.AvailableRooms(
		r.Context(),
		query.Get("date"),
		query.Get("start_time"),
		query.Get("end_time"),
	)
	if err != nil {
		h.writeError(w, "Available", err)
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write success response", "handler", "Available", "error", err)
	}
}

func (h *RoomHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func requireAdmin(r *http.Request) (*identity.Principal, error) {
	principal := identity.FromContext(r.Context())
	if !principal.IsAdmin() {
		return nil, apperrors.Forbidden("Room management requires an admin role")
	}
	return principal, nil
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/rooms", h.Create)
	router.GET("/api/v1/rooms", h.GetAll)
	router.GET("/api/v1/rooms/id/:id", h.GetByID)
	router.PATCH("/api/v1/rooms/id/:id", h.Update)
	router.DELETE("/api/v1/rooms/id/:id", h.Delete)
	router.GET("/api/v1/rooms/overview", h.Overview)
	router.GET("/api/v1/rooms/available", h.Available)
}
