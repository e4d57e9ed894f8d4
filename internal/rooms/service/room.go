package service

import (
	"context"
	"errors"
	"sync"

	roomserrors "roomly/internal/rooms/errors"
	"roomly/internal/rooms/repository"
	"roomly/internal/rooms/validator"
	"roomly/pkg/audit"
	"roomly/pkg/cache"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
	"roomly/pkg/sanitizer"
)

type RoomService interface {
	Create(ctx context.Context, room *model.Room, actorID string) (*model.Room, error)
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error)
	Update(ctx context.Context, id string, updates *model.RoomUpdate, actorID string) (*model.Room, error)
	Delete(ctx context.Context, id string, actorID string) error

	Overview(ctx context.Context, asOf model.WallClock) ([]*RoomOverview, error)
	AvailableRooms(ctx context.Context, date, startTime, endTime string) ([]*model.Room, error)
}

// BookingSource is the slice of the bookings store the availability views
// need. Satisfied by the bookings repository.
type BookingSource interface {
	FindConfirmedInWindow(ctx context.Context, start, end model.WallClock) ([]*model.Booking, error)
}

type roomService struct {
	cfg       *config.Config
	repo      repository.RoomRepository
	bookings  BookingSource
	validator *validator.RoomValidator
	cache     cache.Cache
	audit     audit.Recorder
}

func NewRoomService(
	cfg *config.Config,
	repo repository.RoomRepository,
	bookings BookingSource,
	v *validator.RoomValidator,
	c cache.Cache,
	recorder audit.Recorder,
) RoomService {
	return &roomService{
		cfg:       cfg,
		repo:      repo,
		bookings:  bookings,
		validator: v,
		cache:     c,
		audit:     recorder,
	}
}

func (s *roomService) Create(ctx context.Context, room *model.Room, actorID string) (*model.Room, error) {
	s.applyDefaults(room)
	s.sanitize(room)

	if err := s.validator.Validate(room); err != nil {
		return nil, s.toValidationError(err)
	}

	if err := s.repo.Create(ctx, room); err != nil {
		return nil, s.mapRepoError(err, room.Name)
	}

	s.audit.Record(actorID, audit.ActionRoomCreated, "room", room.ID, map[string]any{
		"name": room.Name,
	})

	return room, nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	return room, nil
}

func (s *roomService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		wg       sync.WaitGroup
		rooms    []*model.Room
		total    int64
		findErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		rooms, findErr = s.repo.FindAll(ctx, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.Count(ctx)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to fetch rooms", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count rooms", countErr)
	}

	return rooms, total, nil
}

func (s *roomService) Update(ctx context.Context, id string, updates *model.RoomUpdate, actorID string) (*model.Room, error) {
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, s.toValidationError(err)
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}

	merged := s.merge(existing, updates)
	s.sanitize(merged)

	if err := s.validator.Validate(merged); err != nil {
		return nil, s.toValidationError(err)
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		return nil, s.mapRepoError(err, id)
	}

	// A status flip changes which rooms the availability views report.
	s.invalidateTodayOverview(ctx)
	s.audit.Record(actorID, audit.ActionRoomUpdated, "room", id, map[string]any{
		"name":   merged.Name,
		"status": merged.Status,
	})

	merged.ID = id
	return merged, nil
}

func (s *roomService) Delete(ctx context.Context, id string, actorID string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, id)
	}

	s.invalidateTodayOverview(ctx)
	s.audit.Record(actorID, audit.ActionRoomDeleted, "room", id, nil)

	return nil
}

func (s *roomService) applyDefaults(room *model.Room) {
	room.ID = ""
	room.Status = model.NormalizeRoomStatus(string(room.Status))
}

func (s *roomService) sanitize(room *model.Room) {
	room.Name = sanitizer.SanitizeTitle(room.Name)
	room.Location = sanitizer.SanitizeTitle(room.Location)
	room.Icon = sanitizer.SanitizeLabel(room.Icon)
	room.Amenities = sanitizer.SanitizeSlice(room.Amenities, sanitizer.SanitizeLabel)
}

func (s *roomService) merge(existing *model.Room, updates *model.RoomUpdate) *model.Room {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Capacity != nil {
		merged.Capacity = *updates.Capacity
	}
	if updates.Status != "" {
		merged.Status = model.NormalizeRoomStatus(updates.Status)
	}
	if updates.Location != nil {
		merged.Location = *updates.Location
	}
	if updates.Amenities != nil {
		merged.Amenities = *updates.Amenities
	}
	if updates.Icon != nil {
		merged.Icon = *updates.Icon
	}

	return &merged
}

func (s *roomService) invalidateTodayOverview(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, cache.RoomOverviewKey(model.NowWallClock().Date()))
}

func (s *roomService) toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]any, len(verrs))
		for _, ve := range verrs {
			details[ve.Field] = ve.Message
		}
		return apperrors.Validation("Room validation failed", details)
	}
	return apperrors.Validation(err.Error(), nil)
}

func (s *roomService) mapRepoError(err error, id string) error {
	switch {
	case errors.Is(err, roomserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Room", id)
	case errors.Is(err, roomserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid room ID format")
	case errors.Is(err, roomserrors.ErrDuplicate):
		return apperrors.Conflict("A room with this name already exists")
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Room operation failed", err)
	}
}
