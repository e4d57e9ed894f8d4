package service

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingserrors "roomly/internal/bookings/errors"
	"roomly/internal/bookings/repository"
	"roomly/internal/bookings/validator"
	"roomly/pkg/audit"
	"roomly/pkg/cache"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
	"roomly/pkg/sanitizer"

	"github.com/google/uuid"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking, actorID string) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate, actorID string) (*model.Booking, error)
	Cancel(ctx context.Context, id string, actorID string) error
	SearchByRoom(ctx context.Context, roomID, date string, limit int, offset int64) ([]*model.Booking, int64, error)
	CheckConflict(ctx context.Context, roomID, date, startTime, endTime string) (*model.Booking, error)
}

type bookingService struct {
	cfg       *config.Config
	repo      repository.BookingRepository
	lockRepo  repository.RoomLockRepository
	rooms     RoomGate
	validator *validator.BookingValidator
	cache     cache.Cache
	audit     audit.Recorder
}

func NewBookingService(
	cfg *config.Config,
	repo repository.BookingRepository,
	lockRepo repository.RoomLockRepository,
	rooms RoomGate,
	v *validator.BookingValidator,
	c cache.Cache,
	recorder audit.Recorder,
) BookingService {
	return &bookingService{
		cfg:       cfg,
		repo:      repo,
		lockRepo:  lockRepo,
		rooms:     rooms,
		validator: v,
		cache:     c,
		audit:     recorder,
	}
}

// Create books a room slot. The write path is: gate the room, take the
// per-room advisory lock, then inside a transaction re-check for overlap and
// insert. The lock serializes concurrent writers on the same room so two
// requests for the same slot cannot both pass the check; the transaction
// keeps the check and the insert atomic against the replica set.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking, actorID string) (*model.Booking, error) {
	s.applyDefaults(booking, actorID)
	s.sanitize(booking)

	if err := s.validator.Validate(booking); err != nil {
		return nil, s.toValidationError(err)
	}

	if _, err := s.gateRoom(ctx, booking.RoomID); err != nil {
		return nil, err
	}

	release, err := s.acquireRoomLock(ctx, booking.RoomID)
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.verifyNoOverlap(txCtx, booking.RoomID, booking.StartTime, booking.EndTime, ""); err != nil {
			return err
		}
		if err := s.repo.Create(txCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOverview(ctx, booking.StartTime.Date(), booking.EndTime.Date())
	s.audit.Record(actorID, audit.ActionBookingCreated, "booking", booking.ID, map[string]any{
		"room_id":    booking.RoomID,
		"start_time": booking.StartTime,
		"end_time":   booking.EndTime,
	})

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		wg       sync.WaitGroup
		bookings []*model.Booking
		total    int64
		findErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bookings, findErr = s.repo.FindAll(ctx, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.Count(ctx)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to fetch bookings", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count bookings", countErr)
	}

	return bookings, total, nil
}

// Update reschedules or edits a booking. Metadata-only edits (title, comment)
// skip the conflict protocol entirely; any change to room or times runs the
// full gate-lock-verify sequence against the target room, excluding the
// booking itself from the overlap query so it never collides with its own
// old slot.
func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate, actorID string) (*model.Booking, error) {
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, s.toValidationError(err)
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}

	if existing.Status == model.BookingCanceled {
		return nil, apperrors.InvalidInput("Canceled bookings cannot be modified")
	}

	merged := s.merge(existing, updates)
	s.sanitize(merged)

	if err := s.validator.Validate(merged); err != nil {
		return nil, s.toValidationError(err)
	}

	if !updates.ChangesTime() {
		if err := s.repo.Update(ctx, id, merged); err != nil {
			return nil, s.mapRepoError(err, id)
		}
		s.invalidateOverview(ctx, merged.StartTime.Date(), merged.EndTime.Date())
		s.audit.Record(actorID, audit.ActionBookingUpdated, "booking", id, map[string]any{
			"room_id": merged.RoomID,
		})
		merged.ID = id
		return merged, nil
	}

	if _, err := s.gateRoom(ctx, merged.RoomID); err != nil {
		return nil, err
	}

	release, err := s.acquireRoomLock(ctx, merged.RoomID)
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.verifyNoOverlap(txCtx, merged.RoomID, merged.StartTime, merged.EndTime, id); err != nil {
			return err
		}
		if err := s.repo.Update(txCtx, id, merged); err != nil {
			return s.mapRepoError(err, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Both the vacated day and the new day changed shape.
	s.invalidateOverview(ctx,
		existing.StartTime.Date(), existing.EndTime.Date(),
		merged.StartTime.Date(), merged.EndTime.Date(),
	)
	s.audit.Record(actorID, audit.ActionBookingRescheduled, "booking", id, map[string]any{
		"room_id":    merged.RoomID,
		"start_time": merged.StartTime,
		"end_time":   merged.EndTime,
	})

	merged.ID = id
	return merged, nil
}

// Cancel releases the booking's slot. Canceled is terminal: cancelling an
// already-canceled booking reports NotFound, which also makes retries safe.
func (s *bookingService) Cancel(ctx context.Context, id string, actorID string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapRepoError(err, id)
	}

	if err := s.repo.CancelConfirmed(ctx, id); err != nil {
		return s.mapRepoError(err, id)
	}

	s.invalidateOverview(ctx, existing.StartTime.Date(), existing.EndTime.Date())
	s.audit.Record(actorID, audit.ActionBookingCanceled, "booking", id, map[string]any{
		"room_id": existing.RoomID,
	})

	return nil
}

// SearchByRoom lists a room's confirmed bookings, optionally constrained to
// a single calendar day.
func (s *bookingService) SearchByRoom(ctx context.Context, roomID, date string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if roomID == "" {
		return nil, 0, apperrors.InvalidInput("room_id is required")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var start, end *model.WallClock
	if date != "" {
		dayStart, dayEnd, err := model.DayBounds(date)
		if err != nil {
			return nil, 0, apperrors.InvalidInput(err.Error())
		}
		start, end = &dayStart, &dayEnd
	}

	var (
		wg       sync.WaitGroup
		bookings []*model.Booking
		total    int64
		findErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bookings, findErr = s.repo.FindByRoom(ctx, roomID, start, end, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.CountByRoom(ctx, roomID, start, end)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to fetch bookings", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count bookings", countErr)
	}

	return bookings, total, nil
}

// acquireRoomLock takes the per-room advisory lock and returns its release
// func. A held lock means another writer is mid-flight on this room; the
// caller surfaces that as a retryable conflict rather than waiting.
func (s *bookingService) acquireRoomLock(ctx context.Context, roomID string) (func(), error) {
	lock := &model.RoomLock{
		ID:        model.RoomLockID(roomID),
		Owner:     uuid.New().String(),
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
		CreatedAt: time.Now(),
	}

	if err := s.lockRepo.Acquire(ctx, lock); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return nil, apperrors.Conflict("Another booking for this room is in progress, please retry")
		}
		return nil, apperrors.Internal("Failed to acquire room lock", err)
	}

	return func() {
		// Release on a fresh context: the request context may already be
		// canceled and the lock must still come off.
		releaseCtx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
		defer cancel()
		_ = s.lockRepo.Release(releaseCtx, lock.ID)
	}, nil
}

func (s *bookingService) applyDefaults(booking *model.Booking, actorID string) {
	booking.ID = ""
	booking.Status = model.BookingConfirmed
	booking.CreatedBy = actorID
}

func (s *bookingService) sanitize(booking *model.Booking) {
	booking.Title = sanitizer.SanitizeTitle(booking.Title)
	booking.Comment = sanitizer.SanitizeComment(booking.Comment)
}

func (s *bookingService) merge(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.Title != nil {
		merged.Title = *updates.Title
	}
	if updates.Comment != nil {
		merged.Comment = *updates.Comment
	}
	if updates.RoomID != nil {
		merged.RoomID = *updates.RoomID
	}
	if updates.StartTime != nil {
		merged.StartTime = *updates.StartTime
	}
	if updates.EndTime != nil {
		merged.EndTime = *updates.EndTime
	}

	return &merged
}

// invalidateOverview drops the cached room overview for every day a write
// touched. Failures are swallowed inside the cache layer; a stale entry
// expires on its own TTL anyway.
func (s *bookingService) invalidateOverview(ctx context.Context, dates ...string) {
	seen := make(map[string]struct{}, len(dates))
	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		keys = append(keys, cache.RoomOverviewKey(d))
	}
	if len(keys) > 0 {
		_ = s.cache.Invalidate(ctx, keys...)
	}
}

func (s *bookingService) toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]any, len(verrs))
		for _, ve := range verrs {
			details[ve.Field] = ve.Message
		}
		return apperrors.Validation("Booking validation failed", details)
	}
	return apperrors.Validation(err.Error(), nil)
}

func (s *bookingService) mapRepoError(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Booking operation failed", err)
	}
}
