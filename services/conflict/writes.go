package conflict

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gymflow/models"
)

// Write flows. Each one acquires the owner's lock, re-fetches fresh
// commitments, re-runs the engine, and only then persists — so two admins
// racing on the same trainer or room cannot both pass a check against a
// stale snapshot and commit overlapping commitments.

func (s *DefaultConflictService) CreateSchedule(ctx context.Context, ownerID, ownerKind string, in models.RecurringScheduleInput) (*models.RecurringSchedule, []models.Conflict, error) {
	if ownerID == "" {
		return nil, nil, NewValidationError("ownerId", "owner id is required")
	}
	kind, err := models.ParseOwnerKind(ownerKind)
	if err != nil {
		return nil, nil, NewValidationError("ownerKind", err.Error())
	}
	schedule, err := buildScheduleCandidate(ownerID, kind, &in)
	if err != nil {
		return nil, nil, err
	}

	release, err := s.Locker.Acquire(ctx, ownerID, kind)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	window := DateWindow{From: schedule.ValidFrom, To: schedule.ValidTo}
	existing, err := s.Fresh.FetchActive(ctx, ownerID, kind, window)
	if err != nil {
		return nil, nil, err
	}
	if conflicts := s.Engine.Check(Candidate{Schedule: schedule}, existing); len(conflicts) > 0 {
		return nil, conflicts, nil
	}

	if err := s.Schedules.Create(ctx, schedule); err != nil {
		return nil, nil, fmt.Errorf("failed to persist schedule: %w", err)
	}
	s.invalidate(ctx, ownerID, kind)
	s.Logger.Info("schedule created",
		zap.String("scheduleId", schedule.ID),
		zap.String("ownerId", ownerID),
		zap.String("ownerKind", string(kind)))
	return schedule, nil, nil
}

func (s *DefaultConflictService) CancelSchedule(ctx context.Context, id string) error {
	schedule, err := s.Schedules.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Schedules.UpdateStatus(ctx, id, models.StatusCancelled); err != nil {
		return err
	}
	s.invalidate(ctx, schedule.OwnerID, schedule.OwnerKind)
	s.Logger.Info("schedule cancelled", zap.String("scheduleId", id))
	return nil
}

// UpdateScheduleWindow shifts a schedule's validity dates. The slots carry
// over unchanged into a new version; the old version is marked superseded so
// prior conflict decisions stay explainable.
func (s *DefaultConflictService) UpdateScheduleWindow(ctx context.Context, id, validFrom, validTo string) (*models.RecurringSchedule, []models.Conflict, error) {
	from, to, err := buildWindow(validFrom, validTo)
	if err != nil {
		return nil, nil, err
	}
	current, err := s.Schedules.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if current.Status != models.StatusActive {
		return nil, nil, NewValidationError("id", fmt.Sprintf("schedule %s is %s and cannot be edited", id, current.Status))
	}

	replacement := &models.RecurringSchedule{
		OwnerID:   current.OwnerID,
		OwnerKind: current.OwnerKind,
		Label:     current.Label,
		Slots:     current.Slots,
		ValidFrom: from,
		ValidTo:   to,
		Status:    models.StatusActive,
	}

	release, err := s.Locker.Acquire(ctx, current.OwnerID, current.OwnerKind)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	existing, err := s.Fresh.FetchActive(ctx, current.OwnerID, current.OwnerKind, DateWindow{From: from, To: to})
	if err != nil {
		return nil, nil, err
	}
	// The version being replaced must not conflict with its own successor.
	existing = existing.ExcludeSchedule(id)
	if conflicts := s.Engine.Check(Candidate{Schedule: replacement}, existing); len(conflicts) > 0 {
		return nil, conflicts, nil
	}

	if err := s.Schedules.Supersede(ctx, id, replacement); err != nil {
		return nil, nil, fmt.Errorf("failed to supersede schedule: %w", err)
	}
	s.invalidate(ctx, current.OwnerID, current.OwnerKind)
	s.Logger.Info("schedule window updated",
		zap.String("oldId", id),
		zap.String("newId", replacement.ID),
		zap.String("validFrom", from),
		zap.String("validTo", to))
	return replacement, nil, nil
}

func (s *DefaultConflictService) ListOwnerSchedules(ctx context.Context, ownerID, ownerKind string) ([]models.RecurringSchedule, error) {
	kind, err := models.ParseOwnerKind(ownerKind)
	if err != nil {
		return nil, NewValidationError("ownerKind", err.Error())
	}
	return s.Schedules.ListByOwner(ctx, ownerID, kind)
}

func (s *DefaultConflictService) CreateBooking(ctx context.Context, ownerID, ownerKind string, in models.SessionBookingInput) (*models.SessionBooking, []models.Conflict, error) {
	if ownerID == "" {
		return nil, nil, NewValidationError("ownerId", "owner id is required")
	}
	kind, err := models.ParseOwnerKind(ownerKind)
	if err != nil {
		return nil, nil, NewValidationError("ownerKind", err.Error())
	}
	booking, err := buildBookingCandidate(ownerID, kind, &in)
	if err != nil {
		return nil, nil, err
	}

	release, err := s.Locker.Acquire(ctx, ownerID, kind)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	window := DateWindow{From: booking.Date, To: booking.Date}
	existing, err := s.Fresh.FetchActive(ctx, ownerID, kind, window)
	if err != nil {
		return nil, nil, err
	}
	if conflicts := s.Engine.Check(Candidate{Booking: booking}, existing); len(conflicts) > 0 {
		return nil, conflicts, nil
	}

	if err := s.Bookings.Create(ctx, booking); err != nil {
		return nil, nil, fmt.Errorf("failed to persist booking: %w", err)
	}
	s.invalidate(ctx, ownerID, kind)
	s.Logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("ownerId", ownerID),
		zap.String("date", booking.Date))
	return booking, nil, nil
}

func (s *DefaultConflictService) CancelBooking(ctx context.Context, id string) error {
	booking, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Bookings.UpdateStatus(ctx, id, models.StatusCancelled); err != nil {
		return err
	}
	s.invalidate(ctx, booking.OwnerID, booking.OwnerKind)
	s.Logger.Info("booking cancelled", zap.String("bookingId", id))
	return nil
}

func (s *DefaultConflictService) ListOwnerBookings(ctx context.Context, ownerID, ownerKind string) ([]models.SessionBooking, error) {
	kind, err := models.ParseOwnerKind(ownerKind)
	if err != nil {
		return nil, NewValidationError("ownerKind", err.Error())
	}
	return s.Bookings.ListByOwner(ctx, ownerID, kind)
}

func (s *DefaultConflictService) invalidate(ctx context.Context, ownerID string, kind models.OwnerKind) {
	if s.Snapshots != nil {
		s.Snapshots.Invalidate(ctx, ownerID, kind)
	}
}
