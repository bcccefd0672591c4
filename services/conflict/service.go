package conflict

import (
	"context"
	"sort"

	"go.uber.org/zap"

	bookingRepo "gymflow/database/repository/booking"
	scheduleRepo "gymflow/database/repository/schedule"
	"gymflow/models"
)

// ConflictService is the application surface over the engine: request
// validation, commitment fetches, and the write flows that must re-check
// inside the owner's critical section.
type ConflictService interface {
	CheckCandidate(ctx context.Context, req models.ConflictCheckRequest) (models.ConflictCheckResponse, error)

	CreateSchedule(ctx context.Context, ownerID, ownerKind string, in models.RecurringScheduleInput) (*models.RecurringSchedule, []models.Conflict, error)
	CancelSchedule(ctx context.Context, id string) error
	UpdateScheduleWindow(ctx context.Context, id, validFrom, validTo string) (*models.RecurringSchedule, []models.Conflict, error)
	ListOwnerSchedules(ctx context.Context, ownerID, ownerKind string) ([]models.RecurringSchedule, error)

	CreateBooking(ctx context.Context, ownerID, ownerKind string, in models.SessionBookingInput) (*models.SessionBooking, []models.Conflict, error)
	CancelBooking(ctx context.Context, id string) error
	ListOwnerBookings(ctx context.Context, ownerID, ownerKind string) ([]models.SessionBooking, error)

	DayAvailability(ctx context.Context, ownerID, ownerKind, date string) ([]models.TimeInterval, error)
}

// DefaultConflictService wires the engine to providers and repositories.
// Provider serves read-only checks through the snapshot cache; Fresh bypasses
// every cache and is the only provider consulted under the owner lock.
type DefaultConflictService struct {
	Engine    *Engine
	Provider  CommitmentProvider
	Fresh     CommitmentProvider
	Snapshots SnapshotInvalidator
	Schedules scheduleRepo.ScheduleRepository
	Bookings  bookingRepo.BookingRepository
	Locker    OwnerLocker
	Logger    *zap.Logger
}

// CheckCandidate runs a read-only conflict check. Validation failures are
// reported before any provider call; a provider failure is surfaced, never
// treated as an empty calendar.
func (s *DefaultConflictService) CheckCandidate(ctx context.Context, req models.ConflictCheckRequest) (models.ConflictCheckResponse, error) {
	candidate, kind, window, err := s.buildCandidate(req)
	if err != nil {
		return models.ConflictCheckResponse{}, err
	}

	existing, err := s.Provider.FetchActive(ctx, req.OwnerID, kind, window)
	if err != nil {
		return models.ConflictCheckResponse{}, err
	}

	conflicts := s.Engine.Check(candidate, existing)
	return models.NewConflictCheckResponse(conflicts), nil
}

func (s *DefaultConflictService) buildCandidate(req models.ConflictCheckRequest) (Candidate, models.OwnerKind, DateWindow, error) {
	if req.OwnerID == "" {
		return Candidate{}, "", DateWindow{}, NewValidationError("ownerId", "owner id is required")
	}
	kind, err := models.ParseOwnerKind(req.OwnerKind)
	if err != nil {
		return Candidate{}, "", DateWindow{}, NewValidationError("ownerKind", err.Error())
	}

	switch {
	case req.Recurring != nil && req.Session != nil:
		return Candidate{}, "", DateWindow{}, NewValidationError("candidate", "supply either a recurring schedule or a session booking, not both")
	case req.Recurring != nil:
		schedule, err := buildScheduleCandidate(req.OwnerID, kind, req.Recurring)
		if err != nil {
			return Candidate{}, "", DateWindow{}, err
		}
		window := DateWindow{From: schedule.ValidFrom, To: schedule.ValidTo}
		return Candidate{Schedule: schedule}, kind, window, nil
	case req.Session != nil:
		booking, err := buildBookingCandidate(req.OwnerID, kind, req.Session)
		if err != nil {
			return Candidate{}, "", DateWindow{}, err
		}
		window := DateWindow{From: booking.Date, To: booking.Date}
		return Candidate{Booking: booking}, kind, window, nil
	}
	return Candidate{}, "", DateWindow{}, NewValidationError("candidate", "a recurring schedule or a session booking is required")
}

// DayAvailability returns the free gaps in an owner's day, computed by
// subtracting every active commitment occurring on that date from the full
// day.
func (s *DefaultConflictService) DayAvailability(ctx context.Context, ownerID, ownerKind, date string) ([]models.TimeInterval, error) {
	if ownerID == "" {
		return nil, NewValidationError("ownerId", "owner id is required")
	}
	kind, err := models.ParseOwnerKind(ownerKind)
	if err != nil {
		return nil, NewValidationError("ownerKind", err.Error())
	}
	if _, err := models.ParseDate(date); err != nil {
		return nil, NewValidationError("date", err.Error())
	}

	existing, err := s.Provider.FetchActive(ctx, ownerID, kind, DateWindow{From: date, To: date})
	if err != nil {
		return nil, err
	}

	var busy []models.TimeInterval
	for i := range existing.Schedules {
		for _, slot := range existing.Schedules[i].ActiveOn(date) {
			busy = append(busy, slot.Interval)
		}
	}
	for _, b := range existing.Bookings {
		if b.Status == models.StatusActive && b.Date == date {
			busy = append(busy, b.Interval)
		}
	}
	return freeGaps(busy), nil
}

// freeGaps subtracts the busy intervals from [0, 1440).
func freeGaps(busy []models.TimeInterval) []models.TimeInterval {
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start < busy[j].Start })

	gaps := make([]models.TimeInterval, 0, len(busy)+1)
	cursor := 0
	for _, b := range busy {
		if b.Start > cursor {
			gaps = append(gaps, models.TimeInterval{Start: cursor, End: b.Start})
		}
		if b.End > cursor {
			cursor = b.End
		}
	}
	if cursor < models.MinutesPerDay {
		gaps = append(gaps, models.TimeInterval{Start: cursor, End: models.MinutesPerDay})
	}
	return gaps
}
