package conflict

import (
	"fmt"
	"time"

	"gymflow/models"
)

// Builders turn wire inputs into validated domain values. All failures are
// ValidationErrors carrying the offending field, raised before any provider
// call is made.

func buildScheduleCandidate(ownerID string, kind models.OwnerKind, in *models.RecurringScheduleInput) (*models.RecurringSchedule, error) {
	if len(in.Slots) == 0 {
		return nil, NewValidationError("slots", "at least one weekly slot is required")
	}
	slots := make([]models.WeeklySlot, 0, len(in.Slots))
	for i, si := range in.Slots {
		slot, err := buildSlot(i, si)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	validFrom, validTo, err := buildWindow(in.ValidFrom, in.ValidTo)
	if err != nil {
		return nil, err
	}

	return &models.RecurringSchedule{
		OwnerID:   ownerID,
		OwnerKind: kind,
		Label:     in.Label,
		Slots:     slots,
		ValidFrom: validFrom,
		ValidTo:   validTo,
		Status:    models.StatusActive,
	}, nil
}

func buildSlot(i int, si models.SlotInput) (models.WeeklySlot, error) {
	field := func(name string) string { return fmt.Sprintf("slots[%d].%s", i, name) }

	if si.DayOfWeek < 0 || si.DayOfWeek > 6 {
		return models.WeeklySlot{}, NewValidationError(field("dayOfWeek"), "must be 0 (Sunday) through 6 (Saturday)")
	}
	interval, err := buildInterval(field("startTime"), si.StartTime, field("endTime"), si.EndTime)
	if err != nil {
		return models.WeeklySlot{}, err
	}
	return models.WeeklySlot{
		DayOfWeek: time.Weekday(si.DayOfWeek),
		Interval:  interval,
	}, nil
}

func buildBookingCandidate(ownerID string, kind models.OwnerKind, in *models.SessionBookingInput) (*models.SessionBooking, error) {
	if in.Date == "" {
		return nil, NewValidationError("date", "date is required")
	}
	if _, err := models.ParseDate(in.Date); err != nil {
		return nil, NewValidationError("date", err.Error())
	}
	interval, err := buildInterval("startTime", in.StartTime, "endTime", in.EndTime)
	if err != nil {
		return nil, err
	}
	return &models.SessionBooking{
		OwnerID:   ownerID,
		OwnerKind: kind,
		Label:     in.Label,
		Date:      in.Date,
		Interval:  interval,
		Status:    models.StatusActive,
	}, nil
}

func buildInterval(startField, startTime, endField, endTime string) (models.TimeInterval, error) {
	if startTime == "" {
		return models.TimeInterval{}, NewValidationError(startField, "start time is required")
	}
	if endTime == "" {
		return models.TimeInterval{}, NewValidationError(endField, "end time is required")
	}
	start, err := models.ParseClock(startTime)
	if err != nil {
		return models.TimeInterval{}, NewValidationError(startField, err.Error())
	}
	end, err := models.ParseClock(endTime)
	if err != nil {
		return models.TimeInterval{}, NewValidationError(endField, err.Error())
	}
	if end <= start {
		return models.TimeInterval{}, NewValidationError(endField, "end time must be after start time")
	}
	interval, err := models.NewTimeInterval(start, end)
	if err != nil {
		return models.TimeInterval{}, NewValidationError(startField, err.Error())
	}
	return interval, nil
}

func buildWindow(validFrom, validTo string) (string, string, error) {
	if validFrom == "" {
		return "", "", NewValidationError("validFrom", "start date is required")
	}
	if validTo == "" {
		return "", "", NewValidationError("validTo", "end date is required")
	}
	if _, err := models.ParseDate(validFrom); err != nil {
		return "", "", NewValidationError("validFrom", err.Error())
	}
	if _, err := models.ParseDate(validTo); err != nil {
		return "", "", NewValidationError("validTo", err.Error())
	}
	if validFrom > validTo {
		return "", "", NewValidationError("validTo", "end date must not be before start date")
	}
	return validFrom, validTo, nil
}
