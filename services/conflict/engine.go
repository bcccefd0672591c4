package conflict

import (
	"time"

	"go.uber.org/zap"

	"gymflow/models"
)

// Candidate is a proposed commitment normalized for checking. Exactly one of
// Schedule or Booking is set.
type Candidate struct {
	Schedule *models.RecurringSchedule
	Booking  *models.SessionBooking
}

// occurrence is one comparable (weekday, validity window, interval) triple.
// A one-off booking collapses to a window of a single date; date strings
// compare lexicographically, windows are inclusive on both ends.
type occurrence struct {
	ref      models.CommitmentRef
	day      time.Weekday
	from, to string
	interval models.TimeInterval
}

// Engine detects calendar collisions between a candidate commitment and an
// owner's existing commitments. It is a pure computation over immutable
// snapshots: stateless, no I/O, safe for concurrent use.
type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// Check returns every overlap between the candidate and the existing
// commitments. An empty result means the candidate is clear; a detected
// conflict is a normal return value, not an error. Non-active existing
// commitments are never consulted.
func (e *Engine) Check(candidate Candidate, existing CommitmentSet) []models.Conflict {
	candOccs := candidateOccurrences(candidate)
	if len(candOccs) == 0 {
		return nil
	}

	var existOccs []occurrence
	for i := range existing.Schedules {
		existOccs = append(existOccs, scheduleOccurrences(&existing.Schedules[i])...)
	}
	for i := range existing.Bookings {
		if occ, ok := bookingOccurrence(&existing.Bookings[i]); ok {
			existOccs = append(existOccs, occ)
		}
	}

	var conflicts []models.Conflict
	for _, co := range candOccs {
		for _, eo := range existOccs {
			// Cheapest filter first: different weekdays can never collide.
			if co.day != eo.day {
				continue
			}
			// Validity windows must share at least one date; weekly patterns
			// that never run concurrently do not conflict even on the same
			// weekday and time. A single-date side is the window [date, date].
			if co.from > eo.to || co.to < eo.from {
				continue
			}
			overlap, ok := co.interval.Overlap(eo.interval)
			if !ok {
				continue
			}
			conflicts = append(conflicts, models.Conflict{
				Ref:     eo.ref,
				Day:     eo.day,
				Overlap: overlap,
			})
		}
	}

	if len(conflicts) > 0 && e.logger != nil {
		e.logger.Debug("conflicts detected",
			zap.Int("count", len(conflicts)),
			zap.Int("existingChecked", len(existOccs)))
	}
	return conflicts
}

func candidateOccurrences(c Candidate) []occurrence {
	switch {
	case c.Schedule != nil:
		return scheduleOccurrences(c.Schedule)
	case c.Booking != nil:
		if occ, ok := bookingOccurrence(c.Booking); ok {
			return []occurrence{occ}
		}
	}
	return nil
}

func scheduleOccurrences(rs *models.RecurringSchedule) []occurrence {
	if rs.Status != models.StatusActive {
		return nil
	}
	ref := models.CommitmentRef{ID: rs.ID, Kind: models.CommitmentSchedule, Label: rs.Label}
	occs := make([]occurrence, 0, len(rs.Slots))
	for _, slot := range rs.Slots {
		occs = append(occs, occurrence{
			ref:      ref,
			day:      slot.DayOfWeek,
			from:     rs.ValidFrom,
			to:       rs.ValidTo,
			interval: slot.Interval,
		})
	}
	return occs
}

func bookingOccurrence(sb *models.SessionBooking) (occurrence, bool) {
	if sb.Status != models.StatusActive {
		return occurrence{}, false
	}
	return occurrence{
		ref:      models.CommitmentRef{ID: sb.ID, Kind: models.CommitmentBooking, Label: sb.Label},
		day:      sb.Weekday(),
		from:     sb.Date,
		to:       sb.Date,
		interval: sb.Interval,
	}, true
}
