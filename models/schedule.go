package models

import (
	"fmt"
	"time"
)

// OwnerKind identifies whose calendar a commitment occupies.
type OwnerKind string

const (
	OwnerTrainer OwnerKind = "trainer"
	OwnerRoom    OwnerKind = "room"
)

// ParseOwnerKind validates the wire value for an owner kind.
func ParseOwnerKind(s string) (OwnerKind, error) {
	switch OwnerKind(s) {
	case OwnerTrainer, OwnerRoom:
		return OwnerKind(s), nil
	}
	return "", fmt.Errorf("unknown owner kind %q", s)
}

// Commitment statuses. Cancelled and completed commitments never conflict.
const (
	StatusActive     = "active"
	StatusCancelled  = "cancelled"
	StatusCompleted  = "completed"
	StatusSuperseded = "superseded"
	StatusExpired    = "expired"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// WeeklySlot is one recurring weekday occurrence within a schedule,
// e.g. Mon 06:00-07:30.
type WeeklySlot struct {
	DayOfWeek time.Weekday `bson:"dayOfWeek" json:"dayOfWeek"` // 0 = Sunday
	Interval  TimeInterval `bson:"interval" json:"interval"`
}

// RecurringSchedule is a weekly pattern of slots bound to one owner and a
// validity window [ValidFrom, ValidTo] (dates inclusive). Slots are never
// edited in place: a change inserts a new version and marks this one
// superseded, so past conflict decisions stay explainable.
type RecurringSchedule struct {
	ID        string       `bson:"id" json:"id"`
	OwnerID   string       `bson:"ownerId" json:"ownerId"`
	OwnerKind OwnerKind    `bson:"ownerKind" json:"ownerKind"`
	Label     string       `bson:"label,omitempty" json:"label,omitempty"` // e.g. class name
	Slots     []WeeklySlot `bson:"slots" json:"slots"`
	ValidFrom string       `bson:"validFrom" json:"validFrom"` // "YYYY-MM-DD"
	ValidTo   string       `bson:"validTo" json:"validTo"`
	Status    string       `bson:"status" json:"status"`
	Version   int          `bson:"version" json:"version"`
	CreatedAt time.Time    `bson:"createdAt" json:"createdAt"`
}

// ActiveOn returns the slots occurring on the given date: the schedule must be
// active, the date must fall inside the validity window, and the slot weekday
// must match.
func (rs *RecurringSchedule) ActiveOn(date string) []WeeklySlot {
	if rs.Status != StatusActive {
		return nil
	}
	d, err := ParseDate(date)
	if err != nil {
		return nil
	}
	if date < rs.ValidFrom || date > rs.ValidTo {
		return nil
	}
	var out []WeeklySlot
	for _, slot := range rs.Slots {
		if slot.DayOfWeek == d.Weekday() {
			out = append(out, slot)
		}
	}
	return out
}
