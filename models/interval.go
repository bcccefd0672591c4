package models

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the exclusive upper bound for interval end minutes.
const MinutesPerDay = 1440

// TimeInterval is a half-open time-of-day range [Start, End) in minutes from
// midnight (e.g., 420 for 7:00 AM). Two back-to-back intervals sharing a
// boundary minute do not overlap.
type TimeInterval struct {
	Start int `bson:"start" json:"start"`
	End   int `bson:"end" json:"end"`
}

// NewTimeInterval validates bounds and returns the interval.
func NewTimeInterval(start, end int) (TimeInterval, error) {
	if start < 0 || start >= MinutesPerDay {
		return TimeInterval{}, fmt.Errorf("invalid interval: start minute %d out of range [0, %d)", start, MinutesPerDay)
	}
	if end <= start || end > MinutesPerDay {
		return TimeInterval{}, fmt.Errorf("invalid interval: end minute %d must be in (%d, %d]", end, start, MinutesPerDay)
	}
	return TimeInterval{Start: start, End: end}, nil
}

// Overlaps reports whether the two half-open intervals share any minute.
func (ti TimeInterval) Overlaps(other TimeInterval) bool {
	return ti.Start < other.End && other.Start < ti.End
}

// Overlap returns the shared sub-interval and whether one exists.
func (ti TimeInterval) Overlap(other TimeInterval) (TimeInterval, bool) {
	if !ti.Overlaps(other) {
		return TimeInterval{}, false
	}
	out := TimeInterval{Start: ti.Start, End: ti.End}
	if other.Start > out.Start {
		out.Start = other.Start
	}
	if other.End < out.End {
		out.End = other.End
	}
	return out, true
}

func (ti TimeInterval) String() string {
	return fmt.Sprintf("%s-%s", FormatClock(ti.Start), FormatClock(ti.End))
}

// ParseClock converts a strict "HH:MM" (or "H:MM") clock string to minutes
// from midnight. Hours must be 0-23 and minutes 0-59; "24:00" is accepted so
// callers can express an end-of-day bound. Anything else is rejected rather
// than guessed at.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 || !allDigits(hh) || !allDigits(mm) {
		return 0, fmt.Errorf("invalid clock value %q: expected HH:MM", s)
	}
	hours, _ := strconv.Atoi(hh)
	minutes, _ := strconv.Atoi(mm)
	if hours == 24 && minutes == 0 {
		return MinutesPerDay, nil
	}
	if hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid clock value %q: hours out of range", s)
	}
	if minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid clock value %q: minutes out of range", s)
	}
	return hours*60 + minutes, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
