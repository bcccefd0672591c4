package models

import "time"

// Commitment kinds used in conflict references.
const (
	CommitmentSchedule = "schedule"
	CommitmentBooking  = "booking"
)

// CommitmentRef identifies the existing commitment a conflict points at.
type CommitmentRef struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"` // "schedule" or "booking"
	Label string `json:"label,omitempty"`
}

// Conflict is one detected overlap between a candidate commitment and an
// existing one. Computed per request, never persisted.
type Conflict struct {
	Ref     CommitmentRef `json:"ref"`
	Day     time.Weekday  `json:"day"`
	Overlap TimeInterval  `json:"overlap"`
}

// SlotInput is one recurring weekday/time entry in a request payload.
type SlotInput struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"` // "HH:MM"
	EndTime   string `json:"endTime"`
}

// RecurringScheduleInput is the wire form of a candidate weekly schedule.
type RecurringScheduleInput struct {
	Label     string      `json:"label,omitempty"`
	Slots     []SlotInput `json:"slots"`
	ValidFrom string      `json:"validFrom"` // "YYYY-MM-DD"
	ValidTo   string      `json:"validTo"`
}

// SessionBookingInput is the wire form of a candidate one-off booking.
type SessionBookingInput struct {
	Label     string `json:"label,omitempty"`
	Date      string `json:"date"` // "YYYY-MM-DD"
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ConflictCheckRequest asks whether a candidate commitment collides with the
// owner's existing calendar. Exactly one of Recurring or Session must be set.
type ConflictCheckRequest struct {
	OwnerID   string                  `json:"ownerId" binding:"required"`
	OwnerKind string                  `json:"ownerKind" binding:"required"`
	Recurring *RecurringScheduleInput `json:"recurring,omitempty"`
	Session   *SessionBookingInput    `json:"session,omitempty"`
}

// ConflictView is the wire form of one conflict.
type ConflictView struct {
	Weekday        int    `json:"weekday"`
	OverlapStart   string `json:"overlapStart"` // "HH:MM"
	OverlapEnd     string `json:"overlapEnd"`
	ConflictingRef string `json:"conflictingRef"`
	Label          string `json:"label,omitempty"`
}

// ConflictCheckResponse reports the verdict. An empty conflict list is the
// success case, not an error.
type ConflictCheckResponse struct {
	HasConflict bool           `json:"hasConflict"`
	Conflicts   []ConflictView `json:"conflicts"`
}

// NewConflictCheckResponse renders engine output for the API.
func NewConflictCheckResponse(conflicts []Conflict) ConflictCheckResponse {
	views := make([]ConflictView, 0, len(conflicts))
	for _, c := range conflicts {
		views = append(views, ConflictView{
			Weekday:        int(c.Day),
			OverlapStart:   FormatClock(c.Overlap.Start),
			OverlapEnd:     FormatClock(c.Overlap.End),
			ConflictingRef: c.Ref.Kind + ":" + c.Ref.ID,
			Label:          c.Ref.Label,
		})
	}
	return ConflictCheckResponse{
		HasConflict: len(views) > 0,
		Conflicts:   views,
	}
}
