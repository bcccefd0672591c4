package models

import "time"

// SessionBooking is a single concrete occurrence on one calendar date: a
// makeup class for a trainer or a one-off room reservation. Expiry of past
// bookings is a status flip performed by the background worker; reads filter
// on status either way.
type SessionBooking struct {
	ID        string       `bson:"id" json:"id"`
	OwnerID   string       `bson:"ownerId" json:"ownerId"`
	OwnerKind OwnerKind    `bson:"ownerKind" json:"ownerKind"`
	Label     string       `bson:"label,omitempty" json:"label,omitempty"`
	Date      string       `bson:"date" json:"date"` // "YYYY-MM-DD"
	Interval  TimeInterval `bson:"interval" json:"interval"`
	Status    string       `bson:"status" json:"status"`
	CreatedAt time.Time    `bson:"createdAt" json:"createdAt"`
}

// Weekday returns the booking date's day of week. Construction paths validate
// the date, so a parse failure here only happens on hand-built values.
func (sb *SessionBooking) Weekday() time.Weekday {
	d, err := ParseDate(sb.Date)
	if err != nil {
		return time.Sunday
	}
	return d.Weekday()
}
