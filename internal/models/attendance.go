package models

import (
	"github.com/uptrace/bun"
)

// Attendance categories. Counts filter on exact equality to these literals.
const (
	CategoryMale   = "male"
	CategoryFemale = "female"
	CategoryKids   = "kids"
)

// First-timer flag values as submitted by the check-in form.
const (
	FirstTimerYes = "Yes"
	FirstTimerNo  = "No"
)

// Attendance is one attendee's check-in submission against a Service.
// Records are immutable after insert and never deleted.
type Attendance struct {
	bun.BaseModel `bun:"table:attendance"`

	ID            string `bun:"id,pk" json:"id"`
	ServiceID     string `bun:"service_id,notnull" json:"service_id"`
	Name          string `bun:"name,notnull" json:"name"`
	Category      string `bun:"category,notnull" json:"category"`
	Email         string `bun:"email,nullzero" json:"email,omitempty"`
	Phone         string `bun:"phone,nullzero" json:"phone,omitempty"`
	PrayerRequest string `bun:"prayer_request,nullzero" json:"prayer_request,omitempty"`
	FirstTimer    string `bun:"first_timer,nullzero" json:"first_timer,omitempty"`
	// CreatedAt is milliseconds since epoch, assigned by the store at insert.
	CreatedAt int64 `bun:"created_at,notnull" json:"created_at"`
}

// ValidCategory reports whether c is one of the three enumerated categories.
// Matching is case-sensitive, no normalization.
func ValidCategory(c string) bool {
	return c == CategoryMale || c == CategoryFemale || c == CategoryKids
}

// ValidFirstTimer reports whether f is an acceptable first-timer flag.
// The field is optional, so empty is valid.
func ValidFirstTimer(f string) bool {
	return f == "" || f == FirstTimerYes || f == FirstTimerNo
}
