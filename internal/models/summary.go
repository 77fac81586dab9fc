package models

// ServiceSummary is the derived, read-only view of a Service enriched with
// attendance statistics. It is never persisted; every read recomputes it from
// the underlying attendance rows so the counts always reflect the latest
// submissions.
type ServiceSummary struct {
	Service

	// AttendanceCount is the total number of attendance rows for the service,
	// including legacy rows whose category predates the three-value enumeration.
	AttendanceCount int `json:"attendance_count"`
	MaleCount       int `json:"male_count"`
	FemaleCount     int `json:"female_count"`
	KidsCount       int `json:"kids_count"`
	// ExpiresAt is CreatedAt plus the configured check-in window, in
	// milliseconds since epoch. The check-in form is open strictly before it.
	ExpiresAt int64 `json:"expires_at"`
}
