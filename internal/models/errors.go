package models

import "errors"

// Sentinel errors shared across service layers. Callers wrap these with
// fmt.Errorf("...: %w", err) and handlers map them to HTTP statuses.
var (
	// ErrNotFound is returned when a Service lookup misses.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for a malformed submission: missing name,
	// category outside the enumeration, or a bad first-timer flag.
	ErrValidation = errors.New("validation failed")

	// ErrExpired is returned when a check-in is attempted after the service's
	// expiry window has closed. Late submissions are rejected server-side,
	// not only by the form countdown.
	ErrExpired = errors.New("check-in window expired")

	// ErrStoreUnavailable is returned when the persistence layer cannot be
	// reached. Writes are not retried automatically; the submitter may retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)
