package models

import (
	"github.com/uptrace/bun"
)

// Service is one church meeting instance that attendees check into.
// Services are append-only: created once by an admin, never updated or deleted.
type Service struct {
	bun.BaseModel `bun:"table:services"`

	ID    string `bun:"id,pk" json:"id"`
	Title string `bun:"title,notnull" json:"title"`
	// Date is an ISO calendar date like "2024-12-25".
	Date string `bun:"date,notnull" json:"date"`
	// CreatedAt is milliseconds since epoch, stamped server-side at insert.
	// The check-in expiry window is anchored on it, so it is never client-supplied.
	CreatedAt int64 `bun:"created_at,notnull" json:"created_at"`
}
