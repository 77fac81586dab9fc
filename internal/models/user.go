package models

import (
	"github.com/uptrace/bun"
)

// User roles. New identities default to client; admins are promoted manually.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// User is an authenticated identity, stored keyed by the token identifier of
// the bearer token that first presented it.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID              string `bun:"id,pk" json:"id"`
	Name            string `bun:"name,notnull" json:"name"`
	Email           string `bun:"email,nullzero" json:"email,omitempty"`
	TokenIdentifier string `bun:"token_identifier,unique,notnull" json:"-"`
	Role            string `bun:"role,notnull" json:"role"`
}
