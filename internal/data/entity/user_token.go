package entity

import (
	"time"

	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// UserToken is an issued credential. Tokens are deactivated, never removed.
type UserToken struct {
	ID uuid.UUID `db:"id"`
	Base
	UserID    uuid.UUID `db:"user_id"`
	Token     string    `db:"token"`
	TokenType TokenType `db:"token_type"`
	Expires   time.Time `db:"expires"`
	IsActive  bool      `db:"is_active"`
	Device    *string   `db:"device"`
	IPAddress *string   `db:"ip_address"`
	UserAgent *string   `db:"user_agent"`
}

// Usable reports whether the token can still authenticate at now.
func (t *UserToken) Usable(now time.Time) bool {
	return t.IsActive && !t.IsDeleted && t.Expires.After(now)
}
