package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Session is one signed-in operator. Token is the upstream bearer token and
// is only ever held in plaintext in memory.
type Session struct {
	ID         string
	Token      string
	AdminID    string
	AdminName  string
	AdminEmail string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionStore persists operator sessions.
type SessionStore interface {
	// PutSession stores session, assigning an ID when it has none, and
	// returns the stored record.
	PutSession(ctx context.Context, session Session) (Session, error)
	// GetSession returns an unexpired session or ErrNotFound.
	GetSession(ctx context.Context, id string, now time.Time) (Session, error)
	DeleteSession(ctx context.Context, id string) error
	// DeleteExpired removes sessions expired at now and reports how many.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Store is a composite interface for admin storage concerns.
type Store interface {
	SessionStore
	Close() error
}
