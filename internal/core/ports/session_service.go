package ports

import (
	"context"

	"github.com/snapboard/webclient/internal/core/domain"
)

// SessionStore is the single source of truth for who is logged in on one
// browser session.
type SessionStore interface {
	// Key is the storage key the session's token lives under.
	Key() string
	Snapshot() domain.Session
	Bootstrap(ctx context.Context)
	Login(ctx context.Context, creds domain.Credentials) (*domain.User, error)
	Logout(ctx context.Context)
	Register(ctx context.Context, reg domain.Registration) error
	// Refresh re-fetches the profile after the user edited it.
	Refresh(ctx context.Context) error
}

// SessionManager hands out the SessionStore for a browser session cookie.
type SessionManager interface {
	// Acquire returns the store for cookie, starting its bootstrap on first
	// sight and waiting for it at most until ctx is done.
	Acquire(ctx context.Context, cookie string) SessionStore
	// Invalidate drops the user of the session stored under key.
	Invalidate(key string)
	// ActiveSessions reports how many stores are resident.
	ActiveSessions() int
}
