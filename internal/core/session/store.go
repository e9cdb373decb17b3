package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no session exists for a host.
var ErrNotFound = errors.New("session not found")

// Store defines persistence operations for server sessions.
type Store interface {
	// Get returns the session for a host. Returns ErrNotFound if not found.
	Get(ctx context.Context, host string) (Session, error)
	// Save creates or updates a session, keyed by host.
	Save(ctx context.Context, s Session) error
	// Delete removes the session for a host. Returns ErrNotFound if not found.
	Delete(ctx context.Context, host string) error
	// List returns all stored sessions.
	List(ctx context.Context) ([]Session, error)
}
