// Package sessions keeps server-side session snapshots keyed by an opaque id
// that travels in a cookie.
package sessions

import (
	"context"
	"errors"
	"moviehub/proj/internal/domain/models"
	"time"
)

var (
	ErrNoSession = errors.New("no active session")
)

// Store is the session backend. Expiry is owned by the backend: Get must not
// return a snapshot older than its ttl.
type Store interface {
	Save(ctx context.Context, id string, user models.SessionUser, ttl time.Duration) error
	// Get returns ErrNoSession for unknown or expired ids.
	Get(ctx context.Context, id string) (*models.SessionUser, error)
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id string) error
	Close() error
}
