package ports

import (
	"context"

	"github.com/aretw0/waterjug/pkg/domain"
)

// SessionStore defines the interface for persisting playback sessions.
// This is what lets a replay be stopped in one process and resumed in another.
type SessionStore interface {
	// Save persists the playback snapshot for a given session ID.
	Save(ctx context.Context, sessionID string, pb *domain.Playback) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Playback, error)

	// Delete removes the snapshot for a given session ID.
	// Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of every stored session.
	List(ctx context.Context) ([]string, error)
}

// HealthChecker is implemented by stores backed by a database or a remote
// service. The HTTP health endpoint reports them as unavailable on error.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StatusCounter is implemented by stores that can count sessions per
// playback status without loading them. It feeds the sessions gauge.
type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[domain.PlaybackStatus]int, error)
}
