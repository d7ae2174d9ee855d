package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/playback"
	"github.com/aretw0/waterjug/pkg/ports"
)

// StartFunc builds a fresh controller for a new session.
type StartFunc func(ctx context.Context) (*playback.Controller, error)

// SessionManager handles the lifecycle of a durable playback session.
// It coordinates between the Runner, the engine and the SessionStore.
type SessionManager struct {
	Store ports.SessionStore
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager(store ports.SessionStore) *SessionManager {
	return &SessionManager{Store: store}
}

// LoadOrStart restores sessionID from the store when it exists. Otherwise it
// calls start and saves the new controller right away to reserve the ID.
// The boolean reports whether the session was loaded (true) or new (false).
// opts are applied to restored controllers; start is responsible for its own.
func (sm *SessionManager) LoadOrStart(
	ctx context.Context,
	sessionID string,
	start StartFunc,
	opts ...playback.Option,
) (*playback.Controller, bool, error) {
	if sessionID == "" || sm.Store == nil {
		ctrl, err := start(ctx)
		return ctrl, false, err
	}

	ctrl, err := sm.Load(ctx, sessionID, opts...)
	if err == nil {
		return ctrl, true, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, false, err
	}

	ctrl, err = start(ctx)
	if err != nil {
		return nil, false, err
	}
	if err := sm.Save(ctx, sessionID, ctrl); err != nil {
		return nil, false, fmt.Errorf("failed to initialize session %s: %w", sessionID, err)
	}
	return ctrl, false, nil
}

// Load restores an existing session. It returns domain.ErrSessionNotFound
// (wrapped) when the ID is unknown.
func (sm *SessionManager) Load(ctx context.Context, sessionID string, opts ...playback.Option) (*playback.Controller, error) {
	pb, err := sm.Store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return playback.Restore(*pb, opts...), nil
}

// Save persists the controller's snapshot under sessionID.
func (sm *SessionManager) Save(ctx context.Context, sessionID string, ctrl *playback.Controller) error {
	if sessionID == "" || sm.Store == nil {
		return nil
	}
	snap := ctrl.Snapshot()
	snap.SessionID = sessionID
	return sm.Store.Save(ctx, sessionID, &snap)
}
