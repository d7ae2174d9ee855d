package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/waterjug/internal/logging"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/playback"
	"github.com/aretw0/waterjug/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// Action is a playback command applied to a stored session.
type Action string

const (
	ActionStart  Action = "start"
	ActionNext   Action = "next"
	ActionStop   Action = "stop"
	ActionResume Action = "resume"
	ActionReset  Action = "reset"
)

// ErrUnknownAction is returned for an action outside the list above.
var ErrUnknownAction = errors.New("unknown playback action")

// ParseAction validates an action name.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionStart, ActionNext, ActionStop, ActionResume, ActionReset:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// Per-session locks are reference counted and dropped when unused.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	newID   func() string
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithLifecycleHooks forwards OnStep to every controller the manager drives.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithIDGenerator replaces the UUID generator, mostly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Create stores an idle playback over sol under a fresh session ID.
func (m *Manager) Create(ctx context.Context, sol *domain.Solution) (*domain.Playback, error) {
	id := m.newID()
	pb := playback.New(*sol, playback.WithSessionID(id)).Snapshot()

	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Save(ctx, id, &pb)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	m.logger.Debug("session created", "session_id", id, "moves", sol.Moves())
	return &pb, nil
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Playback, error) {
	var pb *domain.Playback
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		pb, err = m.store.Load(ctx, sessionID)
		return err
	})
	return pb, err
}

// Apply runs one playback action against a stored session and persists the
// result. For ActionNext the replayed step is returned as well.
//
// Playback errors (domain.ErrNotRunning, domain.ErrPlaybackFinished) are
// returned with the unchanged-or-updated snapshot, which is still saved.
func (m *Manager) Apply(ctx context.Context, sessionID string, action Action) (*domain.Playback, *domain.Step, error) {
	_, after, step, err := m.ApplyTracked(ctx, sessionID, action)
	return after, step, err
}

// ApplyTracked is Apply that also returns the snapshot the action started
// from, read under the same lock, so callers can diff before and after.
func (m *Manager) ApplyTracked(ctx context.Context, sessionID string, action Action) (before, after *domain.Playback, step *domain.Step, err error) {
	var snap domain.Playback
	var actionErr error
	err = m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		pb, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		before = pb

		ctrl := playback.Restore(*pb,
			playback.WithLogger(m.logger),
			playback.WithLifecycleHooks(m.hooks),
		)

		switch action {
		case ActionStart:
			ctrl.Start()
		case ActionNext:
			s, err := ctrl.NextContext(ctx)
			if err == nil {
				step = &s
			}
			actionErr = err
		case ActionStop:
			ctrl.Stop()
		case ActionResume:
			actionErr = ctrl.Resume()
		case ActionReset:
			ctrl.Reset()
		default:
			return fmt.Errorf("%w: %q", ErrUnknownAction, action)
		}

		snap = ctrl.Snapshot()
		return m.store.Save(ctx, sessionID, &snap)
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return before, &snap, step, actionErr
}

// Save persists a snapshot.
func (m *Manager) Save(ctx context.Context, sessionID string, pb *domain.Playback) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, pb)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// WithLock executes fn while holding the local lock for the session and,
// when configured, the distributed one.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
