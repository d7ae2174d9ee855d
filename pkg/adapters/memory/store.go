// Package memory provides an in-process session store.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/aretw0/waterjug/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Playback
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Playback),
	}
}

// clone copies the slices so callers never share backing arrays with the store.
func clone(pb *domain.Playback) *domain.Playback {
	cp := *pb
	cp.Solution.Path = slices.Clone(pb.Solution.Path)
	cp.History = slices.Clone(pb.History)
	return &cp
}

// Save persists the snapshot in memory.
func (s *Store) Save(ctx context.Context, sessionID string, pb *domain.Playback) error {
	cp := clone(pb)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = cp
	return nil
}

// Load retrieves the snapshot from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Playback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pb, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return clone(pb), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns stored session IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}
