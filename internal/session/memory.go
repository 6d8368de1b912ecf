package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in an in-process map. This is the default
// backend; state does not survive a restart, which degrades to "not
// awaiting translation".
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]Session),
	}
}

// Get returns the stored session or the default when absent.
func (s *MemoryStore) Get(_ context.Context, userID int64) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if stored, ok := s.sessions[userID]; ok {
		return stored, nil
	}

	return Default(), nil
}

// Set stores the session for the user.
func (s *MemoryStore) Set(_ context.Context, userID int64, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[userID] = sess
	return nil
}

// Clear removes the stored session for the user.
func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}
