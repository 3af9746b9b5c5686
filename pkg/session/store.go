package session

import (
	"context"
	"sync"
)

// Store persists sessions between requests. The core logic never assumes a
// particular backing: a single instance can run on the in-memory store, a
// multi-instance deployment substitutes the Redis store.
type Store interface {
	// Get retrieves a session by id. Returns ErrSessionNotFound for unknown ids.
	Get(ctx context.Context, id string) (*Session, error)

	// Put stores or replaces a session.
	Put(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}

// MemoryStore is a process-local Store, safe for concurrent use. Sessions
// live until deleted or the process exits; acceptable only for
// single-instance, non-persistent deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

// Get retrieves a session by id.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Put stores or replaces a session.
func (m *MemoryStore) Put(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[s.ID]; !exists {
		sessionsActive.Inc()
	}
	m.sessions[s.ID] = s
	return nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; exists {
		sessionsActive.Dec()
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
