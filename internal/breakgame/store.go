package breakgame

import (
	"context"
	"sync"
	"time"
)

// SessionStore keeps break sessions keyed by user.
type SessionStore interface {
	// Load returns the user's session, or nil, nil if there is none.
	Load(ctx context.Context, userID string) (*Session, error)

	// Save stores the session, stamping UpdatedAt.
	Save(ctx context.Context, s *Session) error

	// Delete removes the user's session.
	Delete(ctx context.Context, userID string) error
}

// MemoryStore is a process-local SessionStore.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session), now: time.Now}
}

// Load returns a copy of the stored session.
func (m *MemoryStore) Load(_ context.Context, userID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil, nil
	}
	return cloneSession(s), nil
}

// Save stores a copy of s.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.UpdatedAt = m.now()
	m.sessions[s.UserID] = *cloneSession(*s)
	return nil
}

// Delete removes the user's session.
func (m *MemoryStore) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

// Sweep removes sessions untouched since cutoff whose break window has also
// ended by then, and returns how many were removed.
func (m *MemoryStore) Sweep(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if !s.UpdatedAt.Before(cutoff) {
			continue
		}
		if s.Active && s.StartedAt.Add(Duration).After(cutoff) {
			continue
		}
		delete(m.sessions, id)
		removed++
	}
	return removed
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func cloneSession(s Session) *Session {
	if s.Pending != nil {
		p := *s.Pending
		s.Pending = &p
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		s.CompletedAt = &t
	}
	return &s
}
