package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process. Used for local runs without redis.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	session Session
	expires time.Time
}

// NewMemoryStore returns an empty store. A zero ttl keeps sessions until cleared.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, entries: map[string]memoryEntry{}}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	entry, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !entry.expires.IsZero() && !m.now().Before(entry.expires) {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		return nil, nil
	}
	s := entry.session
	return &s, nil
}

func (m *MemoryStore) Set(_ context.Context, s Session) error {
	if !validID(s.ID) {
		return fmt.Errorf("session id is required")
	}
	entry := memoryEntry{session: s}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.entries[s.ID] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}
