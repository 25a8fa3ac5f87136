package session

import "sync"

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore returns a process-local Store. It does not survive restarts
// and is not shared across instances.
func NewMemoryStore() Store {
	return &memoryStore{
		sessions: make(map[string]Session),
	}
}

func (m *memoryStore) Get(userID string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[userID]
	return s, ok
}

func (m *memoryStore) Set(userID string, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[userID] = s
}

func (m *memoryStore) Clear(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
}
