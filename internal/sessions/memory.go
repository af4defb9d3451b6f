package sessions

import (
	"context"
	"moviehub/proj/internal/domain/models"
	"sync"
	"time"
)

type memoryEntry struct {
	user      models.SessionUser
	expiresAt time.Time
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
	done     chan struct{}
	once     sync.Once
}

// NewMemoryStore starts a janitor that drops expired entries every cleanupInterval.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go s.janitor(cleanupInterval)
	}
	return s
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.deleteExpired()
		}
	}
}

func (s *MemoryStore) deleteExpired() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemoryStore) Save(_ context.Context, id string, user models.SessionUser, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = memoryEntry{user: user, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.SessionUser, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || s.now().After(entry.expiresAt) {
		return nil, ErrNoSession
	}
	user := entry.user
	return &user, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}
