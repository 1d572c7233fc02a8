package session

import (
	"context"
	"sync"
	"time"

	"github.com/lucasmv/studydeck/internal/logger"
	"github.com/lucasmv/studydeck/internal/models"
)

// Manager owns the in-memory set of active study sessions. Sessions are
// transient by design: abandoning one simply lets it age out, any reviews
// already persisted stay applied.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	log      *logger.Logger
}

// NewManager creates a session manager that evicts sessions idle for
// longer than ttl.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		log:      logger.Default().WithPrefix("sessions"),
	}
}

// Start creates and registers a session over batch.
func (m *Manager) Start(userID, deckID string, batch []models.Flashcard, sink ReviewSink) *Session {
	s := newSession(userID, deckID, batch, sink, m.now)
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	m.log.Debug("session started: id=%s, deck_id=%s, batch=%d", s.ID(), deckID, len(batch))
	return s
}

// Get returns the session with the given id, if still active.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove drops a session, typically once the caller observed completion.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// PruneExpired drops sessions idle past the TTL and returns how many.
func (m *Manager) PruneExpired() int {
	cutoff := m.now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	pruned := 0
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			pruned++
		}
	}
	return pruned
}

// Run sweeps expired sessions until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.PruneExpired(); n > 0 {
				m.log.Debug("pruned %d expired sessions", n)
			}
		}
	}
}
