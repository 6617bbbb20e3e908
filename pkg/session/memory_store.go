package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store using in-memory storage.
// Every conditional update happens under a single lock, so it is atomic with
// respect to concurrent readers within one process.
type MemoryStore[C any] struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session[C]
	ticker   *time.Ticker
	done     chan struct{}
	once     sync.Once
}

// NewMemoryStore creates a new in-memory session store. A positive
// cleanupInterval starts a goroutine purging expired records.
func NewMemoryStore[C any](cleanupInterval time.Duration) *MemoryStore[C] {
	store := &MemoryStore[C]{
		sessions: make(map[uuid.UUID]*Session[C]),
		done:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// FindByID returns a copy of the stored session
func (m *MemoryStore[C]) FindByID(ctx context.Context, id uuid.UUID) (*Session[C], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[id]
	if !exists {
		return nil, ErrNotFound
	}
	return session.clone(), nil
}

// DeleteByID removes a session by ID
func (m *MemoryStore[C]) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.sessions[id]
	delete(m.sessions, id)
	return exists, nil
}

// RefreshValidity extends an active, unexpired session
func (m *MemoryStore[C]) RefreshValidity(ctx context.Context, id uuid.UUID, validTill, now time.Time) (*Session[C], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[id]
	if !exists || !session.Active || session.ValidTill.Before(now) {
		return nil, ErrNotFound
	}

	if validTill.After(session.ValidTill) {
		session.ValidTill = validTill
	}
	return session.clone(), nil
}

// Insert stores a new session
func (m *MemoryStore[C]) Insert(ctx context.Context, session *Session[C]) (uuid.UUID, error) {
	if session == nil || session.ID == uuid.Nil {
		return uuid.Nil, ErrInvalidSession
	}
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.ID]; exists {
		return uuid.Nil, ErrDuplicateID
	}

	stored := session.clone()
	stored.state = StateInProgress
	m.sessions[session.ID] = stored
	return session.ID, nil
}

// SetActive flips the business flag of a stored session, e.g. when the
// owning account is disabled.
func (m *MemoryStore[C]) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[id]
	if !exists {
		return ErrNotFound
	}
	session.Active = active
	return nil
}

// DeleteExpired removes all sessions whose validity ended before now
func (m *MemoryStore[C]) DeleteExpired(ctx context.Context, now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, session := range m.sessions {
		if session.IsExpired(now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored records
func (m *MemoryStore[C]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the cleanup goroutine
func (m *MemoryStore[C]) Close() error {
	m.once.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
			close(m.done)
		}
	})
	return nil
}

// cleanupLoop runs periodic cleanup of expired sessions
func (m *MemoryStore[C]) cleanupLoop() {
	for {
		select {
		case now := <-m.ticker.C:
			_ = m.DeleteExpired(context.Background(), now)
		case <-m.done:
			return
		}
	}
}
