package auth

import (
	"context"
	"sync"
	"time"
)

// MemorySessionRepository is an in-memory session repository. It backs the
// gateway when Redis is disabled and serves as the fake in tests. TTLs are
// honored lazily on read.
type MemorySessionRepository struct {
	mu      sync.RWMutex
	claims  *IdentityClaims
	expires time.Time
	flags   map[string]flagEntry
}

type flagEntry struct {
	value   string
	expires time.Time
}

// NewMemorySessionRepository creates an empty in-memory session repository.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		flags: make(map[string]flagEntry),
	}
}

func (m *MemorySessionRepository) ReadClaims(ctx context.Context) (*IdentityClaims, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.claims == nil {
		return nil, ErrNotFound
	}
	if !m.expires.IsZero() && time.Now().After(m.expires) {
		return nil, ErrNotFound
	}

	copied := *m.claims
	return &copied, nil
}

func (m *MemorySessionRepository) WriteClaims(ctx context.Context, claims *IdentityClaims, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *claims
	m.claims = &copied
	if ttl > 0 {
		m.expires = time.Now().Add(ttl)
	} else {
		m.expires = time.Time{}
	}
	return nil
}

func (m *MemorySessionRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.claims = nil
	m.expires = time.Time{}
	return nil
}

func (m *MemorySessionRepository) SetFlag(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := flagEntry{value: value}
	if ttl > 0 {
		entry.expires = time.Now().Add(ttl)
	}
	m.flags[key] = entry
	return nil
}

func (m *MemorySessionRepository) TakeFlag(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.flags[key]
	if !ok {
		return "", ErrNotFound
	}
	delete(m.flags, key)
	if !entry.expires.IsZero() && time.Now().After(entry.expires) {
		return "", ErrNotFound
	}
	return entry.value, nil
}
