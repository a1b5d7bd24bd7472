// Package cache provides the read-through backends for actor resolution.
package cache

import (
	"context"
	"sync"
	"time"

	"vigil/internal/actors"
)

// Memory is an in-process actor cache with TTL expiry. Used in tests and
// when Redis is not configured.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	actor     actors.ResolvedActor
	expiresAt time.Time
}

// NewMemory creates an in-memory cache. A zero TTL disables expiry.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the cached actor for the key, if present and unexpired.
func (m *Memory) Get(_ context.Context, key string) (actors.ResolvedActor, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return actors.ResolvedActor{}, false, nil
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return actors.ResolvedActor{}, false, nil
	}
	return entry.actor, true, nil
}

// Set stores the actor under the key.
func (m *Memory) Set(_ context.Context, key string, actor actors.ResolvedActor) error {
	entry := memoryEntry{actor: actor}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

var _ actors.Cache = (*Memory)(nil)
