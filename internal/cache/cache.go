package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is a string key/value store with expiry.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// GetDel returns the value and removes the key in one step.
	GetDel(ctx context.Context, key string) (string, error)
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// Memory is an in-process Cache, used when no Redis URL is configured.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty Memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookup(key)
}

func (m *Memory) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expires = m.now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

func (m *Memory) GetDel(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, err := m.lookup(key)
	delete(m.entries, key)
	return value, err
}

// lookup returns a live entry. Callers hold m.mu.
func (m *Memory) lookup(key string) (string, error) {
	entry, ok := m.entries[key]
	if !ok {
		return "", ErrMiss
	}
	if !entry.expires.IsZero() && !m.now().Before(entry.expires) {
		delete(m.entries, key)
		return "", ErrMiss
	}
	return entry.value, nil
}
