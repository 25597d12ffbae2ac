package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	prefix  string
}

// NewMemory returns a process-local Cache used when no Redis URL is
// configured. Expired entries are dropped on read.
func NewMemory(prefix string) Cache {
	return &memoryCache{
		entries: make(map[string]memoryEntry),
		prefix:  prefix,
	}
}

func (m *memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{data: b, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *memoryCache) Get(ctx context.Context, key string, out any) (bool, error) {
	m.mu.Lock()
	entry, ok := m.entries[key]
	if ok && time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, out); err != nil {
		return false, fmt.Errorf("unmarshal cache value: %w", err)
	}
	return true, nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *memoryCache) Key(operation, id string) string {
	return fmt.Sprintf("%s:%s:%s", m.prefix, operation, id)
}

func (m *memoryCache) Close() error { return nil }
