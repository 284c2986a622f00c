package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rafabene/revistete-backend/internal/domain/ports"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache é o fallback local quando o Redis não está configurado.
// Entradas expiradas são removidas na leitura.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", ports.ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", ports.ErrCacheMiss
	}
	return e.value, nil
}

// Set com ttl <= 0 guarda sem expiração
func (m *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}
