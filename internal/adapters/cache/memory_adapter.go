package cache

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/care4u/backend/internal/domain/providers"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryAdapter is a process-local CacheProvider used when Redis is unavailable
type MemoryAdapter struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryAdapter creates an empty in-process cache
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

var _ providers.CacheProvider = (*MemoryAdapter)(nil)

func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	e, ok := a.entries[key]
	a.mu.RUnlock()

	if !ok || a.expired(e) {
		return nil, providers.ErrCacheMiss
	}
	return append([]byte(nil), e.value...), nil
}

func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	e := memoryEntry{value: append([]byte(nil), value...)}
	if expirationSeconds > 0 {
		e.expiresAt = a.now().Add(time.Duration(expirationSeconds) * time.Second)
	}

	a.mu.Lock()
	a.entries[key] = e
	a.mu.Unlock()
	return nil
}

func (a *MemoryAdapter) Delete(ctx context.Context, keys ...string) error {
	a.mu.Lock()
	for _, k := range keys {
		delete(a.entries, k)
	}
	a.mu.Unlock()
	return nil
}

// DeletePattern accepts the glob syntax of Redis KEYS for the common cases (*, ?, [..])
func (a *MemoryAdapter) DeletePattern(ctx context.Context, pattern string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for k := range a.entries {
		if ok, _ := path.Match(pattern, k); ok {
			delete(a.entries, k)
		}
	}
	return nil
}

func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	a.mu.RLock()
	e, ok := a.entries[key]
	a.mu.RUnlock()
	return ok && !a.expired(e), nil
}

func (a *MemoryAdapter) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && a.now().After(e.expiresAt)
}
