package cache

import (
	"context"
	"sync"
)

// MemoryCache is a map-backed Cache. Contents do not survive a restart,
// so a load after a crash falls through to the default tier.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string][]byte
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache returns an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string][]byte)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.items[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	c.items[key] = v
	return nil
}

func (c *MemoryCache) SetMany(_ context.Context, entries map[string][]byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, value := range entries {
		v := make([]byte, len(value))
		copy(v, value)
		c.items[key] = v
	}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}
