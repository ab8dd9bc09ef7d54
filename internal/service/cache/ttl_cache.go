package cache

import (
	"sync"
	"time"
)

type item struct {
	v         any
	expiresAt int64 // UnixNano, 0 = never
}

// TTLCache is the in-process fallback used when Redis is not configured.
// Expiry is lazy: stale entries are evicted on read.
type TTLCache struct {
	mu sync.RWMutex
	m  map[string]item
}

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]item)}
}

func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.RLock()
	it, ok := c.m[key]
	c.mu.RUnlock()
	switch {
	case !ok:
		return nil, false
	case it.expiresAt != 0 && time.Now().UnixNano() > it.expiresAt:
		c.Delete(key)
		return nil, false
	}
	return it.v, true
}

func (c *TTLCache) Set(key string, v any, ttl time.Duration) {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}
	c.mu.Lock()
	c.m[key] = item{v: v, expiresAt: exp}
	c.mu.Unlock()
}

// Delete removes a key, used to force refresh of cached scan reports.
func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

func (c *TTLCache) GetBytes(key string) ([]byte, bool, error) {
	v, ok := c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	return b, ok, nil
}

func (c *TTLCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	c.Set(key, value, ttl)
	return nil
}
