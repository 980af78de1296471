package cache

import (
	"context"
	"sync"
	"time"
)

type item struct {
	value      []byte
	expiration time.Time
}

// Cache is an in-process TTL cache holding encoded values. It mirrors the
// Redis client's method set so either can back the read-through cache.
type Cache struct {
	mu    sync.RWMutex
	items map[string]item
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewCache starts a cache whose expired entries are swept every gcInterval
func NewCache(gcInterval time.Duration) *Cache {
	c := &Cache{
		items: make(map[string]item),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if gcInterval > 0 {
		go c.startGC(gcInterval)
	}
	return c
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found || !c.now().Before(it.expiration) {
		return nil, false, nil
	}

	out := make([]byte, len(it.value))
	copy(out, it.value)
	return out, true, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item{value: stored, expiration: c.now().Add(ttl)}
	return nil
}

func (c *Cache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.items, key)
	}
	return nil
}

// Ping always succeeds; it exists so health checks treat both backends alike
func (c *Cache) Ping(context.Context) error { return nil }

// Len reports the number of stored entries, expired ones included
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the sweeper
func (c *Cache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

func (c *Cache) startGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) deleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, v := range c.items {
		if !now.Before(v.expiration) {
			delete(c.items, k)
		}
	}
}
