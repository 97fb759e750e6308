// Package cache provides a thread-safe in-memory TTL cache with lazy eviction.
package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cache is an expiring key-value store. Entries become absent once their TTL
// elapses and are removed by the access that discovers them; there is no
// background sweep and no size bound.
type Cache[V any] struct {
	defaultTTL time.Duration
	clock      clockwork.Clock
	mu         sync.Mutex
	entries    map[string]entry[V]
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// New creates a Cache with the given default TTL. Pass a nil clock to use
// real time; tests inject a fake for deterministic expiry.
func New[V any](defaultTTL time.Duration, clock clockwork.Clock) *Cache[V] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache[V]{
		defaultTTL: defaultTTL,
		clock:      clock,
		entries:    make(map[string]entry[V]),
	}
}

// Get returns the value stored under key. The second return is false when the
// key was never set or its entry has expired; an expired entry is evicted
// before returning.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.clock.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the cache's default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL, replacing any existing entry.
func (c *Cache[V]) SetTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.clock.Now().Add(ttl)}
}

// Len reports the number of entries currently held, including any that have
// expired but not yet been evicted.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
