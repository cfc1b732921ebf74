// Package cache memoizes resolution results by normalized description.
// Expiry is lazy: an entry past its TTL is evicted on the read that finds
// it, or by an explicit sweep; there is no background sweeper.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/kalambet/quirk/internal/profile"
)

// DefaultMaxEntries bounds the cache when no explicit limit is given.
// Oldest entries (by first insertion) are evicted once the limit is hit.
const DefaultMaxEntries = 256

// DefaultTTL is the standard lifetime for cached resolutions.
const DefaultTTL = 24 * time.Hour

// Resolution is the cached outcome of a successful resolve.
type Resolution struct {
	Profile    profile.Profile
	Confidence float64
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type entry struct {
	value     Resolution
	createdAt time.Time
	ttl       time.Duration
}

// Cache is a TTL + FIFO-bounded memoization map. Keys are lower-cased and
// whitespace-trimmed. Safe for concurrent use; two concurrent misses on the
// same key may both resolve and both Set, which is accepted: resolution is
// idempotent.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	order      []string // FIFO insertion order; may hold stale keys
	maxEntries int
	clock      Clock
}

// New creates a Cache with DefaultMaxEntries.
func New() *Cache {
	return NewWithClock(realClock{}, DefaultMaxEntries)
}

// NewSized creates a Cache with a custom size bound.
func NewSized(maxEntries int) *Cache {
	return NewWithClock(realClock{}, maxEntries)
}

// NewWithClock creates a Cache with a custom clock and size bound (for
// testing, or callers that want a different bound). maxEntries <= 0 falls
// back to DefaultMaxEntries.
func NewWithClock(clock Clock, maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		clock:      clock,
	}
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (e entry) expiredAt(now time.Time) bool {
	return !now.Before(e.createdAt.Add(e.ttl))
}

// Get returns the cached resolution for key, or ok=false on a miss or an
// expired entry. Finding an expired entry evicts it. The returned profile
// is a clone, so callers can blend without touching the cached value.
func (c *Cache) Get(key string) (Resolution, bool) {
	k := normalizeKey(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		return Resolution{}, false
	}
	if e.expiredAt(c.clock.Now()) {
		delete(c.entries, k)
		return Resolution{}, false
	}

	out := e.value
	out.Profile = e.value.Profile.Clone()
	return out, true
}

// Set inserts or overwrites the resolution for key with the given TTL.
// Inserting past the size bound evicts the oldest entries first.
func (c *Cache) Set(key string, res Resolution, ttl time.Duration) {
	k := normalizeKey(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[k]; !exists {
		c.order = append(c.order, k)
	}
	c.entries[k] = entry{value: res, createdAt: c.clock.Now(), ttl: ttl}

	for len(c.entries) > c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// ClearExpired sweeps every expired entry and returns how many were removed.
func (c *Cache) ClearExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	removed := 0
	for k, e := range c.entries {
		if e.expiredAt(now) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// ClearAll drops everything and returns the number of removed entries.
func (c *Cache) ClearAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := len(c.entries)
	c.entries = make(map[string]entry)
	c.order = nil
	return removed
}

// Len returns the number of live (possibly expired, not yet evicted)
// entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
