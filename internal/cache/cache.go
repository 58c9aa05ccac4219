// Package cache memoizes detection results for identical utterances.
// Keys are content hashes, so no message text is retained.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/joebwd/mental-wellness-prompts/internal/detection"
)

const (
	// DefaultTTL bounds how long a classification stays reusable.
	DefaultTTL = 5 * time.Minute

	// defaultMaxEntries caps the table before eviction kicks in.
	defaultMaxEntries = 4096

	// keyHistoryTurns is how many trailing history turns participate in
	// the key. Older turns no longer influence the contextual tier.
	keyHistoryTurns = 3
)

// Key derives a stable cache key from the utterance and the trailing
// conversation turns that can affect its classification.
func Key(text string, history []string) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(text))))
	start := len(history) - keyHistoryTurns
	if start < 0 {
		start = 0
	}
	for _, turn := range history[start:] {
		h.Write([]byte{0})
		h.Write([]byte(strings.ToLower(strings.TrimSpace(turn))))
	}
	return hex.EncodeToString(h.Sum(nil))
}

type entry struct {
	result  detection.Result
	expires time.Time
}

// Cache is a TTL-bounded result table safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	max     int
	now     func() time.Time
}

// New builds a cache with the given TTL. A non-positive TTL gets
// DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		max:     defaultMaxEntries,
		now:     time.Now,
	}
}

// SetClock replaces the cache's time source. Test use only.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Get returns a copy of the cached result, marked as a cache hit.
func (c *Cache) Get(key string) (*detection.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	out := e.result
	out.CacheHit = true
	out.Indicators = append([]string(nil), e.result.Indicators...)
	return &out, true
}

// Put stores the result. Partial results are not cached: a rerun may
// have the full pipeline available.
func (c *Cache) Put(key string, result *detection.Result) {
	if result == nil || result.Partial {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.max {
		c.evict()
	}
	stored := *result
	stored.CacheHit = false
	stored.Indicators = append([]string(nil), result.Indicators...)
	c.entries[key] = entry{result: stored, expires: c.now().Add(c.ttl)}
}

// Len reports the live entry count, expiring stale entries as a side
// effect.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	return len(c.entries)
}

// evict drops expired entries first, then arbitrary ones until a
// quarter of the table is free. Caller holds the lock.
func (c *Cache) evict() {
	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	target := c.max - c.max/4
	for k := range c.entries {
		if len(c.entries) <= target {
			break
		}
		delete(c.entries, k)
	}
}
