package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/use-agent/distill/models"
)

type entry struct {
	response *models.OptimizeResponse
	storedAt time.Time
}

// Cache is an in-memory LRU of optimization responses. Entries expire
// after the configured TTL; below that ceiling each lookup carries its
// own max age, so one caller's freshness requirement never evicts an
// entry another caller would still accept. Safe for concurrent use.
type Cache struct {
	store *lru.Cache[string, entry]
	ttl   time.Duration
	max   int
}

// New creates a cache holding at most maxEntries responses, each for at
// most ttl. Non-positive arguments fall back to defaults.
func New(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	// lru.New only fails on a non-positive size, guarded above.
	store, _ := lru.New[string, entry](maxEntries)
	return &Cache{
		store: store,
		ttl:   ttl,
		max:   maxEntries,
	}
}

// Key generates a cache key from the text and the option values that
// shape the output. Two requests collide only when both the text and
// every option match.
func Key(text string, opts ...string) string {
	h := sha256.New()
	h.Write([]byte(text))
	for _, opt := range opts {
		h.Write([]byte("|"))
		h.Write([]byte(opt))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns a cached response if one exists and is no older than
// maxAgeMs milliseconds. A maxAgeMs of zero or less bypasses the cache
// entirely. Entries past the cache TTL are removed on sight; entries
// merely older than maxAgeMs stay put for callers with a longer horizon.
func (c *Cache) Get(key string, maxAgeMs int) (*models.OptimizeResponse, bool) {
	if maxAgeMs <= 0 {
		return nil, false
	}
	e, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	age := time.Since(e.storedAt)
	if age > c.ttl {
		c.store.Remove(key)
		return nil, false
	}
	if age > time.Duration(maxAgeMs)*time.Millisecond {
		return nil, false
	}
	return e.response, true
}

// Set stores a response under the given key, evicting the least
// recently used entry when the cache is full.
func (c *Cache) Set(key string, response *models.OptimizeResponse) {
	c.store.Add(key, entry{
		response: response,
		storedAt: time.Now(),
	})
}

// Stats reports current occupancy for health reporting.
func (c *Cache) Stats() models.CacheStats {
	return models.CacheStats{
		Entries:    c.store.Len(),
		MaxEntries: c.max,
	}
}
