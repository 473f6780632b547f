package llm

import (
	"sync"
	"time"
)

// cacheEntry represents a cached classification suggestion.
type cacheEntry struct {
	expiry   time.Time
	response ClassificationResponse
}

// suggestionCache provides thread-safe caching keyed by normalized item
// text, so identical descriptions within one batch cost one API call.
type suggestionCache struct {
	entries map[string]cacheEntry
	ttl     time.Duration
	mu      sync.RWMutex
}

// newSuggestionCache creates a new cache with the specified TTL.
func newSuggestionCache(ttl time.Duration) *suggestionCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	return &suggestionCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// get retrieves a suggestion if it exists and hasn't expired.
func (c *suggestionCache) get(key string) (ClassificationResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || time.Now().After(entry.expiry) {
		return ClassificationResponse{}, false
	}

	return entry.response, true
}

// set stores a suggestion in the cache.
func (c *suggestionCache) set(key string, response ClassificationResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		response: response,
		expiry:   time.Now().Add(c.ttl),
	}
}
