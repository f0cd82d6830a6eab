package mitre

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long a fetched result is served before the handler
// fetches inline again. The background worker refreshes on the same period.
const DefaultCacheTTL = 6 * time.Hour

// Cache holds the most recent technique fetch result. It is safe for
// concurrent use by the HTTP handlers and the refresh worker.
type Cache struct {
	mu     sync.RWMutex
	result *Result
	ttl    time.Duration
}

// NewCache creates an empty cache with the given TTL; zero means DefaultCacheTTL
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{ttl: ttl}
}

// Set stores the result
func (c *Cache) Set(result *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = result
}

// Get returns the cached result if it is still fresh at the given time
func (c *Cache) Get(now time.Time) (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.result == nil {
		return nil, false
	}
	if now.Sub(c.result.FetchedAt) > c.ttl {
		return nil, false
	}
	return c.result, true
}
