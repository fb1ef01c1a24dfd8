package supervisor

import (
	"sync"
	"time"
)

// StatusCache wraps a status JSON producer with a cooldown so a burst
// of Status pings (server-list pinging is unauthenticated and cheap to
// spam) doesn't recompute the response on every connection. Ported
// from module/status_cache.go's cooldown-gated statusCache, minus its
// "dial the backend for a live ping" path: this build's status JSON is
// already cheap to produce locally, so there's nothing to cache a
// round trip for except the string itself.
type StatusCache struct {
	mu       sync.Mutex
	produce  func() string
	cooldown time.Duration

	cached   string
	cachedAt time.Time
}

// NewStatusCache builds a cache around produce with the given cooldown.
// A zero cooldown disables caching (produce runs on every call).
func NewStatusCache(cooldown time.Duration, produce func() string) *StatusCache {
	return &StatusCache{produce: produce, cooldown: cooldown}
}

// JSON returns the cached status, recomputing it if the cooldown has
// elapsed. Safe for concurrent use across worker goroutines.
func (c *StatusCache) JSON() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cooldown > 0 && time.Since(c.cachedAt) < c.cooldown {
		return c.cached
	}
	c.cached = c.produce()
	c.cachedAt = time.Now()
	return c.cached
}
