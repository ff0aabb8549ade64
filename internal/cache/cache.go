// Package cache holds fetched price series for a short TTL so repeated
// dashboard interactions within the window do not re-hit the upstream API.
package cache

import (
	"fmt"
	"sync"
	"time"

	"stockdash/pkg/contracts/domain"
)

// Key identifies one cached fetch: symbol plus the requested date range.
type Key struct {
	Symbol string
	Start  time.Time
	End    time.Time
}

// String renders the key in a stable map-friendly form.
func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%s", k.Symbol, k.Start.Format("2006-01-02"), k.End.Format("2006-01-02"))
}

// entry is one cached series with its fetch timestamp.
type entry struct {
	series    domain.PriceSeries
	fetchedAt time.Time
	expiresAt time.Time
}

// SeriesCache is a TTL cache of price series keyed by (symbol, start, end).
type SeriesCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	ttl       time.Duration
	hitCount  int64
	missCount int64
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// New creates a series cache with the given TTL and starts the background
// cleanup loop.
func New(ttl time.Duration) *SeriesCache {
	c := &SeriesCache{
		entries:  make(map[string]entry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	go c.cleanup()

	return c
}

// Get returns the cached series for key if present and not expired.
func (c *SeriesCache) Get(key Key) (domain.PriceSeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok || time.Now().After(e.expiresAt) {
		c.missCount++
		return nil, false
	}

	c.hitCount++
	return e.series, true
}

// Set stores a series under key, overwriting any previous entry.
func (c *SeriesCache) Set(key Key, series domain.PriceSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.entries[key.String()] = entry{
		series:    series,
		fetchedAt: now,
		expiresAt: now.Add(c.ttl),
	}
}

// Invalidate drops the entry for key if present.
func (c *SeriesCache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key.String())
}

// Stats reports cache counters for the health endpoint.
func (c *SeriesCache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hitCount + c.missCount
	hitRatio := float64(0)
	if total > 0 {
		hitRatio = float64(c.hitCount) / float64(total)
	}

	return map[string]interface{}{
		"entries":     len(c.entries),
		"hit_count":   c.hitCount,
		"miss_count":  c.missCount,
		"hit_ratio":   hitRatio,
		"ttl_seconds": c.ttl.Seconds(),
	}
}

// Stop terminates the cleanup goroutine.
func (c *SeriesCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}

func (c *SeriesCache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		case <-c.stopChan:
			return
		}
	}
}
