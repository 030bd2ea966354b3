// Package cache implements the invalidation-on-write snapshot cache in front
// of log reads.
//
// Correctness relies on invalidation, not TTLs: a monotonically increasing
// epoch counter is embedded in every key, so one atomic increment after a
// committed write implicitly invalidates every previously populated key.
// Loaders capture the epoch before reading the store; if a writer bumps the
// epoch mid-read, the populated entry lands under the old epoch and is never
// served again.
package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/actilog/actilog/internal/metrics"
	"github.com/actilog/actilog/internal/models"
)

// Fixed keys for the well-known read shapes.
const (
	KeyListAll   = "logs:all"
	KeyUsernames = "logs:usernames"
	KeyExport    = "logs:export"
)

// defaultSearchCapacity bounds the per-filter search-result family.
const defaultSearchCapacity = 512

// Cache is the shared snapshot cache. Returned collections are immutable
// snapshots; callers must not mutate them.
type Cache struct {
	epoch atomic.Uint64
	group singleflight.Group

	mu        sync.RWMutex
	entries   map[string][]models.LogEntry
	usernames map[string][]string

	search *lru.Cache[string, []models.LogEntry]
}

// New creates a Cache. searchCapacity caps the number of concurrently cached
// filtered result sets; zero selects the default.
func New(searchCapacity int) (*Cache, error) {
	if searchCapacity <= 0 {
		searchCapacity = defaultSearchCapacity
	}

	search, err := lru.New[string, []models.LogEntry](searchCapacity)
	if err != nil {
		return nil, fmt.Errorf("creating search cache: %w", err)
	}

	return &Cache{
		entries:   make(map[string][]models.LogEntry),
		usernames: make(map[string][]string),
		search:    search,
	}, nil
}

// Invalidate clears every cached shape with a single atomic epoch increment.
// Call only after the corresponding write has committed.
func (c *Cache) Invalidate() {
	c.epoch.Add(1)
}

// Epoch returns the current invalidation epoch.
func (c *Cache) Epoch() uint64 {
	return c.epoch.Load()
}

// Entries returns the cached snapshot for a fixed key (KeyListAll,
// KeyExport), loading and populating on miss. Concurrent misses for the same
// key share one load.
func (c *Cache) Entries(ctx context.Context, key string, load func(context.Context) ([]models.LogEntry, error)) ([]models.LogEntry, error) {
	ek := c.epochKey(key)

	c.mu.RLock()
	cached, ok := c.entries[ek]
	c.mu.RUnlock()

	if ok {
		metrics.CacheHits.WithLabelValues(key).Inc()
		return cached, nil
	}

	metrics.CacheMisses.WithLabelValues(key).Inc()

	v, err, _ := c.group.Do(ek, func() (any, error) {
		entries, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.dropStaleLocked()
		c.entries[ek] = entries
		c.mu.Unlock()

		return entries, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]models.LogEntry), nil
}

// Usernames returns the cached distinct-username snapshot, loading on miss.
func (c *Cache) Usernames(ctx context.Context, load func(context.Context) ([]string, error)) ([]string, error) {
	ek := c.epochKey(KeyUsernames)

	c.mu.RLock()
	cached, ok := c.usernames[ek]
	c.mu.RUnlock()

	if ok {
		metrics.CacheHits.WithLabelValues(KeyUsernames).Inc()
		return cached, nil
	}

	metrics.CacheMisses.WithLabelValues(KeyUsernames).Inc()

	v, err, _ := c.group.Do(ek, func() (any, error) {
		names, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.dropStaleLocked()
		c.usernames[ek] = names
		c.mu.Unlock()

		return names, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]string), nil
}

// SearchResults returns the cached result set for a filter digest, loading
// on miss. Distinct digests occupy distinct LRU slots.
func (c *Cache) SearchResults(ctx context.Context, digest string, load func(context.Context) ([]models.LogEntry, error)) ([]models.LogEntry, error) {
	ek := c.epochKey("logs:search:" + digest)

	if cached, ok := c.search.Get(ek); ok {
		metrics.CacheHits.WithLabelValues("logs:search").Inc()
		return cached, nil
	}

	metrics.CacheMisses.WithLabelValues("logs:search").Inc()

	v, err, _ := c.group.Do(ek, func() (any, error) {
		entries, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.search.Add(ek, entries)

		return entries, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]models.LogEntry), nil
}

// epochKey embeds the current epoch into a cache key.
func (c *Cache) epochKey(key string) string {
	return fmt.Sprintf("%d:%s", c.epoch.Load(), key)
}

// dropStaleLocked evicts fixed-key snapshots from earlier epochs so the maps
// hold at most one generation per key. The search family is bounded by its
// LRU capacity instead. Caller holds c.mu.
func (c *Cache) dropStaleLocked() {
	prefix := fmt.Sprintf("%d:", c.epoch.Load())

	for k := range c.entries {
		if len(k) < len(prefix) || k[:len(prefix)] != prefix {
			delete(c.entries, k)
		}
	}

	for k := range c.usernames {
		if len(k) < len(prefix) || k[:len(prefix)] != prefix {
			delete(c.usernames, k)
		}
	}
}
