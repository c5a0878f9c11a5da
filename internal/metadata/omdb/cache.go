package omdb

import (
	"slices"
	"sync"
	"time"

	"github.com/vadimtrunov/MovieMate/internal/core"
)

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// cache is a TTL map for upstream responses. Expired entries are dropped
// on read and swept every sweepEvery writes.
type cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry[V]
	ttl     time.Duration
	writes  int
	now     func() time.Time
}

const sweepEvery = 100

func newCache[V any](ttl time.Duration) *cache[V] {
	return &cache[V]{
		entries: make(map[string]cacheEntry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if !c.now().After(entry.expiresAt) {
		return entry.value, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Re-check under write lock; a concurrent Set may have refreshed it.
	if e, exists := c.entries[key]; exists {
		if c.now().After(e.expiresAt) {
			delete(c.entries, key)
			return zero, false
		}
		return e.value, true
	}
	return zero, false
}

func (c *cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.writes++
	if c.writes%sweepEvery == 0 {
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
	}

	c.entries[key] = cacheEntry[V]{value: value, expiresAt: now.Add(c.ttl)}
}

func (c *cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cloneDetails copies d including its slices, so a cached record shares no
// backing arrays with the values handed to callers.
func cloneDetails(d core.MovieDetails) core.MovieDetails {
	d.Genres = slices.Clone(d.Genres)
	d.Writers = slices.Clone(d.Writers)
	d.Actors = slices.Clone(d.Actors)
	d.Languages = slices.Clone(d.Languages)
	d.Countries = slices.Clone(d.Countries)
	d.Ratings = slices.Clone(d.Ratings)
	if d.IMDbRating != nil {
		v := *d.IMDbRating
		d.IMDbRating = &v
	}
	if d.IMDbVotes != nil {
		v := *d.IMDbVotes
		d.IMDbVotes = &v
	}
	return d
}
