// Package cache implements the tag-based invalidation mechanism behind the
// rebuild trigger. Rendered public views are cached under a small fixed set
// of tags; a rebuild marks every tagged slot stale, and the next read
// recomputes from the content store. There is no time-based expiry: slots go
// stale only through explicit invalidation.
package cache

import (
	"context"
	"sync"
)

// Tag names a group of cached public views that are invalidated together.
type Tag string

// The fixed tag set. Detail tags are shared across all items of a type:
// invalidating news-detail discards every cached news detail page, trading
// precision for a mechanism with no per-edit bookkeeping.
const (
	TagNewsList           Tag = "news-list"
	TagNewsDetail         Tag = "news-detail"
	TagAchievementsList   Tag = "achievements-list"
	TagAchievementsDetail Tag = "achievements-detail"
)

// AllTags returns the full fixed tag set, the unit of a rebuild.
func AllTags() []Tag {
	return []Tag{TagNewsList, TagNewsDetail, TagAchievementsList, TagAchievementsDetail}
}

// Invalidator marks cache entries under the given tags as stale.
type Invalidator interface {
	Invalidate(ctx context.Context, tags ...Tag) error
}

// ComputeFunc recomputes the value for a cache slot.
type ComputeFunc func(ctx context.Context) (interface{}, error)

type slot struct {
	value interface{}
	stale bool
}

// TagCache is an in-process cache of rendered payloads keyed by (tag, key).
// Each slot moves FRESH -> STALE on Invalidate and STALE -> FRESH on the
// next GetOrCompute. Requests already holding a value when an invalidation
// lands keep serving it; there is no mid-flight cancellation.
type TagCache struct {
	mu    sync.RWMutex
	slots map[Tag]map[string]*slot
}

// NewTagCache creates an empty TagCache.
func NewTagCache() *TagCache {
	return &TagCache{
		slots: make(map[Tag]map[string]*slot),
	}
}

// GetOrCompute returns the cached value for (tag, key), recomputing it first
// if the slot is missing or stale. A compute failure leaves the slot in its
// prior state and surfaces the error to the caller.
func (c *TagCache) GetOrCompute(ctx context.Context, tag Tag, key string, compute ComputeFunc) (interface{}, error) {
	c.mu.RLock()
	if s, ok := c.slots[tag][key]; ok && !s.stale {
		value := s.value
		c.mu.RUnlock()
		return value, nil
	}
	c.mu.RUnlock()

	value, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.slots[tag] == nil {
		c.slots[tag] = make(map[string]*slot)
	}
	c.slots[tag][key] = &slot{value: value}
	return value, nil
}

// Invalidate marks every slot under the given tags stale. Invalidating an
// already-stale slot is a no-op, so repeated calls are idempotent.
func (c *TagCache) Invalidate(ctx context.Context, tags ...Tag) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tag := range tags {
		for _, s := range c.slots[tag] {
			s.stale = true
		}
	}
	return nil
}

// Fresh reports whether (tag, key) currently holds a fresh value. Intended
// for tests and diagnostics.
func (c *TagCache) Fresh(tag Tag, key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.slots[tag][key]
	return ok && !s.stale
}
