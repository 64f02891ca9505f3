// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryCache is the in-process engine behind the session cache: a
// bounded map of expiring entries with a pluggable eviction policy.
// sessioncache runs one with EvictionPolicyTTL and two entries per
// session - the transactions slot and the financial slot - so
// "full" here means the install has hit its configured session
// ceiling, not that any one session stored too much.
type MemoryCache struct {
	mu     sync.Mutex
	byKey  map[string]*entry
	order  *list.List // front = most recently touched
	config CacheConfig
	stats  CacheStats
}

// entry is one cached value and its bookkeeping. node's position in
// the order list drives LRU/FIFO eviction; reads drives LFU.
type entry struct {
	key       string
	value     interface{}
	expiresAt time.Time
	node      *list.Element
	reads     int64
}

// NewMemoryCache builds a cache from config. A zero MaxSize falls
// back to DefaultCacheConfig.
func NewMemoryCache(config CacheConfig) *MemoryCache {
	if config.MaxSize == 0 {
		config = DefaultCacheConfig()
	}

	return &MemoryCache{
		byKey:  make(map[string]*entry),
		order:  list.New(),
		config: config,
		stats:  CacheStats{MaxSize: config.MaxSize},
	}
}

// Get returns the live value under key. An entry past its expiry is
// removed on the spot and reported as a miss - expiry is "absent",
// never an error.
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.byKey[key]
	if !ok || time.Now().After(e.expiresAt) {
		if ok {
			c.remove(key)
		}
		c.stats.Misses++
		c.recomputeHitRate()
		return nil, false
	}

	if c.config.EvictionPolicy == EvictionPolicyLRU {
		c.order.MoveToFront(e.node)
	}
	e.reads++

	c.stats.Hits++
	c.recomputeHitRate()
	return e.value, true
}

// Set stores value under key for ttl (the configured default when
// zero), evicting per policy if the cache is at its ceiling.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl == 0 {
		ttl = c.config.DefaultTTL
	}

	if e, ok := c.byKey[key]; ok {
		e.value = value
		e.expiresAt = time.Now().Add(ttl)
		if c.config.EvictionPolicy == EvictionPolicyLRU {
			c.order.MoveToFront(e.node)
		}
		c.stats.Sets++
		return nil
	}

	if len(c.byKey) >= c.config.MaxSize {
		c.makeRoom()
	}

	e := &entry{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	e.node = c.order.PushFront(key)
	c.byKey[key] = e

	c.stats.Sets++
	c.stats.Size = len(c.byKey)
	return nil
}

// Delete removes key if present.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.remove(key)
	c.stats.Deletes++
	return nil
}

// Clear drops every entry.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byKey = make(map[string]*entry)
	c.order = list.New()
	c.stats.Size = 0
	return nil
}

// Stats reports the cache's counters.
func (c *MemoryCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Close drops every entry; the cache holds no other resources.
func (c *MemoryCache) Close() error {
	return c.Clear(context.Background())
}

// remove deletes one entry. Callers hold c.mu.
func (c *MemoryCache) remove(key string) {
	if e, ok := c.byKey[key]; ok {
		c.order.Remove(e.node)
		delete(c.byKey, key)
		c.stats.Size = len(c.byKey)
	}
}

// makeRoom evicts per the configured policy. Under the TTL policy it
// sweeps every expired entry first and, if nothing had expired yet,
// falls back to dropping the oldest entry - without the fallback a
// full cache of still-live entries would grow past its ceiling.
// Callers hold c.mu.
func (c *MemoryCache) makeRoom() {
	switch c.config.EvictionPolicy {
	case EvictionPolicyTTL:
		if c.sweepExpired() == 0 {
			c.dropOldest()
		}
	case EvictionPolicyLFU:
		c.dropColdest()
	case EvictionPolicyLRU, EvictionPolicyFIFO:
		// Both drop from the back of the order list; they differ only
		// in whether Get refreshes an entry's position.
		c.dropOldest()
	default:
		c.dropOldest()
	}
}

// dropOldest evicts the entry at the back of the order list.
func (c *MemoryCache) dropOldest() {
	back := c.order.Back()
	if back == nil {
		return
	}
	c.remove(back.Value.(string))
	c.stats.Evictions++
}

// dropColdest evicts the entry with the fewest reads.
func (c *MemoryCache) dropColdest() {
	var victim string
	coldest := int64(-1)
	for key, e := range c.byKey {
		if coldest == -1 || e.reads < coldest {
			coldest = e.reads
			victim = key
		}
	}
	if victim != "" {
		c.remove(victim)
		c.stats.Evictions++
	}
}

// sweepExpired evicts every entry past its expiry, returning how many
// went.
func (c *MemoryCache) sweepExpired() int {
	now := time.Now()

	var expired []string
	for key, e := range c.byKey {
		if now.After(e.expiresAt) {
			expired = append(expired, key)
		}
	}
	for _, key := range expired {
		c.remove(key)
		c.stats.Evictions++
	}
	return len(expired)
}

// recomputeHitRate refreshes the derived hit-rate stat. Callers hold
// c.mu.
func (c *MemoryCache) recomputeHitRate() {
	total := c.stats.Hits + c.stats.Misses
	if total > 0 {
		c.stats.HitRate = float64(c.stats.Hits) / float64(total)
	}
}

// CleanupExpired sweeps expired entries on an interval until ctx
// ends, for callers that want expiry to reclaim memory eagerly
// instead of lazily on access.
func (c *MemoryCache) CleanupExpired(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			c.sweepExpired()
			c.mu.Unlock()
		}
	}
}
