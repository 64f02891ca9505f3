// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package sessioncache holds the per-session mapping from
(session_id, document_type) to a set of agent results produced by a
single GenerateInsights run.

It is built on cache.MemoryCache purely for TTL/eviction bookkeeping;
the 24-hour lifetime, key shape, and single-writer-per-key contract
are specific to this package and are not something a generic cache
backend enforces on its own.

	sc := sessioncache.New(sessioncache.DefaultConfig())
	sc.Put(ctx, "session-1", model.DocumentTransactions, results)

	if insights, ok := sc.Get(ctx, "session-1", model.DocumentTransactions); ok {
	    // use insights
	}
*/
package sessioncache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/privatefin/finsight/cache"
	"github.com/privatefin/finsight/model"
)

// DefaultTTL is the lifetime of a CachedInsights entry when the
// cache.ttl_hours option is left unset.
const DefaultTTL = 24 * time.Hour

// Status summarizes what is currently cached for a session, without
// exposing the full result bodies.
type Status struct {
	HasTransactionInsights   bool       `json:"has_transaction_insights"`
	HasFinancialInsights     bool       `json:"has_financial_insights"`
	TransactionInsightsUntil *time.Time `json:"transaction_insights_expires_at,omitempty"`
	FinancialInsightsUntil   *time.Time `json:"financial_insights_expires_at,omitempty"`
}

// Cache is the session-scoped insights store described in the
// orchestrator's contract. A single process holds one Cache; there is
// no cross-process persistence by design (a restart loses caches and
// callers regenerate them).
type Cache struct {
	backend cache.Cache
	ttl     time.Duration

	// keyLocks serializes concurrent writers to the same
	// (session_id, document_type) key, e.g. two GenerateInsights calls
	// racing for the same upload, so one run's Put can't be clobbered
	// mid-write by another.
	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

// Config configures a Cache.
type Config struct {
	MaxSessions int

	// TTL is the entry lifetime; zero means DefaultTTL (24 hours).
	TTL time.Duration
}

// DefaultConfig returns sensible defaults for a single-install deployment.
func DefaultConfig() Config {
	return Config{MaxSessions: 10000, TTL: DefaultTTL}
}

// New constructs a Cache backed by an in-memory TTL store that, when
// full, drops expired entries first and otherwise the oldest-inserted.
func New(cfg Config) *Cache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		backend: cache.NewMemoryCache(cache.CacheConfig{
			MaxSize:        cfg.MaxSessions * 2, // transactions + financial slots
			DefaultTTL:     ttl,
			EvictionPolicy: cache.EvictionPolicyTTL,
			EnableMetrics:  true,
		}),
		ttl:      ttl,
		keyLocks: make(map[string]*sync.Mutex),
	}
}

func key(sessionID string, docType model.DocumentType) string {
	return fmt.Sprintf("%s:%s", sessionID, docType)
}

// lockFor returns the mutex serializing writers for a given key,
// creating it on first use.
func (c *Cache) lockFor(k string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.keyLocks[k]
	if !ok {
		l = &sync.Mutex{}
		c.keyLocks[k] = l
	}
	return l
}

// Put stores results under (sessionID, docType), setting ExpiresAt to
// now + TTL and overwriting any existing entry for that key.
func (c *Cache) Put(ctx context.Context, sessionID string, docType model.DocumentType, results map[model.AgentCategory]model.AgentResult) model.CachedInsights {
	k := key(sessionID, docType)
	l := c.lockFor(k)
	l.Lock()
	defer l.Unlock()

	now := time.Now()
	insights := model.CachedInsights{
		Results:     results,
		GeneratedAt: now,
		ExpiresAt:   now.Add(c.ttl),
	}
	c.backend.Set(ctx, k, insights, c.ttl)
	return insights
}

// Get returns the cached insights for (sessionID, docType), or
// (zero, false) if absent or expired. Expired entries are purged from
// the backend on access.
func (c *Cache) Get(ctx context.Context, sessionID string, docType model.DocumentType) (model.CachedInsights, bool) {
	k := key(sessionID, docType)

	v, found := c.backend.Get(ctx, k)
	if !found {
		return model.CachedInsights{}, false
	}

	insights, ok := v.(model.CachedInsights)
	if !ok {
		return model.CachedInsights{}, false
	}
	if insights.Expired(time.Now()) {
		c.backend.Delete(ctx, k)
		return model.CachedInsights{}, false
	}

	return insights, true
}

// Clear removes the entry for (sessionID, docType). If docType is the
// zero value, every document type for that session is removed -
// used on new-upload invalidation and on explicit session clear.
func (c *Cache) Clear(ctx context.Context, sessionID string, docType model.DocumentType) error {
	if docType == "" {
		for _, dt := range []model.DocumentType{model.DocumentTransactions, model.DocumentFinancial} {
			if err := c.backend.Delete(ctx, key(sessionID, dt)); err != nil {
				return err
			}
		}
		return nil
	}
	return c.backend.Delete(ctx, key(sessionID, docType))
}

// Status reports what is currently cached for a session.
func (c *Cache) Status(ctx context.Context, sessionID string) Status {
	var st Status

	if insights, ok := c.Get(ctx, sessionID, model.DocumentTransactions); ok {
		st.HasTransactionInsights = true
		exp := insights.ExpiresAt
		st.TransactionInsightsUntil = &exp
	}
	if insights, ok := c.Get(ctx, sessionID, model.DocumentFinancial); ok {
		st.HasFinancialInsights = true
		exp := insights.ExpiresAt
		st.FinancialInsightsUntil = &exp
	}

	return st
}

// Close releases the underlying backend.
func (c *Cache) Close() error {
	return c.backend.Close()
}
