// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package semanticstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMetadataStore persists Document metadata (everything but the
// vector) so a restart does not lose what upload_id each document
// belongs to even if the vector index itself is rebuilt. It is not a
// Store on its own - it backs a vector Store's bookkeeping, keyed by
// session so Clear(session_id) stays cheap.
type RedisMetadataStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisMetadataConfig configures a RedisMetadataStore.
type RedisMetadataConfig struct {
	Address      string
	Password     string
	DB           int
	TTL          time.Duration
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultRedisMetadataConfig mirrors the session cache's 24-hour
// retention window so upload metadata never outlives the insights it
// describes.
func DefaultRedisMetadataConfig() RedisMetadataConfig {
	return RedisMetadataConfig{
		Address:      "localhost:6379",
		DB:           0,
		TTL:          24 * time.Hour,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// NewRedisMetadataStore connects to Redis and verifies the connection
// with a Ping before returning.
func NewRedisMetadataStore(cfg RedisMetadataConfig) (*RedisMetadataStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("semanticstore: failed to connect to redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultRedisMetadataConfig().TTL
	}

	return &RedisMetadataStore{client: client, ttl: ttl}, nil
}

func (r *RedisMetadataStore) key(sessionID, docID string) string {
	return fmt.Sprintf("finsight:meta:%s:%s", sessionID, docID)
}

func (r *RedisMetadataStore) indexKey(sessionID string) string {
	return fmt.Sprintf("finsight:meta-index:%s", sessionID)
}

// Put durably records doc's metadata under sessionID, and registers
// its ID in the session's index set so Clear can find every key
// belonging to that session without a server-side SCAN.
func (r *RedisMetadataStore) Put(ctx context.Context, sessionID string, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("semanticstore: failed to marshal document metadata: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(sessionID, doc.ID), data, r.ttl)
	pipe.SAdd(ctx, r.indexKey(sessionID), doc.ID)
	pipe.Expire(ctx, r.indexKey(sessionID), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("semanticstore: failed to persist document metadata: %w", err)
	}
	return nil
}

// List returns every document metadata record stored for sessionID.
func (r *RedisMetadataStore) List(ctx context.Context, sessionID string) ([]Document, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("semanticstore: failed to list session index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		data, err := r.client.Get(ctx, r.key(sessionID, id)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // expired between SMembers and Get
			}
			return nil, fmt.Errorf("semanticstore: failed to read document metadata %s: %w", id, err)
		}
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("semanticstore: failed to unmarshal document metadata %s: %w", id, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Clear removes every metadata record belonging to sessionID, reading
// the index set first rather than trusting a key-pattern scan to be
// atomic or complete under concurrent writes.
func (r *RedisMetadataStore) Clear(ctx context.Context, sessionID string) error {
	ids, err := r.client.SMembers(ctx, r.indexKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("semanticstore: failed to list session index: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, r.key(sessionID, id))
	}
	keys = append(keys, r.indexKey(sessionID))

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("semanticstore: failed to clear session metadata: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection pool.
func (r *RedisMetadataStore) Close() error {
	return r.client.Close()
}
