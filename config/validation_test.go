// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import "testing"

func TestValidateDefaultConfig(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig() should validate, got: %v", err)
	}
}

func TestValidateLLM(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"empty base url", func(c *Config) { c.LLM.BaseURL = "" }, true},
		{"empty reasoning model", func(c *Config) { c.LLM.ReasoningModelID = "" }, true},
		{"empty router model", func(c *Config) { c.LLM.RouterModelID = "" }, true},
		{"zero concurrency", func(c *Config) { c.LLM.MaxConcurrency = 0 }, true},
		{"negative concurrency", func(c *Config) { c.LLM.MaxConcurrency = -1 }, true},
		{"zero thinking timeout", func(c *Config) { c.LLM.ThinkingTimeoutSeconds = 0 }, true},
		{"zero chat timeout", func(c *Config) { c.LLM.ChatTimeoutSeconds = 0 }, true},
		{"temperature too high", func(c *Config) { c.LLM.Temperature = 3 }, true},
		{"temperature negative", func(c *Config) { c.LLM.Temperature = -1 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateCache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.TTLHours = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for ttl_hours=0")
	}

	cfg = DefaultConfig()
	cfg.Cache.MaxSessions = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for max_sessions=0")
	}
}

func TestValidateStore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Backend = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown store backend")
	}

	cfg = DefaultConfig()
	cfg.Store.Backend = "qdrant"
	cfg.Store.QdrantAddr = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for qdrant backend without qdrant_addr")
	}

	cfg = DefaultConfig()
	cfg.Store.Backend = "qdrant"
	cfg.Store.QdrantAddr = "127.0.0.1:6334"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no error with qdrant_addr set, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Store.MetadataBackend = "redis"
	cfg.Store.RedisAddr = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for redis metadata backend without redis_addr")
	}

	cfg = DefaultConfig()
	cfg.Store.EmbeddingDim = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for embedding_dim=0")
	}

	cfg = DefaultConfig()
	cfg.Store.RetrievalK = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for retrieval_k=0")
	}
}

func TestValidateServer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port=0")
	}

	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port out of range")
	}
}
