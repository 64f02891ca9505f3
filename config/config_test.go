// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() should not return nil")
	}

	if cfg.LLM.ReasoningModelID == "" {
		t.Error("LLM.ReasoningModelID should have a default value")
	}
	if cfg.LLM.RouterModelID == "" {
		t.Error("LLM.RouterModelID should have a default value")
	}
	if cfg.LLM.MaxConcurrency != 1 {
		t.Errorf("LLM.MaxConcurrency default = %d, want 1", cfg.LLM.MaxConcurrency)
	}
	if cfg.LLM.ThinkingTimeout() != 120*time.Second {
		t.Errorf("LLM thinking timeout default = %v, want 120s", cfg.LLM.ThinkingTimeout())
	}
	if cfg.LLM.ChatTimeout() != 30*time.Second {
		t.Errorf("LLM chat timeout default = %v, want 30s", cfg.LLM.ChatTimeout())
	}

	if cfg.Cache.TTLHours != 24 {
		t.Errorf("Cache.TTLHours default = %d, want 24", cfg.Cache.TTLHours)
	}

	if cfg.Store.Backend != "memory" {
		t.Errorf("Store.Backend default = %q, want memory", cfg.Store.Backend)
	}
	if cfg.Store.EmbeddingDim != 384 {
		t.Errorf("Store.EmbeddingDim default = %d, want 384", cfg.Store.EmbeddingDim)
	}
	if cfg.Store.RetrievalK != 10 {
		t.Errorf("Store.RetrievalK default = %d, want 10", cfg.Store.RetrievalK)
	}

	if cfg.Server.Port == 0 {
		t.Error("Server.Port should have default value")
	}
}

func TestConfigTTL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.TTLHours = 24

	if got := cfg.TTL(); got != 24*time.Hour {
		t.Errorf("TTL() = %v, want 24h", got)
	}
}

func TestNewConfigIsDefaultConfig(t *testing.T) {
	if NewConfig().LLM.ReasoningModelID != DefaultConfig().LLM.ReasoningModelID {
		t.Error("NewConfig() should match DefaultConfig()")
	}
}
