// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"fmt"
)

// Validate validates the entire configuration.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateStore(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	return nil
}

// validateLLM validates LLM runtime configuration.
func (c *Config) validateLLM() error {
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("llm base_url must not be empty")
	}

	if c.LLM.ReasoningModelID == "" {
		return fmt.Errorf("llm reasoning_model_id must not be empty")
	}

	if c.LLM.RouterModelID == "" {
		return fmt.Errorf("llm router_model_id must not be empty")
	}

	if c.LLM.MaxConcurrency < 1 {
		return fmt.Errorf("llm max_concurrency must be at least 1")
	}

	if c.LLM.ThinkingTimeoutSeconds <= 0 {
		return fmt.Errorf("llm thinking_timeout_seconds must be positive")
	}

	if c.LLM.ChatTimeoutSeconds <= 0 {
		return fmt.Errorf("llm chat_timeout_seconds must be positive")
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm temperature must be between 0 and 2")
	}

	if c.LLM.InsightsPerHour < 0 {
		return fmt.Errorf("llm insights_per_hour must not be negative")
	}

	return nil
}

// validateCache validates session cache configuration.
func (c *Config) validateCache() error {
	if c.Cache.TTLHours < 1 {
		return fmt.Errorf("cache ttl_hours must be at least 1")
	}

	if c.Cache.MaxSessions < 1 {
		return fmt.Errorf("cache max_sessions must be at least 1")
	}

	return nil
}

// validateStore validates semantic store configuration.
func (c *Config) validateStore() error {
	validBackends := map[string]bool{"memory": true, "qdrant": true}
	if !validBackends[c.Store.Backend] {
		return fmt.Errorf("store backend must be one of: memory, qdrant")
	}

	if c.Store.Backend == "qdrant" && c.Store.QdrantAddr == "" {
		return fmt.Errorf("store qdrant_addr must be set when backend is qdrant")
	}

	validMetadataBackends := map[string]bool{"": true, "redis": true}
	if !validMetadataBackends[c.Store.MetadataBackend] {
		return fmt.Errorf("store metadata_backend must be one of: \"\", redis")
	}

	if c.Store.MetadataBackend == "redis" && c.Store.RedisAddr == "" {
		return fmt.Errorf("store redis_addr must be set when metadata_backend is redis")
	}

	if c.Store.EmbeddingDim < 1 {
		return fmt.Errorf("store embedding_dim must be positive")
	}

	if c.Store.RetrievalK < 1 {
		return fmt.Errorf("store retrieval_k must be positive")
	}

	return nil
}

// validateServer validates the passthrough transport metadata.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	return nil
}
