// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"time"
)

// Config is the complete configuration for a finsight install. Every
// recognized option is represented here; nothing in this struct
// requires a network call to anything other than the local LLM
// runtime and, optionally, a local Qdrant/Redis instance.
type Config struct {
	LLM     LLMConfig     `json:"llm" yaml:"llm"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// LLMConfig configures the local model runtime the LLM Client talks to.
type LLMConfig struct {
	BaseURL                string  `json:"base_url" yaml:"base_url"`
	APIKey                 string  `json:"api_key" yaml:"api_key"`
	ReasoningModelID       string  `json:"reasoning_model_id" yaml:"reasoning_model_id"`
	RouterModelID          string  `json:"router_model_id" yaml:"router_model_id"`
	MaxConcurrency         int     `json:"max_concurrency" yaml:"max_concurrency"`
	ThinkingTimeoutSeconds int     `json:"thinking_timeout_seconds" yaml:"thinking_timeout_seconds"`
	ChatTimeoutSeconds     int     `json:"chat_timeout_seconds" yaml:"chat_timeout_seconds"`
	Temperature            float64 `json:"temperature" yaml:"temperature"`

	// InsightsPerHour caps GenerateInsights runs per session in any
	// rolling hour window (0 disables the limit). A full run drives
	// twelve two-call agent sequences, so this is sized far below the
	// chat limiter's bursty per-second budget.
	InsightsPerHour int `json:"insights_per_hour" yaml:"insights_per_hour"`
}

// CacheConfig configures the Session Cache.
type CacheConfig struct {
	TTLHours    int `json:"ttl_hours" yaml:"ttl_hours"`
	MaxSessions int `json:"max_sessions" yaml:"max_sessions"`
}

// StoreConfig configures the Semantic Store.
type StoreConfig struct {
	Backend          string `json:"backend" yaml:"backend"`                   // "memory" | "qdrant"
	MetadataBackend  string `json:"metadata_backend" yaml:"metadata_backend"` // "" | "redis"
	EmbeddingDim     int    `json:"embedding_dim" yaml:"embedding_dim"`
	RetrievalK       int    `json:"retrieval_k" yaml:"retrieval_k"`
	QdrantAddr       string `json:"qdrant_addr" yaml:"qdrant_addr"`
	QdrantCollection string `json:"qdrant_collection" yaml:"qdrant_collection"`
	RedisAddr        string `json:"redis_addr" yaml:"redis_addr"`
}

// ServerConfig is retained as passthrough metadata for an external
// transport layer; this repository does not itself serve HTTP.
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// LoggingConfig configures observability/logging.
type LoggingConfig struct {
	Level      string `json:"level" yaml:"level"`   // "debug", "info", "warn", "error"
	Format     string `json:"format" yaml:"format"` // "json", "text"
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// MetricsConfig configures observability/metrics.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Port    int    `json:"port" yaml:"port"`
	Path    string `json:"path" yaml:"path"`
}

// DefaultConfig returns the configuration a single local install runs
// with when no config file or env override is present.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:                "http://127.0.0.1:8000/v1",
			ReasoningModelID:       "reasoning-model",
			RouterModelID:          "router-model",
			MaxConcurrency:         1,
			ThinkingTimeoutSeconds: 120,
			ChatTimeoutSeconds:     30,
			Temperature:            0.2,
			InsightsPerHour:        6,
		},
		Cache: CacheConfig{
			TTLHours:    24,
			MaxSessions: 10000,
		},
		Store: StoreConfig{
			Backend:          "memory",
			EmbeddingDim:     384,
			RetrievalK:       10,
			QdrantCollection: "finsight",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

// NewConfig is an alias for DefaultConfig, kept for callers used to
// constructing an empty-but-valid config before overriding fields.
func NewConfig() *Config {
	return DefaultConfig()
}

// TTL returns the session cache lifetime as a time.Duration.
func (c *Config) TTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// ThinkingTimeout returns the think-call bound as a time.Duration.
func (c LLMConfig) ThinkingTimeout() time.Duration {
	return time.Duration(c.ThinkingTimeoutSeconds) * time.Second
}

// ChatTimeout returns the chat-call bound as a time.Duration.
func (c LLMConfig) ChatTimeout() time.Duration {
	return time.Duration(c.ChatTimeoutSeconds) * time.Second
}
