// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads configuration from a file (YAML or JSON), applies
// FINSIGHT_* environment overrides on top, and validates the result.
// The file format is determined by the file extension (.yaml, .yml, or .json).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if err := cfg.LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadEnv applies FINSIGHT_<SECTION>_<FIELD> environment variable
// overrides on top of cfg's current values. Environment variables take
// precedence over file-based configuration.
func (c *Config) LoadEnv() error {
	if v := os.Getenv("FINSIGHT_LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("FINSIGHT_LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("FINSIGHT_LLM_REASONING_MODEL_ID"); v != "" {
		c.LLM.ReasoningModelID = v
	}
	if v := os.Getenv("FINSIGHT_LLM_ROUTER_MODEL_ID"); v != "" {
		c.LLM.RouterModelID = v
	}
	if v := os.Getenv("FINSIGHT_LLM_MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LLM.MaxConcurrency = n
		}
	}
	if v := os.Getenv("FINSIGHT_LLM_THINKING_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LLM.ThinkingTimeoutSeconds = n
		}
	}
	if v := os.Getenv("FINSIGHT_LLM_CHAT_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LLM.ChatTimeoutSeconds = n
		}
	}
	if v := os.Getenv("FINSIGHT_CACHE_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.TTLHours = n
		}
	}
	if v := os.Getenv("FINSIGHT_STORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("FINSIGHT_STORE_EMBEDDING_DIM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Store.EmbeddingDim = n
		}
	}
	if v := os.Getenv("FINSIGHT_STORE_RETRIEVAL_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Store.RetrievalK = n
		}
	}
	if v := os.Getenv("FINSIGHT_SERVER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		}
	}
	if v := os.Getenv("FINSIGHT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	// OPENAI_API_KEY is honored as a convenience fallback for the
	// go-openai-based LocalRuntime client, which accepts any
	// non-empty key for an unauthenticated local server.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}

	return nil
}
