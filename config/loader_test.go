// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yamlContent := `
llm:
  base_url: "http://127.0.0.1:9000/v1"
  reasoning_model_id: "qwen2.5-32b"
  router_model_id: "qwen2.5-3b"
  max_concurrency: 2
cache:
  ttl_hours: 12
store:
  backend: "memory"
  embedding_dim: 256
  retrieval_k: 5
server:
  host: "127.0.0.1"
  port: 9090
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.LLM.BaseURL != "http://127.0.0.1:9000/v1" {
		t.Errorf("LLM.BaseURL = %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.ReasoningModelID != "qwen2.5-32b" {
		t.Errorf("LLM.ReasoningModelID = %q", cfg.LLM.ReasoningModelID)
	}
	if cfg.LLM.MaxConcurrency != 2 {
		t.Errorf("LLM.MaxConcurrency = %d, want 2", cfg.LLM.MaxConcurrency)
	}
	if cfg.Cache.TTLHours != 12 {
		t.Errorf("Cache.TTLHours = %d, want 12", cfg.Cache.TTLHours)
	}
	if cfg.Store.EmbeddingDim != 256 {
		t.Errorf("Store.EmbeddingDim = %d, want 256", cfg.Store.EmbeddingDim)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
}

func TestLoadFromFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	jsonContent := `{"llm": {"reasoning_model_id": "r1", "router_model_id": "r2"}, "cache": {"ttl_hours": 6}}`
	if err := os.WriteFile(path, []byte(jsonContent), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.LLM.ReasoningModelID != "r1" {
		t.Errorf("LLM.ReasoningModelID = %q, want r1", cfg.LLM.ReasoningModelID)
	}
	if cfg.Cache.TTLHours != 6 {
		t.Errorf("Cache.TTLHours = %d, want 6", cfg.Cache.TTLHours)
	}
}

func TestLoadFromFileUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("x=1"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FINSIGHT_LLM_BASE_URL", "http://localhost:1234/v1")
	t.Setenv("FINSIGHT_LLM_MAX_CONCURRENCY", "4")
	t.Setenv("FINSIGHT_CACHE_TTL_HOURS", "48")

	cfg := DefaultConfig()
	if err := cfg.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}

	if cfg.LLM.BaseURL != "http://localhost:1234/v1" {
		t.Errorf("LLM.BaseURL = %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.MaxConcurrency != 4 {
		t.Errorf("LLM.MaxConcurrency = %d, want 4", cfg.LLM.MaxConcurrency)
	}
	if cfg.Cache.TTLHours != 48 {
		t.Errorf("Cache.TTLHours = %d, want 48", cfg.Cache.TTLHours)
	}
}

func TestLoadFromFileInvalidConfigFailsValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	// max_concurrency of 0 is invalid.
	yamlContent := `
llm:
  reasoning_model_id: "r"
  router_model_id: "r2"
  max_concurrency: 0
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected validation error for max_concurrency=0")
	}
}
