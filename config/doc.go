// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package config provides configuration management for finsight.
//
// Configuration is organized into sections:
//   - LLM: local model runtime address, model identifiers, concurrency,
//     timeouts.
//   - Cache: Session Cache TTL and size limits.
//   - Store: Semantic Store backend selection and retrieval tuning.
//   - Server: passthrough metadata for an external transport.
//   - Logging, Metrics: observability sinks.
//
// # Usage
//
//	cfg, err := config.LoadFromFile("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Environment variable override (applied after the file, before
// validation):
//
//	export FINSIGHT_LLM_BASE_URL="http://127.0.0.1:8000/v1"
//	export FINSIGHT_LLM_MAX_CONCURRENCY=2
//	export FINSIGHT_CACHE_TTL_HOURS=24
//
// See Config.Validate for the complete set of validation rules.
package config
