// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/privatefin/finsight/agents"
	"github.com/privatefin/finsight/config"
	"github.com/privatefin/finsight/llmclient"
	"github.com/privatefin/finsight/observability/health"
	"github.com/privatefin/finsight/observability/logging"
	"github.com/privatefin/finsight/observability/metrics"
	"github.com/privatefin/finsight/orchestrator"
	"github.com/privatefin/finsight/ratelimit"
	"github.com/privatefin/finsight/router"
	"github.com/privatefin/finsight/semanticstore"
	"github.com/privatefin/finsight/sessioncache"
)

// app bundles the orchestrator with the pieces a command needs to
// close over directly: the store, for the index subcommand, the
// session cache the orchestrator was built with, and the startup and
// readiness checkers.
type app struct {
	orch      *orchestrator.Orchestrator
	store     semanticstore.Store
	cache     *sessioncache.Cache
	startup   *health.StartupChecker
	readiness *health.ReadinessChecker
}

// loadConfig loads configuration from path, falling back to defaults
// with a warning if the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("⚠️  Config file not found: %s, using defaults", path)
		cfg := config.DefaultConfig()
		cfg.LoadEnv()
		applyOverrides(cfg)
		return cfg, cfg.Validate()
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	log.Printf("✅ Configuration loaded from %s", path)
	applyOverrides(cfg)
	return cfg, nil
}

// applyOverrides layers the root command's --llm-base-url/--store
// flags (and their FINSIGHT_LLM_BASE_URL/FINSIGHT_STORE_BACKEND
// environment equivalents) on top of cfg.
func applyOverrides(cfg *config.Config) {
	if v := overrides.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := overrides.GetString("store.backend"); v != "" {
		cfg.Store.Backend = v
	}
}

// buildApp wires every collaborator package in this repository into a
// single running app: one Config in, one set of concrete
// collaborators out, with no package-level singletons along the way.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := logging.NewStructuredLogger(logging.Level(cfg.Logging.Level))
	collector := metrics.NewPrometheusCollector()

	local, err := llmclient.NewLocalRuntime(llmclient.LocalRuntimeConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.ReasoningModelID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure LLM runtime: %w", err)
	}
	log.Printf("✅ LLM: local runtime (%s @ %s)", cfg.LLM.ReasoningModelID, cfg.LLM.BaseURL)

	var provider llmclient.Provider = llmclient.NewResilientProvider(local, llmclient.ResilientProviderConfig{
		ThinkingTimeout: cfg.LLM.ThinkingTimeout(),
		ChatTimeout:     cfg.LLM.ChatTimeout(),
	})

	embedder := semanticstore.NewHashEmbedder(cfg.Store.EmbeddingDim)

	startup := health.NewStartupChecker()
	embedderCheck := semanticstore.NewEmbedderCheck(embedder)
	if result := embedderCheck.Check(ctx); result.IsUnhealthy() {
		return nil, fmt.Errorf("embedder startup check failed: %s", result.Message)
	}
	startup.MarkReady()
	readiness := health.NewReadinessChecker(embedderCheck)
	log.Println("✅ Health: embedder startup check passed")

	var store semanticstore.Store
	switch cfg.Store.Backend {
	case "qdrant":
		host, port := splitHostPort(cfg.Store.QdrantAddr)
		qcfg := semanticstore.QdrantConfig{
			Host:             host,
			Port:             port,
			CollectionName:   cfg.Store.QdrantCollection,
			InitializeSchema: true,
		}
		if cfg.Store.MetadataBackend == "redis" {
			metaCfg := semanticstore.DefaultRedisMetadataConfig()
			if cfg.Store.RedisAddr != "" {
				metaCfg.Address = cfg.Store.RedisAddr
			}
			qcfg.Metadata = &metaCfg
		}
		store, err = semanticstore.NewQdrantStore(ctx, qcfg, embedder)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
		}
		log.Printf("✅ Store: Qdrant (%s/%s)", cfg.Store.QdrantAddr, cfg.Store.QdrantCollection)
		if qcfg.Metadata != nil {
			log.Printf("✅ Metadata: Redis (%s)", qcfg.Metadata.Address)
		}
	default:
		store = semanticstore.NewMemoryStore(embedder)
		log.Println("✅ Store: in-memory")
	}

	cache := sessioncache.New(sessioncache.Config{
		MaxSessions: cfg.Cache.MaxSessions,
		TTL:         cfg.TTL(),
	})

	var classifier llmclient.Provider
	if cfg.LLM.RouterModelID != "" {
		classifier = provider
	}
	r := router.New(router.Config{
		Classifier: classifier,
		ModelID:    cfg.LLM.RouterModelID,
		Logger:     logger,
	})

	exec := agents.NewExecutor(provider, cfg.LLM.ReasoningModelID)

	var limiter ratelimit.Limiter
	if cfg.LLM.MaxConcurrency > 0 {
		limiter = ratelimit.NewTokenBucket(ratelimit.TokenBucketConfig{
			Rate:     float64(cfg.LLM.MaxConcurrency),
			Capacity: cfg.LLM.MaxConcurrency * 4,
		})
	}

	var insightsLimiter ratelimit.Limiter
	if cfg.LLM.InsightsPerHour > 0 {
		insightsLimiter = ratelimit.NewSlidingWindow(ratelimit.SlidingWindowConfig{
			Limit:  cfg.LLM.InsightsPerHour,
			Window: time.Hour,
			Config: ratelimit.DefaultConfig(),
		})
	}

	orch := orchestrator.New(orchestrator.Config{
		Agents:            agents.NewRegistry(),
		Executor:          exec,
		Router:            r,
		Store:             store,
		Cache:             cache,
		MaxLLMConcurrency: cfg.LLM.MaxConcurrency,
		RetrievalLimit:    orchestrator.DefaultRetrievalLimit,
		ChatRetrievalK:    cfg.Store.RetrievalK,
		Limiter:           limiter,
		InsightsLimiter:   insightsLimiter,
		Logger:            logger,
		Collector:         collector,
	})

	return &app{orch: orch, store: store, cache: cache, startup: startup, readiness: readiness}, nil
}

// splitHostPort splits a "host:port" address into QdrantConfig's
// separate fields, defaulting to Qdrant's standard gRPC port if addr
// carries none.
func splitHostPort(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6334
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 6334
	}
	return host, port
}
