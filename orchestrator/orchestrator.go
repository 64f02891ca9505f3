// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package orchestrator

import (
	"context"
	"time"

	"github.com/privatefin/finsight/agents"
	"github.com/privatefin/finsight/observability/logging"
	"github.com/privatefin/finsight/observability/metrics"
	"github.com/privatefin/finsight/ratelimit"
	"github.com/privatefin/finsight/resilience"
	"github.com/privatefin/finsight/router"
	"github.com/privatefin/finsight/semanticstore"
	"github.com/privatefin/finsight/sessioncache"
)

// DefaultInsightsTimeout is the hard per-run timeout for a
// GenerateInsights call across the full agent fan-out: 30 minutes for
// the 12-agent case.
const DefaultInsightsTimeout = 30 * time.Minute

// DefaultRetrievalLimit bounds the "retrieve all transactions for the
// upload once" read in GenerateInsights. It is deliberately far above
// any realistic single-upload size rather than being left uncapped, so
// a pathological upload cannot make a single Search call unbounded.
const DefaultRetrievalLimit = 100000

// Config wires an Orchestrator to its collaborators. There are no
// package-level singletons anywhere in this repository - every
// dependency is passed in here.
type Config struct {
	Agents   agents.Registry
	Executor *agents.Executor
	Router   *router.Router
	Store    semanticstore.Store
	Cache    *sessioncache.Cache

	// MaxLLMConcurrency sizes the bulkhead bounding concurrent LLM
	// calls across the whole agent fan-out (default 1).
	MaxLLMConcurrency int

	// InsightsTimeout is the hard per-run timeout for GenerateInsights.
	InsightsTimeout time.Duration

	// RetrievalLimit bounds the single full-upload retrieval read
	// GenerateInsights performs before fanning out agents.
	RetrievalLimit int

	// ChatRetrievalK bounds a chat-mode filtered retrieval's result count.
	ChatRetrievalK int

	// Limiter, if set, rate-limits ProcessChatQuery per session so a
	// single session cannot starve the local LLM runtime of the
	// concurrency budget other sessions depend on. Optional.
	Limiter ratelimit.Limiter

	// InsightsLimiter, if set, rate-limits GenerateInsights per session.
	// A full insights run drives twelve two-call agent sequences against
	// the local model, so unlike chat's bursty-but-cheap traffic this is
	// a steady, expensive cost best smoothed by a window rather than
	// tolerated in bursts. Optional.
	InsightsLimiter ratelimit.Limiter

	Logger    logging.Logger
	Collector metrics.Collector
}

// Orchestrator is the entry point for every analytical request: it
// selects insights vs. chat mode, fans agents out or in, and is the
// sole writer of the Session Cache.
type Orchestrator struct {
	agents          agents.Registry
	executor        *agents.Executor
	router          *router.Router
	store           semanticstore.Store
	cache           *sessioncache.Cache
	limiter         ratelimit.Limiter
	insightsLimiter ratelimit.Limiter

	bulkhead        *resilience.Bulkhead
	insightsTimeout time.Duration
	retrievalLimit  int
	chatRetrievalK  int

	logger  logging.Logger
	metrics *orchestratorMetrics
}

// New constructs an Orchestrator from cfg, applying defaults for any
// zero-valued tunable.
func New(cfg Config) *Orchestrator {
	maxConcurrency := cfg.MaxLLMConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	insightsTimeout := cfg.InsightsTimeout
	if insightsTimeout <= 0 {
		insightsTimeout = DefaultInsightsTimeout
	}
	retrievalLimit := cfg.RetrievalLimit
	if retrievalLimit <= 0 {
		retrievalLimit = DefaultRetrievalLimit
	}
	chatRetrievalK := cfg.ChatRetrievalK
	if chatRetrievalK <= 0 {
		chatRetrievalK = 10
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStructuredLogger(logging.LevelInfo)
	}
	collector := cfg.Collector
	if collector == nil {
		collector = metrics.NewPrometheusCollector()
	}

	return &Orchestrator{
		agents:          cfg.Agents,
		executor:        cfg.Executor,
		router:          cfg.Router,
		store:           cfg.Store,
		cache:           cfg.Cache,
		limiter:         cfg.Limiter,
		insightsLimiter: cfg.InsightsLimiter,

		bulkhead: resilience.NewBulkhead(&resilience.BulkheadConfig{
			MaxConcurrent: maxConcurrency,
			Timeout:       insightsTimeout,
		}),
		insightsTimeout: insightsTimeout,
		retrievalLimit:  retrievalLimit,
		chatRetrievalK:  chatRetrievalK,

		logger:  logger,
		metrics: newOrchestratorMetrics(collector),
	}
}

// VerifyUploadIngested reports whether upload_id has at least one
// indexed document in any document type, fulfilling the
// verify_upload_ingested ABI operation. It performs an unfiltered,
// zero-text retrieval scoped to uploadID rather than requiring a
// separate existence-tracking side table.
func (o *Orchestrator) VerifyUploadIngested(ctx context.Context, uploadID string) (bool, error) {
	docs, err := o.store.Search(ctx, semanticstore.SearchQuery{UploadID: uploadID, N: 1})
	if err != nil {
		return false, wrapStoreErr(err)
	}
	return len(docs) > 0, nil
}
