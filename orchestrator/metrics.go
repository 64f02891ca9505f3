// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package orchestrator

import (
	"github.com/privatefin/finsight/model"
	"github.com/privatefin/finsight/observability/metrics"
)

// Cache hit/miss metric series names - a store-level concern neither
// metrics.AgentMetrics nor metrics.LLMMetrics covers, so these go
// straight through the Collector rather than through either helper.
const (
	metricCacheHit  = "finsight_cache_hit_total"
	metricCacheMiss = "finsight_cache_miss_total"
)

// orchestratorMetrics is the orchestrator's metrics facade: agent
// run/failure metrics go through metrics.AgentMetrics, LLM call
// metrics go through metrics.LLMMetrics, and the two cache counters
// that fit neither helper go straight through the Collector.
type orchestratorMetrics struct {
	agent *metrics.AgentMetrics
	llm   *metrics.LLMMetrics
	raw   metrics.Collector
}

func newOrchestratorMetrics(collector metrics.Collector) *orchestratorMetrics {
	return &orchestratorMetrics{
		agent: metrics.NewAgentMetrics(collector),
		llm:   metrics.NewLLMMetrics(collector),
		raw:   collector,
	}
}

func (m *orchestratorMetrics) observeAgentDuration(category model.AgentCategory, mode model.Mode, seconds float64) {
	m.agent.RecordRequest(string(category), string(mode), seconds)
}

func (m *orchestratorMetrics) recordAgentError(category model.AgentCategory, errorCode string) {
	m.agent.RecordError(string(category), errorCode)
}

func (m *orchestratorMetrics) recordCacheHit(docType model.DocumentType) {
	m.raw.IncrementCounter(metricCacheHit, metrics.Labels{"document_type": string(docType)})
}

func (m *orchestratorMetrics) recordCacheMiss(docType model.DocumentType) {
	m.raw.IncrementCounter(metricCacheMiss, metrics.Labels{"document_type": string(docType)})
}

func (m *orchestratorMetrics) recordLLMCall(modelID string, think bool) {
	mode := "chat"
	if think {
		mode = "think"
	}
	m.llm.RecordCall("local", modelID+":"+mode, 0)
}
