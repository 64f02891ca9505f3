// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package metrics provides metrics collection and export for finsight agents.
//
// # Overview
//
// This package provides a Prometheus-based metrics collector with support for:
//   - Counters (monotonic increasing values)
//   - Gauges (arbitrary values)
//   - Histograms (distribution of values)
//   - Summaries (quantiles)
//
// # Basic Usage
//
//	collector := metrics.NewPrometheusCollector()
//
//	// Increment counter
//	collector.IncrementCounter("requests_total", map[string]string{
//	    "method": "POST",
//	    "status": "200",
//	})
//
//	// Set gauge
//	collector.SetGauge("active_connections", 42, nil)
//
//	// Observe histogram
//	collector.ObserveHistogram("request_duration_seconds", 0.042, map[string]string{
//	    "endpoint": "/api/chat",
//	})
//
//	// Expose metrics
//	http.Handle("/metrics", collector.Handler())
//
// # Agent Metrics
//
// Pre-defined metrics for agent monitoring:
//
//	agentMetrics := metrics.NewAgentMetrics(collector)
//
//	// Record one agent run, labeled by category and mode
//	agentMetrics.RecordRequest("expense", "insights", 0.042)
//
//	// Record error
//	agentMetrics.RecordError("expense", "AGENT_FAILURE")
//
//	// Update status
//	agentMetrics.SetStatus("expense", 1) // 1=healthy, 0=unhealthy
//
// # LLM Metrics
//
//	llmMetrics := metrics.NewLLMMetrics(collector)
//
//	// Record LLM call against the local runtime
//	llmMetrics.RecordCall("local", "reasoning-model:think", 0.523)
//
//	// Record token usage
//	llmMetrics.RecordTokens("local", "reasoning-model", 150, 450)
//
// # Custom Metrics
//
// Create custom metric collectors:
//
//	type CustomMetrics struct {
//	    collector metrics.Collector
//	}
//
//	func (m *CustomMetrics) RecordCustomEvent(name string) {
//	    m.collector.IncrementCounter("custom_events_total", map[string]string{
//	        "event": name,
//	    })
//	}
package metrics
