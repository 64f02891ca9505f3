// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package metrics

// AgentMetrics tracks one of the twelve analytical agents' invocations:
// a category like "expense" or "subscription" runs in either chat or
// insights mode, and each run either succeeds within its duration or
// fails with a reason.
const (
	// MetricAgentStatus reports whether an agent category is currently
	// able to complete a run (1) or has been failing (0).
	MetricAgentStatus = "finsight_agent_status"

	MetricRequestsTotal   = "finsight_agent_requests_total"
	MetricRequestDuration = "finsight_agent_request_duration_seconds"
	MetricErrorsTotal     = "finsight_agent_errors_total"

	MetricActiveGoroutines = "finsight_agent_active_goroutines"
	MetricMemoryUsage      = "finsight_agent_memory_bytes"
)

// AgentMetrics provides agent-specific metrics.
type AgentMetrics struct {
	collector Collector
}

// NewAgentMetrics creates a new agent metrics collector.
func NewAgentMetrics(collector Collector) *AgentMetrics {
	return &AgentMetrics{
		collector: collector,
	}
}

// SetStatus sets an agent category's status (1=healthy, 0=unhealthy).
func (m *AgentMetrics) SetStatus(category string, status float64) {
	m.collector.SetGauge(MetricAgentStatus, status, NewLabels("agent_category", category))
}

// RecordRequest records a category's run with its mode and duration.
func (m *AgentMetrics) RecordRequest(category, mode string, duration float64) {
	labels := NewLabels("agent_category", category, "mode", mode)
	m.collector.IncrementCounter(MetricRequestsTotal, labels)
	m.collector.ObserveHistogram(MetricRequestDuration, duration, labels)
}

// RecordError records a failed run for a category.
func (m *AgentMetrics) RecordError(category, errorType string) {
	labels := NewLabels("agent_category", category, "type", errorType)
	m.collector.IncrementCounter(MetricErrorsTotal, labels)
}

// SetActiveGoroutines sets the number of in-flight agent goroutines
// during a bulkhead-bounded insights fan-out.
func (m *AgentMetrics) SetActiveGoroutines(count float64) {
	m.collector.SetGauge(MetricActiveGoroutines, count, NoLabels())
}

// SetMemoryUsage sets the process's current memory usage in bytes.
func (m *AgentMetrics) SetMemoryUsage(bytes float64) {
	m.collector.SetGauge(MetricMemoryUsage, bytes, NoLabels())
}
