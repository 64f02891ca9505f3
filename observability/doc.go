// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package observability is an umbrella for finsight's monitoring,
// logging, tracing, and health subpackages. It carries no code of its
// own - finsight is a local CLI with no HTTP surface of its own (see
// cmd/finsight), so each subpackage is imported directly by whatever
// constructs it rather than through a shared manager type.
//
// # Metrics
//
// Collect and expose metrics for monitoring:
//
//	collector := metrics.NewPrometheusCollector()
//	agentMetrics := metrics.NewAgentMetrics(collector)
//	agentMetrics.RecordRequest("expense", "insights", 0.042)
//
// # Logging
//
// Structured logging with context propagation:
//
//	logger := logging.NewStructuredLogger(logging.LevelInfo)
//	ctx := logging.WithRequestID(ctx, "req-123")
//	logger.Info(ctx, "message handled",
//	    logging.String("agent_id", "agent-1"),
//	    logging.Int("duration_ms", 42),
//	)
//
// # Tracing
//
// Request tracing with OpenTelemetry:
//
//	shutdown, err := tracing.InitTracing(tracing.DefaultConfig())
//	defer shutdown(ctx)
//	ctx, span := tracing.StartSpan(ctx, "orchestrator.GenerateInsights")
//	defer span.End()
//
// # Health Checks
//
// Startup and readiness probes, run directly (not served over HTTP):
//
//	startup := health.NewStartupChecker()
//	ready := health.NewReadinessChecker(semanticstore.NewEmbedderCheck(embedder))
//	result := ready.Check(ctx)
package observability
