// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package health provides startup and readiness checks for finsight.
//
// finsight is a one-shot local CLI, not a long-running served process,
// so there is no liveness probe and no HTTP handler here - a check is
// run directly and its CheckResult inspected by the caller.
//
// # Startup Check
//
// Embedder initialization is fatal at startup: finsight's buildApp
// runs an EmbedderCheck before constructing anything downstream of the
// embedder, and marks the StartupChecker ready only once it passes.
//
//	startup := health.NewStartupChecker()
//	if result := embedderCheck.Check(ctx); result.IsUnhealthy() {
//	    return fmt.Errorf("embedder startup check failed: %s", result.Message)
//	}
//	startup.MarkReady()
//
// # Readiness Check
//
// A ReadinessChecker runs every registered Checker and reports the
// worst status among them:
//
//	readiness := health.NewReadinessChecker(embedderCheck)
//	result := readiness.Check(ctx)
//
// # Custom Health Checks
//
// Implement the Checker interface for a new dependency:
//
//	type CustomCheck struct{}
//
//	func (c *CustomCheck) Name() string { return "custom" }
//
//	func (c *CustomCheck) Check(ctx context.Context) health.CheckResult {
//	    return health.CheckResult{Name: c.Name(), Status: health.StatusHealthy}
//	}
package health
