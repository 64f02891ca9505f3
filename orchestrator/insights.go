// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package orchestrator

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/privatefin/finsight/agents"
	"github.com/privatefin/finsight/model"
	"github.com/privatefin/finsight/observability/logging"
	"github.com/privatefin/finsight/observability/tracing"
	"github.com/privatefin/finsight/pkg/errors"
)

// InsightsResult is GenerateInsights' return value: the assembled
// per-category result map plus the moment the cache entry it wrote
// expires.
type InsightsResult struct {
	Results      map[model.AgentCategory]model.AgentResult
	CacheExpires time.Time
}

// GenerateInsights runs every agent for docType over uploadID's data
// in insights mode and writes the full result set to the Session
// Cache. The single store read happens once, before fan-out; agents
// run with bounded LLM concurrency and their two-call sequence is
// otherwise independent. A per-agent failure is isolated
// into that category's result slot; the call still succeeds as long
// as at least one agent produced a result. If every agent failed,
// LLMUnavailable is returned and the cache is left untouched; a failed
// store read has already returned its own error before fan-out.
func (o *Orchestrator) GenerateInsights(ctx context.Context, sessionID, uploadID string, docType model.DocumentType) (InsightsResult, error) {
	if sessionID == "" {
		return InsightsResult{}, model.ErrMissingField.WithDetail("field", "session_id")
	}
	if uploadID == "" {
		return InsightsResult{}, model.ErrMissingField.WithDetail("field", "upload_id")
	}

	if o.insightsLimiter != nil {
		if !o.insightsLimiter.Allow(sessionID) {
			return InsightsResult{}, errors.ErrLLMRateLimit.WithDetail("session_id", sessionID)
		}
	}

	ctx, span := tracing.StartSpan(ctx, "orchestrator.GenerateInsights")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, o.insightsTimeout)
	defer cancel()

	categories := model.TransactionCategories
	if docType == model.DocumentFinancial {
		categories = model.FinancialCategories
	}

	var (
		txs  []model.Transaction
		stmt *model.FinancialStatement
		err  error
	)
	if docType == model.DocumentFinancial {
		stmt, err = o.fetchStatement(ctx, uploadID)
	} else {
		txs, err = o.fetchAllTransactions(ctx, uploadID)
	}
	if err != nil {
		tracing.RecordError(span, err)
		return InsightsResult{}, err
	}
	if len(txs) == 0 && (stmt == nil || len(stmt.Flatten()) == 0) {
		err := errors.ErrUploadNotFound.WithDetail("upload_id", uploadID).WithDetail("document_type", string(docType))
		tracing.RecordError(span, err)
		return InsightsResult{}, err
	}

	now := time.Now()
	results := make(map[model.AgentCategory]model.AgentResult, len(categories))
	var mu sync.Mutex

	group, gctx := errgroup.WithContext(ctx)
	for _, category := range categories {
		category := category
		def, ok := o.agents.Get(category)
		if !ok {
			continue
		}

		group.Go(func() error {
			result := o.runAgentInsights(gctx, def, agents.ExecuteInput{
				Mode:         model.ModeInsights,
				UploadID:     uploadID,
				Now:          now,
				Transactions: txs,
				Statement:    stmt,
			})
			mu.Lock()
			results[category] = result
			mu.Unlock()
			return nil
		})
	}
	// group.Wait only ever returns non-nil if ctx is cancelled (hard
	// insights timeout or caller cancellation); individual agent
	// failures never propagate out of the goroutines above, so that
	// one agent failing never aborts its siblings.
	if err := group.Wait(); err != nil {
		tracing.RecordError(span, err)
		return InsightsResult{}, err
	}

	if allFailed(results) {
		err := dominantFailure(results)
		tracing.RecordError(span, err)
		return InsightsResult{}, err
	}

	cached := o.cache.Put(ctx, sessionID, docType, redactMap(results))

	o.logger.Info(ctx, "insights run complete",
		logging.String("session_id", sessionID),
		logging.String("upload_id", uploadID),
		logging.String("document_type", string(docType)),
		logging.Int("agent_count", len(results)))

	return InsightsResult{Results: results, CacheExpires: cached.ExpiresAt}, nil
}

// runAgentInsights runs a single agent's two-call insights sequence
// under the orchestrator's LLM bulkhead, tagging logs and metrics with
// its category so interleaved output can be correlated. On failure it
// returns a well-formed AgentResult carrying
// errors.ErrAgentFailure's code rather than propagating the error, so
// the caller always gets one slot per category.
func (o *Orchestrator) runAgentInsights(ctx context.Context, def agents.AgentDefinition, in agents.ExecuteInput) model.AgentResult {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "orchestrator.agent.Execute")
	defer span.End()
	tracing.SetAttributes(span, attribute.String("agent_category", string(def.Category)))

	var result model.AgentResult
	err := o.bulkhead.Execute(ctx, func(ctx context.Context) error {
		var execErr error
		result, execErr = o.executor.Execute(ctx, def, in)
		return execErr
	})

	o.metrics.observeAgentDuration(def.Category, model.ModeInsights, time.Since(start).Seconds())
	o.metrics.recordLLMCall(o.executor.ModelID, true)

	if err != nil {
		o.metrics.recordAgentError(def.Category, errors.ErrAgentFailure.Code)
		o.logger.Warn(ctx, "agent failed during insights run",
			logging.String("agent_category", string(def.Category)),
			logging.String("error", err.Error()))
		tracing.RecordError(span, err)
		return model.AgentResult{
			Category: def.Category,
			Mode:     model.ModeInsights,
			Err:      errors.ErrAgentFailure.Code,
		}
	}

	o.logger.Debug(ctx, "agent completed",
		logging.String("agent_category", string(def.Category)),
		logging.Redacted("thinking", result.Thinking))
	return result
}

// allFailed reports whether every slot in results carries an error.
func allFailed(results map[model.AgentCategory]model.AgentResult) bool {
	if len(results) == 0 {
		return true
	}
	for _, r := range results {
		if r.Err == "" {
			return false
		}
	}
	return true
}

// dominantFailure picks the error to surface when every agent failed:
// LLMUnavailable takes precedence over StoreUnavailable since the
// store read already succeeded by the time agents ran.
func dominantFailure(results map[model.AgentCategory]model.AgentResult) error {
	if len(results) == 0 {
		return errors.ErrLLMUnavailable
	}
	return errors.ErrLLMUnavailable.WithDetail("agent_count", len(results))
}
