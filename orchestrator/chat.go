// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package orchestrator

import (
	"context"
	"time"

	"github.com/privatefin/finsight/agents"
	"github.com/privatefin/finsight/model"
	"github.com/privatefin/finsight/observability/logging"
	"github.com/privatefin/finsight/observability/tracing"
	fserrors "github.com/privatefin/finsight/pkg/errors"
)

// ChatResult is ProcessChatQuery's return value.
type ChatResult struct {
	Result   model.AgentResult
	Metadata ChatMetadata
}

// ChatMetadata carries the routing decision behind a chat response,
// for the process_chat_query ABI's {response, agent_used, metadata}
// shape.
type ChatMetadata struct {
	AgentUsed  model.AgentCategory
	QueryType  model.QueryType
	Confidence float64
	Filtered   bool
}

// ProcessChatQuery answers a single free-text question in chat mode.
// It never computes insights inline: if no cached insights exist for
// (sessionID, docType), it returns ErrCacheMissing rather than falling
// back to a full insights run. If the intent's
// filters are non-empty, it performs one filtered retrieval first;
// otherwise it answers from the cached analysis alone.
func (o *Orchestrator) ProcessChatQuery(ctx context.Context, sessionID, uploadID string, docType model.DocumentType, query string) (ChatResult, error) {
	if sessionID == "" {
		return ChatResult{}, model.ErrMissingField.WithDetail("field", "session_id")
	}
	if uploadID == "" {
		return ChatResult{}, model.ErrMissingField.WithDetail("field", "upload_id")
	}

	if o.limiter != nil {
		if !o.limiter.Allow(sessionID) {
			return ChatResult{}, fserrors.ErrLLMRateLimit.WithDetail("session_id", sessionID)
		}
	}

	ctx, span := tracing.StartSpan(ctx, "orchestrator.ProcessChatQuery")
	defer span.End()

	intent, err := o.router.Understand(ctx, query, docType, uploadID)
	if err != nil {
		tracing.RecordError(span, err)
		return ChatResult{}, err
	}

	cached, ok := o.cache.Get(ctx, sessionID, docType)
	if !ok {
		o.metrics.recordCacheMiss(docType)
		// A session holding insights for the other document type gets
		// the more specific mismatch code; a cold session gets
		// CacheMissing. Neither falls back to computing insights here.
		err := fserrors.ErrCacheMissing.WithDetail("session_id", sessionID).WithDetail("document_type", string(docType))
		if _, otherOK := o.cache.Get(ctx, sessionID, otherDocumentType(docType)); otherOK {
			err = fserrors.ErrDocumentTypeMismatch.
				WithDetail("session_id", sessionID).
				WithDetail("requested", string(docType)).
				WithDetail("cached", string(otherDocumentType(docType)))
		}
		tracing.RecordError(span, err)
		return ChatResult{}, err
	}
	o.metrics.recordCacheHit(docType)

	cachedResult, ok := cached.Results[intent.AgentRouting.Primary]
	if !ok {
		err := fserrors.ErrCacheMissing.
			WithDetail("session_id", sessionID).
			WithDetail("document_type", string(docType)).
			WithDetail("agent_category", string(intent.AgentRouting.Primary))
		tracing.RecordError(span, err)
		return ChatResult{}, err
	}
	if cachedResult.Err != "" {
		err := fserrors.ErrCacheMissing.
			WithDetail("agent_category", string(intent.AgentRouting.Primary)).
			WithDetail("reason", cachedResult.Err)
		tracing.RecordError(span, err)
		return ChatResult{}, err
	}

	def, ok := o.agents.Get(intent.AgentRouting.Primary)
	if !ok {
		err := fserrors.ErrInvalidQuery.WithDetail("agent_category", string(intent.AgentRouting.Primary))
		tracing.RecordError(span, err)
		return ChatResult{}, err
	}

	in := agents.ExecuteInput{
		Query:          query,
		Mode:           model.ModeChat,
		UploadID:       uploadID,
		Now:            time.Now(),
		CachedAnalysis: cachedResult.Analysis,
	}

	if !intent.Filters.IsEmpty() {
		docs, err := o.filteredRetrieval(ctx, uploadID, joinSearchTerms(intent.SearchTerms, query), intent.Filters, docType)
		if err != nil {
			tracing.RecordError(span, err)
			return ChatResult{}, err
		}
		in.FilteredRetrieval = true
		in.Sources = documentsToSources(docs, o.chatRetrievalK)
		if docType == model.DocumentTransactions {
			in.Transactions = documentsToTransactions(docs)
		} else {
			in.Statement = documentsToStatement(docs)
		}
	}

	start := time.Now()
	result, err := o.executor.Execute(ctx, def, in)
	o.metrics.observeAgentDuration(def.Category, model.ModeChat, time.Since(start).Seconds())
	o.metrics.recordLLMCall(o.executor.ModelID, false)
	if err != nil {
		wrapped := wrapLLMErr(err)
		o.metrics.recordAgentError(def.Category, wrapped.Code)
		o.logger.Warn(ctx, "chat agent execution failed",
			logging.String("agent_category", string(def.Category)),
			logging.String("error", err.Error()))
		tracing.RecordError(span, wrapped)
		return ChatResult{}, wrapped
	}

	o.logger.Info(ctx, "chat query answered",
		logging.String("session_id", sessionID),
		logging.String("upload_id", uploadID),
		logging.String("agent_category", string(def.Category)),
		logging.Bool("filtered", in.FilteredRetrieval))

	return ChatResult{
		Result: redact(result),
		Metadata: ChatMetadata{
			AgentUsed:  def.Category,
			QueryType:  intent.QueryType,
			Confidence: intent.Confidence,
			Filtered:   in.FilteredRetrieval,
		},
	}, nil
}

// otherDocumentType returns the document type a session might hold
// cached insights under instead of the requested one.
func otherDocumentType(docType model.DocumentType) model.DocumentType {
	if docType == model.DocumentTransactions {
		return model.DocumentFinancial
	}
	return model.DocumentTransactions
}

func joinSearchTerms(terms []string, fallback string) string {
	if len(terms) == 0 {
		return fallback
	}
	out := terms[0]
	for _, t := range terms[1:] {
		out += " " + t
	}
	return out
}
