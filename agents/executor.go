// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/privatefin/finsight/llmclient"
	"github.com/privatefin/finsight/model"
	"github.com/privatefin/finsight/pkg/errors"
)

const (
	defaultInsightsMaxTokens = 1500
	defaultChatMaxTokens     = 400
)

// ExecuteInput is the per-call context the uniform agent contract
// names pre-retrieved data and cached analysis.
type ExecuteInput struct {
	Query    string
	Mode     model.Mode
	UploadID string
	Now      time.Time

	// Transactions is the pre-retrieved slice for transaction agents;
	// in chat mode with a non-empty intent filter, this is the
	// filtered subset rather than the full upload.
	Transactions []model.Transaction

	// Statement is the pre-retrieved blob for financial agents.
	Statement *model.FinancialStatement

	// FilteredRetrieval is true when Transactions/Statement above was
	// produced by a filtered retrieval this call (chat mode only);
	// false means the agent must fall back to CachedAnalysis as its
	// authoritative context.
	FilteredRetrieval bool

	// CachedAnalysis is the prior GenerateInsights analysis block for
	// this category (chat mode only; nil in insights mode).
	CachedAnalysis map[string]any

	// Sources are exemplar records surfaced by the retrieval that
	// produced Transactions/Statement, copied onto the result.
	Sources []model.Source
}

// Executor runs the shared two-call (insights) / one-call (chat)
// sequence against any AgentDefinition.
type Executor struct {
	Provider llmclient.Provider
	ModelID  string
}

// NewExecutor builds an Executor bound to a model runtime.
func NewExecutor(provider llmclient.Provider, modelID string) *Executor {
	return &Executor{Provider: provider, ModelID: modelID}
}

// Execute runs def against in, implementing the uniform
// Execute(query, mode, upload_id, ctx) -> AgentResult contract.
func (e *Executor) Execute(ctx context.Context, def AgentDefinition, in ExecuteInput) (model.AgentResult, error) {
	if in.Mode == model.ModeChat {
		return e.executeChat(ctx, def, in)
	}
	return e.executeInsights(ctx, def, in)
}

func (e *Executor) executeInsights(ctx context.Context, def AgentDefinition, in ExecuteInput) (model.AgentResult, error) {
	reduction := def.Reduce(ReduceInput{Transactions: in.Transactions, Statement: in.Statement, Now: in.Now, Query: in.Query})

	if reduction.NoData {
		return model.AgentResult{
			Category:    def.Category,
			FinalAnswer: "No data available for this period.",
			Analysis:    reduction.Analysis,
			Mode:        model.ModeInsights,
			Statistics:  reduction.Statistics,
			Sources:     reduction.Sources,
		}, nil
	}

	maxTokens := def.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultInsightsMaxTokens
	}

	prompts := def.BuildPrompts(def.Category)

	thinkResp, err := e.Provider.Complete(ctx, &llmclient.CompletionRequest{
		Model:     e.ModelID,
		MaxTokens: maxTokens,
		Think:     true,
		Messages: []llmclient.Message{
			{Role: llmclient.RoleSystem, Content: prompts.Thinking},
			{Role: llmclient.RoleUser, Content: in.Query},
		},
	})
	if err != nil {
		return model.AgentResult{}, errors.ErrAgentFailure.Wrap(err).WithDetail("category", string(def.Category)).WithDetail("stage", "thinking")
	}

	summary, err := json.Marshal(reduction.Analysis)
	if err != nil {
		summary = []byte("{}")
	}

	finalResp, err := e.Provider.Complete(ctx, &llmclient.CompletionRequest{
		Model:     e.ModelID,
		MaxTokens: maxTokens,
		Think:     true,
		Messages: []llmclient.Message{
			{Role: llmclient.RoleSystem, Content: prompts.Final},
			{Role: llmclient.RoleUser, Content: fmt.Sprintf("Reasoning so far:\n%s\n\nComputed summary:\n%s\n\nQuestion: %s", thinkResp.Content, string(summary), in.Query)},
		},
	})
	if err != nil {
		return model.AgentResult{}, errors.ErrAgentFailure.Wrap(err).WithDetail("category", string(def.Category)).WithDetail("stage", "final")
	}

	return model.AgentResult{
		Category:    def.Category,
		FinalAnswer: finalResp.Content,
		Analysis:    reduction.Analysis,
		Thinking:    thinkResp.Content,
		Mode:        model.ModeInsights,
		Statistics:  reduction.Statistics,
		Sources:     reduction.Sources,
	}, nil
}

func (e *Executor) executeChat(ctx context.Context, def AgentDefinition, in ExecuteInput) (model.AgentResult, error) {
	maxTokens := def.ChatMaxTokens
	if maxTokens == 0 {
		maxTokens = defaultChatMaxTokens
	}

	prompts := def.BuildPrompts(def.Category)

	var userMsg strings.Builder
	userMsg.WriteString("Question: ")
	userMsg.WriteString(in.Query)
	userMsg.WriteString("\n\n")

	switch {
	case in.FilteredRetrieval && len(in.Transactions) > 0:
		userMsg.WriteString("Answer strictly from this filtered subset of transactions:\n")
		for _, t := range in.Transactions {
			userMsg.WriteString(t.CanonicalText())
			userMsg.WriteString("\n")
		}
		writeBackgroundAnalysis(&userMsg, in.CachedAnalysis)
	case in.FilteredRetrieval && in.Statement != nil && len(in.Statement.Flatten()) > 0:
		userMsg.WriteString("Answer strictly from this filtered subset of statement line items:\n")
		for _, li := range in.Statement.Flatten() {
			userMsg.WriteString(li.CanonicalText(in.Statement.Company, in.Statement.CurrentPeriod))
			userMsg.WriteString("\n")
		}
		writeBackgroundAnalysis(&userMsg, in.CachedAnalysis)
	default:
		cached, _ := json.Marshal(in.CachedAnalysis)
		userMsg.WriteString("Cached analysis (authoritative context):\n")
		userMsg.Write(cached)
	}

	resp, err := e.Provider.Complete(ctx, &llmclient.CompletionRequest{
		Model:     e.ModelID,
		MaxTokens: maxTokens,
		Think:     false,
		Messages: []llmclient.Message{
			{Role: llmclient.RoleSystem, Content: prompts.Chat},
			{Role: llmclient.RoleUser, Content: userMsg.String()},
		},
	})
	if err != nil {
		return model.AgentResult{}, errors.ErrAgentFailure.Wrap(err).WithDetail("category", string(def.Category)).WithDetail("stage", "chat")
	}

	return model.AgentResult{
		Category:    def.Category,
		FinalAnswer: resp.Content,
		Analysis:    in.CachedAnalysis,
		Mode:        model.ModeChat,
		UsedCache:   true,
		Sources:     in.Sources,
	}, nil
}

// writeBackgroundAnalysis appends the cached analysis as explicitly
// non-authoritative context after a filtered subset.
func writeBackgroundAnalysis(b *strings.Builder, analysis map[string]any) {
	if len(analysis) == 0 {
		return
	}
	cached, _ := json.Marshal(analysis)
	b.WriteString("\nBackground analysis (context only, not authoritative for this answer):\n")
	b.Write(cached)
}
