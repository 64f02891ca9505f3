// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package orchestrator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/privatefin/finsight/agents"
	"github.com/privatefin/finsight/llmclient"
	"github.com/privatefin/finsight/model"
	fserrors "github.com/privatefin/finsight/pkg/errors"
	"github.com/privatefin/finsight/router"
	"github.com/privatefin/finsight/semanticstore"
	"github.com/privatefin/finsight/sessioncache"
)

// harness bundles an Orchestrator with the collaborators a test needs
// direct access to: the store, to index fixtures into, and the cache,
// to seed or inspect entries the orchestrator itself would only ever
// touch through GenerateInsights/ProcessChatQuery.
type harness struct {
	orch  *Orchestrator
	store semanticstore.Store
	cache *sessioncache.Cache
}

func newHarness(provider llmclient.Provider) *harness {
	store := semanticstore.NewMemoryStore(semanticstore.NewHashEmbedder(64))
	cache := sessioncache.New(sessioncache.DefaultConfig())
	exec := agents.NewExecutor(provider, "test-model")
	r := router.New(router.Config{})

	orch := New(Config{
		Agents:   agents.NewRegistry(),
		Executor: exec,
		Router:   r,
		Store:    store,
		Cache:    cache,
	})

	return &harness{orch: orch, store: store, cache: cache}
}

func indexTransactions(t *testing.T, store semanticstore.Store, sessionID, uploadID string, txs []model.Transaction) {
	t.Helper()
	ix := semanticstore.NewIndexer(store)
	tag := model.WorkspaceTag{SessionID: sessionID, UploadID: uploadID, DocumentType: model.DocumentTransactions}
	if _, err := ix.IndexUpload(context.Background(), tag, txs, nil); err != nil {
		t.Fatalf("index upload: %v", err)
	}
}

func indexStatement(t *testing.T, store semanticstore.Store, sessionID, uploadID string, stmt model.FinancialStatement) {
	t.Helper()
	ix := semanticstore.NewIndexer(store)
	tag := model.WorkspaceTag{SessionID: sessionID, UploadID: uploadID, DocumentType: model.DocumentFinancial}
	if _, err := ix.IndexUpload(context.Background(), tag, nil, &stmt); err != nil {
		t.Fatalf("index upload: %v", err)
	}
}

// gosiTransactions reproduces the fixture used throughout the agents
// package: two GOSI debits of 19000 each, one rent debit of 85000, one
// client credit.
func gosiTransactions() []model.Transaction {
	gov := "government_compliance"
	return []model.Transaction{
		{Date: mustDate("2024-01-10"), Description: "GOSI Monthly", Amount: 19000, Direction: model.Debit, Category: &gov},
		{Date: mustDate("2024-02-10"), Description: "GOSI Monthly", Amount: 19000, Direction: model.Debit, Category: &gov},
		{Date: mustDate("2024-02-15"), Description: "Office Rent", Amount: 85000, Direction: model.Debit},
		{Date: mustDate("2024-02-01"), Description: "Client INV-7", Amount: 520000, Direction: model.Credit},
	}
}

func mustDate(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// repeatedResponses returns n copies of text, enough to script every
// thinking/final call a full twelve-agent (or six-agent) fan-out needs
// without the mock provider running dry mid-run.
func repeatedResponses(n int, text string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = text
	}
	return out
}

// substrFailingProvider fails any Complete call whose system prompt
// contains substr, delegating every other call to ok. It lets a test
// target exactly one agent's prompt (each agent's thinking prompt
// names its own domain vocabulary) without needing call-count
// bookkeeping that would race against the fan-out's goroutines.
type substrFailingProvider struct {
	substr string
	ok     llmclient.Provider
}

func (f *substrFailingProvider) Name() string { return "substr-failing" }

func (f *substrFailingProvider) Complete(ctx context.Context, req *llmclient.CompletionRequest) (*llmclient.CompletionResponse, error) {
	for _, m := range req.Messages {
		if m.Role == llmclient.RoleSystem && strings.Contains(m.Content, f.substr) {
			return nil, fserrors.ErrLLMConnection.WithMessage("simulated failure")
		}
	}
	return f.ok.Complete(ctx, req)
}

func (f *substrFailingProvider) CountTokens(text string) int {
	return f.ok.CountTokens(text)
}
