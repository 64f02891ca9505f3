// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package router

import (
	"context"
	"testing"

	"github.com/privatefin/finsight/llmclient"
	"github.com/privatefin/finsight/model"
)

func TestUnderstand_NoClassifier_KeywordFallback(t *testing.T) {
	r := New(Config{})

	intent, err := r.Understand(context.Background(), "show me GOSI payments over 15000", model.DocumentTransactions, "upload-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.AgentRouting.Primary != model.CategoryExpense {
		t.Errorf("expected expense, got %s (query_type=%s)", intent.AgentRouting.Primary, intent.QueryType)
	}
	if intent.Confidence != FallbackConfidence {
		t.Errorf("expected fallback confidence %v, got %v", FallbackConfidence, intent.Confidence)
	}
	if intent.Filters.Amounts == nil || intent.Filters.Amounts.Min != 15000 {
		t.Errorf("expected amount filter min 15000, got %+v", intent.Filters.Amounts)
	}
}

func TestUnderstand_KeywordFallback_PureLookupGoesToTransactionSearch(t *testing.T) {
	r := New(Config{})

	intent, err := r.Understand(context.Background(), "find transactions at Jarir", model.DocumentTransactions, "upload-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.AgentRouting.Primary != model.CategoryTransactionSearch {
		t.Errorf("expected transaction_search, got %s", intent.AgentRouting.Primary)
	}
}

func TestUnderstand_KeywordFallback_Financial(t *testing.T) {
	r := New(Config{})

	intent, err := r.Understand(context.Background(), "is the company overleveraged this quarter", model.DocumentFinancial, "upload-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.AgentRouting.Primary != model.CategoryRisk {
		t.Errorf("expected risk, got %s", intent.AgentRouting.Primary)
	}
}

func TestUnderstand_KeywordFallback_NoMatchUsesDefaultAgent(t *testing.T) {
	r := New(Config{})

	intent, err := r.Understand(context.Background(), "hello there", model.DocumentTransactions, "upload-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.AgentRouting.Primary != model.CategoryExpense {
		t.Errorf("expected default expense agent, got %s", intent.AgentRouting.Primary)
	}
	if intent.QueryType != model.QueryGeneralOverview {
		t.Errorf("expected general_overview query type, got %s", intent.QueryType)
	}
}

func TestRouteAgent_TrendSplitsByDocumentType(t *testing.T) {
	if got := RouteAgent(model.QueryTrendAnalysis, model.DocumentTransactions); got != model.CategoryTrend {
		t.Errorf("transactions trend_analysis routed to %s, want trend", got)
	}
	if got := RouteAgent(model.QueryTrendAnalysis, model.DocumentFinancial); got != model.CategoryFinancialTrend {
		t.Errorf("financial trend_analysis routed to %s, want financial_trend", got)
	}
}

func TestRouteAgent_StatementWideTypesUseDefault(t *testing.T) {
	for _, qt := range []model.QueryType{model.QueryMultiStatement, model.QuerySpecificLineItem, model.QueryGeneralOverview} {
		if got := RouteAgent(qt, model.DocumentFinancial); got != model.CategoryRatio {
			t.Errorf("%s routed to %s, want ratio default", qt, got)
		}
	}
}

func TestUnderstand_MissingUploadID_Errors(t *testing.T) {
	r := New(Config{})

	if _, err := r.Understand(context.Background(), "show me expenses", model.DocumentTransactions, ""); err == nil {
		t.Fatalf("expected error for missing upload_id")
	}
}

func TestUnderstand_ClassifierSuccess_UsedWhenConfident(t *testing.T) {
	mock := llmclient.NewMockProvider("classifier", []string{
		`{"query_type": "budget", "agent": "budget", "confidence": 0.95}`,
	})
	r := New(Config{Classifier: mock, ModelID: "router-model"})

	intent, err := r.Understand(context.Background(), "how is my budget looking", model.DocumentTransactions, "upload-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.QueryType != model.QueryBudget {
		t.Errorf("expected budget, got %s", intent.QueryType)
	}
	if intent.AgentRouting.Primary != model.CategoryBudget {
		t.Errorf("expected budget agent, got %s", intent.AgentRouting.Primary)
	}
	if intent.Confidence != 0.95 {
		t.Errorf("expected confidence 0.95, got %v", intent.Confidence)
	}
}

func TestUnderstand_ClassifierLowConfidence_FallsBackToKeywords(t *testing.T) {
	mock := llmclient.NewMockProvider("classifier", []string{
		`{"query_type": "transaction_search", "agent": "transaction_search", "confidence": 0.2}`,
	})
	r := New(Config{Classifier: mock, ModelID: "router-model"})

	intent, err := r.Understand(context.Background(), "show me GOSI payments over 15000", model.DocumentTransactions, "upload-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.AgentRouting.Primary != model.CategoryExpense {
		t.Errorf("expected fallback to expense, got %s", intent.AgentRouting.Primary)
	}
	if intent.Confidence != FallbackConfidence {
		t.Errorf("expected fallback confidence, got %v", intent.Confidence)
	}
}

func TestUnderstand_ClassifierUnparsable_FallsBackToKeywords(t *testing.T) {
	mock := llmclient.NewMockProvider("classifier", []string{
		"I'm not sure how to classify that.",
	})
	r := New(Config{Classifier: mock, ModelID: "router-model"})

	intent, err := r.Understand(context.Background(), "show me GOSI payments over 15000", model.DocumentTransactions, "upload-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.Confidence != FallbackConfidence {
		t.Errorf("expected fallback confidence, got %v", intent.Confidence)
	}
	if intent.AgentRouting.Primary != model.CategoryExpense {
		t.Errorf("expected expense, got %s", intent.AgentRouting.Primary)
	}
}

func TestUnderstand_ClassifierUnknownQueryType_FallsBackToKeywords(t *testing.T) {
	mock := llmclient.NewMockProvider("classifier", []string{
		`{"query_type": "not_a_real_type", "agent": "expense", "confidence": 0.99}`,
	})
	r := New(Config{Classifier: mock, ModelID: "router-model"})

	intent, err := r.Understand(context.Background(), "show me GOSI payments over 15000", model.DocumentTransactions, "upload-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.Confidence != FallbackConfidence {
		t.Errorf("expected fallback confidence, got %v", intent.Confidence)
	}
}
