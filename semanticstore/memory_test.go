// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package semanticstore

import (
	"context"
	"testing"
	"time"

	"github.com/privatefin/finsight/model"
)

func testTag(session, upload string) model.WorkspaceTag {
	return model.WorkspaceTag{SessionID: session, UploadID: upload, DocumentType: model.DocumentTransactions}
}

func TestMemoryStoreIndexAndSearchTransactions(t *testing.T) {
	s := NewMemoryStore(NewHashEmbedder(64))
	ctx := context.Background()
	tag := testTag("s1", "u1")

	txs := []model.Transaction{
		{Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), Description: "STC mobile bill", Amount: 120, Direction: model.Debit},
		{Date: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), Description: "salary deposit", Amount: 9000, Direction: model.Credit},
	}
	if err := s.IndexTransactions(ctx, tag, txs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	docs, err := s.Search(ctx, SearchQuery{UploadID: "u1", Text: "mobile bill", N: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
}

func TestMemoryStoreIndexTransactionsRejectsInvalidTag(t *testing.T) {
	s := NewMemoryStore(NewHashEmbedder(32))
	err := s.IndexTransactions(context.Background(), model.WorkspaceTag{}, []model.Transaction{})
	if err == nil {
		t.Fatal("expected an error for an empty workspace tag")
	}
}

func TestMemoryStoreSearchRequiresUploadID(t *testing.T) {
	s := NewMemoryStore(NewHashEmbedder(32))
	_, err := s.Search(context.Background(), SearchQuery{Text: "anything"})
	if err == nil {
		t.Fatal("expected an error when UploadID is omitted")
	}
}

func TestMemoryStoreSearchScopesToUploadID(t *testing.T) {
	s := NewMemoryStore(NewHashEmbedder(64))
	ctx := context.Background()

	txs := []model.Transaction{
		{Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Description: "grocery purchase", Amount: 50, Direction: model.Debit},
	}
	if err := s.IndexTransactions(ctx, testTag("s1", "u1"), txs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.IndexTransactions(ctx, testTag("s1", "u2"), txs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	docs, err := s.Search(ctx, SearchQuery{UploadID: "u1", Text: "grocery", N: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, d := range docs {
		if d.Tag.UploadID != "u1" {
			t.Fatalf("search for u1 returned a document tagged %q", d.Tag.UploadID)
		}
	}
}

func TestMemoryStoreSearchFiltersByType(t *testing.T) {
	s := NewMemoryStore(NewHashEmbedder(64))
	ctx := context.Background()
	tag := testTag("s1", "u1")

	txs := []model.Transaction{
		{Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Description: "atm withdrawal", Amount: 200, Direction: model.Debit},
		{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Description: "refund credit", Amount: 200, Direction: model.Credit},
	}
	if err := s.IndexTransactions(ctx, tag, txs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	docs, err := s.Search(ctx, SearchQuery{UploadID: "u1", Text: "transaction", Type: "credit", N: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1 matching type=credit", len(docs))
	}
	if docs[0].Metadata["type"] != "credit" {
		t.Fatalf("got type %v, want credit", docs[0].Metadata["type"])
	}
}

func TestMemoryStoreSearchFiltersByAmountMagnitudeNotSign(t *testing.T) {
	s := NewMemoryStore(NewHashEmbedder(64))
	ctx := context.Background()
	tag := testTag("s1", "u1")

	gov := "government_compliance"
	txs := []model.Transaction{
		{Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Description: "GOSI Monthly", Amount: 19000, Direction: model.Debit, Category: &gov},
		{Date: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), Description: "GOSI Monthly", Amount: 19000, Direction: model.Debit, Category: &gov},
		{Date: time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), Description: "Parking fee", Amount: 20, Direction: model.Debit},
	}
	if err := s.IndexTransactions(ctx, tag, txs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// GOSI debits are stored as -19000 (signed by direction); a filter
	// for "over 15000" must match on magnitude, not on the signed value,
	// or every debit above the threshold would be silently excluded.
	docs, err := s.Search(ctx, SearchQuery{UploadID: "u1", Text: "GOSI", Amount: &AmountFilter{Min: 15000, Max: 1e15}, N: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents matching amount > 15000, want 2 GOSI debits", len(docs))
	}
	for _, d := range docs {
		amt, _ := d.Metadata["amount"].(float64)
		if amt != -19000 {
			t.Fatalf("got amount %v, want -19000 (signed debit)", amt)
		}
	}
}

func TestMemoryStoreIndexFinancialDataFlattensSections(t *testing.T) {
	s := NewMemoryStore(NewHashEmbedder(32))
	ctx := context.Background()
	tag := model.WorkspaceTag{SessionID: "s1", UploadID: "u1", DocumentType: model.DocumentFinancial}

	stmt := model.FinancialStatement{
		Company:       "Acme Holdings",
		CurrentPeriod: "FY2025",
		PriorPeriod:   "FY2024",
		BalanceSheet:  []model.FinancialLineItem{{Name: "Total Assets", Kind: model.BalanceSheet, Section: "assets", Current: 100, Prior: 90}},
		Ratios:        []model.FinancialLineItem{{Name: "Current Ratio", Kind: model.Ratio, Section: "liquidity", Current: 1.5, Prior: 1.4}},
	}
	if err := s.IndexFinancialData(ctx, tag, stmt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	docs, err := s.Search(ctx, SearchQuery{UploadID: "u1", Text: "current ratio", DocTypes: []string{"ratio"}, N: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1 matching doc_type=ratio", len(docs))
	}
}

func TestMemoryStoreClearRemovesSessionOnly(t *testing.T) {
	s := NewMemoryStore(NewHashEmbedder(32))
	ctx := context.Background()

	txs := []model.Transaction{
		{Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Description: "rent payment", Amount: 3000, Direction: model.Debit},
	}
	if err := s.IndexTransactions(ctx, testTag("s1", "u1"), txs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.IndexTransactions(ctx, testTag("s2", "u2"), txs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Clear(ctx, "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	docs1, err := s.Search(ctx, SearchQuery{UploadID: "u1", Text: "rent", N: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs1) != 0 {
		t.Fatalf("expected s1's documents to be cleared, got %d", len(docs1))
	}

	docs2, err := s.Search(ctx, SearchQuery{UploadID: "u2", Text: "rent", N: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs2) != 1 {
		t.Fatalf("expected s2's documents to survive, got %d", len(docs2))
	}
}

func TestMemoryStoreClearWithoutSessionIDClearsEverything(t *testing.T) {
	s := NewMemoryStore(NewHashEmbedder(32))
	ctx := context.Background()

	txs := []model.Transaction{
		{Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), Description: "utility bill", Amount: 80, Direction: model.Debit},
	}
	if err := s.IndexTransactions(ctx, testTag("s1", "u1"), txs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Clear(ctx, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	docs, err := s.Search(ctx, SearchQuery{UploadID: "u1", Text: "utility", N: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected all documents to be cleared, got %d", len(docs))
	}
}
