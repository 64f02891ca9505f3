// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package semanticstore

import (
	"context"

	"github.com/privatefin/finsight/model"
)

// Document is a single embedded record in the store: a canonical text
// rendering, its vector embedding, and the workspace/metadata needed
// to filter it back out at search time.
type Document struct {
	ID       string
	Tag      model.WorkspaceTag
	Text     string
	Vector   []float32
	Metadata map[string]any
}

// AmountFilter bounds a Document's indexed amount metadata by absolute
// magnitude; a debit's amount is stored signed, so matching compares
// its magnitude rather than its signed value.
type AmountFilter struct {
	Min float64
	Max float64
}

// DateFilter bounds a Document's indexed date metadata, as RFC3339
// day strings ("2006-01-02"), half-open [Start, End).
type DateFilter struct {
	Start string
	End   string
}

// SearchQuery is a single retrieval request. UploadID is mandatory -
// Store implementations reject a query that omits it rather than
// silently searching across every upload in the session.
type SearchQuery struct {
	UploadID string
	Text     string
	Type     string // "credit" | "debit", optional
	Amount   *AmountFilter
	Date     *DateFilter
	DocTypes []string // e.g. "line-item", "ratio"
	N        int
}

// Store is the Semantic Store contract: index transactions and
// financial line items, and retrieve them back by embedding
// similarity plus structured filters.
type Store interface {
	// IndexTransactions embeds and stores one document per transaction.
	IndexTransactions(ctx context.Context, tag model.WorkspaceTag, txs []model.Transaction) error

	// IndexFinancialData embeds and stores one document per line item
	// (including ratios) in statement.
	IndexFinancialData(ctx context.Context, tag model.WorkspaceTag, statement model.FinancialStatement) error

	// Search returns up to query.N documents matching query's filters,
	// ranked by embedding similarity to query.Text.
	Search(ctx context.Context, query SearchQuery) ([]Document, error)

	// Clear removes every document tagged with sessionID. An empty
	// sessionID removes every document in the store.
	Clear(ctx context.Context, sessionID string) error
}

// Embedder turns text into a fixed-size vector. The default
// implementation is a deterministic local hash embedder with no
// network dependency, matching the constraint that no document ever
// leaves the host; a real sentence-transformer model can be substituted
// without changing any Store caller.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}
