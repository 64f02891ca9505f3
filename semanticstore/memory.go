// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package semanticstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/privatefin/finsight/model"
	"github.com/privatefin/finsight/pkg/errors"
)

// MemoryStore is an in-process Store: documents are kept in a
// namespace-per-session map, extended here with brute-force cosine
// similarity over an in-memory embedding cache. It needs no external
// service and is the
// default for a single local install.
type MemoryStore struct {
	mu        sync.RWMutex
	bySession map[string]map[string]Document // session_id -> doc id -> Document
	embedder  Embedder
}

// NewMemoryStore constructs a MemoryStore using embedder to vectorize
// every indexed document.
func NewMemoryStore(embedder Embedder) *MemoryStore {
	return &MemoryStore{
		bySession: make(map[string]map[string]Document),
		embedder:  embedder,
	}
}

func (s *MemoryStore) put(tag model.WorkspaceTag, doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.bySession[tag.SessionID]
	if !ok {
		ns = make(map[string]Document)
		s.bySession[tag.SessionID] = ns
	}
	ns[doc.ID] = doc
}

// IndexTransactions embeds and stores one document per transaction.
func (s *MemoryStore) IndexTransactions(ctx context.Context, tag model.WorkspaceTag, txs []model.Transaction) error {
	if err := tag.Validate(); err != nil {
		return err
	}

	for _, tx := range txs {
		text := tx.CanonicalText()
		vec, err := s.embedder.Embed(ctx, text)
		if err != nil {
			return errors.ErrStoreUnavailable.Wrap(err)
		}

		category := ""
		if tx.Category != nil {
			category = *tx.Category
		}

		doc := Document{
			ID:     tx.Key(),
			Tag:    tag,
			Text:   text,
			Vector: vec,
			Metadata: map[string]any{
				"session_id":  tag.SessionID,
				"upload_id":   tag.UploadID,
				"doc_type":    "transaction",
				"date":        tx.Date.Format("2006-01-02"),
				"amount":      model.SignedAmount(tx),
				"type":        string(tx.Direction),
				"category":    category,
				"description": tx.Description,
			},
		}
		s.put(tag, doc)
	}
	return nil
}

// IndexFinancialData embeds and stores one document per line item.
func (s *MemoryStore) IndexFinancialData(ctx context.Context, tag model.WorkspaceTag, statement model.FinancialStatement) error {
	if err := tag.Validate(); err != nil {
		return err
	}

	for _, li := range statement.Flatten() {
		text := li.CanonicalText(statement.Company, statement.CurrentPeriod)
		vec, err := s.embedder.Embed(ctx, text)
		if err != nil {
			return errors.ErrStoreUnavailable.Wrap(err)
		}

		doc := Document{
			ID:     uuid.New().String(),
			Tag:    tag,
			Text:   text,
			Vector: vec,
			Metadata: map[string]any{
				"session_id":     tag.SessionID,
				"upload_id":      tag.UploadID,
				"doc_type":       "line-item",
				"statement_kind": string(li.Kind),
				"section":        li.Section,
				"name":           li.Name,
				"current":        li.Current,
				"prior":          li.Prior,
				"percent_change": li.PercentChange,
				"company":        statement.Company,
				"current_period": statement.CurrentPeriod,
				"prior_period":   statement.PriorPeriod,
			},
		}
		if li.Kind == model.Ratio {
			doc.Metadata["doc_type"] = "ratio"
		}
		s.put(tag, doc)
	}
	return nil
}

// Search ranks documents in query.UploadID's scope by cosine
// similarity to query.Text after applying query's structured filters.
func (s *MemoryStore) Search(ctx context.Context, query SearchQuery) ([]Document, error) {
	if query.UploadID == "" {
		return nil, errors.ErrInvalidQuery.WithMessage("search requires upload_id")
	}
	n := query.N
	if n <= 0 {
		n = 10
	}

	queryVec, err := s.embedder.Embed(ctx, query.Text)
	if err != nil {
		return nil, errors.ErrStoreUnavailable.Wrap(err)
	}

	s.mu.RLock()
	candidates := make([]Document, 0)
	for _, ns := range s.bySession {
		for _, doc := range ns {
			if doc.Tag.UploadID != query.UploadID {
				continue
			}
			if !matchesFilters(doc, query) {
				continue
			}
			candidates = append(candidates, doc)
		}
	}
	s.mu.RUnlock()

	type scored struct {
		doc   Document
		score float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, doc := range candidates {
		ranked = append(ranked, scored{doc: doc, score: CosineSimilarity(queryVec, doc.Vector)})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	out := make([]Document, len(ranked))
	for i, r := range ranked {
		out[i] = r.doc
	}
	return out, nil
}

func matchesFilters(doc Document, query SearchQuery) bool {
	if query.Type != "" {
		if t, _ := doc.Metadata["type"].(string); t != query.Type {
			return false
		}
	}
	if query.Amount != nil {
		amt, ok := doc.Metadata["amount"].(float64)
		if !ok {
			return false
		}
		// Filters are expressed in magnitude ("over 15000"), while a
		// stored transaction amount carries its sign (debits negative,
		// credits positive) - compare the absolute value so a debit like
		// a -19000 GOSI payment matches "payments over 15000".
		abs := math.Abs(amt)
		if abs < query.Amount.Min || abs > query.Amount.Max {
			return false
		}
	}
	if query.Date != nil {
		date, ok := doc.Metadata["date"].(string)
		if !ok || date < query.Date.Start || date >= query.Date.End {
			return false
		}
	}
	if len(query.DocTypes) > 0 {
		dt, _ := doc.Metadata["doc_type"].(string)
		found := false
		for _, want := range query.DocTypes {
			if dt == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Clear removes every document tagged with sessionID by reading then
// filtering in memory, never relying on a native filtered delete -
// here that just means dropping the session's namespace. An empty
// sessionID clears the whole store.
func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionID == "" {
		s.bySession = make(map[string]map[string]Document)
		return nil
	}
	delete(s.bySession, sessionID)
	return nil
}
