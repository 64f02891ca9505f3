// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package orchestrator

import (
	"context"
	"sort"

	"github.com/privatefin/finsight/model"
	"github.com/privatefin/finsight/semanticstore"
)

// fetchAllTransactions performs the single store read GenerateInsights
// uses for every transaction agent: retrieves all transactions for
// the upload once.
func (o *Orchestrator) fetchAllTransactions(ctx context.Context, uploadID string) ([]model.Transaction, error) {
	docs, err := o.store.Search(ctx, semanticstore.SearchQuery{
		UploadID: uploadID,
		DocTypes: []string{"transaction"},
		N:        o.retrievalLimit,
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return documentsToTransactions(docs), nil
}

// fetchStatement performs the single store read GenerateInsights uses
// for every financial agent, reassembling the FinancialStatement blob
// from its indexed line-item/ratio documents.
func (o *Orchestrator) fetchStatement(ctx context.Context, uploadID string) (*model.FinancialStatement, error) {
	docs, err := o.store.Search(ctx, semanticstore.SearchQuery{
		UploadID: uploadID,
		DocTypes: []string{"line-item", "ratio"},
		N:        o.retrievalLimit,
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return documentsToStatement(docs), nil
}

// filteredRetrieval performs the filtered retrieval ProcessChatQuery
// uses when the query's intent carries non-empty filters. Per §4.1
// failure semantics, a retrieval failure is retried exactly once with
// the filters cleared (unfiltered fallback) before surfacing
// StoreUnavailable.
func (o *Orchestrator) filteredRetrieval(ctx context.Context, uploadID, searchText string, filters model.Filters, docType model.DocumentType) ([]semanticstore.Document, error) {
	query := buildSearchQuery(uploadID, searchText, filters, docType, o.chatRetrievalK)

	docs, err := o.store.Search(ctx, query)
	if err == nil {
		return docs, nil
	}

	unfiltered := semanticstore.SearchQuery{
		UploadID: uploadID,
		Text:     searchText,
		DocTypes: query.DocTypes,
		N:        o.chatRetrievalK,
	}
	docs, retryErr := o.store.Search(ctx, unfiltered)
	if retryErr != nil {
		return nil, wrapStoreErr(retryErr)
	}
	return docs, nil
}

// buildSearchQuery translates a QueryIntent's extracted Filters into a
// semanticstore.SearchQuery scoped to uploadID.
func buildSearchQuery(uploadID, searchText string, filters model.Filters, docType model.DocumentType, n int) semanticstore.SearchQuery {
	q := semanticstore.SearchQuery{
		UploadID: uploadID,
		Text:     searchText,
		Type:     filters.Type,
		N:        n,
	}
	if docType == model.DocumentTransactions {
		q.DocTypes = []string{"transaction"}
	} else {
		q.DocTypes = []string{"line-item", "ratio"}
	}
	if filters.Amounts != nil {
		q.Amount = &semanticstore.AmountFilter{Min: filters.Amounts.Min, Max: filters.Amounts.Max}
	}
	if filters.Dates != nil {
		q.Date = &semanticstore.DateFilter{Start: filters.Dates.Start, End: filters.Dates.End}
	}
	return q
}

// documentsToTransactions reconstructs model.Transaction values from
// transaction documents' indexed metadata. Balance and reference are
// not retained by the semantic store's metadata (they carry no
// retrieval or reduction value) and are left zero; every field the
// agents' reductions and prompts depend on - date, description,
// signed amount, direction, category - round-trips exactly.
func documentsToTransactions(docs []semanticstore.Document) []model.Transaction {
	out := make([]model.Transaction, 0, len(docs))
	for _, doc := range docs {
		tx, ok := documentToTransaction(doc)
		if ok {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func documentToTransaction(doc semanticstore.Document) (model.Transaction, bool) {
	dateStr, _ := doc.Metadata["date"].(string)
	description, _ := doc.Metadata["description"].(string)
	amount, _ := doc.Metadata["amount"].(float64)
	direction, _ := doc.Metadata["type"].(string)
	category, _ := doc.Metadata["category"].(string)

	if dateStr == "" || direction == "" {
		return model.Transaction{}, false
	}
	date, err := model.ParseDate(dateStr)
	if err != nil {
		return model.Transaction{}, false
	}

	signed := amount
	if model.Direction(direction) == model.Debit && signed > 0 {
		signed = -signed
	}

	tx := model.Transaction{
		Date:        date,
		Description: description,
		Amount:      signed,
		Direction:   model.Direction(direction),
	}
	if category != "" {
		tx.Category = &category
	}
	return tx, true
}

// documentsToStatement reassembles a FinancialStatement from the
// line-item/ratio documents a single upload indexed, grouping by
// statement_kind back into the four sections. Company/period identity
// is read off the first document encountered - every document for one
// upload shares the same company and period pair by construction
// (Indexer.IndexUpload always indexes one statement per upload).
func documentsToStatement(docs []semanticstore.Document) *model.FinancialStatement {
	if len(docs) == 0 {
		return &model.FinancialStatement{}
	}

	stmt := &model.FinancialStatement{}
	for i, doc := range docs {
		li, kind, ok := documentToLineItem(doc)
		if !ok {
			continue
		}
		if i == 0 || stmt.Company == "" {
			if c, _ := doc.Metadata["company"].(string); c != "" {
				stmt.Company = c
			}
			if p, _ := doc.Metadata["current_period"].(string); p != "" {
				stmt.CurrentPeriod = p
			}
			if p, _ := doc.Metadata["prior_period"].(string); p != "" {
				stmt.PriorPeriod = p
			}
		}
		switch kind {
		case model.BalanceSheet:
			stmt.BalanceSheet = append(stmt.BalanceSheet, li)
		case model.IncomeStatement:
			stmt.IncomeStatement = append(stmt.IncomeStatement, li)
		case model.CashFlow:
			stmt.CashFlow = append(stmt.CashFlow, li)
		case model.Ratio:
			stmt.Ratios = append(stmt.Ratios, li)
		}
	}
	return stmt
}

func documentToLineItem(doc semanticstore.Document) (model.FinancialLineItem, model.StatementKind, bool) {
	kindStr, _ := doc.Metadata["statement_kind"].(string)
	name, _ := doc.Metadata["name"].(string)
	if kindStr == "" || name == "" {
		return model.FinancialLineItem{}, "", false
	}
	section, _ := doc.Metadata["section"].(string)
	current, _ := doc.Metadata["current"].(float64)
	prior, _ := doc.Metadata["prior"].(float64)
	pctChange, _ := doc.Metadata["percent_change"].(float64)

	kind := model.StatementKind(kindStr)
	return model.FinancialLineItem{
		Name:          name,
		Kind:          kind,
		Section:       section,
		Current:       current,
		Prior:         prior,
		PercentChange: pctChange,
	}, kind, true
}

// documentsToSources converts retrieved documents into the exemplar
// Source records an AgentResult cites, capped at n.
func documentsToSources(docs []semanticstore.Document, n int) []model.Source {
	if len(docs) > n {
		docs = docs[:n]
	}
	out := make([]model.Source, 0, len(docs))
	for _, doc := range docs {
		kind, _ := doc.Metadata["doc_type"].(string)
		out = append(out, model.Source{Kind: kind, Text: doc.Text, DocHash: doc.ID})
	}
	return out
}
