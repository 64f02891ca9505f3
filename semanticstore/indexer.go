// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package semanticstore

import (
	"context"

	"github.com/privatefin/finsight/model"
	"github.com/privatefin/finsight/pkg/errors"
)

// Indexer bridges parsed upload data into a Store. It always clears
// any prior documents for the session before indexing a new upload,
// so a re-upload never leaves stale documents from an earlier
// upload_id searchable alongside the new one.
type Indexer struct {
	store Store
}

// NewIndexer wraps store with upload-time validation and clear-before-write.
func NewIndexer(store Store) *Indexer {
	return &Indexer{store: store}
}

// Report summarizes a single IndexUpload call: how many records of
// each kind were indexed, and any per-record failures that did not
// abort the batch.
type Report struct {
	TransactionsIndexed int
	LineItemsIndexed    int
	Failures            []error
}

// IndexUpload clears tag's session and indexes txs and statement
// (either may be empty/zero) under tag. A malformed transaction or
// line item is recorded in the Report's Failures rather than aborting
// the rest of the batch, so one bad row in a large statement does not
// block indexing everything else.
func (ix *Indexer) IndexUpload(ctx context.Context, tag model.WorkspaceTag, txs []model.Transaction, statement *model.FinancialStatement) (Report, error) {
	if err := tag.Validate(); err != nil {
		return Report{}, err
	}

	if err := ix.store.Clear(ctx, tag.SessionID); err != nil {
		return Report{}, errors.ErrStoreUnavailable.Wrap(err)
	}

	report := Report{}

	if len(txs) > 0 {
		valid := make([]model.Transaction, 0, len(txs))
		for _, tx := range txs {
			if err := tx.Validate(); err != nil {
				report.Failures = append(report.Failures, err)
				continue
			}
			valid = append(valid, tx)
		}
		if err := ix.store.IndexTransactions(ctx, tag, valid); err != nil {
			return report, errors.ErrStoreUnavailable.Wrap(err)
		}
		report.TransactionsIndexed = len(valid)
	}

	if statement != nil {
		if err := statement.Validate(); err != nil {
			report.Failures = append(report.Failures, err)
		} else {
			if err := ix.store.IndexFinancialData(ctx, tag, *statement); err != nil {
				return report, errors.ErrStoreUnavailable.Wrap(err)
			}
			report.LineItemsIndexed = len(statement.Flatten())
		}
	}

	return report, nil
}
