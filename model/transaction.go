// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Direction is the sign of a Transaction's amount, kept explicit
// rather than inferred from the sign of Amount so callers never need
// to guess which convention an upstream parser used.
type Direction string

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

// Transaction is an immutable, day-precision bank or card movement in
// Saudi Riyals. Identity for deduplication is the (Date, Amount,
// Description) triple, returned in stable form by Key.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      float64
	Balance     *float64
	Direction   Direction
	Category    *string
	Reference   *string
}

// transactionJSON is the parser-boundary wire shape of a Transaction:
// a day-precision date string and a "type" field carrying the
// direction, matching what external parsers emit.
type transactionJSON struct {
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Balance     *float64  `json:"balance,omitempty"`
	Type        Direction `json:"type"`
	Category    *string   `json:"category,omitempty"`
	Reference   *string   `json:"reference,omitempty"`
}

// MarshalJSON renders the transaction in its wire shape, with the
// date normalized to "2006-01-02".
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		Date:        FormatDate(t.Date),
		Description: t.Description,
		Amount:      t.Amount,
		Balance:     t.Balance,
		Type:        t.Direction,
		Category:    t.Category,
		Reference:   t.Reference,
	})
}

// UnmarshalJSON accepts the wire shape, parsing the date from any
// supported layout (RFC3339 day, full RFC3339, DD/MM/YYYY, long form).
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var w transactionJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var date time.Time
	if w.Date != "" {
		d, err := ParseDate(w.Date)
		if err != nil {
			return err
		}
		date = d
	}

	*t = Transaction{
		Date:        date,
		Description: w.Description,
		Amount:      w.Amount,
		Balance:     w.Balance,
		Direction:   w.Type,
		Category:    w.Category,
		Reference:   w.Reference,
	}
	return nil
}

// Key returns the stable sha256 hex digest of the transaction's
// dedup identity. Two Transactions with the same Date (truncated to
// day), Amount, and Description always produce the same Key,
// regardless of field order or the presence of optional fields.
func (t Transaction) Key() string {
	day := t.Date.Format("2006-01-02")
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%.2f|%s", day, t.Amount, t.Description)))
	return hex.EncodeToString(sum[:])
}

// Validate rejects a Transaction missing required fields or carrying
// an unrecognized Direction.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrMissingField.WithDetail("field", "date")
	}
	if t.Description == "" {
		return ErrMissingField.WithDetail("field", "description")
	}
	switch t.Direction {
	case Credit, Debit:
	default:
		return ErrInvalidField.WithDetail("field", "direction").WithDetail("value", string(t.Direction))
	}
	return nil
}

// CanonicalText renders the deterministic text used by the semantic
// store to embed and, by hash, dedup a Transaction document.
func (t Transaction) CanonicalText() string {
	return fmt.Sprintf("%s %s %.2f %s", t.Date.Format("2006-01-02"), t.Description, SignedAmount(t), t.Direction)
}

// SignedAmount returns Amount with the sign implied by Direction
// applied, regardless of how the source already signed it.
func SignedAmount(t Transaction) float64 {
	abs := t.Amount
	if abs < 0 {
		abs = -abs
	}
	if t.Direction == Debit {
		return -abs
	}
	return abs
}
