// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package model

// DocumentType identifies which half of the analysis pipeline a
// WorkspaceTag's documents belong to.
type DocumentType string

const (
	DocumentTransactions DocumentType = "transactions"
	DocumentFinancial    DocumentType = "financial"
)

// WorkspaceTag scopes a stored document to a session and, critically,
// to a single upload: upload_id is the strong isolation key every
// retrieval must pin so a session holding several uploads never
// cross-contaminates answers between them.
type WorkspaceTag struct {
	SessionID    string       `json:"session_id"`
	UploadID     string       `json:"upload_id"`
	DocumentType DocumentType `json:"document_type"`
}

// Validate rejects a WorkspaceTag missing any of its three fields.
func (w WorkspaceTag) Validate() error {
	if w.SessionID == "" {
		return ErrMissingField.WithDetail("field", "session_id")
	}
	if w.UploadID == "" {
		return ErrMissingField.WithDetail("field", "upload_id")
	}
	switch w.DocumentType {
	case DocumentTransactions, DocumentFinancial:
	default:
		return ErrInvalidField.WithDetail("field", "document_type").WithDetail("value", string(w.DocumentType))
	}
	return nil
}
