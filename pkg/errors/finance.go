// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package errors

// Orchestrator and analysis-pipeline errors.
var (
	// ErrUnauthorized indicates the session context was missing or
	// expired. The transport layer is responsible for surfacing this;
	// the core only enforces that a session is present before it will
	// touch a session's cache or retrieval scope.
	ErrUnauthorized = &Error{
		Category: CategoryUnauthorized,
		Code:     "UNAUTHORIZED",
		Message:  "session context missing or expired",
	}

	// ErrUploadNotFound indicates the requested upload has no indexed
	// documents for the given session.
	ErrUploadNotFound = &Error{
		Category: CategoryNotFound,
		Code:     "UPLOAD_NOT_FOUND",
		Message:  "upload not found for session",
	}

	// ErrCacheMissing indicates a chat query was issued before an
	// insights run populated the session cache. Callers must not fall
	// back to computing insights inline; the caller is expected to run
	// GenerateInsights first.
	ErrCacheMissing = &Error{
		Category: CategoryNotFound,
		Code:     "CACHE_MISSING",
		Message:  "no cached insights for this session and document type; run insights first",
	}

	// ErrDocumentTypeMismatch indicates a request's document_type does
	// not match the type of the uploaded data it is being applied to.
	ErrDocumentTypeMismatch = &Error{
		Category: CategoryValidation,
		Code:     "DOCUMENT_TYPE_MISMATCH",
		Message:  "document type does not match the indexed upload",
	}

	// ErrLLMUnavailable indicates a call to the model runtime failed or
	// exceeded its timeout.
	ErrLLMUnavailable = &Error{
		Category: CategoryLLM,
		Code:     "LLM_UNAVAILABLE",
		Message:  "model runtime unavailable",
	}

	// ErrStoreUnavailable indicates a semantic store operation failed.
	ErrStoreUnavailable = &Error{
		Category: CategoryStorage,
		Code:     "STORE_UNAVAILABLE",
		Message:  "semantic store unavailable",
	}

	// ErrInvalidQuery indicates a chat query could not be understood
	// even by the keyword/regex fallback.
	ErrInvalidQuery = &Error{
		Category: CategoryValidation,
		Code:     "INVALID_QUERY",
		Message:  "query could not be interpreted",
	}

	// ErrAgentFailure wraps a single agent's failure inside an
	// otherwise-successful GenerateInsights run; it is stored in that
	// agent's result slot rather than aborting the whole run.
	ErrAgentFailure = &Error{
		Category: CategoryInternal,
		Code:     "AGENT_FAILURE",
		Message:  "agent execution failed",
	}
)
