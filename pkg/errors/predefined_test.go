// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package errors

import (
	"testing"
)

func TestPredefinedErrors_Validation(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		category ErrorCategory
		code     string
	}{
		{"ErrInvalidInput", ErrInvalidInput, CategoryValidation, "INVALID_INPUT"},
		{"ErrMissingField", ErrMissingField, CategoryValidation, "MISSING_FIELD"},
		{"ErrInvalidFormat", ErrInvalidFormat, CategoryValidation, "INVALID_FORMAT"},
		{"ErrInvalidValue", ErrInvalidValue, CategoryValidation, "INVALID_VALUE"},
		{"ErrOutOfRange", ErrOutOfRange, CategoryValidation, "OUT_OF_RANGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Category != tt.category {
				t.Errorf("Category = %v, want %v", tt.err.Category, tt.category)
			}
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
		})
	}
}

func TestPredefinedErrors_Finance(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		category ErrorCategory
		code     string
	}{
		{"ErrUnauthorized", ErrUnauthorized, CategoryUnauthorized, "UNAUTHORIZED"},
		{"ErrUploadNotFound", ErrUploadNotFound, CategoryNotFound, "UPLOAD_NOT_FOUND"},
		{"ErrCacheMissing", ErrCacheMissing, CategoryNotFound, "CACHE_MISSING"},
		{"ErrDocumentTypeMismatch", ErrDocumentTypeMismatch, CategoryValidation, "DOCUMENT_TYPE_MISMATCH"},
		{"ErrLLMUnavailable", ErrLLMUnavailable, CategoryLLM, "LLM_UNAVAILABLE"},
		{"ErrStoreUnavailable", ErrStoreUnavailable, CategoryStorage, "STORE_UNAVAILABLE"},
		{"ErrInvalidQuery", ErrInvalidQuery, CategoryValidation, "INVALID_QUERY"},
		{"ErrAgentFailure", ErrAgentFailure, CategoryInternal, "AGENT_FAILURE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Category != tt.category {
				t.Errorf("Category = %v, want %v", tt.err.Category, tt.category)
			}
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
		})
	}
}

func TestPredefinedErrors_Storage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrStorageConnection", ErrStorageConnection},
		{"ErrStorageTimeout", ErrStorageTimeout},
		{"ErrAlreadyExists", ErrAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code == "" {
				t.Error("Code should not be empty")
			}
			if tt.err.Message == "" {
				t.Error("Message should not be empty")
			}
		})
	}
}

func TestPredefinedErrors_LLM(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
	}{
		{"ErrLLMConnection", ErrLLMConnection},
		{"ErrLLMRateLimit", ErrLLMRateLimit},
		{"ErrLLMInvalidResponse", ErrLLMInvalidResponse},
		{"ErrLLMTimeout", ErrLLMTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Category != CategoryLLM {
				t.Errorf("Category = %v, want %v", tt.err.Category, CategoryLLM)
			}
			if tt.err.Code == "" {
				t.Error("Code should not be empty")
			}
		})
	}
}

func TestPredefinedErrors_Internal(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
	}{
		{"ErrInternal", ErrInternal},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrConfigurationError", ErrConfigurationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Category != CategoryInternal {
				t.Errorf("Category = %v, want %v", tt.err.Category, CategoryInternal)
			}
		})
	}
}

func TestErrorUsage_WithDetails(t *testing.T) {
	// Test realistic usage scenario
	err := ErrInvalidInput.
		WithDetail("field", "messageId").
		WithDetail("reason", "empty value")

	if err.Details["field"] != "messageId" {
		t.Errorf("field detail = %v, want messageId", err.Details["field"])
	}

	if err.Details["reason"] != "empty value" {
		t.Errorf("reason detail = %v, want empty value", err.Details["reason"])
	}
}

func TestErrorUsage_ChainedOperations(t *testing.T) {
	// Test chaining operations
	err := ErrStorageConnection.
		WithMessage("failed to connect to Redis").
		WithDetails(map[string]interface{}{
			"host":    "localhost:6379",
			"timeout": "5s",
		})

	if err.Details["host"] != "localhost:6379" {
		t.Errorf("host = %v, want localhost:6379", err.Details["host"])
	}
}
