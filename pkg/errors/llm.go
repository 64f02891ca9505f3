// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package errors

// LLM provider errors
var (
	// ErrLLMConnection indicates failed to connect to LLM provider.
	ErrLLMConnection = &Error{
		Category: CategoryLLM,
		Code:     "LLM_CONNECTION_ERROR",
		Message:  "failed to connect to LLM provider",
	}

	// ErrLLMRateLimit indicates LLM rate limit was exceeded.
	ErrLLMRateLimit = &Error{
		Category: CategoryLLM,
		Code:     "RATE_LIMIT_EXCEEDED",
		Message:  "LLM rate limit exceeded",
	}

	// ErrLLMInvalidResponse indicates invalid response from LLM.
	ErrLLMInvalidResponse = &Error{
		Category: CategoryLLM,
		Code:     "INVALID_RESPONSE",
		Message:  "invalid response from LLM",
	}

	// ErrLLMTimeout indicates LLM request timed out.
	ErrLLMTimeout = &Error{
		Category: CategoryLLM,
		Code:     "LLM_TIMEOUT",
		Message:  "LLM request timed out",
	}
)
