// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package llmclient

import (
	"strings"
	"unicode"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates the number of tokens a string would occupy.
type Counter interface {
	CountTokens(text string) int
	CountMessagesTokens(messages []Message) int
}

// TokenCounter wraps a tiktoken byte-pair encoder for a specific model.
// A model name with no known encoding - the case for most local
// runtimes, which report their own fine-tuned model names rather than
// an OpenAI one - gets the cl100k_base encoding; a word-count
// heuristic is used only when no encoding can be loaded at all.
type TokenCounter struct {
	enc      *tiktoken.Tiktoken
	fallback *SimpleCounter
}

// NewTokenCounter builds a TokenCounter for model, loading the closest
// tiktoken encoding it recognizes.
func NewTokenCounter(model string) *TokenCounter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			enc = nil
		}
	}
	return &TokenCounter{enc: enc, fallback: NewSimpleCounter()}
}

// CountTokens returns the token count for text.
func (tc *TokenCounter) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	if tc.enc != nil {
		return len(tc.enc.Encode(text, nil, nil))
	}
	return tc.fallback.CountTokens(text)
}

// CountMessagesTokens estimates the token cost of a full message list,
// including OpenAI's per-message formatting overhead.
func (tc *TokenCounter) CountMessagesTokens(messages []Message) int {
	total := 0
	for _, msg := range messages {
		total += tc.CountTokens(msg.Content) + 4
	}
	return total + 2
}

// SimpleCounter is a dependency-free word-count approximation, used as
// a fallback when no tiktoken encoding applies and directly by
// MockProvider where exactness doesn't matter.
type SimpleCounter struct {
	TokensPerWord float64
}

// NewSimpleCounter returns a SimpleCounter tuned for English prose.
func NewSimpleCounter() *SimpleCounter {
	return &SimpleCounter{TokensPerWord: 1.3}
}

// CountTokens estimates tokens in text by word count.
func (tc *SimpleCounter) CountTokens(text string) int {
	if text == "" {
		return 0
	}

	words := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			if inWord {
				words++
				inWord = false
			}
		} else {
			inWord = true
		}
	}
	if inWord {
		words++
	}

	return int(float64(words)*tc.TokensPerWord + 0.5)
}

// CountMessagesTokens estimates tokens for a list of messages.
func (tc *SimpleCounter) CountMessagesTokens(messages []Message) int {
	total := 0
	for _, msg := range messages {
		total += tc.CountTokens(msg.Content) + 4
	}
	return total + 2
}

// ModelTokenLimits holds context window sizes for models this service
// is expected to run locally.
var ModelTokenLimits = map[string]int{
	"gpt-4":         8192,
	"gpt-4-turbo":   128000,
	"gpt-3.5-turbo": 4096,
	"llama-3-8b":    8192,
	"llama-3-70b":   8192,
	"mixtral-8x7b":  32768,
	"qwen2.5-14b":   32768,
}

// GetModelTokenLimit returns the context window for model, falling
// back to a conservative default for unrecognized names.
func GetModelTokenLimit(model string) int {
	if limit, ok := ModelTokenLimits[model]; ok {
		return limit
	}
	for prefix, limit := range ModelTokenLimits {
		if strings.HasPrefix(model, prefix) {
			return limit
		}
	}
	return 4096
}

// TruncateMessages trims the oldest non-system messages from messages
// until the remainder fits within maxTokens.
func TruncateMessages(messages []Message, counter Counter, maxTokens int) []Message {
	if len(messages) == 0 {
		return messages
	}

	startIdx := 0
	systemTokens := 0
	if messages[0].Role == RoleSystem {
		systemTokens = counter.CountTokens(messages[0].Content) + 4
		startIdx = 1
	}

	budget := maxTokens - systemTokens - 2

	toKeep := make([]Message, 0)
	used := 0
	for i := len(messages) - 1; i >= startIdx; i-- {
		msgTokens := counter.CountTokens(messages[i].Content) + 4
		if used+msgTokens > budget {
			break
		}
		used += msgTokens
		toKeep = append(toKeep, messages[i])
	}

	result := make([]Message, 0, len(messages))
	if startIdx == 1 {
		result = append(result, messages[0])
	}
	for i := len(toKeep) - 1; i >= 0; i-- {
		result = append(result, toKeep[i])
	}

	return result
}
