// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/privatefin/finsight/model"
	fserrors "github.com/privatefin/finsight/pkg/errors"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat <session-id> <upload-id> <transactions|financial> <query...>",
	Short: "Ask a question against a session's cached insights",
	Long: `Chat answers a single free-text query by routing it to one of
the twelve agents and reading that agent's cached insights, or, when
the query carries a filter (an amount, a date range, a merchant), by
retrieving a filtered subset of the upload directly.

Example:
  finsight chat session-1 upload-1 transactions "what did I spend on rent?"`,
	Args: cobra.MinimumNArgs(4),
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	sessionID, uploadID, docType := args[0], args[1], model.DocumentType(args[2])
	query := strings.Join(args[3:], " ")

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	application, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := application.orch.ProcessChatQuery(ctx, sessionID, uploadID, docType, query)
	if err != nil {
		if fserrors.IsLLMUnavailable(err) {
			return fmt.Errorf("local LLM runtime is unavailable, is it running at the configured base URL?: %w", err)
		}
		return fmt.Errorf("failed to answer query: %w", err)
	}

	fmt.Printf("🤖 [%s, confidence %.2f, filtered=%t]\n", result.Metadata.AgentUsed, result.Metadata.Confidence, result.Metadata.Filtered)
	fmt.Println(result.Result.FinalAnswer)
	return nil
}
