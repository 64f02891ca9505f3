// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"context"
	"fmt"

	"github.com/privatefin/finsight/model"
	fserrors "github.com/privatefin/finsight/pkg/errors"
	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:   "insights <session-id> <upload-id> <transactions|financial>",
	Short: "Run the full agent fan-out over an indexed upload",
	Long: `Insights runs every agent for the given document type over an
already-indexed upload and writes the results into the session cache.

Example:
  finsight insights session-1 upload-1 transactions`,
	Args: cobra.ExactArgs(3),
	RunE: runInsights,
}

func runInsights(cmd *cobra.Command, args []string) error {
	sessionID, uploadID, docType := args[0], args[1], model.DocumentType(args[2])
	switch docType {
	case model.DocumentTransactions, model.DocumentFinancial:
	default:
		return fmt.Errorf("invalid document type %q: want %q or %q", args[2], model.DocumentTransactions, model.DocumentFinancial)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	application, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("🧠 Generating insights for session=%s upload=%s type=%s ...\n", sessionID, uploadID, docType)
	result, err := application.orch.GenerateInsights(ctx, sessionID, uploadID, docType)
	if err != nil {
		if fserrors.IsLLMUnavailable(err) {
			return fmt.Errorf("local LLM runtime is unavailable, is it running at the configured base URL?: %w", err)
		}
		return fmt.Errorf("failed to generate insights: %w", err)
	}

	categories := model.TransactionCategories
	if docType == model.DocumentFinancial {
		categories = model.FinancialCategories
	}
	for _, cat := range categories {
		r := result.Results[cat]
		if r.Err != "" {
			fmt.Printf("❌ %-20s %s\n", cat, r.Err)
			continue
		}
		fmt.Printf("✅ %-20s %s\n", cat, r.FinalAnswer)
	}
	fmt.Printf("📦 Cached until %s\n", result.CacheExpires.Format("2006-01-02T15:04:05Z07:00"))
	return nil
}
