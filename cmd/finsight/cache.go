// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"context"
	"fmt"

	"github.com/privatefin/finsight/model"
	"github.com/spf13/cobra"
)

var cacheStatusCmd = &cobra.Command{
	Use:   "cache-status <session-id>",
	Short: "Report what insights are currently cached for a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheStatus,
}

var cacheClearCmd = &cobra.Command{
	Use:   "cache-clear <session-id> [transactions|financial]",
	Short: "Invalidate cached insights for a session",
	Long: `Clears the session cache entirely, or just one document
type's slot if it is given.

Example:
  finsight cache-clear session-1
  finsight cache-clear session-1 transactions`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCacheClear,
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	application, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}

	status := application.orch.CacheStatus(ctx, args[0])
	fmt.Printf("transactions cached: %t", status.HasTransactionInsights)
	if status.TransactionInsightsUntil != nil {
		fmt.Printf(" (expires %s)", status.TransactionInsightsUntil.Format("2006-01-02T15:04:05Z07:00"))
	}
	fmt.Println()
	fmt.Printf("financial cached:    %t", status.HasFinancialInsights)
	if status.FinancialInsightsUntil != nil {
		fmt.Printf(" (expires %s)", status.FinancialInsightsUntil.Format("2006-01-02T15:04:05Z07:00"))
	}
	fmt.Println()
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	application, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}

	var docType model.DocumentType
	if len(args) == 2 {
		docType = model.DocumentType(args[1])
	}

	if err := application.orch.InvalidateCache(ctx, args[0], docType); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Printf("✅ Cache cleared for session %s\n", args[0])
	return nil
}
