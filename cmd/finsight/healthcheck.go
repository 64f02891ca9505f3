// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Run startup checks once and exit non-zero on failure",
	Long: `Runs every startup check - embedder initialization first - and
reports the result. Intended for a process manager's startup probe;
this CLI never binds an HTTP listener of its own.`,
	RunE: runHealthcheck,
}

func runHealthcheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	application, err := buildApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("startup check failed: %w", err)
	}

	result := application.readiness.Check(ctx)
	if result.IsUnhealthy() {
		return fmt.Errorf("readiness check failed: %s", result.Message)
	}

	fmt.Println("✅ ready")
	return nil
}
