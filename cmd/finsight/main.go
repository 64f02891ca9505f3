// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

// Command finsight is the local-install CLI for the finsight
// financial analysis core: it indexes an upload, runs insights over
// it, answers chat queries against cached insights, and inspects or
// clears the session cache.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "finsight",
	Short: "Financial analysis core CLI",
	Long: `finsight drives the local-install financial analysis core
directly from the command line: index a parsed upload, generate the
twelve-agent insights run, ask chat questions against the cached
analysis, and inspect or clear a session's cache.

Configuration can be provided via:
  - config.yaml file (default: ./config.yaml)
  - Environment variables (FINSIGHT_*)
  - Command-line flags (highest priority)`,
	PersistentPreRunE: bindOverrideFlags,
}

var (
	configPath   string
	llmBaseURL   string
	storeBackend string
)

// overrides is the viper instance that layers --llm-base-url/--store
// flags and FINSIGHT_* environment variables on top of whatever
// loadConfig already read from file or defaults - the same
// flags-beat-env-beat-file precedence loadConfig's own env pass
// follows, but for the handful of settings worth a flag shortcut.
var overrides = viper.New()

func bindOverrideFlags(cmd *cobra.Command, args []string) error {
	overrides.SetEnvPrefix("FINSIGHT")
	overrides.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	overrides.AutomaticEnv()
	if err := overrides.BindPFlag("llm.base_url", cmd.Flags().Lookup("llm-base-url")); err != nil {
		return err
	}
	if err := overrides.BindPFlag("store.backend", cmd.Flags().Lookup("store")); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&llmBaseURL, "llm-base-url", "", "Override the local LLM runtime's base URL")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "Override the semantic store backend (memory, qdrant)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(cacheStatusCmd)
	rootCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(healthcheckCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
