// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/privatefin/finsight/model"
	"github.com/privatefin/finsight/semanticstore"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index <upload.json>",
	Short: "Index a pre-parsed upload into the semantic store",
	Long: `Index reads a JSON file holding a session_id, upload_id,
document_type, and either a transactions array or a statement object
(document parsing itself happens upstream of this CLI) and writes it
into the semantic store under that workspace.

Example:
  finsight index upload.json
  finsight index upload.json --config prod.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

// uploadFile is the on-disk shape index expects: the workspace
// identity plus whichever of transactions/statement the upload
// parsed out.
type uploadFile struct {
	SessionID    string                    `json:"session_id"`
	UploadID     string                    `json:"upload_id"`
	DocumentType model.DocumentType        `json:"document_type"`
	Transactions []model.Transaction       `json:"transactions,omitempty"`
	Statement    *model.FinancialStatement `json:"statement,omitempty"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read upload file: %w", err)
	}

	var upload uploadFile
	if err := json.Unmarshal(raw, &upload); err != nil {
		return fmt.Errorf("failed to parse upload file: %w", err)
	}

	tag := model.WorkspaceTag{
		SessionID:    upload.SessionID,
		UploadID:     upload.UploadID,
		DocumentType: upload.DocumentType,
	}
	if err := tag.Validate(); err != nil {
		return fmt.Errorf("invalid upload: %w", err)
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

	ix := semanticstore.NewIndexer(application.store)
	report, err := ix.IndexUpload(ctx, tag, upload.Transactions, upload.Statement)
	if err != nil {
		return fmt.Errorf("failed to index upload: %w", err)
	}

	fmt.Printf("✅ Indexed upload %s under session %s\n", upload.UploadID, upload.SessionID)
	fmt.Printf("   Transactions indexed: %d\n", report.TransactionsIndexed)
	fmt.Printf("   Line items indexed:   %d\n", report.LineItemsIndexed)
	for _, failure := range report.Failures {
		log.Printf("⚠️  skipped invalid record: %v", failure)
	}
	return nil
}
