// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// upload_cmd.go - File upload command handler for the judith CLI.
//
// Command: upload
// Short:   Upload a data file to the backend
//
// Examples:
//   judith upload sales.csv
//   judith upload report.xlsx --json
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/saikrishnarallabandi/judith-tui/internal/upload"
)

// HandleUpload handles the "upload" command.
func HandleUpload(args Args) error {
	if args.File == "" {
		return fmt.Errorf("usage: judith upload <file>")
	}

	cfg := loadConfig(args)
	uploader := upload.New(cfg.Backend.BaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), upload.DefaultTimeout)
	defer cancel()

	result, err := uploader.UploadFile(ctx, args.File)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Println(SuccessStyle.Render("Uploaded " + result.Filename))
	if rows := result.Rows(); rows > 0 {
		fmt.Printf("%s %d rows, %d columns\n", LabelStyle.Render("Shape:"), rows, len(result.Columns))
	}
	if len(result.Columns) > 0 {
		fmt.Printf("%s %s\n", LabelStyle.Render("Columns:"), strings.Join(result.Columns, ", "))
	}
	if result.Message != "" {
		fmt.Println(InfoStyle.Render(result.Message))
	}
	return nil
}
