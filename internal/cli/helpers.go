// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/saikrishnarallabandi/judith-tui/internal/config"
	"github.com/saikrishnarallabandi/judith-tui/internal/fallback"
	"github.com/saikrishnarallabandi/judith-tui/internal/llm"
	"github.com/saikrishnarallabandi/judith-tui/internal/memory"
)

// =============================================================================
// SHARED COMMAND SETUP
// =============================================================================

// loadConfig loads the configuration, applying CLI overrides on top of file
// and environment values.
func loadConfig(args Args) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config load failed, using defaults: %v", err)
		cfg = config.Default()
	}
	if args.Model != "" {
		cfg.Backend.Model = args.Model
	}
	if args.BaseURL != "" {
		cfg.Backend.BaseURL = args.BaseURL
	}
	return cfg
}

// BuildCompleter assembles the completion pipeline from configuration:
// remote client, fallback responder, and the optional memory wrapper.
// The returned closer releases the memory store, and is non-nil only when
// memory is enabled.
func BuildCompleter(cfg *config.Config) (llm.Completer, func() error) {
	responder := fallback.New().WithDelay(
		time.Duration(cfg.Fallback.MinDelayMs)*time.Millisecond,
		time.Duration(cfg.Fallback.MaxDelayMs)*time.Millisecond,
	)

	client := llm.NewClient(cfg.Backend.BaseURL, responder).
		WithModel(cfg.Backend.Model).
		WithAPIKey(cfg.Backend.APIKey).
		WithSampling(cfg.Backend.MaxTokens, cfg.Backend.Temperature)

	if !cfg.Memory.Enabled {
		return client, nil
	}

	dbPath, err := cfg.Memory.ResolvedDatabasePath()
	if err != nil {
		log.Printf("memory store unavailable: %v", err)
		return client, nil
	}
	store, err := memory.Open(dbPath)
	if err != nil {
		log.Printf("memory store unavailable: %v", err)
		return client, nil
	}
	return memory.NewEnhanced(client, store), store.Close
}

// openMemoryStore opens the configured memory database directly, for the
// memory management subcommands.
func openMemoryStore(args Args) (*memory.Store, error) {
	cfg := loadConfig(args)
	if !cfg.Memory.Enabled {
		return nil, fmt.Errorf("memory is disabled in configuration")
	}
	dbPath, err := cfg.Memory.ResolvedDatabasePath()
	if err != nil {
		return nil, err
	}
	return memory.Open(dbPath)
}
