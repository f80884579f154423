// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// memory_cmd.go - Memory store command handler for the judith CLI.
//
// Command: memory
// Short:   Inspect and maintain the conversation memory store
//
// Examples:
//   judith memory stats
//   judith memory search "sales data"
//   judith memory clear
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/saikrishnarallabandi/judith-tui/internal/memory"
)

// HandleMemory handles the "memory" command and its subcommands.
func HandleMemory(args Args) error {
	store, err := openMemoryStore(args)
	if err != nil {
		return err
	}
	defer store.Close()

	switch args.Subcommand {
	case "", "stats":
		return memoryStats(store, args)

	case "search":
		return memorySearch(store, args)

	case "clear":
		return memoryClear(store, args)

	default:
		return fmt.Errorf("unknown memory subcommand: %s", args.Subcommand)
	}
}

// memoryStats prints memory store statistics.
func memoryStats(store *memory.Store, args Args) error {
	stats, err := store.GetStats()
	if err != nil {
		return err
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Println(TitleStyle.Render("Memory store"))
	fmt.Printf("%s %d\n", LabelStyle.Render("Entries:"), stats.Total)
	for entryType, count := range stats.ByType {
		fmt.Printf("%s %d\n", LabelStyle.Render("  "+string(entryType)+":"), count)
	}
	if !stats.Oldest.IsZero() {
		fmt.Printf("%s %s\n", LabelStyle.Render("Oldest:"), stats.Oldest.Format("2006-01-02 15:04"))
		fmt.Printf("%s %s\n", LabelStyle.Render("Newest:"), stats.Newest.Format("2006-01-02 15:04"))
	}
	fmt.Printf("%s %.1f KB\n", LabelStyle.Render("Size:"), float64(stats.DBBytes)/1024)
	return nil
}

// memorySearch prints entries matching the query.
func memorySearch(store *memory.Store, args Args) error {
	if args.Query == "" {
		return fmt.Errorf("usage: judith memory search <query>")
	}

	entries, err := store.Search(args.Query, 10)
	if err != nil {
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println(InfoStyle.Render("No matches."))
		return nil
	}
	for i, entry := range entries {
		fmt.Printf("%2d. [%s] %s\n", i+1,
			InfoStyle.Render(string(entry.Type)),
			WrapText(entry.Content, 0))
	}
	return nil
}

// memoryClear deletes entries older than the configured retention window.
func memoryClear(store *memory.Store, args Args) error {
	cfg := loadConfig(args)
	retention := time.Duration(cfg.Memory.RetentionDays) * 24 * time.Hour
	if cfg.Memory.RetentionDays <= 0 {
		return fmt.Errorf("retention_days is unset; nothing to clear")
	}

	removed, err := store.ClearOlderThan(retention)
	if err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("Removed %d expired memories.", removed)))
	return nil
}
