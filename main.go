// judith - A terminal chat client for LLM backends.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saikrishnarallabandi/judith-tui/internal/cli"
	"github.com/saikrishnarallabandi/judith-tui/internal/config"
	"github.com/saikrishnarallabandi/judith-tui/internal/session"
	"github.com/saikrishnarallabandi/judith-tui/internal/storage"
	"github.com/saikrishnarallabandi/judith-tui/internal/ui/chat"
	"github.com/saikrishnarallabandi/judith-tui/internal/upload"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		exitOnError(cli.HandleAsk(args))
	case cli.CmdChat:
		exitOnError(cli.HandleChat(args))
	case cli.CmdSessions:
		exitOnError(cli.HandleSessions(args))
	case cli.CmdConfig:
		exitOnError(cli.HandleConfig(args))
	case cli.CmdUpload:
		exitOnError(cli.HandleUpload(args))
	case cli.CmdMemory:
		exitOnError(cli.HandleMemory(args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// TUI
// =============================================================================

func runTUI(args cli.Args) {
	// Debug logging goes to a file; stdout belongs to the TUI.
	if os.Getenv("JUDITH_DEBUG") != "" {
		f, err := tea.LogToFile("judith_debug.log", "judith")
		if err == nil {
			defer f.Close()
		}
	} else {
		log.SetOutput(os.Stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.Default()
	}
	if args.Model != "" {
		cfg.Backend.Model = args.Model
	}
	if args.BaseURL != "" {
		cfg.Backend.BaseURL = args.BaseURL
	}

	completer, closer := cli.BuildCompleter(cfg)
	if closer != nil {
		defer closer()
	}

	store, err := storage.NewHistoryStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	manager := session.NewManager(store, completer)
	uploader := upload.New(cfg.Backend.BaseURL)
	m := chat.NewModel(cfg, manager, uploader)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Pick up config edits while the TUI runs.
	if path, err := config.ConfigPath(); err == nil {
		if watcher, err := config.Watch(path, func(updated *config.Config) {
			p.Send(chat.ConfigReloadedMsg{Cfg: updated})
		}); err == nil {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running judith: %v\n", err)
		os.Exit(1)
	}
}
