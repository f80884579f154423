// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the judith CLI.
//
// Command: chat
// Short:   Start an interactive chat REPL
//
// Interactive commands (during chat):
//   /help, /h       Show available commands
//   /clear, /c      Start a fresh conversation
//   /model [name]   Show or switch model
//   /history        Show conversation so far
//   /export [fmt]   Export the conversation (md or json)
//   /quit, /q       Exit chat
//   Ctrl+D          Exit chat
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/saikrishnarallabandi/judith-tui/internal/config"
	"github.com/saikrishnarallabandi/judith-tui/internal/export"
	"github.com/saikrishnarallabandi/judith-tui/internal/llm"
	"github.com/saikrishnarallabandi/judith-tui/internal/model"
	"github.com/saikrishnarallabandi/judith-tui/internal/session"
	"github.com/saikrishnarallabandi/judith-tui/internal/storage"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt. Arrow keys
// navigate history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat handles the "chat" command: a readline REPL over the same
// conversation pipeline the TUI uses, persisted to the same history files.
func HandleChat(args Args) error {
	cfg := loadConfig(args)

	completer, closer := BuildCompleter(cfg)
	if closer != nil {
		defer closer()
	}

	store, err := storage.NewHistoryStore()
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	manager := session.NewManager(store, completer)
	manager.NewConversation()

	input := NewChatCLI()
	defer input.Close()

	if !args.Quiet {
		printChatWelcome(cfg)
	}

	for {
		line, err := input.ReadInput(PromptStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println()
				break
			}
			return err
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			if quit := runChatCommand(manager, cfg, text); quit {
				break
			}
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Backend.TimeoutSecs)*time.Second)
		assistant, err := manager.SendMessage(ctx, text)
		cancel()

		if err != nil {
			fmt.Println(ErrorStyle.Render(err.Error()))
			continue
		}
		if assistant != nil {
			displayResponse(assistant.Content)
			if manager.LastSource() == llm.SourceFallback && !args.Quiet {
				fmt.Println(WarningStyle.Render("(offline reply)"))
			}
		}
	}

	if !args.Quiet {
		printChatSummary(manager)
	}
	return nil
}

// printChatWelcome shows the REPL banner.
func printChatWelcome(cfg *config.Config) {
	fmt.Println(TitleStyle.Render("judith chat"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Backend:"), ValueStyle.Render(cfg.Backend.BaseURL))
	fmt.Printf("%s %s\n", LabelStyle.Render("Model:"), ValueStyle.Render(cfg.Backend.Model))
	fmt.Println(InfoStyle.Render("Type /help for commands, /quit or Ctrl+D to exit."))
	fmt.Println()
}

// printChatSummary shows session statistics on exit.
func printChatSummary(manager *session.Manager) {
	conv := manager.Current()
	if conv == nil {
		return
	}
	fmt.Println()
	fmt.Println(InfoStyle.Render(fmt.Sprintf("Session saved: %q, %d messages.",
		conv.Title, conv.MessageCount())))
}

// runChatCommand executes a REPL slash command. Returns true to exit.
func runChatCommand(manager *session.Manager, cfg *config.Config, text string) bool {
	fields := strings.Fields(text)

	switch fields[0] {
	case "/help", "/h":
		fmt.Println(CommandStyle.Render("/clear") + InfoStyle.Render("    start a fresh conversation"))
		fmt.Println(CommandStyle.Render("/model") + InfoStyle.Render("    show the active model"))
		fmt.Println(CommandStyle.Render("/history") + InfoStyle.Render("  show the conversation so far"))
		fmt.Println(CommandStyle.Render("/export") + InfoStyle.Render("   export the conversation (md or json)"))
		fmt.Println(CommandStyle.Render("/quit") + InfoStyle.Render("     exit chat"))

	case "/clear", "/c":
		manager.NewConversation()
		fmt.Println(InfoStyle.Render("Started a new conversation."))

	case "/model":
		fmt.Printf("%s %s\n", LabelStyle.Render("Model:"), ValueStyle.Render(cfg.Backend.Model))

	case "/history":
		conv := manager.Current()
		if conv == nil || len(conv.Messages) == 0 {
			fmt.Println(InfoStyle.Render("No messages yet."))
			break
		}
		for _, msg := range conv.Messages {
			fmt.Printf("%s %s\n", LabelStyle.Render(msg.Role.DisplayName()+":"), msg.Content)
		}

	case "/export":
		exportChatConversation(manager.Current(), fields)

	case "/quit", "/q", "/exit":
		return true

	default:
		fmt.Println(WarningStyle.Render("Unknown command: " + fields[0]))
	}
	return false
}

// exportChatConversation writes the current conversation to a file.
func exportChatConversation(conv *model.Conversation, fields []string) {
	if conv == nil || len(conv.Messages) == 0 {
		fmt.Println(WarningStyle.Render("Nothing to export."))
		return
	}

	opts := export.DefaultOptions()
	var exporter export.Exporter = export.NewMarkdownExporter(opts)
	if len(fields) > 1 && fields[1] == "json" {
		exporter = export.NewJSONExporter()
	}

	path, err := export.ExportToFile(conv, exporter, opts)
	if err != nil {
		fmt.Println(ErrorStyle.Render("Export failed: " + err.Error()))
		return
	}
	fmt.Println(SuccessStyle.Render("Exported to " + path))
}
