// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Conversation management command handler for the judith CLI.
//
// Command: sessions
// Short:   List, inspect, export, and delete saved conversations
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/saikrishnarallabandi/judith-tui/internal/export"
	"github.com/saikrishnarallabandi/judith-tui/internal/model"
	"github.com/saikrishnarallabandi/judith-tui/internal/storage"
	"github.com/saikrishnarallabandi/judith-tui/internal/util"
)

// HandleSessions handles the "sessions" command and its subcommands.
func HandleSessions(args Args) error {
	store, err := storage.NewHistoryStore()
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	conversations, currentID := store.Load()

	switch args.Subcommand {
	case "", "list", "ls", "l":
		return listSessions(conversations, currentID, args)

	case "show":
		conv, err := resolveConversation(conversations, args.ConfigKey)
		if err != nil {
			return err
		}
		return showSession(conv)

	case "export":
		conv, err := resolveConversation(conversations, args.ConfigKey)
		if err != nil {
			return err
		}
		return exportSession(conv, args.Format)

	case "delete", "rm":
		conv, err := resolveConversation(conversations, args.ConfigKey)
		if err != nil {
			return err
		}
		return deleteSession(store, conversations, currentID, conv)

	case "search":
		return searchSessions(conversations, args)

	case "clear", "delete-all":
		if err := store.Clear(); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		fmt.Println(SuccessStyle.Render(fmt.Sprintf("Deleted %d conversations.", len(conversations))))
		return nil

	case "stats":
		return sessionStats(conversations, args)

	default:
		return fmt.Errorf("unknown sessions subcommand: %s", args.Subcommand)
	}
}

// listSessions prints the saved conversations, most recent first.
func listSessions(conversations []*model.Conversation, currentID string, args Args) error {
	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(conversations)
	}

	if len(conversations) == 0 {
		fmt.Println(InfoStyle.Render("No saved conversations."))
		return nil
	}

	fmt.Println(TitleStyle.Render("Conversations"))
	for i, conv := range conversations {
		marker := " "
		if conv.ID == currentID {
			marker = "*"
		}
		fmt.Printf("%s %2d. %s %3d messages  %s\n",
			marker, i+1,
			util.PadRight(util.TruncateRunes(conv.Title, 50), 50),
			conv.MessageCount(),
			InfoStyle.Render(conv.CreatedAt.Format("2006-01-02 15:04")))
	}
	return nil
}

// showSession prints a conversation transcript.
func showSession(conv *model.Conversation) error {
	fmt.Println(TitleStyle.Render(conv.Title))
	fmt.Println(InfoStyle.Render(fmt.Sprintf("Created %s, %d messages",
		conv.CreatedAt.Format("2006-01-02 15:04"), conv.MessageCount())))
	fmt.Println()

	for _, msg := range conv.Messages {
		label := LabelStyle.Render(msg.Role.DisplayName() + ":")
		fmt.Printf("%s %s\n\n", label, WrapText(msg.Content, 0))
	}
	return nil
}

// exportSession writes a conversation to a file in the requested format.
func exportSession(conv *model.Conversation, format string) error {
	opts := export.DefaultOptions()

	var exporter export.Exporter
	switch format {
	case "", "md", "markdown":
		exporter = export.NewMarkdownExporter(opts)
	case "json":
		exporter = export.NewJSONExporter()
	default:
		return fmt.Errorf("unknown export format: %s (use md or json)", format)
	}

	path, err := export.ExportToFile(conv, exporter, opts)
	if err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("Exported to " + path))
	return nil
}

// deleteSession removes one conversation and persists the rest.
func deleteSession(store *storage.HistoryStore, conversations []*model.Conversation, currentID string, target *model.Conversation) error {
	remaining := make([]*model.Conversation, 0, len(conversations)-1)
	for _, conv := range conversations {
		if conv.ID != target.ID {
			remaining = append(remaining, conv)
		}
	}
	if currentID == target.ID {
		currentID = ""
		if len(remaining) > 0 {
			currentID = remaining[0].ID
		}
	}
	if err := store.Save(remaining, currentID); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("Deleted %q.", target.Title)))
	return nil
}

// searchSessions prints conversations whose title or messages match the
// query, case-insensitively.
func searchSessions(conversations []*model.Conversation, args Args) error {
	if args.Query == "" {
		return fmt.Errorf("usage: judith sessions search <query>")
	}
	needle := strings.ToLower(args.Query)

	var matches []*model.Conversation
	for _, conv := range conversations {
		if conversationMatches(conv, needle) {
			matches = append(matches, conv)
		}
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(matches)
	}
	if len(matches) == 0 {
		fmt.Println(InfoStyle.Render("No matches."))
		return nil
	}
	for i, conv := range matches {
		fmt.Printf("%2d. %s %3d messages  %s\n",
			i+1,
			util.PadRight(util.TruncateRunes(conv.Title, 50), 50),
			conv.MessageCount(),
			InfoStyle.Render(conv.CreatedAt.Format("2006-01-02 15:04")))
	}
	return nil
}

// conversationMatches reports whether the needle appears in the title or
// any message content.
func conversationMatches(conv *model.Conversation, needle string) bool {
	if strings.Contains(strings.ToLower(conv.Title), needle) {
		return true
	}
	for _, msg := range conv.Messages {
		if strings.Contains(strings.ToLower(msg.Content), needle) {
			return true
		}
	}
	return false
}

// sessionStats prints aggregate statistics.
func sessionStats(conversations []*model.Conversation, args Args) error {
	messages := 0
	for _, conv := range conversations {
		messages += conv.MessageCount()
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]int{
			"conversations": len(conversations),
			"messages":      messages,
		})
	}

	fmt.Printf("%s %d\n", LabelStyle.Render("Conversations:"), len(conversations))
	fmt.Printf("%s %d\n", LabelStyle.Render("Messages:"), messages)
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// resolveConversation finds a conversation by 1-based list position or by
// id prefix.
func resolveConversation(conversations []*model.Conversation, ref string) (*model.Conversation, error) {
	if ref == "" {
		return nil, fmt.Errorf("a conversation number or id is required")
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(conversations) {
			return nil, fmt.Errorf("conversation %d not found (have %d)", n, len(conversations))
		}
		return conversations[n-1], nil
	}

	for _, conv := range conversations {
		if strings.HasPrefix(conv.ID, ref) {
			return conv, nil
		}
	}
	return nil, fmt.Errorf("no conversation matches %q", ref)
}
