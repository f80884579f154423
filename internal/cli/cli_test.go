// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/saikrishnarallabandi/judith-tui/internal/model"
)

func TestParseArgs_DefaultIsTUI(t *testing.T) {
	cmd, _ := ParseArgs(nil)
	if cmd != CmdTUI {
		t.Errorf("command = %v, want CmdTUI", cmd)
	}
}

func TestParseArgs_Ask(t *testing.T) {
	cmd, args := ParseArgs([]string{"ask", "what", "is", "go"})
	if cmd != CmdAsk {
		t.Fatalf("command = %v, want CmdAsk", cmd)
	}
	if args.Query != "what is go" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParseArgs_AskWithFile(t *testing.T) {
	cmd, args := ParseArgs([]string{"ask", "summarize", "--file", "notes.csv"})
	if cmd != CmdAsk {
		t.Fatalf("command = %v, want CmdAsk", cmd)
	}
	if args.File != "notes.csv" {
		t.Errorf("file = %q", args.File)
	}
	if args.Query != "summarize" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--model", "gpt-4o", "--json", "-q", "chat"})
	if cmd != CmdChat {
		t.Fatalf("command = %v, want CmdChat", cmd)
	}
	if args.Model != "gpt-4o" {
		t.Errorf("model = %q", args.Model)
	}
	if !args.JSON || !args.Quiet {
		t.Errorf("JSON=%v Quiet=%v, want both true", args.JSON, args.Quiet)
	}
}

func TestParseArgs_ModelEqualsForm(t *testing.T) {
	_, args := ParseArgs([]string{"--model=llama3", "ask", "hi"})
	if args.Model != "llama3" {
		t.Errorf("model = %q", args.Model)
	}
}

func TestParseArgs_SessionsExport(t *testing.T) {
	cmd, args := ParseArgs([]string{"sessions", "export", "1", "--format", "json"})
	if cmd != CmdSessions {
		t.Fatalf("command = %v, want CmdSessions", cmd)
	}
	if args.Subcommand != "export" {
		t.Errorf("subcommand = %q", args.Subcommand)
	}
	if args.ConfigKey != "1" {
		t.Errorf("ref = %q", args.ConfigKey)
	}
	if args.Format != "json" {
		t.Errorf("format = %q", args.Format)
	}
}

func TestParseArgs_ConfigSet(t *testing.T) {
	cmd, args := ParseArgs([]string{"config", "set", "model", "gpt-4o-mini"})
	if cmd != CmdConfig {
		t.Fatalf("command = %v, want CmdConfig", cmd)
	}
	if args.Subcommand != "set" || args.ConfigKey != "model" || args.ConfigVal != "gpt-4o-mini" {
		t.Errorf("parsed = %q %q %q", args.Subcommand, args.ConfigKey, args.ConfigVal)
	}
}

func TestParseArgs_Upload(t *testing.T) {
	cmd, args := ParseArgs([]string{"upload", "sales.csv"})
	if cmd != CmdUpload {
		t.Fatalf("command = %v, want CmdUpload", cmd)
	}
	if args.File != "sales.csv" {
		t.Errorf("file = %q", args.File)
	}
}

func TestParseArgs_MemorySearch(t *testing.T) {
	cmd, args := ParseArgs([]string{"memory", "search", "sales", "data"})
	if cmd != CmdMemory {
		t.Fatalf("command = %v, want CmdMemory", cmd)
	}
	if args.Subcommand != "search" {
		t.Errorf("subcommand = %q", args.Subcommand)
	}
	if args.Query != "sales data" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParseArgs_BareQueryBecomesAsk(t *testing.T) {
	cmd, args := ParseArgs([]string{"how", "do", "channels", "work"})
	if cmd != CmdAsk {
		t.Fatalf("command = %v, want CmdAsk", cmd)
	}
	if args.Query != "how do channels work" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParseArgs_Version(t *testing.T) {
	cmd, _ := ParseArgs([]string{"version"})
	if cmd != CmdVersion {
		t.Errorf("command = %v, want CmdVersion", cmd)
	}
}

func TestParseArgs_SessionsSearchQuery(t *testing.T) {
	cmd, args := ParseArgs([]string{"sessions", "search", "sales", "report"})
	if cmd != CmdSessions {
		t.Fatalf("command = %v, want CmdSessions", cmd)
	}
	if args.Subcommand != "search" {
		t.Errorf("subcommand = %q", args.Subcommand)
	}
	if args.Query != "sales report" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestConversationMatches(t *testing.T) {
	conv := model.NewConversation()
	conv.AddMessage(model.NewUserMessage("Tell me about the Quarterly Report"))
	conv.AddMessage(model.NewAssistantMessage("It shows strong growth."))

	if !conversationMatches(conv, "quarterly") {
		t.Error("title match failed")
	}
	if !conversationMatches(conv, "strong growth") {
		t.Error("message content match failed")
	}
	if conversationMatches(conv, "unrelated") {
		t.Error("unexpected match")
	}
}

func TestWrapText(t *testing.T) {
	wrapped := WrapText("one two three four five six seven eight", 14)
	if wrapped == "" {
		t.Fatal("empty result")
	}
	for _, line := range splitLines(wrapped) {
		if len(line) > 14 {
			t.Errorf("line %q exceeds width", line)
		}
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
