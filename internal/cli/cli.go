// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for judith.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdConfig
	CmdUpload
	CmdMemory
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Model   string
	BaseURL string

	// Command-specific
	Query      string
	File       string
	Format     string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `judith - terminal chat client for LLM backends

Judith is a conversation-centric chat client for the command line.

It provides:
  - A full-screen TUI with conversation history and sidebar
  - One-shot questions and an interactive REPL
  - File upload for data-aware conversations
  - A local memory store for recall across sessions
  - Offline fallback replies when the backend is unreachable

Usage:
  judith                         Start TUI (default)
  judith ask "question"          Ask a single question
  judith chat                    Interactive chat REPL
  judith sessions [subcommand]   Conversation management
  judith config [show|set|path]  Configuration
  judith upload <file>           Upload a data file to the backend
  judith memory [subcommand]     Memory store management
  judith version                 Show version

Session Commands:
  judith sessions list           List saved conversations
  judith sessions show <id>      Show a conversation transcript
  judith sessions search <text>  Search titles and messages
  judith sessions export <id>    Export a conversation
    --format md|json             Export format (default: md)
  judith sessions delete <id>    Delete a conversation
  judith sessions clear          Delete all conversations

Memory Commands:
  judith memory stats            Show memory store statistics
  judith memory search <query>   Search stored memories
  judith memory clear            Remove expired memories

Config Commands:
  judith config init             Write a default config file
  judith config show             Show current configuration
  judith config set <key> <val>  Set a configuration value
  judith config path             Print the config file path

Global Flags:
  -q, --quiet       Minimal output
  -v, --verbose     Debug output
  --model NAME      Override the configured model
  --base-url URL    Override the backend base URL
  --json            Output in JSON format

Examples:
  judith                                  Start the TUI
  judith ask "What is a goroutine?"       One-shot question
  judith ask "Summarize this:" --file notes.csv
  judith chat --model gpt-4o              REPL with a specific model
  judith sessions export 1 --format json  Export first conversation
  judith upload sales.csv                 Upload a data file

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("judith version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments. Split out from Parse for testing.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)

	// No remaining args: default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "ask":
		parseAskArgs(&parsed, remaining)
		return CmdAsk, parsed

	case "chat":
		parseChatArgs(&parsed, remaining)
		return CmdChat, parsed

	case "session", "sessions":
		parseSessionArgs(&parsed, remaining)
		return CmdSessions, parsed

	case "config":
		parseConfigArgs(&parsed, remaining)
		return CmdConfig, parsed

	case "upload":
		if len(remaining) > 0 {
			parsed.File = remaining[0]
		}
		return CmdUpload, parsed

	case "memory", "mem":
		parseMemoryArgs(&parsed, remaining)
		return CmdMemory, parsed

	case "version", "--version", "-V":
		return CmdVersion, parsed

	case "help", "--help", "-h":
		return CmdHelp, parsed

	default:
		// Unknown word: treat the whole remainder as an ask query.
		parseAskArgs(&parsed, append([]string{cmd}, remaining...))
		return CmdAsk, parsed
	}
}

// =============================================================================
// FLAG PARSING
// =============================================================================

// parseGlobalFlags extracts flags that apply to every command.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--model":
			if i+1 < len(args) {
				i++
				parsed.Model = args[i]
			}
		case "--base-url":
			if i+1 < len(args) {
				i++
				parsed.BaseURL = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--model="):
				parsed.Model = strings.TrimPrefix(arg, "--model=")
			case strings.HasPrefix(arg, "--base-url="):
				parsed.BaseURL = strings.TrimPrefix(arg, "--base-url=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsed
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-f", "--file":
			if i+1 < len(remaining) {
				i++
				args.File = remaining[i]
			}
		case "-m", "--model":
			if i+1 < len(remaining) {
				i++
				args.Model = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--file="):
				args.File = strings.TrimPrefix(arg, "--file=")
			case strings.HasPrefix(arg, "--model="):
				args.Model = strings.TrimPrefix(arg, "--model=")
			case !strings.HasPrefix(arg, "-"):
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// parseChatArgs parses chat command specific arguments.
func parseChatArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]

		switch arg {
		case "-m", "--model":
			if i+1 < len(remaining) {
				i++
				args.Model = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--model=") {
				args.Model = strings.TrimPrefix(arg, "--model=")
			}
		}
	}
}

// parseSessionArgs parses session command specific arguments.
func parseSessionArgs(args *Args, remaining []string) {
	var positional []string
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]

		switch arg {
		case "--format":
			if i+1 < len(remaining) {
				i++
				args.Format = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--format="):
				args.Format = strings.TrimPrefix(arg, "--format=")
			case !strings.HasPrefix(arg, "-"):
				positional = append(positional, arg)
			}
		}
	}

	if len(positional) > 0 {
		args.Subcommand = positional[0]
	}
	if len(positional) > 1 {
		args.ConfigKey = positional[1]
		args.Query = strings.Join(positional[1:], " ")
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
	}
	if len(remaining) > 1 {
		args.ConfigKey = remaining[1]
	}
	if len(remaining) > 2 {
		args.ConfigVal = remaining[2]
	}
}

// parseMemoryArgs parses memory command specific arguments.
func parseMemoryArgs(args *Args, remaining []string) {
	var positional []string
	for _, arg := range remaining {
		if !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
		}
	}
	if len(positional) > 0 {
		args.Subcommand = positional[0]
	}
	if len(positional) > 1 {
		args.Query = strings.Join(positional[1:], " ")
	}
}
