// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command handler for the judith CLI.
//
// Command: ask
// Short:   Ask a single question and print the reply
//
// Examples:
//   judith ask "What is a goroutine?"
//   judith ask "Summarize this:" --file notes.csv
//   judith ask --model gpt-4o "Explain context cancellation"
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/saikrishnarallabandi/judith-tui/internal/llm"
	"github.com/saikrishnarallabandi/judith-tui/internal/model"
)

// =============================================================================
// MARKDOWN OUTPUT
// =============================================================================

// markdownRenderer is the shared glamour renderer for CLI output.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content, falling back to the raw text.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse prints a reply, with markdown rendering when stdout is
// a terminal. Piped output stays plain for scripting.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
		return
	}
	fmt.Println(response)
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) error {
	if args.Query == "" {
		return fmt.Errorf("usage: judith ask \"your question\"")
	}

	cfg := loadConfig(args)
	completer, closer := BuildCompleter(cfg)
	if closer != nil {
		defer closer()
	}

	text := args.Query
	if args.File != "" {
		name, err := attachFile(args.File)
		if err != nil {
			return err
		}
		text = fmt.Sprintf("[FILE_CONTEXT: %s] %s", name, text)
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Backend.TimeoutSecs)*time.Second)
	defer cancel()

	history := []*model.Message{model.NewUserMessage(text)}
	reply := completer.Complete(ctx, history)

	if reply.Source == llm.SourceFallback && !args.Quiet {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("backend unreachable, replying offline"))
	}

	displayResponse(reply.Content)

	if args.Verbose {
		fmt.Fprintf(os.Stderr, "tokens: %d prompt + %d completion = %d total\n",
			reply.Usage.PromptTokens, reply.Usage.CompletionTokens, reply.Usage.TotalTokens)
	}
	return nil
}

// attachFile validates that the given file exists and returns its base name
// for the file-context tag.
func attachFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cannot read file %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	return info.Name(), nil
}
