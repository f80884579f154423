// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package memory

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/saikrishnarallabandi/judith-tui/internal/llm"
	"github.com/saikrishnarallabandi/judith-tui/internal/model"
)

// =============================================================================
// MEMORY-ENHANCED COMPLETER
// =============================================================================

const basePrompt = "You are a helpful AI assistant with access to conversation " +
	"history and uploaded data. Provide clear, concise, and helpful responses."

// memoryKeywords mark a message as asking about stored memory rather than
// needing a model completion.
var memoryKeywords = []string{
	"what did we discuss", "what data", "previous files",
	"remember", "recall", "memory",
}

// recallKeywords trigger a search through past conversations.
var recallKeywords = []string{
	"remember when", "previous", "before", "earlier", "told", "said",
}

// Enhanced wraps a Completer with persistent memory. Memory questions are
// answered locally from the store; everything else gains a system message
// carrying relevant recalled context, and each finished exchange is stored
// for later recall.
type Enhanced struct {
	inner llm.Completer
	store *Store
}

// NewEnhanced wraps inner with the given memory store.
func NewEnhanced(inner llm.Completer, store *Store) *Enhanced {
	return &Enhanced{inner: inner, store: store}
}

// Complete implements llm.Completer.
func (e *Enhanced) Complete(ctx context.Context, history []*model.Message) llm.Reply {
	userMessage := latestUserContent(history)

	if reply, ok := e.answerFromMemory(userMessage); ok {
		if err := e.store.AddConversationTurn(userMessage, reply); err != nil {
			log.Printf("memory: failed to store turn: %v", err)
		}
		return llm.Reply{Content: reply, Source: llm.SourceMemory}
	}

	reply := e.inner.Complete(ctx, e.enhance(history, userMessage))

	if userMessage != "" && reply.Content != "" {
		if err := e.store.AddConversationTurn(userMessage, reply.Content); err != nil {
			log.Printf("memory: failed to store turn: %v", err)
		}
	}
	return reply
}

// RecordUpload stores an uploaded file's shape so later questions about
// "that file" can be answered.
func (e *Enhanced) RecordUpload(filename string, rows int, columns []string) {
	if err := e.store.AddFileData(filename, rows, columns); err != nil {
		log.Printf("memory: failed to store file data: %v", err)
	}
}

// enhance prepends a system message carrying recalled context. The original
// history is never mutated.
func (e *Enhanced) enhance(history []*model.Message, userMessage string) []*model.Message {
	content := basePrompt
	if userMessage != "" {
		memoryContext, err := e.store.Context(userMessage)
		if err != nil {
			log.Printf("memory: context lookup failed: %v", err)
		} else if memoryContext != "" {
			content += "\n\nRelevant context from previous conversations and data:\n" + memoryContext
		}
	}

	enhanced := make([]*model.Message, 0, len(history)+1)
	enhanced = append(enhanced, model.NewSystemMessage(content))
	for _, msg := range history {
		if msg.Role == model.RoleSystem {
			continue
		}
		enhanced = append(enhanced, msg)
	}
	return enhanced
}

// answerFromMemory handles questions about stored memory without calling
// the model. The bool reports whether the message was such a question.
func (e *Enhanced) answerFromMemory(userMessage string) (string, bool) {
	lower := strings.ToLower(userMessage)

	if containsAny(lower, memoryKeywords) {
		return e.summarizeMemory(), true
	}

	if containsAny(lower, recallKeywords) {
		matched, err := e.store.Search(userMessage, 3)
		if err != nil {
			log.Printf("memory: search failed: %v", err)
			return "", false
		}
		if len(matched) == 0 {
			return "", false
		}

		var sb strings.Builder
		sb.WriteString("I found some relevant previous conversations:\n\n")
		for i, entry := range matched {
			preview := strings.ReplaceAll(entry.Content, "\n", " ")
			if len(preview) > 200 {
				preview = preview[:200] + "..."
			}
			fmt.Fprintf(&sb, "%d. %s\n", i+1, preview)
		}
		sb.WriteString("\nIs this what you were referring to?")
		return sb.String(), true
	}

	return "", false
}

// summarizeMemory reports what the store holds plus the last day's topics.
func (e *Enhanced) summarizeMemory() string {
	stats, err := e.store.GetStats()
	if err != nil {
		log.Printf("memory: stats failed: %v", err)
		return "I don't have any memories stored yet."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "I have %d memories stored. ", stats.Total)

	recent, err := e.store.Recent(24 * time.Hour)
	if err == nil && len(recent) > 0 {
		sb.WriteString("In the last 24 hours, we've discussed:\n")
		for i, entry := range recent {
			if i >= 3 {
				break
			}
			preview := strings.ReplaceAll(entry.Content, "\n", " ")
			if len(preview) > 100 {
				preview = preview[:100]
			}
			fmt.Fprintf(&sb, "- %s...\n", preview)
		}
	} else {
		sb.WriteString("No recent conversations found.")
	}
	return sb.String()
}

// =============================================================================
// HELPERS
// =============================================================================

func latestUserContent(history []*model.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == model.RoleUser {
			return history[i].Content
		}
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
