// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package memory

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/saikrishnarallabandi/judith-tui/internal/llm"
	"github.com/saikrishnarallabandi/judith-tui/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "memory.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// =============================================================================
// STORE
// =============================================================================

func TestStore_AddAndRecent(t *testing.T) {
	store := newTestStore(t)

	if err := store.AddConversationTurn("hello", "hi there"); err != nil {
		t.Fatalf("AddConversationTurn failed: %v", err)
	}
	if err := store.AddFileData("sales.csv", 120, []string{"date", "revenue"}); err != nil {
		t.Fatalf("AddFileData failed: %v", err)
	}

	entries, err := store.Recent(time.Hour)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Recent returned %d entries, want 2", len(entries))
	}
}

func TestStore_RecentFiltersTypes(t *testing.T) {
	store := newTestStore(t)
	store.AddConversationTurn("q", "a")
	store.AddFileData("data.json", 3, []string{"a"})

	entries, err := store.Recent(time.Hour, TypeFileData)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Type != TypeFileData {
		t.Errorf("Expected only file_data entries, got %v", entries)
	}
}

func TestStore_Search(t *testing.T) {
	store := newTestStore(t)
	store.AddConversationTurn("how do I parse CSV in Go", "use encoding/csv")
	store.AddConversationTurn("what's the weather", "no idea")

	entries, err := store.Search("csv parsing", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("Expected at least one match")
	}
	if !strings.Contains(entries[0].Content, "CSV") {
		t.Errorf("Unexpected match: %q", entries[0].Content)
	}
}

func TestStore_SearchEscapesWildcards(t *testing.T) {
	store := newTestStore(t)
	store.AddConversationTurn("plain text", "ok")

	entries, err := store.Search("100%", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(entries) != 0 {
		t.Error("Literal % must not match everything")
	}
}

func TestStore_Stats(t *testing.T) {
	store := newTestStore(t)
	store.AddConversationTurn("a", "b")
	store.AddConversationTurn("c", "d")
	store.AddFileData("f.csv", 1, nil)

	stats, err := store.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if stats.ByType[TypeConversation] != 2 {
		t.Errorf("Conversation count = %d, want 2", stats.ByType[TypeConversation])
	}
}

func TestStore_Context(t *testing.T) {
	store := newTestStore(t)
	store.AddConversationTurn("tell me about goroutines", "they are lightweight threads")

	ctx, err := store.Context("goroutines")
	if err != nil {
		t.Fatalf("Context failed: %v", err)
	}
	if !strings.Contains(ctx, "[CONVERSATION]") {
		t.Errorf("Context missing type tag: %q", ctx)
	}
	if !strings.Contains(ctx, "goroutines") {
		t.Errorf("Context missing matched content: %q", ctx)
	}
}

func TestStore_ContextCapped(t *testing.T) {
	store := newTestStore(t)
	long := strings.Repeat("x", 900)
	for i := 0; i < 5; i++ {
		store.AddConversationTurn(long, "ok")
	}

	ctx, err := store.Context("xxx")
	if err != nil {
		t.Fatalf("Context failed: %v", err)
	}
	if len(ctx) > maxContextLength+10 {
		t.Errorf("Context length = %d, want <= %d", len(ctx), maxContextLength)
	}
}

func TestStore_ClearOlderThan(t *testing.T) {
	store := newTestStore(t)
	store.AddConversationTurn("fresh", "entry")

	removed, err := store.ClearOlderThan(24 * time.Hour)
	if err != nil {
		t.Fatalf("ClearOlderThan failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("Removed %d fresh entries", removed)
	}

	removed, err = store.ClearOlderThan(-time.Hour)
	if err != nil {
		t.Fatalf("ClearOlderThan failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Removed = %d, want 1", removed)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	store.AddConversationTurn("persist me", "done")
	store.Close()

	store2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store2.Close()

	stats, err := store2.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 1 {
		t.Errorf("Total after reopen = %d, want 1", stats.Total)
	}
}

// =============================================================================
// ENHANCED COMPLETER
// =============================================================================

type recordingCompleter struct {
	reply   string
	history []*model.Message
	calls   int
}

func (r *recordingCompleter) Complete(ctx context.Context, history []*model.Message) llm.Reply {
	r.calls++
	r.history = history
	return llm.Reply{Content: r.reply, Source: llm.SourceRemote}
}

func userTurn(content string) []*model.Message {
	return []*model.Message{model.NewUserMessage(content)}
}

func TestEnhanced_InjectsSystemMessage(t *testing.T) {
	store := newTestStore(t)
	inner := &recordingCompleter{reply: "answer"}
	enhanced := NewEnhanced(inner, store)

	reply := enhanced.Complete(context.Background(), userTurn("explain channels"))

	if reply.Content != "answer" {
		t.Errorf("Content = %q", reply.Content)
	}
	if len(inner.history) != 2 {
		t.Fatalf("Inner history length = %d, want 2", len(inner.history))
	}
	if inner.history[0].Role != model.RoleSystem {
		t.Error("First message must be the system prompt")
	}
	if inner.history[1].Content != "explain channels" {
		t.Error("User message must follow the system prompt")
	}
}

func TestEnhanced_ContextReachesSystemMessage(t *testing.T) {
	store := newTestStore(t)
	store.AddConversationTurn("we talked about kubernetes", "yes we did")
	inner := &recordingCompleter{reply: "answer"}
	enhanced := NewEnhanced(inner, store)

	enhanced.Complete(context.Background(), userTurn("more about kubernetes please"))

	if !strings.Contains(inner.history[0].Content, "kubernetes") {
		t.Error("Recalled context must appear in the system message")
	}
}

func TestEnhanced_StoresTurn(t *testing.T) {
	store := newTestStore(t)
	enhanced := NewEnhanced(&recordingCompleter{reply: "the answer"}, store)

	enhanced.Complete(context.Background(), userTurn("a question"))

	stats, _ := store.GetStats()
	if stats.ByType[TypeConversation] != 1 {
		t.Errorf("Stored turns = %d, want 1", stats.ByType[TypeConversation])
	}
}

func TestEnhanced_MemoryQueryShortCircuits(t *testing.T) {
	store := newTestStore(t)
	store.AddConversationTurn("we discussed Go generics", "indeed")
	inner := &recordingCompleter{reply: "should not be used"}
	enhanced := NewEnhanced(inner, store)

	reply := enhanced.Complete(context.Background(), userTurn("what did we discuss recently?"))

	if inner.calls != 0 {
		t.Error("Memory questions must not reach the model")
	}
	if reply.Source != llm.SourceMemory {
		t.Errorf("Source = %q, want memory", reply.Source)
	}
	if !strings.Contains(reply.Content, "memories stored") {
		t.Errorf("Unexpected summary: %q", reply.Content)
	}
}

func TestEnhanced_RecallQuerySearches(t *testing.T) {
	store := newTestStore(t)
	store.AddConversationTurn("the deploy failed on friday", "rolled back")
	inner := &recordingCompleter{reply: "unused"}
	enhanced := NewEnhanced(inner, store)

	reply := enhanced.Complete(context.Background(), userTurn("earlier the deploy failed, what happened?"))

	if inner.calls != 0 {
		t.Error("Recall questions with matches must not reach the model")
	}
	if !strings.Contains(reply.Content, "deploy failed") {
		t.Errorf("Expected recalled content, got %q", reply.Content)
	}
}

func TestEnhanced_RecallWithoutMatchesFallsThrough(t *testing.T) {
	store := newTestStore(t)
	inner := &recordingCompleter{reply: "model answer"}
	enhanced := NewEnhanced(inner, store)

	reply := enhanced.Complete(context.Background(), userTurn("earlier zzqqxx happened"))

	if inner.calls != 1 {
		t.Error("Unmatched recall must fall through to the model")
	}
	if reply.Content != "model answer" {
		t.Errorf("Content = %q", reply.Content)
	}
}
