// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/saikrishnarallabandi/judith-tui/internal/model"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := NewHistoryStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func sampleHistory() []*model.Conversation {
	first := model.NewConversation()
	first.AddUserMessage("How do I sort a slice in Go?")
	first.AddAssistantMessage("Use sort.Slice with a less function.")

	second := model.NewConversation()
	second.AddUserMessage("Hello")

	return []*model.Conversation{second, first}
}

// =============================================================================
// ROUND-TRIP
// =============================================================================

func TestHistoryStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	conversations := sampleHistory()
	currentID := conversations[0].ID

	if err := store.Save(conversations, currentID); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, loadedCurrent := store.Load()

	if loadedCurrent != currentID {
		t.Errorf("currentID = %q, want %q", loadedCurrent, currentID)
	}
	if len(loaded) != len(conversations) {
		t.Fatalf("Loaded %d conversations, want %d", len(loaded), len(conversations))
	}
	for i, conv := range conversations {
		if loaded[i].ID != conv.ID {
			t.Errorf("conversation %d: ID = %q, want %q (order must survive)", i, loaded[i].ID, conv.ID)
		}
		if loaded[i].Title != conv.Title {
			t.Errorf("conversation %d: Title = %q, want %q", i, loaded[i].Title, conv.Title)
		}
		if len(loaded[i].Messages) != len(conv.Messages) {
			t.Fatalf("conversation %d: %d messages, want %d", i, len(loaded[i].Messages), len(conv.Messages))
		}
		for j, msg := range conv.Messages {
			got := loaded[i].Messages[j]
			if got.ID != msg.ID || got.Role != msg.Role || got.Content != msg.Content {
				t.Errorf("conversation %d message %d mismatch: got %+v want %+v", i, j, got, msg)
			}
		}
	}
}

func TestHistoryStore_RoundTripNewProcess(t *testing.T) {
	dir := t.TempDir()
	store, err := NewHistoryStoreWithDir(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	conversations := sampleHistory()
	if err := store.Save(conversations, conversations[1].ID); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A fresh store over the same directory models a process restart.
	reopened, err := NewHistoryStoreWithDir(dir)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	loaded, currentID := reopened.Load()

	if len(loaded) != 2 {
		t.Fatalf("Loaded %d conversations, want 2", len(loaded))
	}
	if currentID != conversations[1].ID {
		t.Errorf("currentID = %q, want %q", currentID, conversations[1].ID)
	}
}

// =============================================================================
// MISSING AND CORRUPT DATA
// =============================================================================

func TestHistoryStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	conversations, currentID := store.Load()
	if len(conversations) != 0 {
		t.Errorf("Expected empty collection, got %d", len(conversations))
	}
	if currentID != "" {
		t.Errorf("Expected no current id, got %q", currentID)
	}
}

func TestHistoryStore_LoadCorrupt(t *testing.T) {
	store := newTestStore(t)

	if err := os.WriteFile(filepath.Join(store.BaseDir, "conversations.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(store.BaseDir, "current.json"), []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	conversations, currentID := store.Load()
	if len(conversations) != 0 {
		t.Errorf("Corrupt data should yield empty collection, got %d", len(conversations))
	}
	if currentID != "" {
		t.Errorf("Corrupt data should yield no current id, got %q", currentID)
	}
}

func TestHistoryStore_DanglingCurrentID(t *testing.T) {
	store := newTestStore(t)
	conversations := sampleHistory()

	if err := store.Save(conversations, "conv_doesnotexist"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, currentID := store.Load()
	if currentID != "" {
		t.Errorf("Dangling current id should be cleared on load, got %q", currentID)
	}
}

// =============================================================================
// OVERWRITE SEMANTICS
// =============================================================================

func TestHistoryStore_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	conversations := sampleHistory()

	if err := store.Save(conversations, conversations[0].ID); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// Second save with a single conversation replaces the first wholesale.
	if err := store.Save(conversations[:1], conversations[0].ID); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	loaded, _ := store.Load()
	if len(loaded) != 1 {
		t.Errorf("Loaded %d conversations, want 1", len(loaded))
	}
}

func TestHistoryStore_SaveEmpty(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(nil, ""); err != nil {
		t.Fatalf("Save of empty history failed: %v", err)
	}

	loaded, currentID := store.Load()
	if len(loaded) != 0 || currentID != "" {
		t.Errorf("Expected empty history, got %d conversations, current %q", len(loaded), currentID)
	}
}

func TestHistoryStore_Clear(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(sampleHistory(), ""); err != nil {
		t.Fatal(err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.BaseDir, "conversations.json")); !os.IsNotExist(err) {
		t.Error("conversations.json should be removed")
	}
	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("Second clear failed: %v", err)
	}
}
