// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the chat history to the local filesystem.
//
// The whole collection is written on every mutation: two entries under the
// data directory, conversations.json (ordered array, most recent first) and
// current.json (the selected conversation id, null when none). Reads absorb
// missing or corrupt data and hand back an empty history instead of an
// error; the in-memory state stays authoritative when a write fails.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/saikrishnarallabandi/judith-tui/internal/model"
	"github.com/saikrishnarallabandi/judith-tui/internal/util"
)

const (
	conversationsFile = "conversations.json"
	currentFile       = "current.json"
)

// =============================================================================
// HISTORY STORE
// =============================================================================

// HistoryStore handles persistence of the full conversation collection.
type HistoryStore struct {
	// BaseDir is the directory holding the history files.
	// Default: ~/.judith/
	BaseDir string
}

// currentState is the on-disk shape of the current-conversation pointer.
type currentState struct {
	CurrentID string `json:"current_id,omitempty"`
}

// NewHistoryStore creates a store rooted at ~/.judith.
func NewHistoryStore() (*HistoryStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewHistoryStoreWithDir(filepath.Join(homeDir, ".judith"))
}

// NewHistoryStoreWithDir creates a store with a custom directory.
func NewHistoryStoreWithDir(baseDir string) (*HistoryStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &HistoryStore{BaseDir: baseDir}, nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the persisted history. Missing or corrupt data yields an empty
// collection and no current id; Load never fails the caller.
func (s *HistoryStore) Load() ([]*model.Conversation, string) {
	conversations := s.loadConversations()
	currentID := s.loadCurrentID()

	// The pointer is only meaningful if it still names a conversation.
	if currentID != "" {
		found := false
		for _, conv := range conversations {
			if conv.ID == currentID {
				found = true
				break
			}
		}
		if !found {
			currentID = ""
		}
	}

	return conversations, currentID
}

func (s *HistoryStore) loadConversations() []*model.Conversation {
	data, err := os.ReadFile(filepath.Join(s.BaseDir, conversationsFile))
	if err != nil {
		return []*model.Conversation{}
	}

	var conversations []*model.Conversation
	if err := json.Unmarshal(data, &conversations); err != nil {
		return []*model.Conversation{}
	}

	// Corruption inside the array is absorbed too: entries without an id
	// cannot be selected or deleted, so they are dropped on load.
	valid := conversations[:0]
	for _, conv := range conversations {
		if conv != nil && conv.ID != "" {
			if conv.Messages == nil {
				conv.Messages = make([]*model.Message, 0)
			}
			valid = append(valid, conv)
		}
	}
	return valid
}

func (s *HistoryStore) loadCurrentID() string {
	data, err := os.ReadFile(filepath.Join(s.BaseDir, currentFile))
	if err != nil {
		return ""
	}
	var state currentState
	if err := json.Unmarshal(data, &state); err != nil {
		return ""
	}
	return state.CurrentID
}

// =============================================================================
// SAVE
// =============================================================================

// Save overwrites the persisted history wholesale. It is idempotent and is
// called after every mutation. Both files are written atomically with fsync
// so a crash never leaves a torn history behind.
func (s *HistoryStore) Save(conversations []*model.Conversation, currentID string) error {
	if conversations == nil {
		conversations = []*model.Conversation{}
	}

	data, err := json.MarshalIndent(conversations, "", "  ")
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(filepath.Join(s.BaseDir, conversationsFile), data, 0644); err != nil {
		return err
	}

	currentData, err := json.Marshal(currentState{CurrentID: currentID})
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(filepath.Join(s.BaseDir, currentFile), currentData, 0644)
}

// Clear removes the persisted history files.
func (s *HistoryStore) Clear() error {
	for _, name := range []string{conversationsFile, currentFile} {
		if err := os.Remove(filepath.Join(s.BaseDir, name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
