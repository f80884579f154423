// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session coordinates user input, the history store, and the
// completion client. The Manager owns the conversation collection and the
// transient UI state (current id, loading flag, pending file-context
// token); failures never propagate past it — the UI only ever sees the
// loading flag and an occasional transient notification.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/saikrishnarallabandi/judith-tui/internal/llm"
	"github.com/saikrishnarallabandi/judith-tui/internal/model"
	"github.com/saikrishnarallabandi/judith-tui/internal/storage"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrBusy is returned when a send arrives while another is in flight.
	// Overlapping sends are refused so the user/assistant alternation of a
	// conversation can never interleave.
	ErrBusy = errors.New("a message is already being sent")

	// ErrCompletionFailed is returned when the completion pipeline violates
	// its contract (it must never fail). The user message stays appended;
	// no assistant message is synthesized.
	ErrCompletionFailed = errors.New("failed to get response, please try again")
)

// =============================================================================
// MANAGER
// =============================================================================

// Manager is the conversation orchestrator.
//
// The collection is ordered most-recent-first: new conversations are
// inserted at the front, and that order is both the display order and the
// persisted order. Every mutation is followed by a save attempt before the
// call returns; save failures are logged and swallowed, leaving the
// in-memory state authoritative for the session.
type Manager struct {
	mu sync.Mutex

	sessionID string
	store     *storage.HistoryStore
	completer llm.Completer

	conversations []*model.Conversation
	currentID     string

	loading     bool
	fileContext string
	lastSource  llm.Source
}

// NewManager creates a manager and loads the persisted history.
func NewManager(store *storage.HistoryStore, completer llm.Completer) *Manager {
	conversations, currentID := store.Load()
	return &Manager{
		sessionID:     uuid.NewString(),
		store:         store,
		completer:     completer,
		conversations: conversations,
		currentID:     currentID,
	}
}

// SessionID returns the identifier of this process's session.
func (m *Manager) SessionID() string {
	return m.sessionID
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Conversations returns a snapshot of the collection, most recent first.
// The returned conversations are copies: a send completing on another
// goroutine never mutates what a caller is reading.
func (m *Manager) Conversations() []*model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Conversation, len(m.conversations))
	for i, conv := range m.conversations {
		out[i] = conv.Clone()
	}
	return out
}

// CurrentID returns the current conversation id, or "" when none.
func (m *Manager) CurrentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentID
}

// Current returns a snapshot of the current conversation, or nil when none.
func (m *Manager) Current() *model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conv := m.findLocked(m.currentID); conv != nil {
		return conv.Clone()
	}
	return nil
}

// Get returns a snapshot of the conversation with the given id, or nil.
func (m *Manager) Get(id string) *model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conv := m.findLocked(id); conv != nil {
		return conv.Clone()
	}
	return nil
}

// Loading reports whether a send is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// LastSource reports which path produced the most recent reply, or "" when
// no reply has been produced this session.
func (m *Manager) LastSource() llm.Source {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSource
}

// =============================================================================
// FILE CONTEXT
// =============================================================================

// SetFileContext records an uploaded file's token. While present, sent
// message text is prefixed with a bracketed marker so the completion
// request carries file awareness.
func (m *Manager) SetFileContext(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fileContext = strings.TrimSpace(token)
}

// FileContext returns the pending file-context token, or "".
func (m *Manager) FileContext() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fileContext
}

// ClearFileContext drops the pending token.
func (m *Manager) ClearFileContext() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fileContext = ""
}

// =============================================================================
// CONVERSATION LIFECYCLE
// =============================================================================

// NewConversation inserts a new empty conversation at the front of the
// collection and makes it current. The returned value is a snapshot, like
// the read accessors.
func (m *Manager) NewConversation() *model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv := model.NewConversation()
	m.conversations = append([]*model.Conversation{conv}, m.conversations...)
	m.currentID = conv.ID
	m.persistLocked()
	return conv.Clone()
}

// Select makes the conversation with the given id current. Unknown ids are
// a no-op.
func (m *Manager) Select(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findLocked(id) == nil {
		return
	}
	m.currentID = id
	m.persistLocked()
}

// Delete removes the conversation with the given id. Deleting the current
// conversation selects the front-most remaining one, or none.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, conv := range m.conversations {
		if conv.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	m.conversations = append(m.conversations[:idx], m.conversations[idx+1:]...)
	if m.currentID == id {
		if len(m.conversations) > 0 {
			m.currentID = m.conversations[0].ID
		} else {
			m.currentID = ""
		}
	}
	m.persistLocked()
}

// =============================================================================
// SEND
// =============================================================================

// SendMessage appends the user's text to the current conversation (creating
// one if needed), invokes the completion client with the full history, and
// appends exactly one assistant message.
//
// Empty or whitespace-only text is silently rejected. A send while another
// is in flight returns ErrBusy. A panicking completer is recovered into
// ErrCompletionFailed with the conversation left consistent: user message
// present, no assistant message.
func (m *Manager) SendMessage(ctx context.Context, text string) (*model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		return nil, ErrBusy
	}
	m.loading = true

	if token := m.fileContext; token != "" {
		text = fmt.Sprintf("[FILE_CONTEXT: %s] %s", token, text)
	}

	conv := m.findLocked(m.currentID)
	if conv == nil {
		conv = model.NewConversation()
		m.conversations = append([]*model.Conversation{conv}, m.conversations...)
		m.currentID = conv.ID
	}
	convID := conv.ID

	// Optimistic append: the user's message is visible and persisted
	// before the reply is known.
	conv.AddUserMessage(text)
	m.persistLocked()

	history := make([]*model.Message, len(conv.Messages))
	copy(history, conv.Messages)
	m.mu.Unlock()

	// The completion call is the sole suspension point; the lock is not
	// held while it runs.
	reply, err := m.invokeCompleter(ctx, history)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false

	if err != nil {
		log.Printf("completion pipeline violated its contract: %v", err)
		return nil, ErrCompletionFailed
	}

	conv = m.findLocked(convID)
	if conv == nil {
		// Conversation was deleted while the reply was pending; the reply
		// has nowhere to go.
		return nil, nil
	}
	assistant := conv.AddAssistantMessage(reply.Content)
	m.lastSource = reply.Source
	m.persistLocked()
	return assistant, nil
}

// invokeCompleter calls the completer, converting a panic (contract
// violation) or an empty reply into an error.
func (m *Manager) invokeCompleter(ctx context.Context, history []*model.Message) (reply llm.Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("completer panicked: %v", r)
		}
	}()

	reply = m.completer.Complete(ctx, history)
	if reply.Content == "" {
		err = errors.New("completer returned an empty reply")
	}
	return reply, err
}

// =============================================================================
// INTERNAL
// =============================================================================

// findLocked returns the conversation with the given id. Caller holds mu.
func (m *Manager) findLocked(id string) *model.Conversation {
	if id == "" {
		return nil
	}
	for _, conv := range m.conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}

// persistLocked writes the whole collection. Write errors are logged and
// swallowed: the in-memory state stays authoritative. Caller holds mu.
func (m *Manager) persistLocked() {
	if err := m.store.Save(m.conversations, m.currentID); err != nil {
		log.Printf("failed to persist history: %v", err)
	}
}
