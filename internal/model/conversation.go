// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/saikrishnarallabandi/judith-tui/internal/util"
)

// DefaultTitle is the title of a conversation before its first message.
const DefaultTitle = "New Chat"

// TitleMaxRunes is the number of leading characters of the first user
// message used as the conversation title.
const TitleMaxRunes = 50

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an ordered, titled sequence of messages.
//
// Invariants:
//   - Messages grow by append only; insertion order is authoritative.
//   - Title is set exactly once, when the first message is appended, and is
//     never recomputed afterward.
type Conversation struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	Messages  []*Message `json:"messages"`
}

// NewConversation creates a new, empty conversation with the default title.
func NewConversation() *Conversation {
	return &Conversation{
		ID:        generateConversationID(),
		Title:     DefaultTitle,
		CreatedAt: time.Now(),
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message. If this is the conversation's first message
// the title is derived from its content; later appends never touch the title.
func (c *Conversation) AddMessage(msg *Message) {
	first := len(c.Messages) == 0
	c.Messages = append(c.Messages, msg)
	if first {
		c.Title = DeriveTitle(msg.Content)
	}
}

// AddUserMessage creates and appends a user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and appends an assistant message.
func (c *Conversation) AddAssistantMessage(content string) *Message {
	msg := NewAssistantMessage(content)
	c.AddMessage(msg)
	return msg
}

// Clone returns a copy that is safe to read while the original keeps
// growing. The message slice is copied; messages themselves are never
// mutated after they are appended, so sharing the pointers is fine.
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.Messages = make([]*Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return &out
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastUserMessage returns the most recent user message, or nil if none.
func (c *Conversation) LastUserMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i]
		}
	}
	return nil
}

// MessageCount returns the number of messages in the conversation.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// =============================================================================
// DISPLAY HELPERS
// =============================================================================

// DeriveTitle turns message text into a conversation title: collapsed to a
// single line, and marked with "..." when longer than TitleMaxRunes.
func DeriveTitle(text string) string {
	text = util.CollapseWhitespace(text)
	runes := []rune(text)
	if len(runes) > TitleMaxRunes {
		return string(runes[:TitleMaxRunes]) + "..."
	}
	return text
}

// CreatedGroup returns the display group for the conversation's creation
// time relative to now: "Today", "Yesterday", "N days ago" within a week,
// then the calendar date.
func (c *Conversation) CreatedGroup(now time.Time) string {
	created := c.CreatedAt.Local()
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	createdDay := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, now.Location())

	days := int(nowDay.Sub(createdDay).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days <= 7:
		return util.IntToString(days) + " days ago"
	default:
		return created.Format("Jan 2, 2006")
	}
}

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "conv_" + hex.EncodeToString(bytes)
}
