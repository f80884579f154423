// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage(t *testing.T) {
	msg := NewUserMessage("Hello")

	if msg.ID == "" {
		t.Error("Expected non-empty ID")
	}
	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("ID should start with 'msg_', got %q", msg.ID)
	}
	if msg.Role != RoleUser {
		t.Errorf("Role = %q, want %q", msg.Role, RoleUser)
	}
	if msg.Content != "Hello" {
		t.Errorf("Content = %q, want %q", msg.Content, "Hello")
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestMessageIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		msg := NewUserMessage("x")
		if seen[msg.ID] {
			t.Fatalf("Duplicate message ID: %q", msg.ID)
		}
		seen[msg.ID] = true
	}
}

func TestRoleDisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Assistant"},
		{RoleSystem, "System"},
		{Role("other"), "other"},
	}
	for _, tt := range tests {
		if got := tt.role.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestNewConversation(t *testing.T) {
	conv := NewConversation()

	if !strings.HasPrefix(conv.ID, "conv_") {
		t.Errorf("ID should start with 'conv_', got %q", conv.ID)
	}
	if conv.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", conv.Title, DefaultTitle)
	}
	if len(conv.Messages) != 0 {
		t.Errorf("Expected empty messages, got %d", len(conv.Messages))
	}
}

func TestConversation_TitleSetOnFirstMessage(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("What is the capital of France?")

	if conv.Title != "What is the capital of France?" {
		t.Errorf("Title = %q", conv.Title)
	}
}

func TestConversation_TitleNeverRecomputed(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("First message")
	conv.AddAssistantMessage("Reply")
	conv.AddUserMessage("Second message that should not become the title")

	if conv.Title != "First message" {
		t.Errorf("Title = %q, want %q", conv.Title, "First message")
	}
}

func TestConversation_AppendOrder(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("one")
	conv.AddAssistantMessage("two")
	conv.AddUserMessage("three")

	want := []string{"one", "two", "three"}
	if len(conv.Messages) != len(want) {
		t.Fatalf("MessageCount = %d, want %d", len(conv.Messages), len(want))
	}
	for i, w := range want {
		if conv.Messages[i].Content != w {
			t.Errorf("Messages[%d].Content = %q, want %q", i, conv.Messages[i].Content, w)
		}
	}
}

func TestConversation_LastMessages(t *testing.T) {
	conv := NewConversation()
	if conv.LastMessage() != nil {
		t.Error("LastMessage on empty conversation should be nil")
	}
	if conv.LastUserMessage() != nil {
		t.Error("LastUserMessage on empty conversation should be nil")
	}

	conv.AddUserMessage("question")
	conv.AddAssistantMessage("answer")

	if got := conv.LastMessage().Content; got != "answer" {
		t.Errorf("LastMessage = %q", got)
	}
	if got := conv.LastUserMessage().Content; got != "question" {
		t.Errorf("LastUserMessage = %q", got)
	}
}

// =============================================================================
// TITLE DERIVATION TESTS
// =============================================================================

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short", "Hello there", "Hello there"},
		{"exactly 50", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"truncated", strings.Repeat("a", 51), strings.Repeat("a", 50) + "..."},
		{"newlines collapsed", "line one\nline two", "line one line two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.input); got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDeriveTitle_Unicode(t *testing.T) {
	input := strings.Repeat("日", 60)
	got := DeriveTitle(input)
	if got != strings.Repeat("日", 50)+"..." {
		t.Errorf("DeriveTitle unicode truncation wrong: %q", got)
	}
}

// =============================================================================
// DATE GROUPING TESTS
// =============================================================================

func TestCreatedGroup(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		created time.Time
		want    string
	}{
		{"today", now.Add(-2 * time.Hour), "Today"},
		{"yesterday", now.AddDate(0, 0, -1), "Yesterday"},
		{"three days", now.AddDate(0, 0, -3), "3 days ago"},
		{"seven days", now.AddDate(0, 0, -7), "7 days ago"},
		{"beyond a week", now.AddDate(0, 0, -10), "Jun 5, 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &Conversation{CreatedAt: tt.created}
			if got := conv.CreatedGroup(now); got != tt.want {
				t.Errorf("CreatedGroup = %q, want %q", got, tt.want)
			}
		})
	}
}
