// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/saikrishnarallabandi/judith-tui/internal/config"
	"github.com/saikrishnarallabandi/judith-tui/internal/llm"
	"github.com/saikrishnarallabandi/judith-tui/internal/model"
	"github.com/saikrishnarallabandi/judith-tui/internal/session"
	"github.com/saikrishnarallabandi/judith-tui/internal/storage"
	"github.com/saikrishnarallabandi/judith-tui/internal/upload"
)

type cannedCompleter struct{}

func (cannedCompleter) Complete(_ context.Context, _ []*model.Message) llm.Reply {
	return llm.Reply{Content: "ok", Source: llm.SourceFallback}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	store, err := storage.NewHistoryStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewHistoryStore: %v", err)
	}
	manager := session.NewManager(store, cannedCompleter{})
	return NewModel(config.Default(), manager, upload.New("http://localhost:8000"))
}

func TestClampSidebarCursor(t *testing.T) {
	m := newTestModel(t)

	m.sidebarCursor = 5
	m.clampSidebarCursor()
	if m.sidebarCursor != 0 {
		t.Errorf("cursor on empty list = %d, want 0", m.sidebarCursor)
	}

	m.manager.NewConversation()
	m.manager.NewConversation()
	m.sidebarCursor = 7
	m.clampSidebarCursor()
	if m.sidebarCursor != 1 {
		t.Errorf("cursor = %d, want 1", m.sidebarCursor)
	}

	m.sidebarCursor = -2
	m.clampSidebarCursor()
	if m.sidebarCursor != 0 {
		t.Errorf("cursor = %d, want 0", m.sidebarCursor)
	}
}

func TestSidebarShown_RespectsWidth(t *testing.T) {
	m := newTestModel(t)
	m.sidebarVisible = true

	m.width = 120
	if !m.sidebarShown() {
		t.Error("sidebar should be shown at width 120")
	}

	m.width = 60
	if m.sidebarShown() {
		t.Error("sidebar should be hidden at width 60")
	}
}

func TestThreadWidth_AccountsForSidebar(t *testing.T) {
	m := newTestModel(t)
	m.width = 120
	m.sidebarVisible = true

	with := m.threadWidth()
	m.sidebarVisible = false
	without := m.threadWidth()

	if without <= with {
		t.Errorf("thread width without sidebar (%d) should exceed with (%d)", without, with)
	}
}

func TestDescribeUpload(t *testing.T) {
	msg := uploadMsg{
		filename: "sales.csv",
		result:   &upload.Result{Filename: "sales.csv", Shape: []int{120, 4}, Columns: []string{"a", "b", "c", "d"}},
	}
	got := describeUpload(msg)
	if !strings.Contains(got, "sales.csv") || !strings.Contains(got, "120 rows") {
		t.Errorf("describeUpload = %q", got)
	}

	bare := describeUpload(uploadMsg{filename: "notes.json"})
	if bare != "Uploaded notes.json" {
		t.Errorf("describeUpload without result = %q", bare)
	}
}

func TestHandleSlashCommand_UnknownPushesToast(t *testing.T) {
	m := newTestModel(t)
	_, handled := m.handleSlashCommand("/bogus")
	if !handled {
		t.Fatal("unknown slash command should be consumed")
	}
}

func TestHandleSlashCommand_PlainTextNotConsumed(t *testing.T) {
	m := newTestModel(t)
	_, handled := m.handleSlashCommand("hello there")
	if handled {
		t.Fatal("plain text must not be treated as a command")
	}
}

func TestHandleSlashCommand_NewCreatesConversation(t *testing.T) {
	m := newTestModel(t)
	_, handled := m.handleSlashCommand("/new")
	if !handled {
		t.Fatal("/new should be consumed")
	}
	if len(m.manager.Conversations()) != 1 {
		t.Fatalf("conversations = %d, want 1", len(m.manager.Conversations()))
	}
}

func TestRenderThread_EmptyShowsWelcome(t *testing.T) {
	m := newTestModel(t)
	m.width = 100
	m.viewport.Height = 20

	out := m.renderThread()
	if !strings.Contains(out, "judith") {
		t.Error("empty thread should render the welcome screen")
	}
}
