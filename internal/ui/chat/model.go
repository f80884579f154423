// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/saikrishnarallabandi/judith-tui/internal/config"
	"github.com/saikrishnarallabandi/judith-tui/internal/session"
	"github.com/saikrishnarallabandi/judith-tui/internal/ui/components"
	"github.com/saikrishnarallabandi/judith-tui/internal/ui/styles"
	"github.com/saikrishnarallabandi/judith-tui/internal/upload"
)

// =============================================================================
// LAYOUT CONSTANTS
// =============================================================================

const (
	// sidebarWidth is the fixed width of the conversation list.
	sidebarWidth = 28

	// sidebarMinTermWidth is the terminal width below which the sidebar
	// is hidden regardless of its toggle state.
	sidebarMinTermWidth = 80

	// chromeHeight is the number of rows consumed by header, input area,
	// and status bar around the message viewport.
	chromeHeight = 6
)

// focusZone identifies which region receives key input.
type focusZone int

const (
	focusComposer focusZone = iota
	focusSidebar
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the bubbletea model for the chat interface: a conversation
// sidebar, a scrollable message thread, and a composer line.
type Model struct {
	manager  *session.Manager
	uploader *upload.Uploader
	cfg      *config.Config
	theme    *styles.Theme

	viewport viewport.Model
	input    textinput.Model
	spin     components.Spinner
	toasts   *components.ToastManager
	keys     KeyMap
	renderer *glamour.TermRenderer

	width  int
	height int
	ready  bool

	focus          focusZone
	sidebarVisible bool
	sidebarCursor  int
}

// NewModel creates the chat model.
func NewModel(cfg *config.Config, manager *session.Manager, uploader *upload.Uploader) *Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Type your message..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.TextStyle = theme.InputText
	input.PlaceholderStyle = theme.InputPlaceholder
	input.CharLimit = 0
	input.Focus()

	m := &Model{
		manager:        manager,
		uploader:       uploader,
		cfg:            cfg,
		theme:          theme,
		input:          input,
		spin:           components.NewSpinner(theme),
		toasts:         components.NewToastManager(),
		keys:           DefaultKeyMap(),
		focus:          focusComposer,
		sidebarVisible: cfg.UI.ShowSidebar,
	}

	if cfg.UI.RenderMarkdown {
		// Renderer construction can fail on exotic terminals; rendering
		// degrades to plain text when it does.
		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		); err == nil {
			m.renderer = r
		}
	}

	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// threadWidth returns the width available to the message thread.
func (m *Model) threadWidth() int {
	w := m.width
	if m.sidebarShown() {
		w -= sidebarWidth + 1
	}
	if w < 20 {
		w = 20
	}
	return w
}

// sidebarShown reports whether the sidebar is rendered at the current size.
func (m *Model) sidebarShown() bool {
	return m.sidebarVisible && m.width >= sidebarMinTermWidth
}

// clampSidebarCursor keeps the cursor inside the conversation list after
// the list shrinks.
func (m *Model) clampSidebarCursor() {
	n := len(m.manager.Conversations())
	if n == 0 {
		m.sidebarCursor = 0
		return
	}
	if m.sidebarCursor >= n {
		m.sidebarCursor = n - 1
	}
	if m.sidebarCursor < 0 {
		m.sidebarCursor = 0
	}
}
