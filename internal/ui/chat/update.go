// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/saikrishnarallabandi/judith-tui/internal/session"
	"github.com/saikrishnarallabandi/judith-tui/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case replyMsg:
		return m.handleReply(msg)

	case uploadMsg:
		return m.handleUpload(msg)

	case refreshMsg:
		m.syncViewport(true)
		return m, nil

	case ConfigReloadedMsg:
		m.cfg = msg.Cfg
		m.sidebarVisible = msg.Cfg.UI.ShowSidebar
		m.toasts.Push(components.NewStatusToast("Configuration reloaded"))
		m.syncViewport(false)
		return m, toastTick()

	case toastTickMsg:
		if m.toasts.Prune() {
			return m, toastTick()
		}
		return m, nil
	}

	// Spinner frames and other component traffic.
	var cmds []tea.Cmd
	if cmd := m.spin.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// refresh returns a command that re-renders thread and sidebar content.
func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg { return refreshMsg{} }
}

// refreshSoon re-renders after a short delay, giving an in-flight send time
// to append its optimistic user message first.
func (m *Model) refreshSoon() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

// =============================================================================
// RESIZE
// =============================================================================

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	vpHeight := m.height - chromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport.Width = m.threadWidth()
		m.viewport.Height = vpHeight
		m.ready = true
	} else {
		m.viewport.Width = m.threadWidth()
		m.viewport.Height = vpHeight
	}
	m.input.Width = m.width - 6

	m.syncViewport(false)
	return m, nil
}

// syncViewport re-renders the thread into the viewport, optionally jumping
// to the newest message.
func (m *Model) syncViewport(gotoBottom bool) {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderThread())
	if gotoBottom || atBottom {
		m.viewport.GotoBottom()
	}
}

// =============================================================================
// KEYS
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NewConv):
		m.manager.NewConversation()
		m.sidebarCursor = 0
		m.syncViewport(true)
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if id := m.manager.CurrentID(); id != "" {
			m.manager.Delete(id)
			m.clampSidebarCursor()
			m.syncViewport(true)
		}
		return m, nil

	case key.Matches(msg, m.keys.Sidebar):
		if m.sidebarShown() {
			if m.focus == focusSidebar {
				m.focus = focusComposer
				m.input.Focus()
			} else {
				m.focus = focusSidebar
				m.input.Blur()
				m.clampSidebarCursor()
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleComposerKey(msg)
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.sidebarCursor > 0 {
			m.sidebarCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.sidebarCursor < len(m.manager.Conversations())-1 {
			m.sidebarCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		conversations := m.manager.Conversations()
		if m.sidebarCursor < len(conversations) {
			m.manager.Select(conversations[m.sidebarCursor].ID)
			m.focus = focusComposer
			m.input.Focus()
			m.syncViewport(true)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleComposerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		if cmd, handled := m.handleSlashCommand(text); handled {
			m.input.SetValue("")
			return m, cmd
		}
		if m.manager.Loading() {
			m.toasts.Push(components.NewStatusToast("Still waiting for a reply..."))
			return m, toastTick()
		}
		m.input.SetValue("")
		m.spin.SetMessage("Thinking")
		// The user's message appears as soon as the manager appends it;
		// a short tick re-renders without waiting for the reply.
		cmds := []tea.Cmd{m.spin.Start(), m.sendMessage(text), m.refreshSoon()}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// ASYNC RESULTS
// =============================================================================

func (m *Model) handleReply(msg replyMsg) (tea.Model, tea.Cmd) {
	m.spin.Stop()
	m.syncViewport(true)

	if msg.err != nil {
		text := msg.err.Error()
		if errors.Is(msg.err, session.ErrBusy) {
			text = "A message is already being sent"
		}
		m.toasts.Push(components.NewErrorToast(text))
		return m, toastTick()
	}
	return m, nil
}

func (m *Model) handleUpload(msg uploadMsg) (tea.Model, tea.Cmd) {
	m.spin.Stop()

	if msg.err != nil {
		m.toasts.Push(components.NewErrorToast("Upload failed: " + msg.err.Error()))
		return m, toastTick()
	}

	m.manager.SetFileContext(msg.filename)
	m.toasts.Push(components.NewSuccessToast(describeUpload(msg)))
	return m, toastTick()
}
