// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/saikrishnarallabandi/judith-tui/internal/llm"
	"github.com/saikrishnarallabandi/judith-tui/internal/ui/components"
)

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(m.renderBody())
	sb.WriteString("\n")
	sb.WriteString(m.renderInput())
	sb.WriteString("\n")
	sb.WriteString(m.renderStatusBar())

	if toasts := m.toasts.View(m.theme, m.width); toasts != "" {
		sb.WriteString("\n")
		sb.WriteString(toasts)
	}
	return sb.String()
}

// renderHeader renders the top line: brand plus current conversation title.
func (m *Model) renderHeader() string {
	brand := m.theme.HeaderBrand.Render(" judith ")
	title := "New Chat"
	if conv := m.manager.Current(); conv != nil {
		title = conv.Title
	}
	return m.theme.Header.Width(m.width).Render(brand + " " + m.theme.HeaderTitle.Render(title))
}

// renderBody joins the sidebar and the message viewport.
func (m *Model) renderBody() string {
	thread := m.viewport.View()
	if m.spin.Active() {
		thread += "\n" + m.spin.View(m.theme)
	}
	if !m.sidebarShown() {
		return thread
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), " ", thread)
}

// renderInput renders the composer line with the file context tag when set.
func (m *Model) renderInput() string {
	line := m.input.View()
	if token := m.manager.FileContext(); token != "" {
		line = m.theme.FileContextTag.Render("[file: "+token+"]") + " " + line
	}
	return m.theme.InputContainer.Width(m.width).Render(line)
}

// renderStatusBar renders the bottom status line.
func (m *Model) renderStatusBar() string {
	conversations := m.manager.Conversations()
	messages := 0
	if conv := m.manager.Current(); conv != nil {
		messages = conv.MessageCount()
	}

	bar := components.StatusBar{
		Remote:        m.manager.LastSource() != llm.SourceFallback,
		Conversations: len(conversations),
		Messages:      messages,
		FileContext:   m.manager.FileContext(),
	}
	return bar.View(m.theme, m.width)
}
