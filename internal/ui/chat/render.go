// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/saikrishnarallabandi/judith-tui/internal/model"
	"github.com/saikrishnarallabandi/judith-tui/internal/util"
)

// =============================================================================
// THREAD RENDERING
// =============================================================================

// renderThread renders the current conversation's messages for the viewport.
func (m *Model) renderThread() string {
	conv := m.manager.Current()
	if conv == nil || len(conv.Messages) == 0 {
		return m.renderWelcome()
	}

	width := m.threadWidth()
	var sb strings.Builder
	for i, msg := range conv.Messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderMessage(msg, width))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderMessage renders one message as a labelled bubble.
func (m *Model) renderMessage(msg *model.Message, width int) string {
	bubbleWidth := width - 4
	if bubbleWidth < 16 {
		bubbleWidth = 16
	}

	meta := m.theme.MessageMeta.Render(
		fmt.Sprintf("%s · %s", msg.Role.DisplayName(), msg.Timestamp.Format("15:04")))

	content := msg.Content
	var bubble string
	switch msg.Role {
	case model.RoleUser:
		bubble = m.theme.UserBubble.MaxWidth(bubbleWidth).Render(content)
	case model.RoleAssistant:
		if m.renderer != nil {
			if rendered, err := m.renderer.Render(content); err == nil {
				content = strings.TrimRight(rendered, "\n")
			}
		}
		bubble = m.theme.AssistantBubble.MaxWidth(bubbleWidth).Render(content)
	default:
		bubble = m.theme.SystemBubble.MaxWidth(bubbleWidth).Render(content)
	}

	return meta + "\n" + bubble
}

// renderWelcome fills the empty thread with a hint screen.
func (m *Model) renderWelcome() string {
	lines := []string{
		m.theme.WelcomeLogo.Render("judith"),
		"",
		m.theme.WelcomeInfo.Render("Start a conversation by typing below."),
		"",
		m.theme.WelcomeKey.Render("Ctrl+N") + m.theme.WelcomeInfo.Render("  new conversation"),
		m.theme.WelcomeKey.Render("Tab") + m.theme.WelcomeInfo.Render("     focus sidebar"),
		m.theme.WelcomeKey.Render("/help") + m.theme.WelcomeInfo.Render("   slash commands"),
	}
	box := m.theme.WelcomeBox.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.threadWidth(), m.viewport.Height, lipgloss.Center, lipgloss.Center, box)
}

// =============================================================================
// SIDEBAR RENDERING
// =============================================================================

// renderSidebar renders the conversation list grouped by recency.
func (m *Model) renderSidebar() string {
	conversations := m.manager.Conversations()
	currentID := m.manager.CurrentID()
	now := time.Now()

	var sb strings.Builder
	sb.WriteString(m.theme.SidebarTitle.Render("Conversations"))
	sb.WriteString("\n")

	lastGroup := ""
	for i, conv := range conversations {
		group := conv.CreatedGroup(now)
		if group != lastGroup {
			sb.WriteString(m.theme.SidebarGroup.Render(group))
			sb.WriteString("\n")
			lastGroup = group
		}
		sb.WriteString(m.renderSidebarItem(conv, i, currentID))
		sb.WriteString("\n")
	}

	if len(conversations) == 0 {
		sb.WriteString(m.theme.SidebarItemMeta.Render("No conversations yet"))
		sb.WriteString("\n")
	}

	body := m.theme.Sidebar.Width(sidebarWidth).Height(m.viewport.Height).Render(sb.String())
	return body
}

// renderSidebarItem renders one conversation row.
func (m *Model) renderSidebarItem(conv *model.Conversation, index int, currentID string) string {
	title := util.TruncateWidth(conv.Title, sidebarWidth-6)

	marker := "  "
	if conv.ID == currentID {
		marker = "* "
	}

	style := m.theme.SidebarItem
	if m.focus == focusSidebar && index == m.sidebarCursor {
		style = m.theme.SidebarItemSelected
	}

	line := marker + title
	meta := m.theme.SidebarItemMeta.Render(fmt.Sprintf(" %d", conv.MessageCount()))
	return style.Render(line) + meta
}
