// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/saikrishnarallabandi/judith-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar renders the bottom line: backend mode, conversation stats,
// file context, and key hints.
type StatusBar struct {
	Remote        bool
	Conversations int
	Messages      int
	FileContext   string
}

// shortcuts shown on the right when space allows.
var shortcuts = []struct {
	key  string
	desc string
}{
	{"^N", "new"},
	{"^D", "delete"},
	{"Tab", "sidebar"},
	{"^C", "quit"},
}

// View renders the status bar at the given width.
func (s *StatusBar) View(theme *styles.Theme, width int) string {
	var mode string
	if s.Remote {
		mode = theme.ModeRemote.Render("REMOTE")
	} else {
		mode = theme.ModeFallback.Render("OFFLINE")
	}

	left := fmt.Sprintf("%s  %d conversations  %d messages", mode, s.Conversations, s.Messages)
	if s.FileContext != "" {
		left += "  " + theme.FileContextTag.Render("[file: "+s.FileContext+"]")
	}

	var hints []string
	for _, sc := range shortcuts {
		hints = append(hints, theme.ShortcutKey.Render(sc.key)+" "+theme.ShortcutDesc.Render(sc.desc))
	}
	right := strings.Join(hints, "  ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		// Narrow terminal: drop the hints before truncating the stats
		right = ""
		gap = width - lipgloss.Width(left) - 2
		if gap < 0 {
			left = runewidth.Truncate(left, width-2, "...")
			gap = 0
		}
	}

	return theme.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
