// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styling for all judith CLI commands.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/saikrishnarallabandi/judith-tui/internal/ui/styles"
)

// init configures the lipgloss color profile based on terminal capability.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

var (
	// TitleStyle is used for command titles and headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Cyan).
			MarginBottom(1)

	// LabelStyle is used for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(18)

	// ValueStyle is used for field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	// PromptStyle is the REPL input prompt.
	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	// InfoStyle is used for secondary information lines.
	InfoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	// CommandStyle highlights command names in help output.
	CommandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	// WarningStyle is used for non-fatal problems.
	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// ErrorStyle is used for failures.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// SuccessStyle is used for confirmations.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)
)
