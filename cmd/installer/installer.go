// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// installer.go - TUI installer model with phases.
package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/saikrishnarallabandi/judith-tui/internal/config"
	"github.com/saikrishnarallabandi/judith-tui/internal/ui/styles"
)

// =============================================================================
// PHASES
// =============================================================================

type phase int

const (
	phaseWelcome phase = iota
	phaseSystemCheck
	phaseConfigSetup
	phaseComplete
	phaseFailed
)

// checkResult is the outcome of one system check.
type checkResult struct {
	name   string
	passed bool
	detail string
}

// minFreeDiskBytes is the free space judith asks for: history, memory
// database, and exports are all small.
const minFreeDiskBytes = 50 * 1024 * 1024

// =============================================================================
// MESSAGES
// =============================================================================

type checksDoneMsg struct{ results []checkResult }

type configWrittenMsg struct {
	path string
	err  error
}

// =============================================================================
// MODEL
// =============================================================================

// Installer is the bubbletea model for the guided setup.
type Installer struct {
	phase   phase
	spin    spinner.Model
	checks  []checkResult
	cfgPath string
	failure string
	width   int

	titleStyle lipgloss.Style
	okStyle    lipgloss.Style
	warnStyle  lipgloss.Style
	infoStyle  lipgloss.Style
	keyStyle   lipgloss.Style
}

// NewInstaller creates the installer model.
func NewInstaller() *Installer {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	return &Installer{
		phase:      phaseWelcome,
		spin:       s,
		titleStyle: lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true),
		okStyle:    lipgloss.NewStyle().Foreground(styles.Emerald),
		warnStyle:  lipgloss.NewStyle().Foreground(styles.Amber),
		infoStyle:  lipgloss.NewStyle().Foreground(styles.TextSecondary),
		keyStyle:   lipgloss.NewStyle().Foreground(styles.Purple).Bold(true),
	}
}

// Init implements tea.Model.
func (m *Installer) Init() tea.Cmd {
	return m.spin.Tick
}

// Update implements tea.Model.
func (m *Installer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			switch m.phase {
			case phaseWelcome:
				m.phase = phaseSystemCheck
				return m, tea.Batch(m.spin.Tick, runChecksCmd())
			case phaseSystemCheck:
				if m.checks != nil {
					m.phase = phaseConfigSetup
					return m, tea.Batch(m.spin.Tick, writeConfigCmd())
				}
			case phaseComplete, phaseFailed:
				return m, tea.Quit
			}
		}
		return m, nil

	case checksDoneMsg:
		m.checks = msg.results
		return m, nil

	case configWrittenMsg:
		if msg.err != nil {
			m.phase = phaseFailed
			m.failure = msg.err.Error()
		} else {
			m.phase = phaseComplete
			m.cfgPath = msg.path
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Installer) View() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(m.titleStyle.Render("  judith installer"))
	sb.WriteString("\n\n")

	switch m.phase {
	case phaseWelcome:
		sb.WriteString(m.infoStyle.Render("  This will set up judith: a terminal chat client for LLM backends.\n"))
		sb.WriteString(m.infoStyle.Render("  It creates ~/.judith and writes a starting configuration.\n\n"))
		sb.WriteString("  " + m.keyStyle.Render("enter") + m.infoStyle.Render(" continue   ") +
			m.keyStyle.Render("q") + m.infoStyle.Render(" quit"))

	case phaseSystemCheck:
		if m.checks == nil {
			sb.WriteString(fmt.Sprintf("  %s Checking system...\n", m.spin.View()))
		} else {
			for _, check := range m.checks {
				mark := m.okStyle.Render("[OK]")
				detail := ""
				if !check.passed {
					mark = m.warnStyle.Render("[!]")
					detail = "  " + m.infoStyle.Render(check.detail)
				}
				sb.WriteString(fmt.Sprintf("  %s %s%s\n", mark, check.name, detail))
			}
			sb.WriteString("\n  " + m.keyStyle.Render("enter") + m.infoStyle.Render(" write configuration"))
		}

	case phaseConfigSetup:
		sb.WriteString(fmt.Sprintf("  %s Writing configuration...\n", m.spin.View()))

	case phaseComplete:
		sb.WriteString(m.okStyle.Render("  Setup complete.") + "\n\n")
		sb.WriteString(m.infoStyle.Render("  Config: ") + m.cfgPath + "\n\n")
		sb.WriteString(m.infoStyle.Render("  Start chatting with: ") + m.keyStyle.Render("judith") + "\n\n")
		sb.WriteString("  " + m.keyStyle.Render("enter") + m.infoStyle.Render(" exit"))

	case phaseFailed:
		sb.WriteString(m.warnStyle.Render("  Setup failed: "+m.failure) + "\n\n")
		sb.WriteString("  " + m.keyStyle.Render("enter") + m.infoStyle.Render(" exit"))
	}

	sb.WriteString("\n")
	return sb.String()
}

// =============================================================================
// COMMANDS
// =============================================================================

func runChecksCmd() tea.Cmd {
	return func() tea.Msg {
		return checksDoneMsg{results: runSystemChecks()}
	}
}

func writeConfigCmd() tea.Cmd {
	return func() tea.Msg {
		path, err := writeInitialConfig(config.Default().Backend.BaseURL)
		return configWrittenMsg{path: path, err: err}
	}
}

// runSystemChecks probes the environment judith will run in.
func runSystemChecks() []checkResult {
	var results []checkResult

	home, err := os.UserHomeDir()
	results = append(results, checkResult{
		name:   "Home directory",
		passed: err == nil,
		detail: "could not determine home directory",
	})

	if err == nil {
		free, diskErr := getFreeDiskSpace(home)
		results = append(results, checkResult{
			name:   "Disk space",
			passed: diskErr == nil && free >= minFreeDiskBytes,
			detail: "less than 50 MB free",
		})
	}

	results = append(results, checkResult{
		name:   "Backend reachable",
		passed: probeBackend(config.Default().Backend.BaseURL),
		detail: "not responding; judith will reply offline until it is up",
	})

	return results
}

// probeBackend checks whether the configured backend answers at all.
func probeBackend(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
