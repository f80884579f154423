// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saikrishnarallabandi/judith-tui/internal/export"
	"github.com/saikrishnarallabandi/judith-tui/internal/ui/components"
)

// toastTickInterval is how often toast expiry is re-checked.
const toastTickInterval = 500 * time.Millisecond

// =============================================================================
// COMMANDS
// =============================================================================

// sendMessage submits the composer text to the session manager. The send is
// synchronous inside the command; bubbletea runs it off the update loop.
func (m *Model) sendMessage(text string) tea.Cmd {
	return func() tea.Msg {
		assistant, err := m.manager.SendMessage(context.Background(), text)
		return replyMsg{assistant: assistant, err: err}
	}
}

// uploadFile sends a local file to the backend's upload endpoint.
func (m *Model) uploadFile(path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		result, err := m.uploader.UploadFile(ctx, path)
		name := path
		if result != nil && result.Filename != "" {
			name = result.Filename
		}
		return uploadMsg{filename: name, result: result, err: err}
	}
}

// toastTick schedules the next toast expiry check.
func toastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(time.Time) tea.Msg {
		return toastTickMsg{}
	})
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand interprets composer input beginning with "/". It
// returns the resulting command and whether the input was consumed.
func (m *Model) handleSlashCommand(text string) (tea.Cmd, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return nil, false
	}

	switch fields[0] {
	case "/new":
		m.manager.NewConversation()
		m.sidebarCursor = 0
		return m.refresh(), true

	case "/delete":
		if id := m.manager.CurrentID(); id != "" {
			m.manager.Delete(id)
			m.clampSidebarCursor()
		}
		return m.refresh(), true

	case "/upload":
		if len(fields) < 2 {
			m.toasts.Push(components.NewErrorToast("usage: /upload <path>"))
			return toastTick(), true
		}
		m.spin.SetMessage("Uploading")
		return tea.Batch(m.spin.Start(), m.uploadFile(fields[1])), true

	case "/clear":
		m.manager.ClearFileContext()
		m.toasts.Push(components.NewStatusToast("File context cleared"))
		return tea.Batch(m.refresh(), toastTick()), true

	case "/export":
		return m.exportCurrent(fields), true

	case "/help":
		m.toasts.Push(components.NewStatusToast(
			"/new /delete /upload <path> /clear /export [md|json] /quit"))
		return toastTick(), true

	case "/quit", "/exit":
		return tea.Quit, true

	default:
		m.toasts.Push(components.NewErrorToast("Unknown command: " + fields[0]))
		return toastTick(), true
	}
}

// exportCurrent writes the current conversation to a file in the working
// directory, as markdown by default or JSON when requested.
func (m *Model) exportCurrent(fields []string) tea.Cmd {
	conv := m.manager.Current()
	if conv == nil || len(conv.Messages) == 0 {
		m.toasts.Push(components.NewErrorToast("Nothing to export"))
		return toastTick()
	}

	opts := export.DefaultOptions()
	var exporter export.Exporter = export.NewMarkdownExporter(opts)
	if len(fields) > 1 && fields[1] == "json" {
		exporter = export.NewJSONExporter()
	}

	path, err := export.ExportToFile(conv, exporter, opts)
	if err != nil {
		m.toasts.Push(components.NewErrorToast("Export failed: " + err.Error()))
	} else {
		m.toasts.Push(components.NewSuccessToast("Exported to " + path))
	}
	return toastTick()
}

// describeUpload builds the toast text for a successful upload.
func describeUpload(msg uploadMsg) string {
	if msg.result == nil {
		return "Uploaded " + msg.filename
	}
	rows := msg.result.Rows()
	cols := len(msg.result.Columns)
	if rows > 0 || cols > 0 {
		return fmt.Sprintf("Uploaded %s (%d rows, %d columns)", msg.filename, rows, cols)
	}
	return "Uploaded " + msg.filename
}
