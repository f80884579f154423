// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Non-blocking toasts in the corner of the TUI. Unlike modal error dialogs
// they auto-dismiss and never steal focus from the composer.
package components

import (
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/saikrishnarallabandi/judith-tui/internal/ui/styles"
	"github.com/saikrishnarallabandi/judith-tui/internal/util"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast
	ToastKindStatus ToastKind = iota
	// ToastKindError is an error toast
	ToastKindError
	// ToastKindSuccess is a success toast
	ToastKindSuccess
)

// DefaultToastDuration is the auto-dismiss duration for status toasts.
const DefaultToastDuration = 4 * time.Second

// ErrorToastDuration is longer so errors can be read.
const ErrorToastDuration = 8 * time.Second

// Toast is one notification.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// NewErrorToast creates an error toast.
func NewErrorToast(message string) Toast {
	return Toast{
		ID:        generateToastID(),
		Message:   message,
		Kind:      ToastKindError,
		CreatedAt: time.Now(),
		Duration:  ErrorToastDuration,
	}
}

// NewStatusToast creates an informational toast.
func NewStatusToast(message string) Toast {
	return Toast{
		ID:        generateToastID(),
		Message:   message,
		Kind:      ToastKindStatus,
		CreatedAt: time.Now(),
		Duration:  DefaultToastDuration,
	}
}

// NewSuccessToast creates a success toast.
func NewSuccessToast(message string) Toast {
	return Toast{
		ID:        generateToastID(),
		Message:   message,
		Kind:      ToastKindSuccess,
		CreatedAt: time.Now(),
		Duration:  DefaultToastDuration,
	}
}

// IsExpired reports whether the toast should be dismissed.
func (t *Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

var (
	toastIDMu   sync.Mutex
	nextToastID int
)

func generateToastID() int {
	toastIDMu.Lock()
	defer toastIDMu.Unlock()
	nextToastID++
	return nextToastID
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// maxVisibleToasts caps how many toasts stack on screen.
const maxVisibleToasts = 3

// ToastManager holds the active toasts.
type ToastManager struct {
	toasts []Toast
}

// NewToastManager creates an empty toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{}
}

// Push adds a toast, evicting the oldest when the stack is full.
func (m *ToastManager) Push(t Toast) {
	m.toasts = append(m.toasts, t)
	if len(m.toasts) > maxVisibleToasts {
		m.toasts = m.toasts[len(m.toasts)-maxVisibleToasts:]
	}
}

// Prune removes expired toasts and reports whether any remain.
func (m *ToastManager) Prune() bool {
	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired() {
			active = append(active, t)
		}
	}
	m.toasts = active
	return len(m.toasts) > 0
}

// DismissAll clears every toast.
func (m *ToastManager) DismissAll() {
	m.toasts = nil
}

// View renders the toast stack.
func (m *ToastManager) View(theme *styles.Theme, width int) string {
	if len(m.toasts) == 0 {
		return ""
	}

	var rendered []string
	for _, t := range m.toasts {
		var style lipgloss.Style
		var label string
		switch t.Kind {
		case ToastKindError:
			style = lipgloss.NewStyle().
				Foreground(styles.Rose).
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(styles.Rose).
				Padding(0, 1)
			label = styles.StatusIndicators.Error
		case ToastKindSuccess:
			style = lipgloss.NewStyle().
				Foreground(styles.Emerald).
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(styles.Emerald).
				Padding(0, 1)
			label = styles.StatusIndicators.Success
		default:
			style = lipgloss.NewStyle().
				Foreground(styles.Cyan).
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(styles.Cyan).
				Padding(0, 1)
			label = styles.StatusIndicators.Info
		}

		msg := t.Message
		if width > 8 {
			msg = util.TruncateWidth(msg, width-8)
		}
		rendered = append(rendered, style.Render(label+" "+msg))
	}

	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}
