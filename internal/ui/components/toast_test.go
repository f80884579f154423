// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/saikrishnarallabandi/judith-tui/internal/ui/styles"
)

func TestToastManager_PushEvictsOldest(t *testing.T) {
	m := NewToastManager()
	for _, msg := range []string{"one", "two", "three", "four"} {
		m.Push(NewStatusToast(msg))
	}

	if len(m.toasts) != maxVisibleToasts {
		t.Fatalf("Stack size = %d, want %d", len(m.toasts), maxVisibleToasts)
	}
	if m.toasts[0].Message != "two" {
		t.Errorf("Oldest toast = %q, want %q (first one evicted)", m.toasts[0].Message, "two")
	}
}

func TestToastManager_PruneDropsExpired(t *testing.T) {
	m := NewToastManager()
	expired := NewStatusToast("old")
	expired.CreatedAt = time.Now().Add(-time.Minute)
	m.Push(expired)
	m.Push(NewStatusToast("fresh"))

	if !m.Prune() {
		t.Fatal("Prune = false, want true while a toast remains")
	}
	if len(m.toasts) != 1 || m.toasts[0].Message != "fresh" {
		t.Errorf("Remaining toasts = %v", m.toasts)
	}
}

func TestToastView_TruncationKeepsValidUTF8(t *testing.T) {
	m := NewToastManager()
	m.Push(NewStatusToast(strings.Repeat("日本語エラー", 20)))

	out := m.View(styles.NewTheme(), 30)
	if out == "" {
		t.Fatal("View returned nothing")
	}
	if !utf8.ValidString(out) {
		t.Error("Truncated toast must not split a multi-byte character")
	}
	if strings.ContainsRune(out, utf8.RuneError) {
		t.Error("Truncated toast contains a replacement rune")
	}
}
