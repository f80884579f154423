// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/saikrishnarallabandi/judith-tui/internal/config"
	"github.com/saikrishnarallabandi/judith-tui/internal/model"
	"github.com/saikrishnarallabandi/judith-tui/internal/upload"
)

// =============================================================================
// TEA MESSAGES
// =============================================================================

// replyMsg carries the outcome of a completion round trip.
type replyMsg struct {
	assistant *model.Message
	err       error
}

// uploadMsg carries the outcome of a file upload.
type uploadMsg struct {
	filename string
	result   *upload.Result
	err      error
}

// toastTickMsg drives toast expiry while any toast is visible.
type toastTickMsg struct{}

// refreshMsg asks the view to re-render thread and sidebar content.
type refreshMsg struct{}

// ConfigReloadedMsg is sent from outside the program when the config file
// changes on disk.
type ConfigReloadedMsg struct {
	Cfg *config.Config
}
