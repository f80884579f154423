// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the judith command-line interface: argument
// parsing, the one-shot ask command, the interactive chat REPL, and the
// management subcommands for sessions, configuration, uploads, and memory.
//
// The TUI itself lives in internal/ui; this package covers everything that
// runs without a full-screen terminal.
package cli
