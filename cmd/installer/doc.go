// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package main provides the judith interactive installer - a guided setup
experience for new users.

# Overview

The installer is a terminal application built with Bubble Tea that walks
through the judith setup: checking the system, probing the configured LLM
backend, and writing the initial configuration. A text mode is available
for non-interactive environments.

# Command Line Options

	--text, -t     Run in text mode (copy/paste friendly, no TUI)
	--help, -h     Show help information
	--version, -v  Show version number

# Files Created

	~/.judith/
	    config.toml      # Main configuration file
	    memory.db        # Conversation memory store (created on first use)
	    conversations.json
	    current.json

# Architecture

The TUI uses a phase-based state machine:

  - phaseWelcome: Introduction
  - phaseSystemCheck: Terminal, disk space, and backend reachability
  - phaseConfigSetup: Creates ~/.judith and writes config.toml
  - phaseComplete: Success screen
*/
package main
