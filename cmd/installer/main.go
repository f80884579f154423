// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main provides the judith installer - a guided setup experience.
package main

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saikrishnarallabandi/judith-tui/internal/config"
)

const version = "1.0.0"

func main() {
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--text", "-t", "--simple":
			runTextInstaller()
			return
		case "--help", "-h":
			printHelp()
			return
		case "--version", "-v":
			fmt.Printf("judith installer v%s\n", version)
			return
		}
	}

	if !isTerminal() {
		fmt.Println("The judith installer requires an interactive terminal.")
		fmt.Println("Run with --text for a simple text-based install.")
		os.Exit(1)
	}

	// Mouse capture stays off so terminal text selection keeps working.
	p := tea.NewProgram(
		NewInstaller(),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running installer: %v\n", err)
		os.Exit(1)
	}
}

// printHelp shows usage information.
func printHelp() {
	fmt.Println(`judith installer v` + version + `

Usage: judith-installer [OPTIONS]

Options:
  --text, -t     Run in text mode (copy/paste friendly)
  --help, -h     Show this help
  --version, -v  Show version

The default mode is an interactive TUI installer.
Use --text for a simple text-based installer.`)
}

// isTerminal checks if we're running in an interactive terminal.
func isTerminal() bool {
	if runtime.GOOS == "windows" {
		return true
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// =============================================================================
// TEXT MODE INSTALLER
// =============================================================================

func runTextInstaller() {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println()
	fmt.Println("================================================================================")
	fmt.Println("                              JUDITH INSTALLER")
	fmt.Println("                  A terminal chat client for LLM backends")
	fmt.Println("================================================================================")
	fmt.Println()

	// Step 1: system checks
	fmt.Println("Step 1/3: Checking system...")
	for _, check := range runSystemChecks() {
		status := "ok"
		if !check.passed {
			status = "WARN: " + check.detail
		}
		fmt.Printf("  %-24s %s\n", check.name+":", status)
	}
	fmt.Println()

	// Step 2: backend URL
	defaultURL := config.Default().Backend.BaseURL
	fmt.Printf("Step 2/3: Backend URL [%s]: ", defaultURL)
	line, _ := reader.ReadString('\n')
	baseURL := strings.TrimSpace(line)
	if baseURL == "" {
		baseURL = defaultURL
	}

	// Step 3: write configuration
	fmt.Println("Step 3/3: Writing configuration...")
	path, err := writeInitialConfig(baseURL)
	if err != nil {
		fmt.Printf("  Failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  Wrote %s\n", path)

	fmt.Println()
	fmt.Println("Done. Start chatting with: judith")
	fmt.Println()
}

// writeInitialConfig creates ~/.judith and writes the starting config.
// An existing config file is left untouched.
func writeInitialConfig(baseURL string) (string, error) {
	if err := config.EnsureConfigDir(); err != nil {
		return "", err
	}
	path, err := config.ConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	cfg := config.Default()
	cfg.Backend.BaseURL = baseURL
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	return path, config.SaveTOML(cfg, path)
}
