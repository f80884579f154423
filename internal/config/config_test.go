// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", cfg.Backend.Model)
	}
	if cfg.Backend.MaxTokens != 1000 {
		t.Errorf("MaxTokens = %d", cfg.Backend.MaxTokens)
	}
	if cfg.Backend.Temperature != 0.7 {
		t.Errorf("Temperature = %v", cfg.Backend.Temperature)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config must validate: %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = "1.0"

[backend]
base_url = "http://example.com:9000"
model = "gpt-4o"

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Backend.BaseURL != "http://example.com:9000" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Model != "gpt-4o" {
		t.Errorf("Model = %q", cfg.Backend.Model)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	// Unset fields fall back to defaults
	if cfg.Backend.MaxTokens != 1000 {
		t.Errorf("MaxTokens = %d, want default 1000", cfg.Backend.MaxTokens)
	}
}

func TestLoadFromPath_InvalidTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600)

	if _, err := LoadFromPath(path); err == nil {
		t.Error("Invalid theme must be rejected")
	}
}

func TestLoadFromPath_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("not [valid toml"), 0600)

	if _, err := LoadFromPath(path); err == nil {
		t.Error("Malformed TOML must be rejected")
	}
}

func TestValidate_Clamping(t *testing.T) {
	cfg := Default()
	cfg.Backend.Temperature = 5.0
	cfg.Backend.MaxTokens = -3
	cfg.Fallback.MinDelayMs = 2000
	cfg.Fallback.MaxDelayMs = 100

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Backend.Temperature != 2 {
		t.Errorf("Temperature = %v, want clamped 2", cfg.Backend.Temperature)
	}
	if cfg.Backend.MaxTokens != 1 {
		t.Errorf("MaxTokens = %d, want clamped 1", cfg.Backend.MaxTokens)
	}
	if cfg.Fallback.MaxDelayMs != 2000 {
		t.Errorf("MaxDelayMs = %d, want raised to min %d", cfg.Fallback.MaxDelayMs, cfg.Fallback.MinDelayMs)
	}
}

func TestValidate_BadBaseURL(t *testing.T) {
	cfg := Default()
	cfg.Backend.BaseURL = "localhost:8000"

	if err := cfg.Validate(); err == nil {
		t.Error("URL without scheme must be rejected")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("JUDITH_BASE_URL", "http://override:1234")
	t.Setenv("JUDITH_MODEL", "gpt-4o")
	t.Setenv("JUDITH_MEMORY", "false")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Backend.BaseURL != "http://override:1234" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Model != "gpt-4o" {
		t.Errorf("Model = %q", cfg.Backend.Model)
	}
	if cfg.Memory.Enabled {
		t.Error("JUDITH_MEMORY=false must disable memory")
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Backend.Model = "custom-model"

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Permissions = %o, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("Reloading saved config failed: %v", err)
	}
	if loaded.Backend.Model != "custom-model" {
		t.Errorf("Model = %q after round trip", loaded.Backend.Model)
	}
}
