// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for judith.
//
// Configuration comes from ~/.judith/config.toml with built-in defaults and
// JUDITH_* environment variable overrides applied on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete judith configuration.
type Config struct {
	Version string `toml:"version"`

	// Backend configuration
	Backend BackendConfig `toml:"backend"`

	// Fallback responder configuration
	Fallback FallbackConfig `toml:"fallback"`

	// Memory configuration
	Memory MemoryConfig `toml:"memory"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// BackendConfig contains chat backend configuration.
type BackendConfig struct {
	// BaseURL is the backend API base URL
	BaseURL string `toml:"base_url"`
	// Model is the model identifier sent with completion requests
	Model string `toml:"model"`
	// APIKey is sent as a bearer token when set
	APIKey string `toml:"api_key"`
	// MaxTokens caps completion length
	MaxTokens int `toml:"max_tokens"`
	// Temperature is the sampling temperature (0.0 - 2.0)
	Temperature float64 `toml:"temperature"`
	// TimeoutSecs bounds a completion round trip
	TimeoutSecs int `toml:"timeout_secs"`
}

// FallbackConfig tunes the offline responder.
type FallbackConfig struct {
	// MinDelayMs is the minimum simulated thinking delay
	MinDelayMs int `toml:"min_delay_ms"`
	// MaxDelayMs is the maximum simulated thinking delay
	MaxDelayMs int `toml:"max_delay_ms"`
}

// MemoryConfig contains conversation memory configuration.
type MemoryConfig struct {
	// Enabled controls whether memory recall is active
	Enabled bool `toml:"enabled"`
	// DatabasePath is the SQLite database location (empty = ~/.judith/memory.db)
	DatabasePath string `toml:"database_path"`
	// RetentionDays is how long memories are kept (0 = forever)
	RetentionDays int `toml:"retention_days"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the color theme: "dark" or "light"
	Theme string `toml:"theme"`
	// RenderMarkdown enables markdown rendering of assistant replies
	RenderMarkdown bool `toml:"render_markdown"`
	// ShowSidebar shows the conversation list on startup
	ShowSidebar bool `toml:"show_sidebar"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: "1.0",
		Backend: BackendConfig{
			BaseURL:     "http://localhost:8000",
			Model:       "gpt-4o-mini",
			MaxTokens:   1000,
			Temperature: 0.7,
			TimeoutSecs: 60,
		},
		Fallback: FallbackConfig{
			MinDelayMs: 800,
			MaxDelayMs: 2000,
		},
		Memory: MemoryConfig{
			Enabled:       true,
			RetentionDays: 30,
		},
		UI: UIConfig{
			Theme:          "dark",
			RenderMarkdown: true,
			ShowSidebar:    true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the judith configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".judith"), nil
}

// ResolvedDatabasePath returns the memory database location, defaulting to
// memory.db under the config directory when unset.
func (m MemoryConfig) ResolvedDatabasePath() (string, error) {
	if m.DatabasePath != "" {
		return m.DatabasePath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "memory.db"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions fixes permissions on config files.
// Config files should be 0600 to protect API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm() != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions: %w", err)
		}
	}
	return nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load loads configuration from ~/.judith/config.toml, falling back to
// defaults when the file is missing. Environment overrides apply last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := loadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := loadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all systems
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = defaults.Backend.BaseURL
	}
	if c.Backend.Model == "" {
		c.Backend.Model = defaults.Backend.Model
	}
	if c.Backend.MaxTokens == 0 {
		c.Backend.MaxTokens = defaults.Backend.MaxTokens
	}
	if c.Backend.Temperature == 0 {
		c.Backend.Temperature = defaults.Backend.Temperature
	}
	if c.Backend.TimeoutSecs == 0 {
		c.Backend.TimeoutSecs = defaults.Backend.TimeoutSecs
	}
	if c.Fallback.MinDelayMs == 0 {
		c.Fallback.MinDelayMs = defaults.Fallback.MinDelayMs
	}
	if c.Fallback.MaxDelayMs == 0 {
		c.Fallback.MaxDelayMs = defaults.Fallback.MaxDelayMs
	}
	if c.Memory.RetentionDays == 0 {
		c.Memory.RetentionDays = defaults.Memory.RetentionDays
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# judith configuration file")
	fmt.Fprintln(file, "# Generated by judith - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - JUDITH_BASE_URL: overrides backend.base_url
//   - JUDITH_MODEL: overrides backend.model
//   - JUDITH_API_KEY: overrides backend.api_key
//   - JUDITH_MAX_TOKENS: overrides backend.max_tokens
//   - JUDITH_MEMORY: "0" or "false" disables memory
//   - JUDITH_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if url := os.Getenv("JUDITH_BASE_URL"); url != "" {
		c.Backend.BaseURL = url
	}
	if model := os.Getenv("JUDITH_MODEL"); model != "" {
		c.Backend.Model = model
	}
	if key := os.Getenv("JUDITH_API_KEY"); key != "" {
		c.Backend.APIKey = key
	}
	if tokens := os.Getenv("JUDITH_MAX_TOKENS"); tokens != "" {
		if n, err := strconv.Atoi(tokens); err == nil && n > 0 {
			c.Backend.MaxTokens = n
		}
	}
	if mem := os.Getenv("JUDITH_MEMORY"); mem != "" {
		c.Memory.Enabled = mem != "0" && !strings.EqualFold(mem, "false")
	}
	if theme := os.Getenv("JUDITH_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration and clamps recoverable values into
// their valid ranges. It returns an error only for unrecoverable problems.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return ValidationError{Field: "backend.base_url", Message: "must start with http:// or https://"}
	}

	switch c.UI.Theme {
	case "dark", "light":
	default:
		return ValidationError{Field: "ui.theme", Message: `must be "dark" or "light"`}
	}

	// Clamp sampling parameters into range
	if c.Backend.Temperature < 0 {
		c.Backend.Temperature = 0
	}
	if c.Backend.Temperature > 2 {
		c.Backend.Temperature = 2
	}
	if c.Backend.MaxTokens < 1 {
		c.Backend.MaxTokens = 1
	}
	if c.Backend.MaxTokens > 32768 {
		c.Backend.MaxTokens = 32768
	}
	if c.Backend.TimeoutSecs < 1 {
		c.Backend.TimeoutSecs = 1
	}

	// Delay window must be ordered and non-negative
	if c.Fallback.MinDelayMs < 0 {
		c.Fallback.MinDelayMs = 0
	}
	if c.Fallback.MaxDelayMs < c.Fallback.MinDelayMs {
		c.Fallback.MaxDelayMs = c.Fallback.MinDelayMs
	}

	if c.Memory.RetentionDays < 0 {
		c.Memory.RetentionDays = 0
	}

	return nil
}
