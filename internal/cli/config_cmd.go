// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command handler for the judith CLI.
//
// Command: config
// Short:   Show and modify configuration
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/saikrishnarallabandi/judith-tui/internal/config"
	"github.com/saikrishnarallabandi/judith-tui/internal/util"
)

// HandleConfig handles the "config" command and its subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return showConfig(args)

	case "init":
		return initConfig()

	case "set":
		return setConfig(args)

	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil

	default:
		return fmt.Errorf("unknown config subcommand: %s", args.Subcommand)
	}
}

// showConfig prints the active configuration.
func showConfig(args Args) error {
	cfg := loadConfig(args)

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	fmt.Println(TitleStyle.Render("judith configuration"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Base URL:"), ValueStyle.Render(cfg.Backend.BaseURL))
	fmt.Printf("%s %s\n", LabelStyle.Render("Model:"), ValueStyle.Render(cfg.Backend.Model))
	fmt.Printf("%s %s\n", LabelStyle.Render("API key:"), ValueStyle.Render(maskKey(cfg.Backend.APIKey)))
	fmt.Printf("%s %d\n", LabelStyle.Render("Max tokens:"), cfg.Backend.MaxTokens)
	fmt.Printf("%s %s\n", LabelStyle.Render("Temperature:"), util.FloatToString(cfg.Backend.Temperature))
	fmt.Printf("%s %v\n", LabelStyle.Render("Memory:"), cfg.Memory.Enabled)
	fmt.Printf("%s %s\n", LabelStyle.Render("Theme:"), cfg.UI.Theme)
	fmt.Printf("%s %v\n", LabelStyle.Render("Markdown:"), cfg.UI.RenderMarkdown)
	return nil
}

// initConfig writes a default config file, refusing to clobber one that
// already exists.
func initConfig() error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := config.Save(config.Default()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Println(SuccessStyle.Render("Wrote " + path))
	return nil
}

// setConfig updates one configuration value and saves the file.
func setConfig(args Args) error {
	if args.ConfigKey == "" {
		return fmt.Errorf("usage: judith config set <key> <value>")
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	key, val := args.ConfigKey, args.ConfigVal
	switch key {
	case "base_url":
		cfg.Backend.BaseURL = val
	case "model":
		cfg.Backend.Model = val
	case "api_key":
		cfg.Backend.APIKey = val
	case "max_tokens":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("max_tokens must be an integer: %q", val)
		}
		cfg.Backend.MaxTokens = n
	case "temperature":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("temperature must be a number: %q", val)
		}
		cfg.Backend.Temperature = f
	case "memory":
		cfg.Memory.Enabled = val == "true" || val == "1"
	case "theme":
		cfg.UI.Theme = val
	case "render_markdown":
		cfg.UI.RenderMarkdown = val == "true" || val == "1"
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("Set %s.", key)))
	return nil
}

// maskKey hides all but the tail of an API key.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
