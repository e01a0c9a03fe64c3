// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for devconsole.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ConsoleConfig: command prefix, name padding, log capacity
//   - SourceConfig: engine log file tailing
//   - PathsConfig: what clicking a log line does
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (DEVCONSOLE_*)
//   - --config <path> or ~/.devconsole/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	prefix := cfg.PrefixRune()
package config
