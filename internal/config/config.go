// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete devconsole configuration.
type Config struct {
	Console ConsoleConfig `toml:"console"`
	Logging LoggingConfig `toml:"logging"`
	Source  SourceConfig  `toml:"source"`
	Paths   PathsConfig   `toml:"paths"`
	History HistoryConfig `toml:"history"`
	UI      UIConfig      `toml:"ui"`
}

// ConsoleConfig controls command syntax and the log pool.
type ConsoleConfig struct {
	// Prefix is the single character that starts a command line
	Prefix string `toml:"prefix"`
	// MinNameLength pads shorter command names
	MinNameLength int `toml:"min_name_length"`
	// NameFiller is the padding character
	NameFiller string `toml:"name_filler"`
	// Capacity is the number of log slots
	Capacity int `toml:"capacity"`
	// KeepText keeps the input after a successful command
	KeepText bool `toml:"keep_text"`
}

// LoggingConfig controls the console's own diagnostics.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `toml:"level"`
	// Marker tags lines written by the console itself
	Marker string `toml:"marker"`
}

// SourceConfig controls the engine log file source.
type SourceConfig struct {
	// TailPath is the engine log file to follow (empty = none)
	TailPath        string  `toml:"tail_path"`
	MaxEventsPerSec float64 `toml:"max_events_per_sec"`
	Burst           int     `toml:"burst"`
	// FromStart replays the file's existing content on attach
	FromStart bool `toml:"from_start"`
}

// PathsConfig controls what happens when a log line is clicked.
type PathsConfig struct {
	// Extensions are the source files a stack frame may reference
	Extensions []string `toml:"extensions"`
	// CopyFullPath copies the absolute path instead of the project-relative one
	CopyFullPath bool `toml:"copy_full_path"`
	// ProjectMarker is the directory the relative path starts at
	ProjectMarker string `toml:"project_marker"`
	// EditorCommand opens the file instead of copying its path.
	// {path} and {line} are substituted.
	EditorCommand string `toml:"editor_command"`
}

// HistoryConfig controls the submitted line history.
type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
	// Path is the SQLite file (empty = ~/.devconsole/history.db)
	Path       string `toml:"path"`
	MaxEntries int    `toml:"max_entries"`
}

// UIConfig controls the terminal view.
type UIConfig struct {
	Mouse       bool `toml:"mouse"`
	ShowCounter bool `toml:"show_counter"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Console: ConsoleConfig{
			Prefix:        "/",
			MinNameLength: 4,
			NameFiller:    "_",
			Capacity:      25,
			KeepText:      false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Marker: "[DevConsole]",
		},
		Source: SourceConfig{
			MaxEventsPerSec: 200,
			Burst:           50,
		},
		Paths: PathsConfig{
			Extensions:    []string{".cs", ".go"},
			ProjectMarker: "Assets",
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 500,
		},
		UI: UIConfig{
			Mouse:       true,
			ShowCounter: true,
		},
	}
}

// PrefixRune returns the command prefix as a rune.
func (c *Config) PrefixRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Console.Prefix)
	return r
}

// FillerRune returns the name padding character as a rune.
func (c *Config) FillerRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Console.NameFiller)
	return r
}

// LogLevel returns the parsed logging level, info when unset or invalid.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the devconsole configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".devconsole"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryPath returns the history database path, resolving the default.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads the default config file, falling back to defaults when it
// does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}
	fillDefaults(cfg, md)

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Parse decodes configuration from TOML text.
func Parse(text string) (*Config, error) {
	cfg := &Config{}
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TOML: %w", err)
	}
	fillDefaults(cfg, md)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in every key the file did not define. Booleans are
// checked by key so an explicit false is kept.
func fillDefaults(cfg *Config, md toml.MetaData) {
	defaults := Default()

	// Console
	if cfg.Console.Prefix == "" {
		cfg.Console.Prefix = defaults.Console.Prefix
	}
	if cfg.Console.MinNameLength == 0 {
		cfg.Console.MinNameLength = defaults.Console.MinNameLength
	}
	if cfg.Console.NameFiller == "" {
		cfg.Console.NameFiller = defaults.Console.NameFiller
	}
	if cfg.Console.Capacity == 0 {
		cfg.Console.Capacity = defaults.Console.Capacity
	}

	// Logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if !md.IsDefined("logging", "marker") {
		cfg.Logging.Marker = defaults.Logging.Marker
	}

	// Source
	if !md.IsDefined("source", "max_events_per_sec") {
		cfg.Source.MaxEventsPerSec = defaults.Source.MaxEventsPerSec
	}
	if cfg.Source.Burst == 0 {
		cfg.Source.Burst = defaults.Source.Burst
	}

	// Paths
	if len(cfg.Paths.Extensions) == 0 {
		cfg.Paths.Extensions = defaults.Paths.Extensions
	}
	if !md.IsDefined("paths", "project_marker") {
		cfg.Paths.ProjectMarker = defaults.Paths.ProjectMarker
	}

	// History
	if !md.IsDefined("history", "enabled") {
		cfg.History.Enabled = defaults.History.Enabled
	}
	if cfg.History.MaxEntries == 0 {
		cfg.History.MaxEntries = defaults.History.MaxEntries
	}

	// UI
	if !md.IsDefined("ui", "mouse") {
		cfg.UI.Mouse = defaults.UI.Mouse
	}
	if !md.IsDefined("ui", "show_counter") {
		cfg.UI.ShowCounter = defaults.UI.ShowCounter
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes the configuration to path atomically.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# devconsole configuration file")
	fmt.Fprintln(&buf, "# Generated by devconsole - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return writeFileAtomic(path, buf.Bytes(), 0o600)
}

// writeFileAtomic writes to a temp file in the target directory, syncs it
// and renames it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync config: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp, perm); err != nil {
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if utf8.RuneCountInString(c.Console.Prefix) != 1 || c.Console.Prefix == " " || c.Console.Prefix == `"` {
		errs = append(errs, ValidationError{
			Field:   "console.prefix",
			Message: fmt.Sprintf("must be a single character other than space or quote, got %q", c.Console.Prefix),
		})
	}
	if utf8.RuneCountInString(c.Console.NameFiller) != 1 || c.Console.NameFiller == " " {
		errs = append(errs, ValidationError{
			Field:   "console.name_filler",
			Message: fmt.Sprintf("must be a single non-space character, got %q", c.Console.NameFiller),
		})
	}
	if c.Console.MinNameLength < 1 || c.Console.MinNameLength > 64 {
		errs = append(errs, ValidationError{
			Field:   "console.min_name_length",
			Message: fmt.Sprintf("must be between 1 and 64, got %d", c.Console.MinNameLength),
		})
	}
	if c.Console.Capacity < 1 || c.Console.Capacity > 10000 {
		errs = append(errs, ValidationError{
			Field:   "console.capacity",
			Message: fmt.Sprintf("must be between 1 and 10000, got %d", c.Console.Capacity),
		})
	}

	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}

	if c.Source.MaxEventsPerSec < 0 {
		errs = append(errs, ValidationError{
			Field:   "source.max_events_per_sec",
			Message: "must not be negative",
		})
	}
	if c.Source.Burst < 1 {
		errs = append(errs, ValidationError{
			Field:   "source.burst",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Source.Burst),
		})
	}

	for _, ext := range c.Paths.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errs = append(errs, ValidationError{
				Field:   "paths.extensions",
				Message: fmt.Sprintf("extension %q must start with a dot", ext),
			})
		}
	}
	if c.Paths.EditorCommand != "" && !strings.Contains(c.Paths.EditorCommand, "{path}") {
		errs = append(errs, ValidationError{
			Field:   "paths.editor_command",
			Message: "must contain {path}",
		})
	}

	if c.History.MaxEntries < 1 {
		errs = append(errs, ValidationError{
			Field:   "history.max_entries",
			Message: fmt.Sprintf("must be at least 1, got %d", c.History.MaxEntries),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies DEVCONSOLE_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	// DEVCONSOLE_CAPACITY
	if v := os.Getenv("DEVCONSOLE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Console.Capacity = n
		}
	}

	// DEVCONSOLE_PREFIX
	if v := os.Getenv("DEVCONSOLE_PREFIX"); v != "" {
		c.Console.Prefix = v
	}

	// DEVCONSOLE_TAIL
	if v := os.Getenv("DEVCONSOLE_TAIL"); v != "" {
		c.Source.TailPath = v
	}

	// DEVCONSOLE_LOG_LEVEL
	if v := os.Getenv("DEVCONSOLE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	// DEVCONSOLE_KEEP_TEXT
	if v := os.Getenv("DEVCONSOLE_KEEP_TEXT"); v != "" {
		c.Console.KeepText = v == "1" || strings.ToLower(v) == "true"
	}
}
