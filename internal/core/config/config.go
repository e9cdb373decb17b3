// Package config handles configuration loading and validation for the
// lightbox client.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// defaultKeybindings provides built-in keybindings that users can override.
var defaultKeybindings = map[string]Keybinding{
	"y": {
		Sh:   "printf %s {{ shq .URL }} | pbcopy",
		Help: "copy lightbox URL",
	},
}

// Config holds the application configuration.
type Config struct {
	Server      ServerConfig          `yaml:"server"`
	Language    string                `yaml:"language"`
	Pages       []Page                `yaml:"pages"`
	Lightbox    LightboxConfig        `yaml:"lightbox"`
	Keybindings map[string]Keybinding `yaml:"keybindings"`
	HistoryMax  int                   `yaml:"history_max"`
	DataDir     string                `yaml:"-"` // set by caller, not from config file
}

// ServerConfig identifies the catalog server.
type ServerConfig struct {
	// BaseURL is the install path of the catalog, e.g.
	// https://catalog.example.edu/vufind
	BaseURL string `yaml:"base_url"`
	// Headers are added to every request (API keys, proxy auth).
	Headers map[string]string `yaml:"headers"`
}

// Page is a lightbox route pinned to the home screen.
type Page struct {
	Name      string            `yaml:"name"`
	Submodule string            `yaml:"submodule"`
	Action    string            `yaml:"action"`
	Query     map[string]string `yaml:"query"`
}

// LightboxConfig tunes in-modal behavior.
type LightboxConfig struct {
	// LinkPatterns are doublestar globs matched against link hrefs inside
	// lightbox content. Matching links navigate within the modal; everything
	// else is left alone.
	LinkPatterns []string `yaml:"link_patterns"`
}

// Keybinding defines a TUI keybinding backed by a shell command template.
type Keybinding struct {
	Sh      string `yaml:"sh"`      // shell command template
	Help    string `yaml:"help"`    // help text shown in TUI
	Confirm string `yaml:"confirm"` // confirmation prompt (empty = no confirm)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Language: "en",
		Lightbox: LightboxConfig{
			LinkPatterns: []string{"/**"},
		},
		Keybindings: map[string]Keybinding{},
		HistoryMax:  50,
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Merge user keybindings into defaults (user config overrides defaults)
	cfg.Keybindings = mergeKeybindings(defaultKeybindings, cfg.Keybindings)

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Language == "" {
		c.Language = defaults.Language
	}
	if len(c.Lightbox.LinkPatterns) == 0 {
		c.Lightbox.LinkPatterns = defaults.Lightbox.LinkPatterns
	}
	if c.HistoryMax == 0 {
		c.HistoryMax = defaults.HistoryMax
	}
}

// mergeKeybindings merges user keybindings into defaults.
// User keybindings override defaults for the same key.
func mergeKeybindings(defaults, user map[string]Keybinding) map[string]Keybinding {
	result := make(map[string]Keybinding, len(defaults)+len(user))

	for k, v := range defaults {
		result[k] = v
	}

	for k, v := range user {
		result[k] = v
	}

	return result
}

// CookiesFile returns the path to the persisted server cookies.
func (c *Config) CookiesFile() string {
	return filepath.Join(c.DataDir, "cookies.json")
}

// HistoryFile returns the path to the lightbox history JSON file.
func (c *Config) HistoryFile() string {
	return filepath.Join(c.DataDir, "history.json")
}

// TranslationsFile returns the path to the user translation overrides.
func (c *Config) TranslationsFile() string {
	return filepath.Join(c.DataDir, "translations.yaml")
}
