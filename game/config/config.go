package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/wricardo/hanoi/game/engine"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Keys maps each logical intent to the key names that trigger it
type Keys struct {
	Left   []string `json:"left"`
	Right  []string `json:"right"`
	Toggle []string `json:"toggle"`
	Cancel []string `json:"cancel"`
}

// Config holds the settings for a play session
type Config struct {
	DefaultDisks int      `json:"default_disks"`
	SpectateAddr string   `json:"spectate_addr,omitempty"`
	LogFile      string   `json:"log_file,omitempty"`
	LogLevel     string   `json:"log_level"`
	Palette      []string `json:"palette"`
	Keys         Keys     `json:"keys"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		DefaultDisks: engine.DefaultDisks,
		LogLevel:     "info",
		Palette: []string{
			"red", "green", "yellow", "blue", "fuchsia",
			"aqua", "white", "olive", "teal",
		},
		Keys: Keys{
			Left:   []string{"Left", "h"},
			Right:  []string{"Right", "l"},
			Toggle: []string{"Space", "Enter"},
			Cancel: []string{"Esc", "q"},
		},
	}
}

// Load reads and validates a settings file. Fields missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when path is
// empty or the file does not exist
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, ErrConfigNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Save validates cfg and writes it to path as indented JSON
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the settings for correctness
func (c *Config) Validate() error {
	if err := engine.ValidateDiskCount(c.DefaultDisks); err != nil {
		return fmt.Errorf("%w: default_disks: %v", ErrInvalidConfig, err)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q: %v", ErrInvalidConfig, c.LogLevel, err)
	}

	if len(c.Palette) == 0 {
		return fmt.Errorf("%w: palette must list at least one color", ErrInvalidConfig)
	}
	for i, color := range c.Palette {
		if strings.TrimSpace(color) == "" {
			return fmt.Errorf("%w: palette entry %d is empty", ErrInvalidConfig, i)
		}
		if _, err := ParseColor(color); err != nil {
			return fmt.Errorf("%w: palette entry %d: %w", ErrInvalidConfig, i, err)
		}
	}

	return c.Keys.validate()
}

// Bindings returns the key lists keyed by intent name
func (k Keys) Bindings() map[string][]string {
	return map[string][]string{
		"left":   k.Left,
		"right":  k.Right,
		"toggle": k.Toggle,
		"cancel": k.Cancel,
	}
}

func (k Keys) validate() error {
	type binding struct {
		key tcell.Key
		r   rune
	}
	seen := make(map[binding]string)
	for _, intent := range []string{"left", "right", "toggle", "cancel"} {
		names := k.Bindings()[intent]
		if len(names) == 0 {
			return fmt.Errorf("%w: keys.%s must list at least one key", ErrInvalidConfig, intent)
		}
		for _, name := range names {
			if name == "" {
				return fmt.Errorf("%w: keys.%s contains an empty key name", ErrInvalidConfig, intent)
			}
			key, r, err := ParseKey(name)
			if err != nil {
				return fmt.Errorf("%w: keys.%s: %w", ErrInvalidConfig, intent, err)
			}
			b := binding{key: key, r: r}
			if other, dup := seen[b]; dup && other != intent {
				return fmt.Errorf("%w: key %q is bound to both %s and %s", ErrInvalidConfig, name, other, intent)
			}
			seen[b] = intent
		}
	}
	return nil
}
