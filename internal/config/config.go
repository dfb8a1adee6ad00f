// Package config loads deck settings from a YAML file and DECK_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config holds all deck configuration.
type Config struct {
	// Deck is the slide file; empty runs the built-in deck.
	Deck  string `yaml:"deck" env:"FILE"`
	Theme string `yaml:"theme" env:"THEME"`

	// AutoAdvance moves to the next slide on this period; 0 disables it.
	AutoAdvance time.Duration `yaml:"auto_advance" env:"AUTO_ADVANCE"`
	// RecordingBlink toggles the REC indicator on this period; 0 hides it.
	RecordingBlink time.Duration `yaml:"recording_blink" env:"RECORDING_BLINK"`

	Effects EffectsConfig `yaml:"effects" envPrefix:"EFFECTS_"`
	Remote  RemoteConfig  `yaml:"remote" envPrefix:"REMOTE_"`
	Log     LogConfig     `yaml:"log" envPrefix:"LOG_"`
}

// EffectsConfig configures the decorative layers.
type EffectsConfig struct {
	Particles int  `yaml:"particles" env:"PARTICLES"`
	Confetti  bool `yaml:"confetti" env:"CONFETTI"`
	FrameRate int  `yaml:"frame_rate" env:"FRAME_RATE"`
	Mouse     bool `yaml:"mouse" env:"MOUSE"`
}

// RemoteConfig configures the presenter remote; an empty Addr disables it.
type RemoteConfig struct {
	Addr string `yaml:"addr" env:"ADDR"`
}

// LogConfig configures the log file.
type LogConfig struct {
	File  string `yaml:"file" env:"FILE"`
	Level string `yaml:"level" env:"LEVEL"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Theme:          ThemeDark,
		AutoAdvance:    0,
		RecordingBlink: 5 * time.Second,
		Effects: EffectsConfig{
			Particles: 50,
			Confetti:  true,
			FrameRate: 30,
			Mouse:     true,
		},
		Log: LogConfig{
			File:  filepath.Join(StateDir(), "deck.log"),
			Level: "info",
		},
	}
}

// DemoAutoAdvance is the auto-advance period enabled by --demo.
const DemoAutoAdvance = 30 * time.Second

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Normalize canonicalizes case-insensitive settings, wherever they came from.
func (c *Config) Normalize() {
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

// Validate rejects settings the presenter cannot run with. Call Normalize
// first.
func (c *Config) Validate() error {
	var errs []error
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		errs = append(errs, fmt.Errorf("theme must be %q or %q, got %q", ThemeDark, ThemeLight, c.Theme))
	}
	if c.AutoAdvance < 0 {
		errs = append(errs, fmt.Errorf("auto_advance must not be negative"))
	}
	if c.RecordingBlink < 0 {
		errs = append(errs, fmt.Errorf("recording_blink must not be negative"))
	}
	if c.Effects.Particles < 0 || c.Effects.Particles > 500 {
		errs = append(errs, fmt.Errorf("effects.particles must be in [0, 500], got %d", c.Effects.Particles))
	}
	if c.Effects.FrameRate < 1 || c.Effects.FrameRate > 120 {
		errs = append(errs, fmt.Errorf("effects.frame_rate must be in [1, 120], got %d", c.Effects.FrameRate))
	}
	return errors.Join(errs...)
}

// FrameInterval is the delay between animation frames.
func (c *Config) FrameInterval() time.Duration {
	if c.Effects.FrameRate <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.Effects.FrameRate)
}

// DefaultPath returns XDG_CONFIG_HOME/deck/config.yaml or ~/.config/deck/config.yaml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "deck", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "deck", "config.yaml")
}

// StateDir returns XDG_STATE_HOME/deck or ~/.local/state/deck.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "deck")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "deck")
}
