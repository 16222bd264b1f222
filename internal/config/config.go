// Package config holds the command-line configuration shared by the
// settingsgen commands.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config is populated from SETTINGSGEN_* environment variables; command flags
// override individual fields afterwards.
type Config struct {
	SchemaDir     string        `env:"SETTINGSGEN_SCHEMA_DIR"`
	OpenAPI       string        `env:"SETTINGSGEN_OPENAPI"`
	Renderer      string        `env:"SETTINGSGEN_RENDERER" envDefault:"vanilla"`
	Theme         string        `env:"SETTINGSGEN_THEME"`
	ThemeVariant  string        `env:"SETTINGSGEN_THEME_VARIANT"`
	ThemeFiles    []string      `env:"SETTINGSGEN_THEME_FILES" envSeparator:","`
	Preset        string        `env:"SETTINGSGEN_PRESET"`
	LogLevel      string        `env:"SETTINGSGEN_LOG_LEVEL" envDefault:"info"`
	WatchDebounce time.Duration `env:"SETTINGSGEN_WATCH_DEBOUNCE" envDefault:"250ms"`
}

// Load reads Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the commands cannot honour.
func (c Config) Validate() error {
	if c.SchemaDir != "" && c.OpenAPI != "" {
		return errors.New("config: schema dir and openapi document are mutually exclusive")
	}
	if strings.TrimSpace(c.Renderer) == "" {
		return errors.New("config: renderer is required")
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("config: watch debounce must not be negative, got %s", c.WatchDebounce)
	}
	return nil
}
