// Package config holds the plugin's tunable settings: log level, update-check
// interval and toggle placement. Values come from defaults, then the optional
// TOML file, then environment variables, then explicitly set CLI flags.
//
// The panel settings document location is fixed and is not part of Config.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/anoyetta/specialspelltimer/pkg/log"
)

const (
	// DefaultUpdateInterval is the minimum time between update checks.
	DefaultUpdateInterval = 6 * time.Hour

	// DefaultToggleOffset is the toggle's distance from the main window's right edge.
	DefaultToggleOffset = 533
)

// Config holds the plugin configuration.
type Config struct {
	LogLevel       string
	UpdateInterval time.Duration
	ToggleOffset   int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		LogLevel:       "info",
		UpdateInterval: DefaultUpdateInterval,
		ToggleOffset:   DefaultToggleOffset,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.UpdateInterval <= 0 {
		return fmt.Errorf("update interval must be positive")
	}
	if c.ToggleOffset < 0 {
		return fmt.Errorf("toggle offset must not be negative")
	}
	return nil
}

// Load builds a Config from defaults, the file at path (if present) and the
// environment, then validates it. changed lists flags the caller set
// explicitly; those fields are left alone.
func Load(path string, changed map[string]bool) (Config, error) {
	cfg := DefaultConfig()

	if path != "" && FileExists(path) {
		fc, err := LoadFileConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
			return cfg, err
		}
	}

	if err := ApplyEnvConfig(&cfg, os.LookupEnv, changed); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if not nil and flag not changed.
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}
