package config

import (
	"fmt"
	"strconv"
)

// Environment variable names.
const (
	EnvLogLevel       = "SPECIALSPELLTIMER_LOG_LEVEL"
	EnvUpdateInterval = "SPECIALSPELLTIMER_UPDATE_INTERVAL"
	EnvToggleOffset   = "SPECIALSPELLTIMER_TOGGLE_OFFSET"
)

// ApplyEnvConfig applies environment overrides read through lookup
// (normally os.LookupEnv), skipping explicitly changed flags.
func ApplyEnvConfig(cfg *Config, lookup func(string) (string, bool), changed map[string]bool) error {
	s := newConfigSetter(changed)

	if v, ok := lookup(EnvLogLevel); ok {
		s.setString("log-level", v, &cfg.LogLevel)
	}
	if v, ok := lookup(EnvUpdateInterval); ok {
		if err := s.setDuration("update-interval", v, &cfg.UpdateInterval); err != nil {
			return err
		}
	}
	if v, ok := lookup(EnvToggleOffset); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse toggle-offset: %w", err)
		}
		s.setInt("toggle-offset", &n, &cfg.ToggleOffset)
	}
	return nil
}
