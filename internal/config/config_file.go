package config

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/anoyetta/specialspelltimer/internal/appdata"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	LogLevel       string `toml:"log_level"`
	UpdateInterval string `toml:"update_interval"`
	ToggleOffset   *int   `toml:"toggle_offset"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns <app-data>/anoyetta/ACT/ACT.SpecialSpellTimer.toml.
func DefaultConfigPath() string {
	return appdata.ConfigPath(appdata.Root())
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setInt("toggle-offset", fc.ToggleOffset, &cfg.ToggleOffset)

	return s.setDuration("update-interval", fc.UpdateInterval, &cfg.UpdateInterval)
}

// EncodeFileConfig renders cfg as TOML.
func EncodeFileConfig(cfg Config) ([]byte, error) {
	offset := cfg.ToggleOffset
	return toml.Marshal(FileConfig{
		LogLevel:       cfg.LogLevel,
		UpdateInterval: cfg.UpdateInterval.String(),
		ToggleOffset:   &offset,
	})
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
