// Package appdata locates the per-user application-data root and the fixed
// locations the plugin reads and writes beneath it.
package appdata

import (
	"os"
	"path/filepath"
)

const (
	// SettingsFileName is the panel settings document.
	SettingsFileName = "ACT.SpecialSpellTimer.Panels.xml"

	// ConfigFileName is the optional plugin config file.
	ConfigFileName = "ACT.SpecialSpellTimer.toml"
)

// Root returns the per-user application-data root (%APPDATA% on Windows).
// Falls back to the home directory, then the working directory.
func Root() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return dir
	}
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}

// VendorDir returns <root>/anoyetta/ACT.
func VendorDir(root string) string {
	return filepath.Join(root, "anoyetta", "ACT")
}

// SettingsPath returns <root>/anoyetta/ACT/ACT.SpecialSpellTimer.Panels.xml.
func SettingsPath(root string) string {
	return filepath.Join(VendorDir(root), SettingsFileName)
}

// ConfigPath returns <root>/anoyetta/ACT/ACT.SpecialSpellTimer.toml.
func ConfigPath(root string) string {
	return filepath.Join(VendorDir(root), ConfigFileName)
}

// PluginDir returns the host's shared plugin directory,
// <root>/Advanced Combat Tracker/Plugins.
func PluginDir(root string) string {
	return filepath.Join(root, "Advanced Combat Tracker", "Plugins")
}
