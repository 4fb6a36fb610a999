// Package config loads and saves the ai-notify YAML configuration.
//
// The configuration is read once per invocation and passed explicitly to the
// components that need it; nothing in this package caches state.
package config

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Mode is the global notification policy.
type Mode string

const (
	// ModeAll enables every notification class.
	ModeAll Mode = "all"
	// ModePermissionOnly restricts notifications to permission and question
	// prompts.
	ModePermissionOnly Mode = "permission_only"
	// ModeDisabled suppresses all notifications.
	ModeDisabled Mode = "disabled"
)

// Notification controls which events produce desktop notifications.
type Notification struct {
	Mode             Mode     `yaml:"mode"`
	ThresholdSeconds int      `yaml:"threshold_seconds"` // Minimum job duration to notify; 0 disables the filter
	Sound            string   `yaml:"sound"`
	AppBundle        string   `yaml:"app_bundle"`       // App to focus when the notification is clicked (macOS)
	ExcludePatterns  []string `yaml:"exclude_patterns"` // Case-sensitive prompt prefixes that never notify
}

// Database locates the session store.
type Database struct {
	Path string `yaml:"path"`
}

// Cleanup controls retention of session rows.
type Cleanup struct {
	RetentionDays       int  `yaml:"retention_days"`
	AutoCleanupEnabled  bool `yaml:"auto_cleanup_enabled"`
	ExportBeforeCleanup bool `yaml:"export_before_cleanup"`
}

// Logging controls the invocation log file.
type Logging struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Config is the complete ai-notify configuration.
type Config struct {
	Notification Notification `yaml:"notification"`
	Database     Database     `yaml:"database"`
	Cleanup      Cleanup      `yaml:"cleanup"`
	Logging      Logging      `yaml:"logging"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	configDir := Dir()
	return &Config{
		Notification: Notification{
			Mode:             ModeAll,
			ThresholdSeconds: 10,
			Sound:            "default",
			AppBundle:        "dev.warp.Warp-Stable",
			ExcludePatterns:  []string{},
		},
		Database: Database{
			Path: filepath.Join(configDir, "ai-notify.db"),
		},
		Cleanup: Cleanup{
			RetentionDays:       30,
			AutoCleanupEnabled:  true,
			ExportBeforeCleanup: true,
		},
		Logging: Logging{
			Level: "info",
			Path:  filepath.Join(configDir, "ai-notify.log"),
		},
	}
}

// Dir returns the ai-notify configuration directory.
//
// AI_NOTIFY_CONFIG_DIR overrides everything (used by tests), then
// XDG_CONFIG_HOME, then ~/.config.
func Dir() string {
	if dir := os.Getenv("AI_NOTIFY_CONFIG_DIR"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ai-notify")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		// A hook process without a resolvable home falls back to relative
		// paths rather than failing before it can log anything.
		return ".ai-notify"
	}
	return filepath.Join(home, ".config", "ai-notify")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// ExportDir returns the directory export artifacts are written to.
func ExportDir() string {
	return filepath.Join(Dir(), "exports")
}

// MarkerPath returns the path of the timestamp marker that paces auto-cleanup.
func MarkerPath() string {
	return filepath.Join(Dir(), ".last_cleanup")
}

// EnsureDir creates the configuration directory if it doesn't exist.
func EnsureDir() error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return eris.Wrapf(err, "failed to create config directory: %s", Dir())
	}
	return nil
}

// Load reads the config file at path, filling unset fields with defaults.
// A missing file is not an error: defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read config file: %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, eris.Wrapf(err, "failed to parse config file: %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrapf(err, "invalid config file: %s", path)
	}

	return cfg, nil
}

// LoadDefault reads the config file from the standard location.
func LoadDefault() (*Config, error) {
	return Load(Path())
}

// Save writes the configuration to path in YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "failed to create config directory for: %s", path)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return eris.Wrap(err, "failed to marshal config to YAML")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "failed to write config file: %s", path)
	}

	return nil
}

// Validate checks the configuration settings.
func (c *Config) Validate() error {
	switch c.Notification.Mode {
	case ModeAll, ModePermissionOnly, ModeDisabled:
	default:
		return eris.Errorf(
			"invalid notification mode: %s (must be one of: all, permission_only, disabled)",
			c.Notification.Mode,
		)
	}

	if c.Notification.ThresholdSeconds < 0 {
		return eris.Errorf("threshold_seconds must be >= 0, got %d", c.Notification.ThresholdSeconds)
	}

	if c.Cleanup.RetentionDays < 1 {
		return eris.Errorf("retention_days must be >= 1, got %d", c.Cleanup.RetentionDays)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return eris.Errorf(
			"invalid log level: %s (must be one of: debug, info, warn, error)",
			c.Logging.Level,
		)
	}

	return nil
}
