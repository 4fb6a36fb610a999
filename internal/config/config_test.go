package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Notification.Mode != ModeAll {
		t.Errorf("Default mode = %s, want %s", cfg.Notification.Mode, ModeAll)
	}
	if cfg.Notification.ThresholdSeconds != 10 {
		t.Errorf("Default threshold = %d, want 10", cfg.Notification.ThresholdSeconds)
	}
	if cfg.Notification.Sound != "default" {
		t.Errorf("Default sound = %s, want default", cfg.Notification.Sound)
	}
	if cfg.Cleanup.RetentionDays != 30 {
		t.Errorf("Default retention = %d, want 30", cfg.Cleanup.RetentionDays)
	}
	if !cfg.Cleanup.AutoCleanupEnabled {
		t.Error("Auto-cleanup should be enabled by default")
	}
	if !cfg.Cleanup.ExportBeforeCleanup {
		t.Error("Export before cleanup should be enabled by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Default log level = %s, want info", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestDir_EnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("AI_NOTIFY_CONFIG_DIR", tmpDir)

	if got := Dir(); got != tmpDir {
		t.Errorf("Dir() = %s, want %s", got, tmpDir)
	}
	if got := Path(); got != filepath.Join(tmpDir, "config.yaml") {
		t.Errorf("Path() = %s, want %s", got, filepath.Join(tmpDir, "config.yaml"))
	}
	if got := ExportDir(); got != filepath.Join(tmpDir, "exports") {
		t.Errorf("ExportDir() = %s, want %s", got, filepath.Join(tmpDir, "exports"))
	}
}

func TestDir_XDGFallback(t *testing.T) {
	t.Setenv("AI_NOTIFY_CONFIG_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")

	want := filepath.Join("/xdg/config", "ai-notify")
	if got := Dir(); got != want {
		t.Errorf("Dir() = %s, want %s", got, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() of missing file should return defaults, got error: %v", err)
	}
	if cfg.Notification.Mode != ModeAll {
		t.Errorf("Missing file should yield defaults, got mode %s", cfg.Notification.Mode)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Notification.Mode = ModePermissionOnly
	cfg.Notification.ThresholdSeconds = 42
	cfg.Notification.ExcludePatterns = []string{"/commit", "/clear"}
	cfg.Cleanup.RetentionDays = 7
	cfg.Logging.Level = "debug"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if loaded.Notification.Mode != ModePermissionOnly {
		t.Errorf("Mode = %s, want %s", loaded.Notification.Mode, ModePermissionOnly)
	}
	if loaded.Notification.ThresholdSeconds != 42 {
		t.Errorf("Threshold = %d, want 42", loaded.Notification.ThresholdSeconds)
	}
	if len(loaded.Notification.ExcludePatterns) != 2 || loaded.Notification.ExcludePatterns[0] != "/commit" {
		t.Errorf("ExcludePatterns = %v, want [/commit /clear]", loaded.Notification.ExcludePatterns)
	}
	if loaded.Cleanup.RetentionDays != 7 {
		t.Errorf("RetentionDays = %d, want 7", loaded.Cleanup.RetentionDays)
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("Log level = %s, want debug", loaded.Logging.Level)
	}
}

func TestLoad_PartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "notification:\n  mode: permission_only\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Notification.Mode != ModePermissionOnly {
		t.Errorf("Mode = %s, want permission_only", cfg.Notification.Mode)
	}
	if cfg.Cleanup.RetentionDays != 30 {
		t.Errorf("Unset retention should default to 30, got %d", cfg.Cleanup.RetentionDays)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("notification: [not a map"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid mode",
			mutate:  func(c *Config) { c.Notification.Mode = "loud" },
			wantErr: "invalid notification mode",
		},
		{
			name:    "negative threshold",
			mutate:  func(c *Config) { c.Notification.ThresholdSeconds = -1 },
			wantErr: "threshold_seconds",
		},
		{
			name:    "zero retention",
			mutate:  func(c *Config) { c.Cleanup.RetentionDays = 0 },
			wantErr: "retention_days",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error %q should mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}
