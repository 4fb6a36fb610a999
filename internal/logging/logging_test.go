package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quietdesk/ainotify/internal/config"
)

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ai-notify.log")

	logger, err := New(config.Logging{Level: "info", Path: path})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("tracked prompt", "session_id", "s1")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "tracked prompt") {
		t.Errorf("Log file should contain the message, got: %s", data)
	}
	if !strings.Contains(string(data), "session_id=s1") {
		t.Errorf("Log file should contain structured attributes, got: %s", data)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ai-notify.log")

	logger, err := New(config.Logging{Level: "warn", Path: path})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("quiet")
	logger.Warn("loud")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if strings.Contains(string(data), "quiet") {
		t.Error("Info messages should be filtered at warn level")
	}
	if !strings.Contains(string(data), "loud") {
		t.Error("Warn messages should be written at warn level")
	}
}

func TestNew_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ai-notify.log")

	for i := 0; i < 2; i++ {
		logger, err := New(config.Logging{Level: "info", Path: path})
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		logger.Info("invocation")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if got := strings.Count(string(data), "invocation"); got != 2 {
		t.Errorf("Log file should accumulate across invocations, found %d entries", got)
	}
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	// Must not panic or write anywhere
	logger.Info("discarded")
	logger.Error("discarded")
}
