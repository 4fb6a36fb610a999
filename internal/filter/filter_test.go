package filter

import (
	"testing"

	"github.com/quietdesk/ainotify/internal/config"
)

func notificationConfig(mode config.Mode, threshold int, patterns ...string) config.Notification {
	return config.Notification{
		Mode:             mode,
		ThresholdSeconds: threshold,
		ExcludePatterns:  patterns,
	}
}

func TestShouldNotifyCompletion(t *testing.T) {
	tests := []struct {
		name        string
		prompt      string
		duration    int
		cfg         config.Notification
		want        bool
		wantPattern string
	}{
		{
			name:     "above threshold notifies",
			prompt:   "refactor the parser",
			duration: 30,
			cfg:      notificationConfig(config.ModeAll, 10),
			want:     true,
		},
		{
			name:     "exactly at threshold notifies",
			prompt:   "refactor the parser",
			duration: 10,
			cfg:      notificationConfig(config.ModeAll, 10),
			want:     true,
		},
		{
			name:     "below threshold is silent",
			prompt:   "refactor the parser",
			duration: 9,
			cfg:      notificationConfig(config.ModeAll, 10),
			want:     false,
		},
		{
			name:     "zero threshold disables duration filter",
			prompt:   "quick one",
			duration: 0,
			cfg:      notificationConfig(config.ModeAll, 0),
			want:     true,
		},
		{
			name:     "permission_only mode is silent",
			prompt:   "refactor the parser",
			duration: 60,
			cfg:      notificationConfig(config.ModePermissionOnly, 10),
			want:     false,
		},
		{
			name:     "disabled mode is silent",
			prompt:   "refactor the parser",
			duration: 60,
			cfg:      notificationConfig(config.ModeDisabled, 10),
			want:     false,
		},
		{
			name:        "exclude prefix match is silent",
			prompt:      "/commit the staged changes",
			duration:    60,
			cfg:         notificationConfig(config.ModeAll, 10, "/commit"),
			want:        false,
			wantPattern: "/commit",
		},
		{
			name:     "pattern mid-prompt does not match",
			prompt:   "please /commit this",
			duration: 60,
			cfg:      notificationConfig(config.ModeAll, 10, "/commit"),
			want:     true,
		},
		{
			name:     "pattern matching is case-sensitive",
			prompt:   "/Commit the staged changes",
			duration: 60,
			cfg:      notificationConfig(config.ModeAll, 10, "/commit"),
			want:     true,
		},
		{
			name:        "first matching pattern is reported",
			prompt:      "/commit now",
			duration:    60,
			cfg:         notificationConfig(config.ModeAll, 10, "/clear", "/commit", "/com"),
			want:        false,
			wantPattern: "/commit",
		},
		{
			name:     "empty prompt never matches patterns",
			prompt:   "",
			duration: 60,
			cfg:      notificationConfig(config.ModeAll, 10, ""),
			want:     true,
		},
		{
			name:     "empty pattern never matches",
			prompt:   "anything",
			duration: 60,
			cfg:      notificationConfig(config.ModeAll, 10, ""),
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pattern := ShouldNotifyCompletion(tt.prompt, tt.duration, tt.cfg)
			if got != tt.want {
				t.Errorf("ShouldNotifyCompletion() = %v, want %v", got, tt.want)
			}
			if pattern != tt.wantPattern {
				t.Errorf("Matched pattern = %q, want %q", pattern, tt.wantPattern)
			}
		})
	}
}

func TestShouldNotifyPermissionOrQuestion(t *testing.T) {
	tests := []struct {
		mode config.Mode
		want bool
	}{
		{config.ModeAll, true},
		{config.ModePermissionOnly, true},
		{config.ModeDisabled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got := ShouldNotifyPermissionOrQuestion(notificationConfig(tt.mode, 10))
			if got != tt.want {
				t.Errorf("ShouldNotifyPermissionOrQuestion(%s) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestShouldNotifyTurnComplete(t *testing.T) {
	tests := []struct {
		name        string
		prompt      string
		cfg         config.Notification
		want        bool
		wantPattern string
	}{
		{
			name:   "all mode notifies regardless of threshold",
			prompt: "short task",
			cfg:    notificationConfig(config.ModeAll, 600),
			want:   true,
		},
		{
			name:   "permission_only mode is silent",
			prompt: "short task",
			cfg:    notificationConfig(config.ModePermissionOnly, 0),
			want:   false,
		},
		{
			name:   "disabled mode is silent",
			prompt: "short task",
			cfg:    notificationConfig(config.ModeDisabled, 0),
			want:   false,
		},
		{
			name:        "exclude prefix applies",
			prompt:      "/clear",
			cfg:         notificationConfig(config.ModeAll, 0, "/clear"),
			want:        false,
			wantPattern: "/clear",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pattern := ShouldNotifyTurnComplete(tt.prompt, tt.cfg)
			if got != tt.want {
				t.Errorf("ShouldNotifyTurnComplete() = %v, want %v", got, tt.want)
			}
			if pattern != tt.wantPattern {
				t.Errorf("Matched pattern = %q, want %q", pattern, tt.wantPattern)
			}
		})
	}
}
