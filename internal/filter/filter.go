// Package filter decides whether an event warrants a desktop notification.
//
// All functions are pure: no I/O, no clock, no store access. The matched
// exclude pattern is returned so callers can log why a notification was
// dropped; the outcome never depends on pattern order.
package filter

import (
	"strings"

	"github.com/quietdesk/ainotify/internal/config"
)

// ShouldNotifyCompletion reports whether a completed job should notify.
//
// Completion notifications only fire in "all" mode, for jobs that ran at
// least ThresholdSeconds (inclusive; 0 means no duration filter), with a
// prompt that does not start with any exclude pattern.
func ShouldNotifyCompletion(prompt string, durationSeconds int, cfg config.Notification) (bool, string) {
	if cfg.Mode != config.ModeAll {
		return false, ""
	}

	if durationSeconds < cfg.ThresholdSeconds {
		return false, ""
	}

	if pattern, ok := matchExcludePrefix(prompt, cfg.ExcludePatterns); ok {
		return false, pattern
	}

	return true, ""
}

// ShouldNotifyPermissionOrQuestion reports whether a permission request or
// question prompt should notify. These require an immediate human decision,
// so they are never filtered by duration or prompt content; only "disabled"
// mode suppresses them.
func ShouldNotifyPermissionOrQuestion(cfg config.Notification) bool {
	return cfg.Mode != config.ModeDisabled
}

// ShouldNotifyTurnComplete reports whether an external turn-complete event
// should notify. The external source reports no elapsed time, so the rule is
// the completion rule minus the duration component.
func ShouldNotifyTurnComplete(prompt string, cfg config.Notification) (bool, string) {
	if cfg.Mode != config.ModeAll {
		return false, ""
	}

	if pattern, ok := matchExcludePrefix(prompt, cfg.ExcludePatterns); ok {
		return false, pattern
	}

	return true, ""
}

// matchExcludePrefix returns the first pattern that prefixes prompt.
// Matching is case-sensitive and anchored at the start of the prompt.
func matchExcludePrefix(prompt string, patterns []string) (string, bool) {
	if prompt == "" {
		return "", false
	}
	for _, pattern := range patterns {
		if pattern != "" && strings.HasPrefix(prompt, pattern) {
			return pattern, true
		}
	}
	return "", false
}
