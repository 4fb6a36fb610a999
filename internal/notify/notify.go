// Package notify delivers desktop notifications.
//
// Delivery is best-effort by contract: Send reports success as a bool and
// never returns an error, so store mutations and filter decisions upstream
// are unaffected by notifier failures.
package notify

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/quietdesk/ainotify/internal/config"
)

// Notifier sends a desktop notification with a title/subtitle/message triple.
type Notifier interface {
	Send(title, subtitle, message string) bool
}

// Desktop sends notifications through the platform notifier binary:
// terminal-notifier on macOS, notify-send elsewhere.
type Desktop struct {
	cfg    config.Notification
	logger *slog.Logger

	// cached availability probe; nil until first Send
	available *bool
}

// NewDesktop creates a Desktop notifier.
func NewDesktop(cfg config.Notification, logger *slog.Logger) *Desktop {
	return &Desktop{cfg: cfg, logger: logger}
}

// Available reports whether a notifier binary exists on this platform.
func (d *Desktop) Available() bool {
	if d.available != nil {
		return *d.available
	}

	_, err := exec.LookPath(d.binary())
	ok := err == nil
	if !ok {
		d.logger.Warn("notifier binary not found", "binary", d.binary())
	}
	d.available = &ok
	return ok
}

// Send delivers a notification. Returns false when the platform notifier is
// unavailable or the command fails; failures are logged, never propagated.
func (d *Desktop) Send(title, subtitle, message string) bool {
	if !d.Available() {
		return false
	}

	cmd := d.command(title, subtitle, message)
	output, err := cmd.CombinedOutput()
	if err != nil {
		d.logger.Error("notification delivery failed", "error", err, "output", string(output))
		return false
	}

	d.logger.Info("notification sent", "title", title, "subtitle", subtitle)
	return true
}

func (d *Desktop) binary() string {
	if runtime.GOOS == "darwin" {
		return "terminal-notifier"
	}
	return "notify-send"
}

func (d *Desktop) command(title, subtitle, message string) *exec.Cmd {
	if runtime.GOOS == "darwin" {
		body := subtitle
		if message != "" {
			body = subtitle + "\n" + message
		}
		args := []string{"-title", title, "-message", body}
		if d.cfg.AppBundle != "" {
			args = append(args, "-activate", d.cfg.AppBundle)
		}
		if d.cfg.Sound != "" {
			args = append(args, "-sound", d.cfg.Sound)
		}
		return exec.Command("terminal-notifier", args...)
	}

	body := subtitle
	if message != "" {
		body = subtitle + "\n" + message
	}
	return exec.Command("notify-send", title, body)
}

// ==================== Message builders ====================

// JobDone sends the job-completion notification.
func JobDone(n Notifier, projectName string, jobNumber int, durationStr string) bool {
	subtitle := fmt.Sprintf("Prompt #%d completed in %s", jobNumber, durationStr)
	return n.Send(projectName, subtitle, "")
}

// PermissionRequest sends the approval-needed notification. jobNumber 0
// means the job could not be resolved and is omitted.
func PermissionRequest(n Notifier, projectName, message string, jobNumber int) bool {
	subtitle := "Approval needed"
	if jobNumber > 0 {
		subtitle = fmt.Sprintf("Approval needed (prompt #%d)", jobNumber)
	}
	return n.Send(projectName, subtitle, message)
}

// Question sends the question-asked notification.
func Question(n Notifier, projectName, question string, jobNumber int) bool {
	subtitle := "Question"
	if jobNumber > 0 {
		subtitle = fmt.Sprintf("Question (prompt #%d)", jobNumber)
	}
	return n.Send(projectName, subtitle, question)
}

// TurnComplete sends the external turn-complete notification.
func TurnComplete(n Notifier, projectName, message string) bool {
	return n.Send(projectName, "Codex turn complete", message)
}

// ProjectName derives a display name from a working directory.
func ProjectName(cwd string) string {
	if cwd == "" {
		return "ai-notify"
	}
	return filepath.Base(cwd)
}

// FormatDuration renders a duration in seconds as a compact human string:
// 53 -> "53s", 130 -> "2m10s", 240 -> "4m", 3661 -> "1h1m".
func FormatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	remSeconds := seconds % 60

	if minutes < 60 {
		if remSeconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, remSeconds)
	}

	hours := minutes / 60
	remMinutes := minutes % 60

	if remMinutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, remMinutes)
}
