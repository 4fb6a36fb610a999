package event

import (
	"database/sql"
	"log/slog"
	"os"
	"strings"

	"github.com/quietdesk/ainotify/internal/cleanup"
	"github.com/quietdesk/ainotify/internal/config"
	"github.com/quietdesk/ainotify/internal/db"
	"github.com/quietdesk/ainotify/internal/filter"
	"github.com/quietdesk/ainotify/internal/notify"
	"github.com/rotisserie/eris"
)

// waitingKeywords identify the "waiting for input" notification variants the
// upstream CLI emits.
var waitingKeywords = []string{"waiting for input", "waiting for user", "approval needed"}

// questionTruncateLimit caps question text shown in a notification.
const questionTruncateLimit = 80

// turnCompleteTruncateLimit caps the Codex turn-complete message body.
const turnCompleteTruncateLimit = 320

// Handler processes one hook event per invocation. All dependencies are
// threaded in explicitly so tests can swap the store, the notifier and the
// configuration independently.
type Handler struct {
	DB        *sql.DB
	Config    *config.Config
	Notifier  notify.Notifier
	Logger    *slog.Logger
	Marker    *cleanup.Marker
	ExportDir string
}

// HandleUserPromptSubmit records a new job for the submitted prompt.
func (h *Handler) HandleUserPromptSubmit(p UserPromptSubmit) error {
	jobNumber, err := db.TrackPrompt(h.DB, p.SessionID, p.Prompt, p.Cwd)
	if err != nil {
		return eris.Wrap(err, "failed to track prompt")
	}

	h.Logger.Info("tracked prompt", "session_id", p.SessionID, "job_number", jobNumber)
	return nil
}

// HandleStop marks the session's current job stopped, notifies if the
// completion passes the filter, and triggers auto-cleanup when due.
func (h *Handler) HandleStop(p Stop) error {
	stopped, err := db.MarkStopped(h.DB, p.SessionID)
	if err != nil {
		return eris.Wrap(err, "failed to mark session stopped")
	}
	if !stopped {
		// Stop with no open job: nothing to report.
		h.Logger.Debug("no open session row for stop event", "session_id", p.SessionID)
	}

	info, err := db.GetJobInfo(h.DB, p.SessionID)
	if err != nil {
		return eris.Wrap(err, "failed to load job info")
	}

	if info != nil {
		durationStr := notify.FormatDuration(info.DurationSeconds)
		ok, pattern := filter.ShouldNotifyCompletion(info.Prompt, info.DurationSeconds, h.Config.Notification)
		if ok {
			notify.JobDone(h.Notifier, notify.ProjectName(p.Cwd), info.JobNumber, durationStr)
			h.Logger.Info("job completed", "job_number", info.JobNumber, "duration", durationStr)
		} else {
			h.Logger.Debug("completion notification filtered",
				"job_number", info.JobNumber,
				"duration", durationStr,
				"exclude_pattern", pattern,
			)
		}
	} else {
		h.Logger.Debug("no stopped job info", "session_id", p.SessionID)
	}

	h.maybeAutoCleanup()
	return nil
}

// HandleNotification suppresses waiting-for-input notifications while
// recording the waiting state; anything else is only logged.
func (h *Handler) HandleNotification(p Notification) error {
	lower := strings.ToLower(p.Message)
	waiting := false
	for _, keyword := range waitingKeywords {
		if strings.Contains(lower, keyword) {
			waiting = true
			break
		}
	}

	if !waiting {
		h.Logger.Info("notification", "message", p.Message)
		return nil
	}

	marked, err := db.MarkWaiting(h.DB, p.SessionID)
	if err != nil {
		return eris.Wrap(err, "failed to mark session waiting")
	}
	if !marked {
		h.Logger.Debug("no open session row for waiting signal", "session_id", p.SessionID)
	} else {
		h.Logger.Debug("suppressed waiting notification", "session_id", p.SessionID)
	}
	return nil
}

// HandlePermissionRequest notifies that the assistant needs approval.
func (h *Handler) HandlePermissionRequest(p PermissionRequest) error {
	if !filter.ShouldNotifyPermissionOrQuestion(h.Config.Notification) {
		return nil
	}

	message := permissionMessage(p.ToolInput)
	jobNumber := h.activeJobNumber(p.SessionID)

	notify.PermissionRequest(h.Notifier, notify.ProjectName(p.Cwd), message, jobNumber)
	h.Logger.Info("permission notification sent", "message", message, "job_number", jobNumber)
	return nil
}

// HandleAskUserQuestion notifies that the assistant asked a question.
func (h *Handler) HandleAskUserQuestion(p AskUserQuestion) error {
	if !filter.ShouldNotifyPermissionOrQuestion(h.Config.Notification) {
		return nil
	}

	message := "Claude is asking a question"
	if len(p.ToolInput.Questions) > 0 && p.ToolInput.Questions[0].Question != "" {
		message = truncateMessage(p.ToolInput.Questions[0].Question, questionTruncateLimit)
	}
	jobNumber := h.activeJobNumber(p.SessionID)

	notify.Question(h.Notifier, notify.ProjectName(p.Cwd), message, jobNumber)
	h.Logger.Info("question notification sent", "message", message, "job_number", jobNumber)
	return nil
}

// HandleCodexNotify notifies on a completed external (Codex) turn. The store
// is not involved: Codex does not correlate sessions.
func (h *Handler) HandleCodexNotify(p CodexPayload) error {
	if !p.TurnComplete() {
		h.Logger.Debug("skipping Codex event", "type", p.Type)
		return nil
	}

	prompt := p.Prompt()
	ok, pattern := filter.ShouldNotifyTurnComplete(prompt, h.Config.Notification)
	if !ok {
		h.Logger.Debug("turn-complete notification filtered", "exclude_pattern", pattern)
		return nil
	}

	cwd := p.Cwd
	if cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			cwd = wd
		}
	}

	message := p.AssistantMessage()
	if message == "" {
		message = prompt
	}
	message = truncateMessage(message, turnCompleteTruncateLimit)

	notify.TurnComplete(h.Notifier, notify.ProjectName(cwd), message)
	h.Logger.Info("turn-complete notification sent")
	return nil
}

// activeJobNumber labels an in-flight job for permission/question messages.
// A store read failure here only costs the label, never the notification.
func (h *Handler) activeJobNumber(sessionID string) int {
	if sessionID == "" || h.DB == nil {
		return 0
	}

	jobNumber, found, err := db.GetActiveJobNumber(h.DB, sessionID)
	if err != nil {
		h.Logger.Warn("failed to look up active job number", "error", err)
		return 0
	}
	if !found {
		return 0
	}
	return jobNumber
}

// maybeAutoCleanup runs retention when enabled, due, and not already running
// in another process. Failures are logged; a broken cleanup must not fail the
// stop event that triggered it.
func (h *Handler) maybeAutoCleanup() {
	if !h.Config.Cleanup.AutoCleanupEnabled || h.Marker == nil {
		return
	}
	if !h.Marker.ShouldRun() {
		return
	}

	release, ok := h.Marker.TryLock()
	if !ok {
		return
	}
	defer release()

	stats, err := cleanup.Run(h.DB, cleanup.Options{
		RetentionDays:      h.Config.Cleanup.RetentionDays,
		ExportBeforeDelete: h.Config.Cleanup.ExportBeforeCleanup,
		ExportDir:          h.ExportDir,
	}, h.Logger)
	if err != nil {
		h.Logger.Error("auto-cleanup failed", "error", err)
		return
	}

	if err := h.Marker.Done(); err != nil {
		h.Logger.Warn("failed to record cleanup marker", "error", err)
	}
	h.Logger.Info("auto-cleanup complete",
		"rows_deleted", stats.RowsDeleted,
		"space_freed_kb", stats.SpaceFreedKB,
	)
}

func permissionMessage(input ToolInput) string {
	switch {
	case input.Command != "":
		return "Command: " + input.Command
	case input.Name != "":
		return "Tool: " + input.Name
	case input.Description != "":
		return input.Description
	default:
		return "Permission requested"
	}
}
