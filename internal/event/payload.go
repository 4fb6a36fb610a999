// Package event decodes hook payloads and dispatches them to the session
// store, the notification filter and the notifier.
//
// Each event type gets its own payload struct, validated at the boundary so
// handlers never see a malformed record.
package event

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// maxSessionIDLength bounds the correlation key supplied by the CLI.
const maxSessionIDLength = 255

// UserPromptSubmit is emitted when the user submits a prompt.
type UserPromptSubmit struct {
	SessionID string `json:"session_id"`
	Prompt    string `json:"prompt"`
	Cwd       string `json:"cwd"`
}

// Stop is emitted when the assistant finishes a job.
type Stop struct {
	SessionID string `json:"session_id"`
	Cwd       string `json:"cwd"`
}

// Notification is emitted for assistant status messages, including the
// "waiting for input" signal.
type Notification struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// PermissionRequest is emitted when the assistant needs approval to proceed.
type PermissionRequest struct {
	SessionID string    `json:"session_id"`
	Cwd       string    `json:"cwd"`
	ToolInput ToolInput `json:"tool_input"`
}

// AskUserQuestion is emitted when the assistant asks the user a question.
type AskUserQuestion struct {
	SessionID string    `json:"session_id"`
	Cwd       string    `json:"cwd"`
	ToolInput ToolInput `json:"tool_input"`
}

// ToolInput carries the tool call details attached to permission and
// question events.
type ToolInput struct {
	Name        string         `json:"name"`
	Command     string         `json:"command"`
	Description string         `json:"description"`
	Questions   []QuestionItem `json:"questions"`
}

// QuestionItem is one entry of an AskUserQuestion tool call.
type QuestionItem struct {
	Question string `json:"question"`
}

// DecodeUserPromptSubmit reads and validates a UserPromptSubmit payload.
func DecodeUserPromptSubmit(r io.Reader) (UserPromptSubmit, error) {
	var p UserPromptSubmit
	if err := decodeJSON(r, &p); err != nil {
		return p, err
	}
	if err := validateSessionID(p.SessionID, true); err != nil {
		return p, err
	}
	return p, validateCwd(p.Cwd)
}

// DecodeStop reads and validates a Stop payload.
func DecodeStop(r io.Reader) (Stop, error) {
	var p Stop
	if err := decodeJSON(r, &p); err != nil {
		return p, err
	}
	if err := validateSessionID(p.SessionID, true); err != nil {
		return p, err
	}
	return p, validateCwd(p.Cwd)
}

// DecodeNotification reads and validates a Notification payload.
func DecodeNotification(r io.Reader) (Notification, error) {
	var p Notification
	if err := decodeJSON(r, &p); err != nil {
		return p, err
	}
	return p, validateSessionID(p.SessionID, true)
}

// DecodePermissionRequest reads and validates a PermissionRequest payload.
// session_id is optional here: a permission prompt without a tracked session
// still notifies, just without a job number.
func DecodePermissionRequest(r io.Reader) (PermissionRequest, error) {
	var p PermissionRequest
	if err := decodeJSON(r, &p); err != nil {
		return p, err
	}
	if err := validateSessionID(p.SessionID, false); err != nil {
		return p, err
	}
	return p, validateCwd(p.Cwd)
}

// DecodeAskUserQuestion reads and validates an AskUserQuestion payload.
func DecodeAskUserQuestion(r io.Reader) (AskUserQuestion, error) {
	var p AskUserQuestion
	if err := decodeJSON(r, &p); err != nil {
		return p, err
	}
	if err := validateSessionID(p.SessionID, false); err != nil {
		return p, err
	}
	return p, validateCwd(p.Cwd)
}

func decodeJSON(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return eris.Wrap(err, "failed to parse event payload")
	}
	return nil
}

func validateSessionID(sessionID string, required bool) error {
	if sessionID == "" {
		if required {
			return eris.New("missing session_id in input")
		}
		return nil
	}
	if len(sessionID) > maxSessionIDLength {
		return eris.Errorf("invalid session_id: exceeds %d characters", maxSessionIDLength)
	}
	return nil
}

func validateCwd(cwd string) error {
	if strings.Contains(cwd, "..") {
		return eris.New("path traversal detected in cwd")
	}
	return nil
}
