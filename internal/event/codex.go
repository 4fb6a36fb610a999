package event

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// turnCompleteType is the only Codex notify event that produces a
// notification.
const turnCompleteType = "agent-turn-complete"

// CodexPayload is the Codex CLI notify record. Codex has shipped the same
// fields under kebab-case, snake_case and camelCase keys, so decoding
// tolerates all three.
type CodexPayload struct {
	Type                 string
	Cwd                  string
	InputMessages        any
	LastAssistantMessage any
}

// DecodeCodex reads a Codex notify payload.
func DecodeCodex(r io.Reader) (CodexPayload, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return CodexPayload{}, eris.Wrap(err, "failed to parse Codex payload")
	}

	p := CodexPayload{
		Type:                 firstString(raw, "type", "event"),
		InputMessages:        firstValue(raw, "input-messages", "input_messages", "inputMessages"),
		LastAssistantMessage: firstValue(raw, "last-assistant-message", "last_assistant_message", "lastAssistantMessage"),
	}
	if cwd, ok := raw["cwd"].(string); ok {
		p.Cwd = cwd
	}
	return p, validateCwd(p.Cwd)
}

// TurnComplete reports whether this payload should be treated as a completed
// turn. An absent type is accepted for older Codex versions that sent none.
func (p CodexPayload) TurnComplete() bool {
	return p.Type == "" || p.Type == turnCompleteType
}

// Prompt extracts the last user message from the input messages.
func (p CodexPayload) Prompt() string {
	return lastUserMessage(p.InputMessages)
}

// AssistantMessage extracts the assistant's final message text.
func (p CodexPayload) AssistantMessage() string {
	return messageText(p.LastAssistantMessage)
}

func firstValue(raw map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := raw[key]; ok {
			return value
		}
	}
	return nil
}

func firstString(raw map[string]any, keys ...string) string {
	if value, ok := firstValue(raw, keys...).(string); ok {
		return value
	}
	return ""
}

// lastUserMessage picks the last message with role "user", falling back to
// the last message of any role.
func lastUserMessage(messages any) string {
	switch m := messages.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(m)
	case []any:
		var lastUser, lastAny string
		for _, item := range m {
			text := messageText(item)
			if text == "" {
				continue
			}
			if obj, ok := item.(map[string]any); ok && obj["role"] == "user" {
				lastUser = text
			} else {
				lastAny = text
			}
		}
		if lastUser != "" {
			return lastUser
		}
		return lastAny
	default:
		return ""
	}
}

// messageText flattens a message value (string, content object or list of
// parts) into plain text.
func messageText(message any) string {
	switch m := message.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(m)
	case map[string]any:
		for _, key := range []string{"content", "text", "message"} {
			if value, ok := m[key]; ok {
				return messageText(value)
			}
		}
		return ""
	case []any:
		var parts []string
		for _, item := range m {
			if text := messageText(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.TrimSpace(strings.Join(parts, " "))
	default:
		return ""
	}
}

// truncateMessage collapses whitespace and caps the message at limit runes,
// ellipsizing when it was cut.
func truncateMessage(message string, limit int) string {
	normalized := strings.Join(strings.Fields(message), " ")
	runes := []rune(normalized)
	if len(runes) <= limit {
		return normalized
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
