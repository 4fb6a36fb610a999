package event

import (
	"strings"
	"testing"
)

func TestDecodeCodex_KeyVariants(t *testing.T) {
	payloads := []string{
		`{"type": "agent-turn-complete", "input-messages": ["do it"], "last-assistant-message": "done"}`,
		`{"type": "agent-turn-complete", "input_messages": ["do it"], "last_assistant_message": "done"}`,
		`{"type": "agent-turn-complete", "inputMessages": ["do it"], "lastAssistantMessage": "done"}`,
	}

	for _, payload := range payloads {
		p, err := DecodeCodex(strings.NewReader(payload))
		if err != nil {
			t.Fatalf("DecodeCodex(%s) failed: %v", payload, err)
		}
		if !p.TurnComplete() {
			t.Errorf("Payload should be a completed turn: %s", payload)
		}
		if p.Prompt() != "do it" {
			t.Errorf("Prompt = %q, want %q (payload %s)", p.Prompt(), "do it", payload)
		}
		if p.AssistantMessage() != "done" {
			t.Errorf("AssistantMessage = %q, want %q (payload %s)", p.AssistantMessage(), "done", payload)
		}
	}
}

func TestDecodeCodex_TurnComplete(t *testing.T) {
	tests := []struct {
		payload string
		want    bool
	}{
		{`{"type": "agent-turn-complete"}`, true},
		{`{}`, true}, // older Codex versions sent no type
		{`{"type": "session-start"}`, false},
	}

	for _, tt := range tests {
		p, err := DecodeCodex(strings.NewReader(tt.payload))
		if err != nil {
			t.Fatalf("DecodeCodex(%s) failed: %v", tt.payload, err)
		}
		if p.TurnComplete() != tt.want {
			t.Errorf("TurnComplete(%s) = %v, want %v", tt.payload, p.TurnComplete(), tt.want)
		}
	}
}

func TestDecodeCodex_CwdTraversal(t *testing.T) {
	if _, err := DecodeCodex(strings.NewReader(`{"cwd": "/a/../b"}`)); err == nil {
		t.Error("DecodeCodex should reject cwd containing ..")
	}
}

func TestCodexPrompt_LastUserMessage(t *testing.T) {
	payload := `{"input_messages": [
		{"role": "user", "content": "first ask"},
		{"role": "assistant", "content": "reply"},
		{"role": "user", "content": "second ask"}
	]}`

	p, err := DecodeCodex(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("DecodeCodex() failed: %v", err)
	}
	if got := p.Prompt(); got != "second ask" {
		t.Errorf("Prompt = %q, want %q", got, "second ask")
	}
}

func TestCodexPrompt_FallbackToAnyRole(t *testing.T) {
	payload := `{"input_messages": [{"role": "system", "content": "be brief"}]}`

	p, err := DecodeCodex(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("DecodeCodex() failed: %v", err)
	}
	if got := p.Prompt(); got != "be brief" {
		t.Errorf("Prompt = %q, want %q", got, "be brief")
	}
}

func TestCodexAssistantMessage_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{
			name:    "plain string",
			payload: `{"last_assistant_message": "  all done  "}`,
			want:    "all done",
		},
		{
			name:    "content object",
			payload: `{"last_assistant_message": {"content": "all done"}}`,
			want:    "all done",
		},
		{
			name:    "text object",
			payload: `{"last_assistant_message": {"text": "all done"}}`,
			want:    "all done",
		},
		{
			name:    "list of parts",
			payload: `{"last_assistant_message": {"content": [{"text": "all"}, {"text": "done"}]}}`,
			want:    "all done",
		},
		{
			name:    "absent",
			payload: `{}`,
			want:    "",
		},
		{
			name:    "unsupported type",
			payload: `{"last_assistant_message": 42}`,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodeCodex(strings.NewReader(tt.payload))
			if err != nil {
				t.Fatalf("DecodeCodex() failed: %v", err)
			}
			if got := p.AssistantMessage(); got != tt.want {
				t.Errorf("AssistantMessage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		limit   int
		want    string
	}{
		{
			name:    "short message untouched",
			message: "hello world",
			limit:   80,
			want:    "hello world",
		},
		{
			name:    "whitespace collapsed",
			message: "hello\n\n  world\t!",
			limit:   80,
			want:    "hello world !",
		},
		{
			name:    "long message ellipsized",
			message: strings.Repeat("a", 100),
			limit:   10,
			want:    strings.Repeat("a", 7) + "...",
		},
		{
			name:    "exactly at limit untouched",
			message: strings.Repeat("a", 10),
			limit:   10,
			want:    strings.Repeat("a", 10),
		},
		{
			name:    "multibyte runes cut on rune boundary",
			message: strings.Repeat("é", 20),
			limit:   10,
			want:    strings.Repeat("é", 7) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateMessage(tt.message, tt.limit); got != tt.want {
				t.Errorf("truncateMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
