// Package hooks installs and inspects ai-notify commands in Claude Code hook
// configuration files.
//
// The hooks file is owned by the user and may carry hooks from other tools,
// so updates only ever touch the four events ai-notify needs, and existing
// foreign commands are reported as skipped unless force is set.
package hooks

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// RequiredHooks maps each hook event to the ai-notify command that must
// handle it.
var RequiredHooks = map[string]string{
	"UserPromptSubmit":  "ai-notify event user-prompt-submit",
	"Stop":              "ai-notify event stop",
	"Notification":      "ai-notify event notification",
	"PermissionRequest": "ai-notify event permission-request",
}

// eventSubcommands maps hook events to the `ai-notify event` subcommand that
// an installed command must reference.
var eventSubcommands = map[string]string{
	"UserPromptSubmit":  "user-prompt-submit",
	"Stop":              "stop",
	"Notification":      "notification",
	"PermissionRequest": "permission-request",
}

// Update reports the outcome of an install run.
type Update struct {
	Path    string
	Changed bool
	Added   []string
	Updated []string
	Skipped map[string]string // event -> existing command that was left alone
}

// Report is the outcome of an integration inspection. Status is "ok",
// "partial" or "missing".
type Report struct {
	Status        string
	Path          string
	MissingEvents []string
	Errors        map[string]string // path -> parse error
}

// EnsureClaudeHooks makes sure the hooks file at path routes the required
// events to ai-notify. Existing hooks for other tools are skipped unless
// force is set; dryRun computes the result without writing.
func EnsureClaudeHooks(path string, force, dryRun bool) (Update, error) {
	update := Update{Path: path, Skipped: map[string]string{}}

	data := map[string]any{}
	if _, err := os.Stat(path); err == nil {
		raw, err := os.ReadFile(path)
		if err != nil {
			return update, eris.Wrapf(err, "failed to read hooks file: %s", path)
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			return update, eris.Wrapf(err, "failed to parse hooks file: %s", path)
		}
	}

	hooks, ok := data["hooks"].(map[string]any)
	if !ok {
		if _, present := data["hooks"]; present {
			return update, eris.Errorf("hooks field in %s must be an object", path)
		}
		hooks = map[string]any{}
		data["hooks"] = hooks
	}

	for _, event := range sortedEvents() {
		command := RequiredHooks[event]
		existing, present := hooks[event]

		if present && hasCommand(existing, command) {
			continue
		}

		if !present || existing == nil {
			hooks[event] = map[string]any{"command": command}
			update.Added = append(update.Added, event)
			continue
		}

		if force {
			hooks[event] = map[string]any{"command": command}
			update.Updated = append(update.Updated, event)
		} else {
			update.Skipped[event] = summarizeHook(existing)
		}
	}

	update.Changed = len(update.Added) > 0 || len(update.Updated) > 0
	if !update.Changed || dryRun {
		return update, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return update, eris.Wrapf(err, "failed to create hooks directory for: %s", path)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return update, eris.Wrap(err, "failed to marshal hooks file")
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return update, eris.Wrapf(err, "failed to write hooks file: %s", path)
	}

	return update, nil
}

// InspectClaudeHooks searches the known hook config locations and reports
// how completely ai-notify is wired in. The best-scoring candidate wins.
func InspectClaudeHooks(configRoot, projectRoot string) Report {
	candidates := []string{
		filepath.Join(configRoot, "hooks", "hooks.json"),
		filepath.Join(configRoot, "settings.json"),
		filepath.Join(configRoot, "settings.local.json"),
		filepath.Join(projectRoot, ".claude", "settings.json"),
		filepath.Join(projectRoot, ".claude", "settings.local.json"),
	}

	errors := map[string]string{}
	var best *Report

	for _, path := range candidates {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var data map[string]any
		if err := json.Unmarshal(raw, &data); err != nil {
			errors[path] = err.Error()
			continue
		}

		missing := missingEvents(extractHookCommands(data["hooks"]))
		if len(missing) == 0 {
			return Report{Status: "ok", Path: path, Errors: errors}
		}

		report := Report{Status: "partial", Path: path, MissingEvents: missing, Errors: errors}
		if len(missing) == len(RequiredHooks) {
			report.Status = "missing"
		}
		if best == nil || reportScore(report) > reportScore(*best) {
			best = &report
		}
	}

	if best != nil {
		return *best
	}

	return Report{
		Status:        "missing",
		MissingEvents: sortedEvents(),
		Errors:        errors,
	}
}

// hasCommand reports whether the existing hook value already runs the
// expected command, in any of the shapes Claude Code accepts (bare string,
// object with "command", list of either).
func hasCommand(existing any, expected string) bool {
	switch v := existing.(type) {
	case string:
		return strings.TrimSpace(v) == expected
	case map[string]any:
		if command, ok := v["command"].(string); ok && strings.TrimSpace(command) == expected {
			return true
		}
		return false
	case []any:
		for _, item := range v {
			if hasCommand(item, expected) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func summarizeHook(existing any) string {
	switch v := existing.(type) {
	case string:
		return v
	case map[string]any:
		if command, ok := v["command"].(string); ok {
			return command
		}
		return "<object>"
	case []any:
		return "<list>"
	default:
		return "<unknown>"
	}
}

// extractHookCommands flattens a hooks value into per-event command lists.
// Nested "hooks" arrays (the settings.json shape) are followed.
func extractHookCommands(hooks any) map[string][]string {
	obj, ok := hooks.(map[string]any)
	if !ok {
		return nil
	}

	commands := map[string][]string{}
	for event, value := range obj {
		commands[event] = extractCommands(value)
	}
	return commands
}

func extractCommands(value any) []string {
	var commands []string
	switch v := value.(type) {
	case string:
		commands = append(commands, v)
	case map[string]any:
		if command, ok := v["command"].(string); ok {
			commands = append(commands, command)
		}
		if nested, ok := v["hooks"]; ok {
			commands = append(commands, extractCommands(nested)...)
		}
	case []any:
		for _, item := range v {
			commands = append(commands, extractCommands(item)...)
		}
	}
	return commands
}

func missingEvents(commandsByEvent map[string][]string) []string {
	var missing []string
	for _, event := range sortedEvents() {
		subcommand := eventSubcommands[event]
		found := false
		for _, command := range commandsByEvent[event] {
			if strings.Contains(command, "ai-notify") && strings.Contains(command, "event "+subcommand) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, event)
		}
	}
	return missing
}

func reportScore(r Report) int {
	switch r.Status {
	case "ok":
		return 3
	case "partial":
		return 2
	case "missing":
		return 1
	default:
		return 0
	}
}

func sortedEvents() []string {
	events := make([]string, 0, len(RequiredHooks))
	for event := range RequiredHooks {
		events = append(events, event)
	}
	sort.Strings(events)
	return events
}
