// Package codexcfg updates the Codex CLI notify setting in config.toml.
package codexcfg

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rotisserie/eris"
)

// NotifyCommand is the notify value installed by `ai-notify link codex`.
var NotifyCommand = []string{"ai-notify", "codex"}

// Update reports the outcome of a notify install.
type Update struct {
	Path    string
	Changed bool
	Profile string
}

// Report is the outcome of a notify inspection. Status is "ok", "partial",
// "missing" or "error".
type Report struct {
	Status string
	Path   string
	Notify any
	Err    string
}

// SetNotify sets the notify command in the Codex config at path, in the root
// table or under profiles.<profile> when profile is non-empty. The file is
// created if absent. Returns Changed=false when the value was already set.
func SetNotify(path string, command []string, profile string) (Update, error) {
	update := Update{Path: path, Profile: profile}

	data := map[string]any{}
	if raw, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(raw, &data); err != nil {
			return update, eris.Wrapf(err, "failed to parse Codex config: %s", path)
		}
	} else if !os.IsNotExist(err) {
		return update, eris.Wrapf(err, "failed to read Codex config: %s", path)
	}

	target := data
	if profile != "" {
		profiles, ok := data["profiles"].(map[string]any)
		if !ok {
			profiles = map[string]any{}
			data["profiles"] = profiles
		}
		section, ok := profiles[profile].(map[string]any)
		if !ok {
			section = map[string]any{}
			profiles[profile] = section
		}
		target = section
	}

	desired := make([]any, len(command))
	for i, item := range command {
		desired[i] = item
	}

	if existing, ok := target["notify"]; ok && reflect.DeepEqual(existing, desired) {
		return update, nil
	}
	target["notify"] = desired

	out, err := toml.Marshal(data)
	if err != nil {
		return update, eris.Wrap(err, "failed to marshal Codex config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return update, eris.Wrapf(err, "failed to create Codex config directory for: %s", path)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return update, eris.Wrapf(err, "failed to write Codex config: %s", path)
	}

	update.Changed = true
	return update, nil
}

// Inspect reports whether the Codex config under configRoot routes notify
// through ai-notify.
func Inspect(configRoot string) Report {
	path := filepath.Join(configRoot, "config.toml")

	raw, err := os.ReadFile(path)
	if err != nil {
		return Report{Status: "missing"}
	}

	var data map[string]any
	if err := toml.Unmarshal(raw, &data); err != nil {
		return Report{Status: "error", Path: path, Err: err.Error()}
	}

	notify, ok := data["notify"]
	if !ok || notify == nil {
		return Report{Status: "missing", Path: path}
	}

	if usesAINotify(notify) {
		return Report{Status: "ok", Path: path, Notify: notify}
	}
	return Report{Status: "partial", Path: path, Notify: notify}
}

// usesAINotify checks that the notify value invokes `ai-notify codex`.
func usesAINotify(notify any) bool {
	switch v := notify.(type) {
	case string:
		return strings.Contains(v, "ai-notify") && strings.Contains(v, "codex")
	case []any:
		hasAINotify, hasCodex := false, false
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				continue
			}
			if strings.Contains(s, "ai-notify") {
				hasAINotify = true
			}
			if strings.Contains(s, "codex") {
				hasCodex = true
			}
		}
		return hasAINotify && hasCodex
	default:
		return false
	}
}
