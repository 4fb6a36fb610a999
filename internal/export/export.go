// Package export serializes session rows to timestamped JSON artifacts.
//
// Each run writes a new artifact; nothing is ever overwritten. The artifact
// is self-describing: a manifest header plus every session column.
package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/quietdesk/ainotify/internal/models"
	"github.com/rotisserie/eris"
)

// Artifact is the on-disk export format.
type Artifact struct {
	ExportID   string            `json:"export_id"`
	ExportedAt time.Time         `json:"exported_at"`
	RowCount   int               `json:"row_count"`
	Sessions   []*models.Session `json:"sessions"`
}

// Write serializes sessions to a new artifact in dir and returns its path.
func Write(dir string, sessions []*models.Session) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "failed to create export directory: %s", dir)
	}

	now := time.Now().UTC()
	artifact := Artifact{
		ExportID:   uuid.NewString(),
		ExportedAt: now,
		RowCount:   len(sessions),
		Sessions:   sessions,
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "failed to marshal export artifact")
	}

	// The export id suffix keeps two runs within the same second from
	// colliding.
	name := "sessions-" + now.Format("20060102-150405") + "-" + artifact.ExportID[:8] + ".json"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", eris.Wrapf(err, "failed to write export artifact: %s", path)
	}

	return path, nil
}

// Read loads an artifact from disk.
func Read(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read export artifact: %s", path)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, eris.Wrapf(err, "failed to parse export artifact: %s", path)
	}

	return &artifact, nil
}
