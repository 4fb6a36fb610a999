package cleanup

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rotisserie/eris"
)

// autoCleanupInterval is the minimum gap between automatic cleanup runs.
// Advisory pacing only; manual cleanup ignores it.
const autoCleanupInterval = 24 * time.Hour

// Marker paces automatic cleanup through a timestamp file. The file's mtime
// is the time of the last successful run.
type Marker struct {
	path string
}

// NewMarker creates a marker at path.
func NewMarker(path string) *Marker {
	return &Marker{path: path}
}

// ShouldRun reports whether enough time has passed since the last run.
// A missing or unreadable marker means cleanup should run.
func (m *Marker) ShouldRun() bool {
	info, err := os.Stat(m.path)
	if err != nil {
		return true
	}
	return time.Since(info.ModTime()) > autoCleanupInterval
}

// Done records a successful cleanup by touching the marker.
func (m *Marker) Done() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return eris.Wrapf(err, "failed to create marker directory for: %s", m.path)
	}

	now := time.Now()
	if err := os.Chtimes(m.path, now, now); err == nil {
		return nil
	}

	file, err := os.OpenFile(m.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return eris.Wrapf(err, "failed to touch cleanup marker: %s", m.path)
	}
	return file.Close()
}

// TryLock takes a cross-process lock so that two racing Stop handlers don't
// both run auto-cleanup. Returns a release function, or ok=false when another
// process already holds the lock.
func (m *Marker) TryLock() (release func(), ok bool) {
	lock := flock.New(m.path + ".lock")
	locked, err := lock.TryLock()
	if err != nil || !locked {
		return nil, false
	}
	return func() {
		//nolint:errcheck // Releasing a held lock; nothing to do on failure
		lock.Unlock()
	}, true
}
