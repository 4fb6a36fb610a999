// Package cleanup bounds session store growth.
//
// A cleanup run deletes sessions older than the retention cutoff, optionally
// exporting them first. Export-then-delete is atomic from the caller's point
// of view: if the export fails, nothing is deleted.
package cleanup

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/quietdesk/ainotify/internal/db"
	"github.com/quietdesk/ainotify/internal/export"
	"github.com/quietdesk/ainotify/internal/models"
	"github.com/rotisserie/eris"
)

// Options configures a cleanup run.
type Options struct {
	RetentionDays      int
	ExportBeforeDelete bool
	ExportDir          string
}

// Run deletes sessions created before now - RetentionDays and reports what
// happened. Recent rows are never touched; a run with no qualifying rows
// succeeds with all counts zero.
func Run(database *sql.DB, opts Options, logger *slog.Logger) (models.CleanupStats, error) {
	stats := models.CleanupStats{}
	cutoff := time.Now().UTC().AddDate(0, 0, -opts.RetentionDays)

	if opts.ExportBeforeDelete {
		sessions, err := db.GetSessionsBefore(database, cutoff)
		if err != nil {
			return stats, eris.Wrap(err, "failed to load sessions for export")
		}

		if len(sessions) > 0 {
			path, err := export.Write(opts.ExportDir, sessions)
			if err != nil {
				// No deletion on export failure.
				return stats, eris.Wrap(err, "export failed, cleanup aborted")
			}
			stats.RowsExported = len(sessions)
			logger.Info("exported sessions before cleanup", "count", len(sessions), "path", path)
		}
	}

	deleted, err := db.DeleteSessionsBefore(database, cutoff)
	if err != nil {
		return stats, eris.Wrap(err, "failed to delete old sessions")
	}
	stats.RowsDeleted = deleted

	if deleted > 0 {
		freedKB, err := db.Vacuum(database)
		if err != nil {
			// Space reporting is advisory; a failed vacuum doesn't fail the run.
			logger.Warn("vacuum failed", "error", err)
		} else {
			stats.SpaceFreedKB = freedKB
		}
	}

	logger.Info("cleanup complete",
		"rows_deleted", stats.RowsDeleted,
		"rows_exported", stats.RowsExported,
		"space_freed_kb", stats.SpaceFreedKB,
	)
	return stats, nil
}
