// Package db persists session rows in a local SQLite file.
//
// Every invocation of the CLI opens the database, performs one logical
// operation inside a single transaction, and exits. Cross-process consistency
// relies on SQLite's file locking plus a bounded retry around each operation.
package db

import (
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quietdesk/ainotify/internal/models"
	"github.com/rotisserie/eris"
)

// busyRetries bounds how many times an operation is retried when another
// process holds the write lock.
const busyRetries = 5

// Open initializes a database connection and applies pending migrations.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open database: %s", dbPath)
	}

	// Short-lived processes race for the same file; let SQLite wait briefly
	// before surfacing SQLITE_BUSY.
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "failed to apply %q", pragma)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to ping database")
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to run migrations")
	}

	return db, nil
}

// withRetry runs fn, retrying a bounded number of times on lock contention.
// fn must be a complete transaction: a retry re-reads any state it depends on.
func withRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < busyRetries; attempt++ {
		err = fn()
		if err == nil || !isBusy(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 25 * time.Millisecond)
	}
	return err
}

// isBusy reports whether err is a transient SQLite lock-contention error.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// ==================== Session lifecycle operations ====================

// TrackPrompt inserts a new session row for a submitted prompt and returns
// the assigned job number.
//
// The next job number is computed as max(job_number)+1 over existing rows for
// the same session_id, inside the same transaction as the insert. Two
// processes racing to submit for the same session can never receive the same
// number: the loser's transaction fails on the write lock and is retried from
// the top, recomputing the max.
func TrackPrompt(db *sql.DB, sessionID, prompt, cwd string) (int, error) {
	var jobNumber int
	err := withRetry(func() error {
		tx, err := db.Begin()
		if err != nil {
			return eris.Wrap(err, "failed to begin transaction")
		}
		//nolint:errcheck // Rollback is a no-op after commit
		defer tx.Rollback()

		var next int
		err = tx.QueryRow(
			"SELECT COALESCE(MAX(job_number), 0) + 1 FROM sessions WHERE session_id = ?",
			sessionID,
		).Scan(&next)
		if err != nil {
			return eris.Wrap(err, "failed to compute next job number")
		}

		_, err = tx.Exec(
			"INSERT INTO sessions (session_id, created_at, prompt, cwd, job_number) VALUES (?, ?, ?, ?, ?)",
			sessionID, time.Now().UTC(), prompt, cwd, next,
		)
		if err != nil {
			return eris.Wrap(err, "failed to insert session")
		}

		if err := tx.Commit(); err != nil {
			return eris.Wrap(err, "failed to commit session insert")
		}

		jobNumber = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	return jobNumber, nil
}

// MarkWaiting records a "waiting for input" signal on the most recently
// created open row for sessionID. Returns false without error when no open
// row exists.
func MarkWaiting(db *sql.DB, sessionID string) (bool, error) {
	marked := false
	err := withRetry(func() error {
		result, err := db.Exec(`
			UPDATE sessions
			SET last_wait_at = ?
			WHERE id = (
				SELECT id FROM sessions
				WHERE session_id = ? AND stopped_at IS NULL
				ORDER BY created_at DESC, id DESC
				LIMIT 1
			)`,
			time.Now().UTC(), sessionID,
		)
		if err != nil {
			return eris.Wrap(err, "failed to mark session waiting")
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return eris.Wrap(err, "failed to get rows affected")
		}

		marked = rows > 0
		return nil
	})
	return marked, err
}

// MarkStopped marks the most recently created open row for sessionID as
// stopped and stores its duration, computed from the row's own created_at.
// Returns false without error when no open row exists.
//
// "Most recently created open row" matches the upstream dispatcher's
// behavior: if a new prompt lands before a prior job's stop event, the stop
// closes the newer row. Known attribution race, kept for compatibility.
func MarkStopped(db *sql.DB, sessionID string) (bool, error) {
	stopped := false
	err := withRetry(func() error {
		tx, err := db.Begin()
		if err != nil {
			return eris.Wrap(err, "failed to begin transaction")
		}
		//nolint:errcheck // Rollback is a no-op after commit
		defer tx.Rollback()

		var id int
		var createdAt time.Time
		err = tx.QueryRow(`
			SELECT id, created_at FROM sessions
			WHERE session_id = ? AND stopped_at IS NULL
			ORDER BY created_at DESC, id DESC
			LIMIT 1`,
			sessionID,
		).Scan(&id, &createdAt)
		if err == sql.ErrNoRows {
			stopped = false
			return tx.Commit()
		}
		if err != nil {
			return eris.Wrap(err, "failed to find open session row")
		}

		now := time.Now().UTC()
		duration := int(now.Sub(createdAt).Seconds())
		if duration < 0 {
			duration = 0
		}

		_, err = tx.Exec(
			"UPDATE sessions SET stopped_at = ?, duration_seconds = ? WHERE id = ?",
			now, duration, id,
		)
		if err != nil {
			return eris.Wrap(err, "failed to mark session stopped")
		}

		if err := tx.Commit(); err != nil {
			return eris.Wrap(err, "failed to commit session stop")
		}

		stopped = true
		return nil
	})
	return stopped, err
}

// GetJobInfo returns the job number, duration and prompt of the most recently
// stopped row for sessionID. Returns nil without error when no stopped row
// exists yet.
func GetJobInfo(db *sql.DB, sessionID string) (*models.JobInfo, error) {
	info := &models.JobInfo{}
	var prompt sql.NullString
	var duration sql.NullInt64

	err := db.QueryRow(`
		SELECT job_number, duration_seconds, prompt FROM sessions
		WHERE session_id = ? AND stopped_at IS NOT NULL
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		sessionID,
	).Scan(&info.JobNumber, &duration, &prompt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "failed to query job info")
	}

	if duration.Valid {
		info.DurationSeconds = int(duration.Int64)
	}
	if prompt.Valid {
		info.Prompt = prompt.String
	}

	return info, nil
}

// GetActiveJobNumber returns the job number of the most recently created row
// for sessionID regardless of stop state. The second return value is false
// when the session has no rows at all.
func GetActiveJobNumber(db *sql.DB, sessionID string) (int, bool, error) {
	var jobNumber int
	err := db.QueryRow(`
		SELECT job_number FROM sessions
		WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		sessionID,
	).Scan(&jobNumber)

	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, eris.Wrap(err, "failed to query active job number")
	}

	return jobNumber, true, nil
}

// ==================== Retention queries ====================

// GetAllSessions retrieves every session row in insertion order.
func GetAllSessions(db *sql.DB) ([]*models.Session, error) {
	return querySessions(db, "SELECT "+sessionColumns+" FROM sessions ORDER BY id")
}

// GetSessionsBefore retrieves sessions created strictly before cutoff, in
// insertion order.
func GetSessionsBefore(db *sql.DB, cutoff time.Time) ([]*models.Session, error) {
	return querySessions(db,
		"SELECT "+sessionColumns+" FROM sessions WHERE created_at < ? ORDER BY id",
		cutoff.UTC(),
	)
}

// CountSessionsBefore counts sessions created strictly before cutoff.
func CountSessionsBefore(db *sql.DB, cutoff time.Time) (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sessions WHERE created_at < ?", cutoff.UTC()).Scan(&count)
	if err != nil {
		return 0, eris.Wrap(err, "failed to count old sessions")
	}
	return count, nil
}

// DeleteSessionsBefore deletes sessions created strictly before cutoff and
// returns the number of rows removed.
func DeleteSessionsBefore(db *sql.DB, cutoff time.Time) (int, error) {
	deleted := 0
	err := withRetry(func() error {
		result, err := db.Exec("DELETE FROM sessions WHERE created_at < ?", cutoff.UTC())
		if err != nil {
			return eris.Wrap(err, "failed to delete old sessions")
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return eris.Wrap(err, "failed to get rows affected")
		}

		deleted = int(rows)
		return nil
	})
	return deleted, err
}

// Vacuum compacts the database file and reports the space reclaimed in
// kilobytes. Reporting is best-effort: callers treat 0 as "unknown".
func Vacuum(db *sql.DB) (int, error) {
	before, err := fileSizeBytes(db)
	if err != nil {
		return 0, err
	}

	if _, err := db.Exec("VACUUM"); err != nil {
		return 0, eris.Wrap(err, "failed to vacuum database")
	}

	after, err := fileSizeBytes(db)
	if err != nil {
		return 0, err
	}

	freed := (before - after) / 1024
	if freed < 0 {
		freed = 0
	}
	return int(freed), nil
}

// fileSizeBytes measures the logical database size via page accounting.
func fileSizeBytes(db *sql.DB) (int64, error) {
	var pageCount, pageSize int64
	if err := db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0, eris.Wrap(err, "failed to query page_count")
	}
	if err := db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0, eris.Wrap(err, "failed to query page_size")
	}
	return pageCount * pageSize, nil
}

// ==================== Row scanning ====================

const sessionColumns = "id, session_id, created_at, prompt, cwd, job_number, stopped_at, last_wait_at, duration_seconds"

func querySessions(db *sql.DB, query string, args ...any) ([]*models.Session, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query sessions")
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "error iterating session rows")
	}

	return sessions, nil
}

func scanSession(rows *sql.Rows) (*models.Session, error) {
	session := &models.Session{}
	var prompt, cwd sql.NullString
	var stoppedAt, lastWaitAt sql.NullTime
	var duration sql.NullInt64

	err := rows.Scan(
		&session.ID,
		&session.SessionID,
		&session.CreatedAt,
		&prompt,
		&cwd,
		&session.JobNumber,
		&stoppedAt,
		&lastWaitAt,
		&duration,
	)
	if err != nil {
		return nil, eris.Wrap(err, "failed to scan session row")
	}

	session.Prompt = prompt.String
	session.Cwd = cwd.String
	if stoppedAt.Valid {
		session.StoppedAt = &stoppedAt.Time
	}
	if lastWaitAt.Valid {
		session.LastWaitAt = &lastWaitAt.Time
	}
	if duration.Valid {
		d := int(duration.Int64)
		session.DurationSeconds = &d
	}

	return session, nil
}
