package models

import "time"

// Session represents one prompt-to-completion unit of work. A conversation
// (identified by SessionID) accumulates one row per submitted prompt.
type Session struct {
	ID              int        `json:"id"`
	SessionID       string     `json:"session_id"`       // Correlation key supplied by the CLI
	CreatedAt       time.Time  `json:"created_at"`       // Authoritative start-of-job time
	Prompt          string     `json:"prompt,omitempty"` // User prompt text, may be empty
	Cwd             string     `json:"cwd,omitempty"`    // Working directory at submission time
	JobNumber       int        `json:"job_number"`       // 1-based ordinal within SessionID
	StoppedAt       *time.Time `json:"stopped_at,omitempty"`
	LastWaitAt      *time.Time `json:"last_wait_at,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"` // StoppedAt - CreatedAt, set once
}

// Stopped reports whether the session has been marked complete.
func (s *Session) Stopped() bool {
	return s.StoppedAt != nil
}

// JobInfo is the summary of the most recently stopped job for a session,
// used to build the completion notification.
type JobInfo struct {
	JobNumber       int
	DurationSeconds int
	Prompt          string
}

// CleanupStats reports the outcome of a retention run.
type CleanupStats struct {
	RowsDeleted  int `json:"rows_deleted"`
	RowsExported int `json:"rows_exported"`
	SpaceFreedKB int `json:"space_freed_kb"`
}
