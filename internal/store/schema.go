package store

import (
	"context"
	"fmt"
)

const (
	tableNotes     = "notes"
	tableQuizzes   = "quizzes"
	tableAttempts  = "quiz_attempts"
	tableLLMEvents = "llm_request_events"
)

// Timestamps are unix nanoseconds. Deleting a note removes its quizzes,
// and deleting a quiz removes its attempts.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS notes (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quizzes (
		id         TEXT PRIMARY KEY,
		note_id    TEXT NOT NULL REFERENCES notes (id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL,
		questions  TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_attempts (
		id         TEXT PRIMARY KEY,
		quiz_id    TEXT NOT NULL REFERENCES quizzes (id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL,
		answers    TEXT NOT NULL,
		score      INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp     INTEGER NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
}

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS notes_user_updated ON notes (user_id, updated_at)",
	"CREATE INDEX IF NOT EXISTS quizzes_note_user ON quizzes (note_id, user_id, created_at)",
	"CREATE INDEX IF NOT EXISTS attempts_quiz_user ON quiz_attempts (quiz_id, user_id, created_at)",
	"CREATE INDEX IF NOT EXISTS llm_events_purpose_ts ON llm_request_events (purpose, timestamp)",
}

// migrate creates any missing tables and indexes.
func (s *Store) migrate(ctx context.Context) error {
	for _, ddl := range tables {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	for _, idx := range indexes {
		if _, err := s.db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
