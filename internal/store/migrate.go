package store

import (
	"database/sql"
	"fmt"
)

const schemaVersion = 1

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= schemaVersion {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	stmts := []string{`
CREATE TABLE IF NOT EXISTS signals (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  message_id TEXT NOT NULL,
  thread_id TEXT NOT NULL DEFAULT '',
  subject TEXT NOT NULL DEFAULT '',
  sender TEXT NOT NULL DEFAULT '',
  stage TEXT NOT NULL,
  company TEXT NOT NULL,
  due_hint TEXT NOT NULL DEFAULT '',
  start_time TEXT NOT NULL DEFAULT '',
  meeting_link TEXT NOT NULL DEFAULT '',
  confidence INTEGER NOT NULL DEFAULT 0,
  event_id TEXT NOT NULL DEFAULT '',
  event_link TEXT NOT NULL DEFAULT '',
  detected_at TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS applications (
  company_key TEXT PRIMARY KEY,
  company TEXT NOT NULL,
  last_stage TEXT NOT NULL DEFAULT '',
  signals_count INTEGER NOT NULL DEFAULT 0,
  interviews_scheduled INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS company_domains (
  domain TEXT PRIMARY KEY,
  company TEXT NOT NULL,
  updated_at TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS questions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  company TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT '',
  stage TEXT NOT NULL DEFAULT 'Mixed',
  topic TEXT NOT NULL DEFAULT 'Mixed',
  difficulty TEXT NOT NULL DEFAULT 'Unknown',
  question TEXT NOT NULL,
  source TEXT NOT NULL DEFAULT '',
  dedupe_key TEXT NOT NULL,
  added_at TEXT NOT NULL
);`,

		// ---- Schema v1: indexes ----

		`CREATE UNIQUE INDEX IF NOT EXISTS idx_signals_message_id ON signals(message_id);`,
		`CREATE INDEX IF NOT EXISTS idx_signals_detected_at ON signals(detected_at);`,
		`CREATE INDEX IF NOT EXISTS idx_signals_company ON signals(company);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_questions_dedupe ON questions(dedupe_key);`,
	}
	for i, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return fmt.Errorf("schema v1 step %d: %w", i, err)
		}
	}

	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d;`, schemaVersion)); err != nil {
		return err
	}

	return tx.Commit()
}
