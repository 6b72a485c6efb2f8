package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS proposals (
		id             TEXT PRIMARY KEY,
		session_id     TEXT NOT NULL,
		requirements   TEXT NOT NULL,
		methodology    TEXT NOT NULL,
		total_eur      REAL NOT NULL DEFAULT 0,
		contingency_pct REAL NOT NULL DEFAULT 0,
		payload        TEXT NOT NULL,
		created_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_proposals_session ON proposals(session_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS proposal_roles (
		proposal_id TEXT NOT NULL REFERENCES proposals(id) ON DELETE CASCADE,
		role        TEXT NOT NULL,
		count       REAL NOT NULL CHECK(count >= 0),
		PRIMARY KEY (proposal_id, role)
	)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id         TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		role       TEXT NOT NULL CHECK(role IN ('user','assistant')),
		content    TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at)`,
}
