package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "contacts: people and their schedule",
		SQL: `
CREATE TABLE contacts (
    id                    TEXT PRIMARY KEY,
    index_id              INTEGER NOT NULL UNIQUE,
    name                  TEXT NOT NULL,
    tags                  TEXT,
    note                  TEXT NOT NULL DEFAULT '',
    scheduling_mode       TEXT NOT NULL DEFAULT 'cadence',

    -- cadence scheduling
    last_contacted_at     TEXT,
    cadence_interval_days INTEGER NOT NULL DEFAULT 30,
    snoozed_until         TEXT,
    birthday              TEXT NOT NULL DEFAULT '',
    birthday_pre_reminder INTEGER,

    -- tier scheduling
    tier                  TEXT NOT NULL DEFAULT '',
    last_interaction_at   TEXT,
    hooks                 TEXT,

    created_at            TEXT,
    updated_at            TEXT
);

CREATE INDEX idx_contacts_tier ON contacts(tier);
`,
	},
	{
		Version:     2,
		Description: "interactions: append-only contact log",
		SQL: `
CREATE TABLE interactions (
    id          TEXT PRIMARY KEY,
    contact_id  TEXT NOT NULL,
    at          TEXT NOT NULL,
    type        TEXT NOT NULL,
    note        TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE
);

CREATE INDEX idx_interactions_contact ON interactions(contact_id, at DESC);
`,
	},
}

func (s *SQLite) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := s.db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// SchemaVersion returns the current schema version.
func (s *SQLite) SchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
