package db

import (
	"context"
	"database/sql"
	"fmt"
)

const currentSchemaVersion = 1

// Schema SQL for version 1. Empty udn/serial values are stored as NULL so
// the UNIQUE constraints only bite on real identifiers.
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version     INTEGER PRIMARY KEY,
    applied_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Switch inventory: one row per physical WeMo device
CREATE TABLE IF NOT EXISTS switches (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    name             TEXT NOT NULL,
    hostname         TEXT NOT NULL DEFAULT '',
    ip_address       TEXT NOT NULL,
    port             INTEGER NOT NULL DEFAULT 0,
    model            TEXT NOT NULL DEFAULT '',
    model_name       TEXT NOT NULL DEFAULT '',
    serial_number    TEXT UNIQUE,
    udn              TEXT UNIQUE,
    mac_address      TEXT NOT NULL DEFAULT '',
    manufacturer     TEXT NOT NULL DEFAULT '',
    firmware_version TEXT NOT NULL DEFAULT '',
    date_added       TEXT NOT NULL DEFAULT (datetime('now')),
    last_seen        TEXT,
    disabled         INTEGER NOT NULL DEFAULT 0
);

-- Away-mode configuration: a singleton row, enforced by the id check
CREATE TABLE IF NOT EXISTS away_mode_settings (
    id                    INTEGER PRIMARY KEY CHECK (id = 1),
    enabled               INTEGER NOT NULL DEFAULT 0,
    sunset_window_minutes INTEGER NOT NULL DEFAULT 30,
    off_time_hour         INTEGER NOT NULL DEFAULT 22,
    off_time_minute       INTEGER NOT NULL DEFAULT 30,
    off_window_minutes    INTEGER NOT NULL DEFAULT 30,
    last_sunset_on        TEXT NOT NULL DEFAULT '',
    last_night_off        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_switches_mac ON switches(mac_address);
CREATE INDEX IF NOT EXISTS idx_switches_ip_name ON switches(ip_address, name);
CREATE INDEX IF NOT EXISTS idx_switches_disabled ON switches(disabled);
`

// Migrate runs database migrations to bring the schema up to date.
func (db *DB) Migrate(ctx context.Context) error {
	version, err := db.getSchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if version >= currentSchemaVersion {
		return nil // Already up to date
	}

	if version < 1 {
		if err := db.applySchemaV1(ctx); err != nil {
			return fmt.Errorf("failed to apply schema v1: %w", err)
		}
	}

	return nil
}

// getSchemaVersion returns the current schema version, or 0 if no schema exists.
func (db *DB) getSchemaVersion(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&count)
	if err != nil {
		return 0, err
	}

	if count == 0 {
		return 0, nil
	}

	var version int
	err = db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, err
	}

	return version, nil
}

// applySchemaV1 applies the initial schema.
func (db *DB) applySchemaV1(ctx context.Context) error {
	return db.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
			return fmt.Errorf("failed to execute schema: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (1)`); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}

		return nil
	})
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	return db.getSchemaVersion(ctx)
}
