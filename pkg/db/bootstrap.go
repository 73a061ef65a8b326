package db

import (
	"context"
	"fmt"
)

// Bootstrap initializes the database with default data if it's empty.
// This is called after migrations and handles first-run setup: it creates
// the single away-mode settings row. Settings singleton-ness is enforced
// here and by the schema's id check, never by callers.
func (db *DB) Bootstrap(ctx context.Context) error {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM away_mode_settings`).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check settings: %w", err)
	}

	if count > 0 {
		return nil // Already bootstrapped
	}

	// Away mode starts disabled; the operator enables it when leaving.
	_, err = db.ExecContext(ctx, `
		INSERT INTO away_mode_settings (id, enabled)
		VALUES (1, 0)
	`)
	if err != nil {
		return fmt.Errorf("failed to create default settings: %w", err)
	}

	return nil
}

// NeedsBootstrap returns true if the database needs initial setup.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM away_mode_settings`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
