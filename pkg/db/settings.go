package db

import (
	"context"
	"database/sql"
	"errors"
)

// ErrSettingsNotFound indicates the away-mode settings row is missing,
// which means Bootstrap has not run.
var ErrSettingsNotFound = errors.New("away mode settings not found")

// AwayModeSettings is the singleton away-mode configuration. LastSunsetOn
// and LastNightOff are the idempotence markers: the calendar date
// (YYYY-MM-DD, reference time zone) each action last fired on, empty if
// never.
type AwayModeSettings struct {
	Enabled             bool
	SunsetWindowMinutes int
	OffTimeHour         int
	OffTimeMinute       int
	OffWindowMinutes    int
	LastSunsetOn        string
	LastNightOff        string
}

// SettingsStore provides access to the away-mode settings singleton.
type SettingsStore interface {
	Get(ctx context.Context) (*AwayModeSettings, error)
	Update(ctx context.Context, s *AwayModeSettings) error
	MarkSunsetOn(ctx context.Context, date string) error
	MarkNightOff(ctx context.Context, date string) error
}

// Settings returns a SettingsStore for this database.
func (db *DB) Settings() SettingsStore {
	return &settingsStore{db: db}
}

type settingsStore struct {
	db *DB
}

func (s *settingsStore) Get(ctx context.Context) (*AwayModeSettings, error) {
	settings := &AwayModeSettings{}
	err := s.db.QueryRowContext(ctx, `
		SELECT enabled, sunset_window_minutes, off_time_hour, off_time_minute,
			off_window_minutes, last_sunset_on, last_night_off
		FROM away_mode_settings WHERE id = 1
	`).Scan(&settings.Enabled, &settings.SunsetWindowMinutes, &settings.OffTimeHour,
		&settings.OffTimeMinute, &settings.OffWindowMinutes,
		&settings.LastSunsetOn, &settings.LastNightOff)
	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// Update writes the operator-editable fields. The idempotence markers are
// only written through Mark* so a settings edit can never re-arm today's
// actions by accident.
func (s *settingsStore) Update(ctx context.Context, settings *AwayModeSettings) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE away_mode_settings
		SET enabled = ?, sunset_window_minutes = ?, off_time_hour = ?,
			off_time_minute = ?, off_window_minutes = ?
		WHERE id = 1
	`, settings.Enabled, settings.SunsetWindowMinutes, settings.OffTimeHour,
		settings.OffTimeMinute, settings.OffWindowMinutes)
	if err != nil {
		return err
	}
	return requireSettingsRow(result)
}

func (s *settingsStore) MarkSunsetOn(ctx context.Context, date string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE away_mode_settings SET last_sunset_on = ? WHERE id = 1`, date)
	if err != nil {
		return err
	}
	return requireSettingsRow(result)
}

func (s *settingsStore) MarkNightOff(ctx context.Context, date string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE away_mode_settings SET last_night_off = ? WHERE id = 1`, date)
	if err != nil {
		return err
	}
	return requireSettingsRow(result)
}

func requireSettingsRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSettingsNotFound
	}
	return nil
}
