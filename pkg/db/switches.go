package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSwitchNotFound indicates no inventory row matched the lookup.
	ErrSwitchNotFound = errors.New("switch not found")

	// ErrMissingIdentity indicates a record create that has neither a UDN
	// nor a serial number. This is a validation failure for that record
	// only, never silently corrected.
	ErrMissingIdentity = errors.New("switch requires a udn or a serial number")
)

// Switch is the persisted representation of one physical WeMo device and
// its last-known network and descriptive state.
type Switch struct {
	ID              int64
	Name            string
	Hostname        string
	IPAddress       string
	Port            int
	Model           string
	ModelName       string
	SerialNumber    string
	UDN             string
	MACAddress      string
	Manufacturer    string
	FirmwareVersion string
	DateAdded       time.Time
	LastSeen        time.Time // zero if the device has never been seen
	Disabled        bool
}

// SwitchStore provides switch inventory operations. Rows are never deleted
// by automated code; removal is an operator action.
type SwitchStore interface {
	Get(ctx context.Context, id int64) (*Switch, error)
	FindByUDN(ctx context.Context, udn string) (*Switch, error)
	FindBySerial(ctx context.Context, serial string) (*Switch, error)
	FindByMAC(ctx context.Context, mac string) (*Switch, error)
	FindByIPAndName(ctx context.Context, ip, name string) (*Switch, error)
	List(ctx context.Context) ([]*Switch, error)
	ListEnabled(ctx context.Context) ([]*Switch, error)
	Create(ctx context.Context, sw *Switch) error
	Update(ctx context.Context, sw *Switch) error
	Touch(ctx context.Context, id int64) error
	Rename(ctx context.Context, id int64, name string) error
	SetDisabled(ctx context.Context, id int64, disabled bool) error
}

// Switches returns a SwitchStore for this database.
func (db *DB) Switches() SwitchStore {
	return &switchStore{db: db}
}

type switchStore struct {
	db *DB
}

const switchColumns = `id, name, hostname, ip_address, port, model, model_name,
	COALESCE(serial_number, ''), COALESCE(udn, ''), mac_address, manufacturer,
	firmware_version, date_added, COALESCE(last_seen, ''), disabled`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSwitch(row rowScanner) (*Switch, error) {
	sw := &Switch{}
	var dateAdded, lastSeen string
	err := row.Scan(&sw.ID, &sw.Name, &sw.Hostname, &sw.IPAddress, &sw.Port,
		&sw.Model, &sw.ModelName, &sw.SerialNumber, &sw.UDN, &sw.MACAddress,
		&sw.Manufacturer, &sw.FirmwareVersion, &dateAdded, &lastSeen, &sw.Disabled)
	if err == sql.ErrNoRows {
		return nil, ErrSwitchNotFound
	}
	if err != nil {
		return nil, err
	}
	sw.DateAdded, _ = time.Parse(time.DateTime, dateAdded)
	if lastSeen != "" {
		sw.LastSeen, _ = time.Parse(time.DateTime, lastSeen)
	}
	return sw, nil
}

func (s *switchStore) one(ctx context.Context, where string, args ...any) (*Switch, error) {
	return scanSwitch(s.db.QueryRowContext(ctx,
		`SELECT `+switchColumns+` FROM switches WHERE `+where+` LIMIT 1`, args...))
}

func (s *switchStore) Get(ctx context.Context, id int64) (*Switch, error) {
	return s.one(ctx, `id = ?`, id)
}

func (s *switchStore) FindByUDN(ctx context.Context, udn string) (*Switch, error) {
	return s.one(ctx, `udn = ?`, udn)
}

func (s *switchStore) FindBySerial(ctx context.Context, serial string) (*Switch, error) {
	return s.one(ctx, `serial_number = ?`, serial)
}

func (s *switchStore) FindByMAC(ctx context.Context, mac string) (*Switch, error) {
	return s.one(ctx, `mac_address = ? AND mac_address != ''`, mac)
}

func (s *switchStore) FindByIPAndName(ctx context.Context, ip, name string) (*Switch, error) {
	return s.one(ctx, `ip_address = ? AND name = ?`, ip, name)
}

func (s *switchStore) list(ctx context.Context, where string) ([]*Switch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+switchColumns+` FROM switches WHERE `+where+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var switches []*Switch
	for rows.Next() {
		sw, err := scanSwitch(rows)
		if err != nil {
			return nil, err
		}
		switches = append(switches, sw)
	}
	return switches, rows.Err()
}

func (s *switchStore) List(ctx context.Context) ([]*Switch, error) {
	return s.list(ctx, `1=1`)
}

func (s *switchStore) ListEnabled(ctx context.Context) ([]*Switch, error) {
	return s.list(ctx, `disabled = 0`)
}

func (s *switchStore) Create(ctx context.Context, sw *Switch) error {
	if sw.UDN == "" && sw.SerialNumber == "" {
		return ErrMissingIdentity
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO switches (name, hostname, ip_address, port, model, model_name,
			serial_number, udn, mac_address, manufacturer, firmware_version, date_added)
		VALUES (?, ?, ?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), ?, ?, ?, ?)
	`, sw.Name, sw.Hostname, sw.IPAddress, sw.Port, sw.Model, sw.ModelName,
		sw.SerialNumber, sw.UDN, sw.MACAddress, sw.Manufacturer, sw.FirmwareVersion,
		now.Format(time.DateTime))
	if err != nil {
		return fmt.Errorf("failed to create switch: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	sw.ID = id
	sw.DateAdded = now
	return nil
}

func (s *switchStore) Update(ctx context.Context, sw *Switch) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE switches SET name = ?, hostname = ?, ip_address = ?, port = ?,
			model = ?, model_name = ?, mac_address = ?, manufacturer = ?,
			firmware_version = ?
		WHERE id = ?
	`, sw.Name, sw.Hostname, sw.IPAddress, sw.Port, sw.Model, sw.ModelName,
		sw.MACAddress, sw.Manufacturer, sw.FirmwareVersion, sw.ID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *switchStore) Touch(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE switches SET last_seen = datetime('now') WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *switchStore) Rename(ctx context.Context, id int64, name string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE switches SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *switchStore) SetDisabled(ctx context.Context, id int64, disabled bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE switches SET disabled = ? WHERE id = ?`, disabled, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSwitchNotFound
	}
	return nil
}
