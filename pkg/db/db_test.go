package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "casa.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	ctx := context.Background()
	if err := database.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	if err := database.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap() error: %v", err)
	}
	return database
}

func testSwitch(name, ip, udn, serial string) *Switch {
	return &Switch{
		Name:         name,
		IPAddress:    ip,
		Port:         49153,
		UDN:          udn,
		SerialNumber: serial,
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	if err := database.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error: %v", err)
	}
	version, err := database.SchemaVersion(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if version != currentSchemaVersion {
		t.Errorf("SchemaVersion() = %d, want %d", version, currentSchemaVersion)
	}
}

func TestCreateRequiresIdentity(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	err := database.Switches().Create(ctx, testSwitch("No Identity", "192.168.1.10", "", ""))
	if !errors.Is(err, ErrMissingIdentity) {
		t.Errorf("Create without udn/serial: got %v, want ErrMissingIdentity", err)
	}

	// Either identifier alone is enough.
	if err := database.Switches().Create(ctx, testSwitch("UDN Only", "192.168.1.11", "uuid:Socket-1", "")); err != nil {
		t.Errorf("Create with udn only: %v", err)
	}
	if err := database.Switches().Create(ctx, testSwitch("Serial Only", "192.168.1.12", "", "221435K011????")); err != nil {
		t.Errorf("Create with serial only: %v", err)
	}
}

func TestUniqueIdentifiers(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	store := database.Switches()

	if err := store.Create(ctx, testSwitch("First", "192.168.1.20", "uuid:Socket-A", "SER-A")); err != nil {
		t.Fatal(err)
	}

	if err := store.Create(ctx, testSwitch("Dup UDN", "192.168.1.21", "uuid:Socket-A", "SER-B")); err == nil {
		t.Error("duplicate udn accepted")
	}
	if err := store.Create(ctx, testSwitch("Dup Serial", "192.168.1.22", "uuid:Socket-C", "SER-A")); err == nil {
		t.Error("duplicate serial accepted")
	}

	// Several rows without serial numbers must coexist.
	if err := store.Create(ctx, testSwitch("No Serial 1", "192.168.1.23", "uuid:Socket-D", "")); err != nil {
		t.Errorf("first empty serial: %v", err)
	}
	if err := store.Create(ctx, testSwitch("No Serial 2", "192.168.1.24", "uuid:Socket-E", "")); err != nil {
		t.Errorf("second empty serial: %v", err)
	}
}

func TestFindCascadeLookups(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	store := database.Switches()

	sw := testSwitch("Porch Light", "192.168.1.30", "uuid:Socket-Porch", "SER-PORCH")
	sw.MACAddress = "58:EF:68:FB:C2:37"
	if err := store.Create(ctx, sw); err != nil {
		t.Fatal(err)
	}

	if got, err := store.FindByUDN(ctx, "uuid:Socket-Porch"); err != nil || got.ID != sw.ID {
		t.Errorf("FindByUDN: got %v, %v", got, err)
	}
	if got, err := store.FindBySerial(ctx, "SER-PORCH"); err != nil || got.ID != sw.ID {
		t.Errorf("FindBySerial: got %v, %v", got, err)
	}
	if got, err := store.FindByMAC(ctx, "58:EF:68:FB:C2:37"); err != nil || got.ID != sw.ID {
		t.Errorf("FindByMAC: got %v, %v", got, err)
	}
	if got, err := store.FindByIPAndName(ctx, "192.168.1.30", "Porch Light"); err != nil || got.ID != sw.ID {
		t.Errorf("FindByIPAndName: got %v, %v", got, err)
	}

	if _, err := store.FindByUDN(ctx, "uuid:Nope"); !errors.Is(err, ErrSwitchNotFound) {
		t.Errorf("FindByUDN miss: got %v, want ErrSwitchNotFound", err)
	}
	// An empty MAC must never match rows that have no MAC recorded.
	noMAC := testSwitch("No MAC", "192.168.1.31", "uuid:Socket-NoMAC", "")
	if err := store.Create(ctx, noMAC); err != nil {
		t.Fatal(err)
	}
	if _, err := store.FindByMAC(ctx, ""); !errors.Is(err, ErrSwitchNotFound) {
		t.Errorf("FindByMAC(\"\"): got %v, want ErrSwitchNotFound", err)
	}
}

func TestTouchUpdatesLastSeen(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	store := database.Switches()

	sw := testSwitch("Lamp", "192.168.1.40", "uuid:Socket-Lamp", "")
	if err := store.Create(ctx, sw); err != nil {
		t.Fatal(err)
	}
	if !sw.LastSeen.IsZero() {
		t.Fatalf("new switch has last_seen %v", sw.LastSeen)
	}

	if err := store.Touch(ctx, sw.ID); err != nil {
		t.Fatalf("Touch() error: %v", err)
	}
	got, err := store.Get(ctx, sw.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LastSeen.IsZero() {
		t.Error("last_seen still zero after Touch")
	}
}

func TestListEnabledExcludesDisabled(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	store := database.Switches()

	a := testSwitch("A", "192.168.1.50", "uuid:A", "")
	b := testSwitch("B", "192.168.1.51", "uuid:B", "")
	for _, sw := range []*Switch{a, b} {
		if err := store.Create(ctx, sw); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.SetDisabled(ctx, b.ID, true); err != nil {
		t.Fatal(err)
	}

	enabled, err := store.ListEnabled(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(enabled) != 1 || enabled[0].ID != a.ID {
		t.Errorf("ListEnabled() = %v, want only %d", enabled, a.ID)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("List() returned %d rows, want 2", len(all))
	}
}

func TestSettingsSingleton(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	// Bootstrap already created the row; a second bootstrap is a no-op.
	if err := database.Bootstrap(ctx); err != nil {
		t.Fatalf("second Bootstrap() error: %v", err)
	}
	var count int
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM away_mode_settings`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("settings rows = %d, want 1", count)
	}

	// The schema refuses a second row outright.
	_, err := database.ExecContext(ctx, `INSERT INTO away_mode_settings (id, enabled) VALUES (2, 1)`)
	if err == nil {
		t.Error("second settings row accepted")
	}
}

func TestSettingsUpdateAndMarkers(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	store := database.Settings()

	settings, err := store.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if settings.Enabled {
		t.Error("away mode enabled by default")
	}
	if settings.OffTimeHour != 22 || settings.OffTimeMinute != 30 {
		t.Errorf("default off time = %02d:%02d, want 22:30", settings.OffTimeHour, settings.OffTimeMinute)
	}

	settings.Enabled = true
	settings.SunsetWindowMinutes = 45
	if err := store.Update(ctx, settings); err != nil {
		t.Fatal(err)
	}

	if err := store.MarkSunsetOn(ctx, "2026-08-29"); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Enabled || got.SunsetWindowMinutes != 45 {
		t.Errorf("Update not applied: %+v", got)
	}
	if got.LastSunsetOn != "2026-08-29" {
		t.Errorf("LastSunsetOn = %q, want 2026-08-29", got.LastSunsetOn)
	}
	if got.LastNightOff != "" {
		t.Errorf("LastNightOff = %q, want empty", got.LastNightOff)
	}

	// Update must not clobber markers.
	got.Enabled = false
	if err := store.Update(ctx, got); err != nil {
		t.Fatal(err)
	}
	again, err := store.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if again.LastSunsetOn != "2026-08-29" {
		t.Errorf("Update clobbered LastSunsetOn: %q", again.LastSunsetOn)
	}
}
