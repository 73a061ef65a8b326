package awaymode

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"casa/pkg/db"
	"casa/pkg/fleet"
)

type fakeBroadcaster struct {
	on     int
	off    int
	result fleet.BroadcastResult
	err    error
}

func (f *fakeBroadcaster) BroadcastOn(context.Context) (fleet.BroadcastResult, error) {
	f.on++
	return f.result, f.err
}

func (f *fakeBroadcaster) BroadcastOff(context.Context) (fleet.BroadcastResult, error) {
	f.off++
	return f.result, f.err
}

type fixedSun struct{ at time.Time }

func (f fixedSun) Sunset(int, time.Month, int) time.Time { return f.at }

func openSettings(t *testing.T, enabled bool) db.SettingsStore {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "casa.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	ctx := context.Background()
	if err := database.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	store := database.Settings()
	if enabled {
		cfg, err := store.Get(ctx)
		if err != nil {
			t.Fatalf("get settings: %v", err)
		}
		cfg.Enabled = true
		if err := store.Update(ctx, cfg); err != nil {
			t.Fatalf("enable away mode: %v", err)
		}
	}
	return store
}

// at builds an instant on the fixed test day, 2026-03-10 UTC.
func at(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func newTestScheduler(store db.SettingsStore, b Broadcaster, sunset, now time.Time, draw float64) *Scheduler {
	s := NewScheduler(store, b, fixedSun{at: sunset}, time.UTC)
	s.now = func() time.Time { return now }
	s.draw = func() float64 { return draw }
	return s
}

func TestTickDisabledDoesNothing(t *testing.T) {
	store := openSettings(t, false)
	b := &fakeBroadcaster{}
	s := newTestScheduler(store, b, at(18, 0), at(18, 35), 0)

	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if b.on != 0 || b.off != 0 {
		t.Errorf("disabled away mode broadcast on=%d off=%d, want none", b.on, b.off)
	}
}

func TestSunsetOnFiresOncePerDay(t *testing.T) {
	store := openSettings(t, true)
	b := &fakeBroadcaster{}
	// Sunset 18:00, half-window 30 minutes, so the window runs 17:30
	// to 18:30. At 18:05 any draw loses to the ramp and the lights go on.
	s := newTestScheduler(store, b, at(18, 0), at(18, 5), 0)
	ctx := context.Background()

	if err := s.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if b.on != 1 {
		t.Fatalf("broadcast on %d times, want 1", b.on)
	}

	cfg, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if cfg.LastSunsetOn != "2026-03-10" {
		t.Errorf("last_sunset_on = %q, want 2026-03-10", cfg.LastSunsetOn)
	}

	// Same evening, later tick: the marker blocks a second firing.
	s.now = func() time.Time { return at(18, 20) }
	if err := s.Tick(ctx); err != nil {
		t.Fatalf("second Tick: %v", err)
	}
	if b.on != 1 {
		t.Errorf("broadcast on %d times after marker, want still 1", b.on)
	}
}

func TestBeforeWindowWaits(t *testing.T) {
	store := openSettings(t, true)
	b := &fakeBroadcaster{}
	s := newTestScheduler(store, b, at(18, 0), at(17, 0), 0)
	ctx := context.Background()

	if err := s.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if b.on != 0 {
		t.Errorf("broadcast fired %d times before the window", b.on)
	}
	cfg, _ := store.Get(ctx)
	if cfg.LastSunsetOn != "" {
		t.Errorf("last_sunset_on = %q, want empty", cfg.LastSunsetOn)
	}
}

func TestUnluckyDrawThenForcedFloor(t *testing.T) {
	store := openSettings(t, true)
	b := &fakeBroadcaster{}
	// 18:10 is 40 of 60 minutes in; a draw of 0.99 loses the ramp.
	s := newTestScheduler(store, b, at(18, 0), at(18, 10), 0.99)
	ctx := context.Background()

	if err := s.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if b.on != 0 {
		t.Fatalf("unlucky draw still fired")
	}

	// 18:20 is 50 of 60 minutes in, past the forced-fire floor.
	s.now = func() time.Time { return at(18, 20) }
	if err := s.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if b.on != 1 {
		t.Errorf("forced floor fired %d times, want 1", b.on)
	}
}

func TestMissedWindowStaysMissed(t *testing.T) {
	store := openSettings(t, true)
	b := &fakeBroadcaster{}
	s := newTestScheduler(store, b, at(18, 0), at(20, 0), 0)
	ctx := context.Background()

	if err := s.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if b.on != 0 {
		t.Errorf("missed window still broadcast %d times", b.on)
	}
	cfg, _ := store.Get(ctx)
	if cfg.LastSunsetOn != "" {
		t.Errorf("a missed window is dropped, not marked; got %q", cfg.LastSunsetOn)
	}

	// A later tick the same evening stays missed.
	s.now = func() time.Time { return at(21, 0) }
	if err := s.Tick(ctx); err != nil {
		t.Fatalf("second Tick: %v", err)
	}
	if b.on != 0 {
		t.Errorf("dropped day still broadcast %d times later", b.on)
	}
}

func TestNightOffFires(t *testing.T) {
	store := openSettings(t, true)
	b := &fakeBroadcaster{}
	// Defaults put lights-off at 22:30 with a 30 minute half-window.
	// Sunset-on was already handled earlier in the evening.
	ctx := context.Background()
	if err := store.MarkSunsetOn(ctx, "2026-03-10"); err != nil {
		t.Fatalf("mark sunset: %v", err)
	}
	s := newTestScheduler(store, b, at(18, 0), at(22, 55), 0)

	if err := s.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if b.off != 1 || b.on != 0 {
		t.Errorf("broadcast on=%d off=%d, want exactly one off", b.on, b.off)
	}
	cfg, _ := store.Get(ctx)
	if cfg.LastNightOff != "2026-03-10" {
		t.Errorf("last_night_off = %q, want 2026-03-10", cfg.LastNightOff)
	}
}

func TestBothActionsCanFireInOneTick(t *testing.T) {
	store := openSettings(t, true)
	b := &fakeBroadcaster{}
	// A very late sunset overlaps the night-off window.
	s := newTestScheduler(store, b, at(22, 40), at(22, 55), 0)

	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if b.on != 1 || b.off != 1 {
		t.Errorf("broadcast on=%d off=%d, want one of each", b.on, b.off)
	}
}

func TestMarkerSetDespiteDeviceFailures(t *testing.T) {
	store := openSettings(t, true)
	b := &fakeBroadcaster{result: fleet.BroadcastResult{Total: 3, Succeeded: 2, Failed: []string{"Porch"}}}
	s := newTestScheduler(store, b, at(18, 0), at(18, 5), 0)
	ctx := context.Background()

	if err := s.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if b.on != 1 {
		t.Fatalf("broadcast on %d times, want 1", b.on)
	}
	cfg, _ := store.Get(ctx)
	if cfg.LastSunsetOn != "2026-03-10" {
		t.Errorf("per-device failures must not block the marker, got %q", cfg.LastSunsetOn)
	}
}
