package awaymode

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"casa/pkg/db"
	"casa/pkg/fleet"
)

// Broadcaster fans an on or off command out to the enabled fleet.
// *fleet.Commander satisfies it.
type Broadcaster interface {
	BroadcastOn(ctx context.Context) (fleet.BroadcastResult, error)
	BroadcastOff(ctx context.Context) (fleet.BroadcastResult, error)
}

// Scheduler evaluates the two away-mode actions, sunset-on and
// night-off, once per tick. Each action fires at most once per calendar
// day in the reference time zone; the settings row carries the
// per-action date markers that enforce this across restarts.
type Scheduler struct {
	settings db.SettingsStore
	fleet    Broadcaster
	sun      SunProvider
	zone     *time.Location

	mu   sync.Mutex
	now  func() time.Time
	draw func() float64
}

func NewScheduler(settings db.SettingsStore, broadcaster Broadcaster, sun SunProvider, zone *time.Location) *Scheduler {
	return &Scheduler{
		settings: settings,
		fleet:    broadcaster,
		sun:      sun,
		zone:     zone,
		now:      time.Now,
		draw:     rand.Float64,
	}
}

// Tick evaluates both actions once. Ticks are serialized; a slow
// broadcast never races a later tick into double-firing.
func (s *Scheduler) Tick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("load away mode settings: %w", err)
	}
	if !cfg.Enabled {
		return nil
	}

	now := s.now().In(s.zone)
	today := now.Format(time.DateOnly)

	if cfg.LastSunsetOn != today {
		sunset := s.sun.Sunset(now.Date()).In(s.zone)
		half := time.Duration(cfg.SunsetWindowMinutes) * time.Minute
		if err := s.evaluate(ctx, action{
			name:  "sunset_on",
			start: sunset.Add(-half),
			end:   sunset.Add(half),
			run:   s.fleet.BroadcastOn,
			mark:  s.settings.MarkSunsetOn,
		}, now, today); err != nil {
			return err
		}
	}

	if cfg.LastNightOff != today {
		center := time.Date(now.Year(), now.Month(), now.Day(), cfg.OffTimeHour, cfg.OffTimeMinute, 0, 0, s.zone)
		half := time.Duration(cfg.OffWindowMinutes) * time.Minute
		if err := s.evaluate(ctx, action{
			name:  "night_off",
			start: center.Add(-half),
			end:   center.Add(half),
			run:   s.fleet.BroadcastOff,
			mark:  s.settings.MarkNightOff,
		}, now, today); err != nil {
			return err
		}
	}
	return nil
}

type action struct {
	name  string
	start time.Time
	end   time.Time
	run   func(context.Context) (fleet.BroadcastResult, error)
	mark  func(ctx context.Context, date string) error
}

func (s *Scheduler) evaluate(ctx context.Context, a action, now time.Time, today string) error {
	switch Decide(now, a.start, a.end, s.draw()) {
	case Wait:
		return nil
	case Missed:
		// The window is never honored retroactively; the day's action
		// is simply dropped. Tomorrow gets a fresh window.
		log.Warn().Str("action", a.name).Time("window_end", a.end).Msg("away mode window missed")
		return nil
	}

	result, err := a.run(ctx)
	if err != nil {
		return fmt.Errorf("broadcast %s: %w", a.name, err)
	}
	// Unreachable devices do not earn a second broadcast; the day is
	// done once the fan-out ran.
	if err := a.mark(ctx, today); err != nil {
		return fmt.Errorf("mark %s: %w", a.name, err)
	}
	log.Info().
		Str("action", a.name).
		Int("total", result.Total).
		Int("succeeded", result.Succeeded).
		Strs("failed", result.Failed).
		Msg("away mode action fired")
	return nil
}

// Run ticks immediately and then on every interval until the context is
// cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.Tick(ctx); err != nil {
			log.Error().Err(err).Msg("away mode tick failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
