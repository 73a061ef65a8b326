// Package fleet executes switch operations against the inventory,
// bridging database records to live devices on the network.
package fleet

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"casa/pkg/db"
	"casa/pkg/wemo"
)

// StateUnknown is reported by Poll when a device cannot be reached or
// answers with something unparseable. Reachable devices report raw
// binary states (0, 1, or 8 for Insight standby) untouched.
const StateUnknown = -1

// DeviceClient is the per-device control surface the commander drives.
type DeviceClient interface {
	TurnOn(ctx context.Context) error
	TurnOff(ctx context.Context) error
	GetState(ctx context.Context) (int, error)
}

// BroadcastResult summarizes a fan-out over the enabled fleet.
type BroadcastResult struct {
	Total     int
	Succeeded int
	Failed    []string
}

// Commander runs control operations against switches. Successful
// contact with a device refreshes its last_seen timestamp.
type Commander struct {
	switches db.SwitchStore

	// dial builds a client for one switch. Swapped out in tests.
	dial func(host string, port int) DeviceClient
}

func NewCommander(switches db.SwitchStore) *Commander {
	return &Commander{
		switches: switches,
		dial: func(host string, port int) DeviceClient {
			return wemo.NewClient(host, port)
		},
	}
}

func (c *Commander) client(sw *db.Switch) DeviceClient {
	return c.dial(sw.IPAddress, sw.Port)
}

func (c *Commander) touch(ctx context.Context, sw *db.Switch) {
	if err := c.switches.Touch(ctx, sw.ID); err != nil {
		log.Warn().Err(err).Int64("id", sw.ID).Msg("could not record sighting")
	}
}

// TurnOn switches the device on.
func (c *Commander) TurnOn(ctx context.Context, sw *db.Switch) error {
	if err := c.client(sw).TurnOn(ctx); err != nil {
		return fmt.Errorf("turn on %s: %w", sw.Name, err)
	}
	c.touch(ctx, sw)
	return nil
}

// TurnOff switches the device off.
func (c *Commander) TurnOff(ctx context.Context, sw *db.Switch) error {
	if err := c.client(sw).TurnOff(ctx); err != nil {
		return fmt.Errorf("turn off %s: %w", sw.Name, err)
	}
	c.touch(ctx, sw)
	return nil
}

// State reads the device's binary state, passing raw values through.
func (c *Commander) State(ctx context.Context, sw *db.Switch) (int, error) {
	state, err := c.client(sw).GetState(ctx)
	if err != nil {
		return 0, fmt.Errorf("read state of %s: %w", sw.Name, err)
	}
	c.touch(ctx, sw)
	return state, nil
}

// Toggle flips the device to the opposite of its current state and
// returns the state it was switched to. Any non-zero state, including
// Insight standby, counts as on.
func (c *Commander) Toggle(ctx context.Context, sw *db.Switch) (int, error) {
	state, err := c.State(ctx, sw)
	if err != nil {
		return 0, err
	}
	if state == wemo.StateOff {
		if err := c.TurnOn(ctx, sw); err != nil {
			return 0, err
		}
		return wemo.StateOn, nil
	}
	if err := c.TurnOff(ctx, sw); err != nil {
		return 0, err
	}
	return wemo.StateOff, nil
}

// Poll reads the device's state for monitoring. It never fails: an
// unreachable or misbehaving device reports StateUnknown.
func (c *Commander) Poll(ctx context.Context, sw *db.Switch) int {
	state, err := c.State(ctx, sw)
	if err != nil {
		log.Debug().Err(err).Str("name", sw.Name).Msg("poll failed")
		return StateUnknown
	}
	return state
}

// BroadcastOn turns every enabled switch on. One unreachable device
// never stops the rest of the fleet.
func (c *Commander) BroadcastOn(ctx context.Context) (BroadcastResult, error) {
	return c.broadcast(ctx, "on", c.TurnOn)
}

// BroadcastOff turns every enabled switch off.
func (c *Commander) BroadcastOff(ctx context.Context) (BroadcastResult, error) {
	return c.broadcast(ctx, "off", c.TurnOff)
}

func (c *Commander) broadcast(ctx context.Context, action string, op func(context.Context, *db.Switch) error) (BroadcastResult, error) {
	enabled, err := c.switches.ListEnabled(ctx)
	if err != nil {
		return BroadcastResult{}, fmt.Errorf("list enabled switches: %w", err)
	}
	result := BroadcastResult{Total: len(enabled)}
	for _, sw := range enabled {
		if err := op(ctx, sw); err != nil {
			log.Warn().Err(err).Str("name", sw.Name).Str("action", action).Msg("broadcast skipped unreachable switch")
			result.Failed = append(result.Failed, sw.Name)
			continue
		}
		result.Succeeded++
	}
	log.Info().Str("action", action).Int("total", result.Total).Int("succeeded", result.Succeeded).Msg("fleet broadcast finished")
	return result, nil
}
