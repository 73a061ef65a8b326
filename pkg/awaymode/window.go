// Package awaymode makes the house look lived-in while nobody is home:
// lights on around sunset, off around bedtime, at a randomized moment
// inside a configured window.
package awaymode

import "time"

// Decision is the outcome of evaluating an action window at one instant.
type Decision int

const (
	// Wait means the moment has not come yet; evaluate again later.
	Wait Decision = iota
	// Fire means the action should run now.
	Fire
	// Missed means the window closed without the action running.
	Missed
)

func (d Decision) String() string {
	switch d {
	case Fire:
		return "fire"
	case Missed:
		return "missed"
	default:
		return "wait"
	}
}

// Past this fraction of the window the action fires unconditionally,
// so a run of unlucky draws can never push it out of the window.
const forcedFireFraction = 0.8

// Decide evaluates one randomized action window. The chance of firing
// ramps linearly from 0 at the window's start to 1 at its end; draw is
// the random sample in [0, 1) to compare against. Calling with draws
// from successive ticks makes the actual firing moment drift from day
// to day, which is the point.
func Decide(now, start, end time.Time, draw float64) Decision {
	if now.Before(start) {
		return Wait
	}
	if !now.Before(end) {
		return Missed
	}
	window := end.Sub(start)
	if window <= 0 {
		return Fire
	}
	elapsed := float64(now.Sub(start)) / float64(window)
	if draw < elapsed || elapsed > forcedFireFraction {
		return Fire
	}
	return Wait
}
