package discovery

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Runner sweeps the network on a fixed interval and reconciles each
// sweep into the inventory.
type Runner struct {
	prober     *Prober
	reconciler *Reconciler
	interval   time.Duration
}

func NewRunner(prober *Prober, reconciler *Reconciler, interval time.Duration) *Runner {
	return &Runner{prober: prober, reconciler: reconciler, interval: interval}
}

// Sweep runs a single probe-and-reconcile pass.
func (r *Runner) Sweep(ctx context.Context) (Summary, error) {
	found, err := r.prober.Search(ctx)
	if err != nil {
		return Summary{}, err
	}
	log.Debug().Int("found", len(found)).Msg("discovery probe finished")
	return r.reconciler.Run(ctx, found), nil
}

// Run sweeps immediately and then on every interval tick until the
// context is cancelled. A failed sweep is logged and retried on the
// next tick.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.Sweep(ctx); err != nil {
			log.Error().Err(err).Msg("discovery sweep failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
