// Package poller runs the migration engine over every configured list-set
// pair on a fixed interval.
package poller

import (
	"context"
	"errors"
	"time"

	"tasksweep/internal/cache"
	"tasksweep/internal/config"
	"tasksweep/internal/logger"
	"tasksweep/internal/service"
)

// DefaultInterval is the sleep between poll cycles. Kept short to catch
// ticks quickly while staying under the service's rate limits.
const DefaultInterval = 1 * time.Second

// Migrator is the per-pair migration operation.
type Migrator interface {
	Migrate(ctx context.Context, set config.ListSet) (int, error)
}

// Poller drives cycles of the migration engine until its context is
// cancelled (interrupt signal or tray quit).
type Poller struct {
	migrator Migrator
	cache    *cache.Cache
	settings *config.Settings
	interval time.Duration
}

// New creates a Poller. A non-positive interval falls back to
// DefaultInterval.
func New(m Migrator, c *cache.Cache, settings *config.Settings, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		migrator: m,
		cache:    c,
		settings: settings,
		interval: interval,
	}
}

// Run polls until ctx is cancelled or the credential is rejected.
// Cancellation is the normal way to stop and is not reported as an
// error; an authentication failure is unrecoverable (the next cycle
// would fail the same way) and ends the loop with service.ErrAuth.
func (p *Poller) Run(ctx context.Context) error {
	logger.Info("polling started", logger.Fields{
		"list_sets": len(p.settings.ListSets),
		"interval":  p.interval.String(),
	})

	for {
		if ctx.Err() != nil {
			logger.Info("polling stopped")
			return nil
		}

		if err := p.cycle(ctx); err != nil {
			logger.Error("polling stopped", err)
			return err
		}

		select {
		case <-ctx.Done():
			logger.Info("polling stopped")
			return nil
		case <-time.After(p.interval):
		}
	}
}

// cycle runs the migration engine once per configured pair. Unresolvable
// lists and network failures are logged and skipped; the next cycle is
// their retry. A rejected credential is returned instead: no pair can
// succeed without it.
func (p *Poller) cycle(ctx context.Context) error {
	p.cache.BeginCycle()

	for _, set := range p.settings.ListSets {
		moved, err := p.migrator.Migrate(ctx, set)
		if err != nil {
			if errors.Is(err, service.ErrAuth) {
				return err
			}
			logger.Warn("skipping list set this cycle", err, logger.Fields{
				"primary":      set.Primary,
				"low_priority": set.LowPriority,
			})
			continue
		}
		if moved > 0 {
			logger.Info("moved items", logger.Fields{
				"count":        moved,
				"primary":      set.Primary,
				"low_priority": set.LowPriority,
			})
		}
	}
	return nil
}
