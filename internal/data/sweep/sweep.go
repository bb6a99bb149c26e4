// Package sweep removes expired entries from the local KV store.
package sweep

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper deletes expired entries.
type Sweeper interface {
	SweepExpired(ctx context.Context) error
}

// Start sweeps once immediately and then every interval until ctx is
// cancelled. It blocks, so callers run it in a goroutine.
func Start(ctx context.Context, s Sweeper, interval time.Duration) {
	sweepOnce(ctx, s)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepOnce(ctx, s)
		}
	}
}

func sweepOnce(ctx context.Context, s Sweeper) {
	if err := s.SweepExpired(ctx); err != nil && ctx.Err() == nil {
		log.Debug().Err(err).Msg("kv sweep failed")
	}
}
