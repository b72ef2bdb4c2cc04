package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"filedrive/internal/engine/retention"
)

// RunRetentionSweeper drives the sweeper on a fixed interval until the
// context is cancelled. Each pass runs to completion; a failing pass is
// logged and the loop keeps going.
func RunRetentionSweeper(ctx context.Context, sweeper *retention.Sweeper, interval time.Duration) {
	log.Info().Dur("interval", interval).Msg("retention sweeper started")

	// First pass immediately so a restart doesn't postpone overdue
	// purges by a full interval.
	runSweep(sweeper)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("retention sweeper stopped")
			return
		case <-ticker.C:
			runSweep(sweeper)
		}
	}
}

func runSweep(sweeper *retention.Sweeper) {
	if _, err := sweeper.Sweep(); err != nil {
		log.Error().Err(err).Msg("retention sweep failed")
	}
}
