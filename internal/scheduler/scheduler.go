package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type Task func(ctx context.Context) error

// Every runs task now and then on every tick until ctx is done. Runs never
// overlap: a tick that fires during a slow run is skipped.
func Every(ctx context.Context, interval time.Duration, name string, log zerolog.Logger, task Task) {
	run := func() {
		start := time.Now()
		if err := task(ctx); err != nil {
			log.Error().Err(err).Str("task", name).Dur("took", time.Since(start)).Msg("task failed")
			return
		}
		log.Debug().Str("task", name).Dur("took", time.Since(start)).Msg("task done")
	}

	run()

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
