package workers

import (
	"context"
	"time"

	"github.com/leaflock/leaflock/internal/logger"
	"github.com/leaflock/leaflock/internal/syncer"
)

// SyncWorker triggers a sync round-trip on a fixed interval. Server-side
// failures are reported through the engine's own status/event machinery, so
// the worker only ever sees local errors; it logs those and keeps ticking.
type SyncWorker struct {
	runner   SyncRunner
	interval time.Duration
	log      *logger.Logger
}

// NewSyncWorker builds a periodic worker around the given sync runner.
func NewSyncWorker(runner SyncRunner, interval time.Duration, log *logger.Logger) *SyncWorker {
	return &SyncWorker{
		runner:   runner,
		interval: interval,
		log:      log,
	}
}

// Run performs one immediate sync, then one per interval until ctx is
// cancelled.
func (w *SyncWorker) Run(ctx context.Context) {
	w.log.Debug().Dur("interval", w.interval).Msg("sync worker started")

	w.trigger(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug().Msg("sync worker stopped")
			return
		case <-ticker.C:
			w.trigger(ctx)
		}
	}
}

func (w *SyncWorker) trigger(ctx context.Context) {
	if err := w.runner.Sync(ctx, syncer.SyncOptions{}); err != nil {
		w.log.Error().Err(err).Str("func", "SyncWorker.trigger").Msg("periodic sync failed")
	}
}
