// Package refresher periodically re-fetches the allow-list symbols so the
// dashboard serves from a warm cache.
package refresher

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Warmer is the cache-warming surface the refresher drives.
type Warmer interface {
	WarmCache(ctx context.Context)
}

// Refresher runs the warmer on a cron schedule.
type Refresher struct {
	cron   *cron.Cron
	warmer Warmer
	spec   string
	logger *slog.Logger
}

// New creates a refresher with the given cron spec (standard 5-field).
func New(warmer Warmer, spec string, logger *slog.Logger) *Refresher {
	return &Refresher{
		cron:   cron.New(),
		warmer: warmer,
		spec:   spec,
		logger: logger.With(slog.String("component", "refresher")),
	}
}

// Start schedules the warm job and runs the first warm immediately in the
// background so startup is not delayed.
func (r *Refresher) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		r.warmer.WarmCache(ctx)
	})
	if err != nil {
		return err
	}

	go r.warmer.WarmCache(ctx)

	r.cron.Start()
	r.logger.Info("refresher started", slog.String("spec", r.spec))
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (r *Refresher) Stop() {
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.logger.Info("refresher stopped")
}
