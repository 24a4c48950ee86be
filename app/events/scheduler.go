package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/smartinventory/inventory-tracker/app/pricing"
)

// Scheduler emits a monitorPrices event every interval.
type Scheduler struct {
	interval time.Duration
	handler  Handler
	log      *slog.Logger
}

func NewScheduler(interval time.Duration, handler Handler, log *slog.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		handler:  handler,
		log:      log,
	}
}

// Run blocks until ctx is done. Ticks that fire during a pass collapse into one.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("price_scheduler_started", "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.handler.HandleEvent(context.WithoutCancel(ctx), pricing.Event{Action: pricing.ActionMonitorPrices})
		}
	}
}
