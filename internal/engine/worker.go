package engine

import (
	"context"
	"log/slog"
	"time"
)

// DecayWorker drives periodic score decay. It owns the only timer in the
// engine; the decay itself happens inside the monitor's critical section.
type DecayWorker struct {
	monitor  *Monitor
	logger   *slog.Logger
	interval time.Duration
}

func NewDecayWorker(monitor *Monitor, logger *slog.Logger, interval time.Duration) *DecayWorker {
	if interval == 0 {
		interval = time.Second
	}
	return &DecayWorker{
		monitor:  monitor,
		logger:   logger,
		interval: interval,
	}
}

// Run ticks until ctx is cancelled.
func (w *DecayWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("decay worker started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("decay worker stopped")
			return
		case t := <-ticker.C:
			w.monitor.Tick(t)
		}
	}
}
