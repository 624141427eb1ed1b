package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/lakshaymaurya-felt/ramsweep/internal/control"
)

// LogObserver returns an observer that writes controller events to logger.
func LogObserver(logger *slog.Logger) control.Observer {
	return func(e control.Event) {
		logger.Info(e.Message, "event", e.Kind.String())
	}
}

// RunHeadless runs the sampling loop without a terminal UI until ctx ends.
// Register LogObserver on ctrl to see its events.
func RunHeadless(ctx context.Context, ctrl *control.Controller, refresh time.Duration, logger *slog.Logger) error {
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	p := ctrl.Policy()
	logger.Info("monitoring memory",
		"refresh", refresh,
		"threshold", p.ThresholdEnabled,
		"threshold_percent", p.ThresholdPercent,
		"interval", p.IntervalEnabled,
		"interval_minutes", p.IntervalMinutes)

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("monitor stopped")
			return nil
		case <-ticker.C:
			snap := ctrl.ReadMemorySnapshot(ctx)
			logger.Debug("sample", "load", snap.LoadPercent, "available", snap.AvailablePhysical)
			if report, fired := ctrl.OnTick(ctx, snap.LoadPercent); fired {
				logger.Info(report.Summary(), "trigger", report.TriggerName)
			}
		}
	}
}
