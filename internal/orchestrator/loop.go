package orchestrator

import (
	"context"
	"time"
)

// Run drives the orchestrator's main loop until ctx is cancelled: one
// tick immediately, then one tick per health_check_interval. Graceful
// shutdown reads a stop condition (ctx.Done) between iterations only;
// no in-flight backend call is interrupted, matching the cooperative
// scheduling model.
func (o *Orchestrator) Run(ctx context.Context) error {
	interval := time.Duration(o.data.Settings.HealthCheckInterval) * time.Millisecond
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := o.runTick(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			o.log.Info().Msg("orchestrator loop stopping")
			return nil
		case <-ticker.C:
			if err := o.runTick(); err != nil {
				return err
			}
		}
	}
}

func (o *Orchestrator) runTick() error {
	result, err := o.Tick()
	if err != nil {
		return err
	}
	o.log.Debug().
		Str("run_id", result.RunID).
		Int("planned", result.Planned).
		Int("executed", result.Executed).
		Int("failed", result.Failed).
		Int("skipped", result.Skipped).
		Msg("tick complete")
	return nil
}
