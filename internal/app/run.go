package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/cloudsweep/internal/ctxlog"
	"github.com/vk/cloudsweep/internal/sweep"
)

// Run executes the sweep described by the loaded plan. Plan-level settings
// take precedence over the values in appConfig; unset values in both fall
// back to the sweep package defaults.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if appConfig.HealthcheckPort > 0 {
		a.startHealthcheckServer(appConfig.HealthcheckPort)
	}

	waitTimeout := appConfig.WaitTimeout
	if a.plan.Settings.WaitTimeout > 0 {
		waitTimeout = a.plan.Settings.WaitTimeout
	}
	workers := appConfig.WorkerCount
	if a.plan.Settings.Workers > 0 {
		workers = a.plan.Settings.Workers
	}

	statusSink := make(chan string, len(a.plan.Services)+1)
	var drained sync.WaitGroup
	drained.Add(1)
	go func() {
		defer drained.Done()
		for service := range statusSink {
			a.logger.Info("Service dispatched.", "service", service)
		}
	}()

	runner := sweep.FromPlan(a.plan, a.handlers,
		sweep.WithWaitTimeout(waitTimeout),
		sweep.WithWorkers(workers),
		sweep.WithDryRun(appConfig.DryRun),
		sweep.WithStatusSink(statusSink),
	)

	err := runner.Run(ctx)
	close(statusSink)
	drained.Wait()

	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}
