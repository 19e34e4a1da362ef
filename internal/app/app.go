package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/cloudsweep/internal/ctxlog"
	"github.com/vk/cloudsweep/internal/plan"
	"github.com/vk/cloudsweep/internal/sweep"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	plan     *plan.Plan
	handlers map[string]sweep.Handler
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and loaded plan.
// Handlers are matched to plan services by name; services without one get a
// default handler that only logs what a sweep would touch.
func NewApp(outW io.Writer, appConfig *Config, loader *plan.Loader, handlers map[string]sweep.Handler) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	p, err := loader.Load(ctx, appConfig.PlanPath)
	if err != nil {
		// A failure to load the plan is a fatal startup error.
		panic(fmt.Errorf("failed to load sweep plan: %w", err))
	}
	logger.Debug("Sweep plan loaded.", "services", len(p.Services))

	resolved := make(map[string]sweep.Handler, len(p.Services))
	for _, svc := range p.Services {
		if h, ok := handlers[svc.Name]; ok {
			resolved[svc.Name] = h
			continue
		}
		resolved[svc.Name] = defaultHandler(p)
	}
	logger.Debug("Service handlers resolved.", "count", len(resolved))

	return &App{
		outW:     outW,
		logger:   logger,
		plan:     p,
		handlers: resolved,
	}
}

// Plan returns the loaded sweep plan. This is primarily for testing.
func (a *App) Plan() *plan.Plan {
	return a.plan
}

// defaultHandler logs the service and its filters instead of doing real
// work. It stands in for services that have constraints in the plan but no
// cleanup implementation wired into this binary.
func defaultHandler(p *plan.Plan) sweep.Handler {
	return func(ctx context.Context, service string) error {
		logger := ctxlog.FromContext(ctx).With("service", service)
		svc := p.Service(service)
		if svc == nil {
			logger.Info("No implementation for service, nothing to sweep.")
			return nil
		}
		filters, err := svc.Filters()
		if err != nil {
			return err
		}
		logger.Info("No implementation for service, logging only.", "filters", filters)
		return nil
	}
}
