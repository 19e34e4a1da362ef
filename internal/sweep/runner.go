package sweep

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vk/cloudsweep/internal/ctxlog"
	"github.com/vk/cloudsweep/internal/dag"
	"github.com/vk/cloudsweep/internal/plan"
)

// DefaultWorkers bounds handler concurrency when no worker count is
// configured.
const DefaultWorkers = 10

// Handler performs the cleanup work for one service. The runner is agnostic
// to what a handler actually does; it only sequences the calls.
type Handler func(ctx context.Context, service string) error

// Constraints declares a service's ordering requirements. Edge direction is
// uniform across both lists: an edge u->v means u must finish before v may
// start. The service precedes every entry of Before and follows every entry
// of After.
type Constraints struct {
	Before []string
	After  []string
}

// Option configures a Runner.
type Option func(*Runner)

// WithWaitTimeout overrides how long the dispatcher waits for the next
// ready service before declaring the sweep stuck.
func WithWaitTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithWorkers overrides the handler worker-pool size.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithStatusSink registers a channel that receives each service name as it
// is dispatched. Sends are best-effort: a full sink never stalls the sweep.
func WithStatusSink(sink chan<- string) Option {
	return func(r *Runner) {
		r.statusSink = sink
	}
}

// WithDryRun makes the runner walk the full dependency order while skipping
// every handler.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) {
		r.dryRun = dryRun
	}
}

// Runner drives a set of service handlers to completion in dependency
// order. Build it with NewRunner/Register or FromPlan, then call Run once.
type Runner struct {
	order       []string
	constraints map[string]Constraints
	handlers    map[string]Handler

	timeout    time.Duration
	workers    int
	dryRun     bool
	statusSink chan<- string
}

// NewRunner creates an empty Runner with default timeout and worker count.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		constraints: make(map[string]Constraints),
		handlers:    make(map[string]Handler),
		timeout:     dag.DefaultWaitTimeout,
		workers:     DefaultWorkers,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a service with its constraints and handler. A nil handler is
// allowed: such a service still takes part in ordering and is marked done
// the moment it is dispatched. Registering the same service again replaces
// its constraints and handler but keeps its original position.
func (r *Runner) Register(service string, c Constraints, h Handler) {
	if _, known := r.constraints[service]; !known {
		r.order = append(r.order, service)
	}
	r.constraints[service] = c
	if h != nil {
		r.handlers[service] = h
	} else {
		delete(r.handlers, service)
	}
}

// FromPlan builds a Runner from a loaded sweep plan, attaching handlers by
// service name. Services without a matching handler are registered with a
// nil handler.
func FromPlan(p *plan.Plan, handlers map[string]Handler, opts ...Option) *Runner {
	r := NewRunner(opts...)
	for _, svc := range p.Services {
		r.Register(svc.Name, Constraints{Before: svc.Before, After: svc.After}, handlers[svc.Name])
	}
	return r
}

// Graph normalizes the registered constraints into a fresh dependency
// graph. Constraint targets that were never registered become nodes of
// their own, the same way edge endpoints auto-create nodes.
func (r *Runner) Graph() *dag.Graph {
	g := dag.New()
	for _, service := range r.order {
		g.AddNode(service)
		c := r.constraints[service]
		for _, b := range c.Before {
			g.AddEdge(service, b)
		}
		for _, a := range c.After {
			g.AddEdge(a, service)
		}
	}
	return g
}

// Run executes the sweep: one dispatcher goroutine pulls ready services from
// the walk and hands each to the worker pool. It returns nil only when every
// handler ran and succeeded. Handler failures are joined into the returned
// error after the full walk completes; a stuck walk returns the underlying
// *dag.TimeoutError wrapped with partial-progress context.
func (r *Runner) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	graph := r.Graph()
	if graph.Size() == 0 {
		logger.Warn("Sweep plan contains no services, nothing to do.")
		return nil
	}
	logger.Info("🚀 Starting sweep.", "services", graph.Size(), "workers", r.workers, "dry_run", r.dryRun)

	walk := graph.Walk(dag.WithTimeout(r.timeout))

	// Handlers get a derived context so an aborted sweep can ask in-flight
	// work to stop before the dispatcher waits the pool out.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var pool errgroup.Group
	pool.SetLimit(r.workers)

	var mu sync.Mutex
	var failures []error

	for {
		if err := ctx.Err(); err != nil {
			cancel()
			_ = pool.Wait()
			return fmt.Errorf("sweep canceled: %w", err)
		}

		service, ok, err := walk.Next()
		if err != nil {
			cancel()
			_ = pool.Wait()
			completed := graph.Size() - len(walk.Remaining())
			logger.Error("Sweep could not complete.", "completed", completed, "total", graph.Size(), "error", err)
			return fmt.Errorf("sweep incomplete, %d of %d services done: %w", completed, graph.Size(), err)
		}
		if !ok {
			break
		}

		r.notify(service)

		handler := r.handlers[service]
		if handler == nil {
			logger.Debug("No handler registered for service, marking done.", "service", service)
			walk.NodeDone(service)
			continue
		}
		if r.dryRun {
			logger.Info("Dry run, skipping handler.", "service", service)
			walk.NodeDone(service)
			continue
		}

		pool.Go(func() error {
			defer walk.NodeDone(service)

			serviceLogger := logger.With("service", service)
			serviceLogger.Info("▶️ Sweeping service")
			if err := handler(runCtx, service); err != nil {
				serviceLogger.Error("Service sweep failed, dependents will still run.", "error", err)
				mu.Lock()
				failures = append(failures, fmt.Errorf("%s: %w", service, err))
				mu.Unlock()
				return nil
			}
			serviceLogger.Info("✅ Service swept")
			return nil
		})
	}

	_ = pool.Wait()

	if len(failures) > 0 {
		logger.Error("Sweep finished with failures.", "failed", len(failures))
		return fmt.Errorf("sweep finished with %d failed services: %w", len(failures), errors.Join(failures...))
	}
	logger.Info("🏁 Sweep finished.")
	return nil
}

// notify pushes a dispatched service name to the status sink, if one is
// attached, without ever blocking the dispatcher.
func (r *Runner) notify(service string) {
	if r.statusSink == nil {
		return
	}
	select {
	case r.statusSink <- service:
	default:
	}
}
