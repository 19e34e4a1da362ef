// Package sweep orchestrates a batch of per-service cleanup handlers over a
// dependency graph. It normalizes declared before/after constraints into
// edges, pulls ready services from a graph walk on a single dispatcher
// goroutine, and fans the handlers out to a bounded worker pool. Handler
// failures are collected and reported at the end of the run; they never
// block dependent services, because completion is always reported back to
// the walk regardless of handler outcome.
package sweep
