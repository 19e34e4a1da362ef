// Package plan loads declarative sweep plans from HCL files. A plan names
// the services taking part in a sweep, the ordering constraints between them
// (`before` and `after` lists), optional per-service filters, and run-level
// settings such as the wait timeout and worker count. The loaded model is
// format-agnostic; the sweep runner consumes it without touching HCL types.
package plan
