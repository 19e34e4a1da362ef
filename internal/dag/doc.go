// Package dag implements the dependency-graph walker at the core of the
// sweep scheduler. It maintains a directed graph of named nodes and
// "must-come-before" edges, and drives consumers through a valid processing
// order via a pull-based walk that yields mutually independent nodes for
// concurrent processing. The walker performs no work on the nodes themselves;
// it only enforces ordering and concurrency safety around the ready queue.
package dag
