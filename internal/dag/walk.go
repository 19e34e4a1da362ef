package dag

import (
	"sync"
	"time"
)

// DefaultWaitTimeout bounds how long a walk blocks waiting for the next
// ready node before giving up on the traversal.
const DefaultWaitTimeout = 120 * time.Second

// WalkOption configures a single walk.
type WalkOption func(*Walk)

// WithTimeout overrides the per-pull wait timeout for one walk.
func WithTimeout(d time.Duration) WalkOption {
	return func(w *Walk) {
		w.timeout = d
	}
}

// Walk is one traversal session over a Graph. It owns its own in-degree
// table, ready queue and completed set, all derived from the graph at
// construction time; the graph itself must not be mutated until the walk is
// finished. A Graph may be walked again once a prior walk is done, but two
// concurrent walks over the same Graph are unsupported.
//
// Next must be called from a single goroutine (the dispatcher); NodeDone may
// be called concurrently from any number of worker goroutines.
type Walk struct {
	graph   *Graph
	timeout time.Duration

	// ready holds nodes whose in-degree reached zero. Its capacity is the
	// node count, so an enqueue can never block a completion report.
	ready chan string

	// yielded counts nodes handed out so far; touched only by the
	// dispatcher goroutine inside Next.
	yielded int

	mu       sync.Mutex
	inDegree map[string]int
	done     map[string]struct{}
}

// Walk starts a new traversal session: it computes in-degrees from the
// current edge set and seeds the ready queue with every node that has no
// prerequisites, in node insertion order.
func (g *Graph) Walk(opts ...WalkOption) *Walk {
	w := &Walk{
		graph:    g,
		timeout:  DefaultWaitTimeout,
		ready:    make(chan string, g.Size()),
		inDegree: g.inDegrees(),
		done:     make(map[string]struct{}, g.Size()),
	}
	for _, opt := range opts {
		opt(w)
	}
	for _, id := range g.order {
		if w.inDegree[id] == 0 {
			w.ready <- id
		}
	}
	return w
}

// Next blocks until a node with all prerequisites completed is available and
// returns it with ok=true. Once every node has been yielded it returns
// ok=false with a nil error. If the wait timeout elapses first, it returns a
// *TimeoutError naming the nodes that never completed; the walk must then be
// abandoned.
func (w *Walk) Next() (node string, ok bool, err error) {
	if w.yielded == w.graph.Size() {
		return "", false, nil
	}

	timer := time.NewTimer(w.timeout)
	defer timer.Stop()

	select {
	case node = <-w.ready:
		w.yielded++
		return node, true, nil
	case <-timer.C:
		return "", false, &TimeoutError{Wait: w.timeout, Remaining: w.Remaining()}
	}
}

// NodeDone marks node as processed and unblocks any successor whose last
// outstanding prerequisite this was. It is safe to call from many workers at
// once: the decrement-and-enqueue sequence runs under one lock, so a
// successor with several prerequisites is enqueued exactly once. Reporting
// the same node twice is a no-op.
func (w *Walk) NodeDone(node string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, reported := w.done[node]; reported {
		return
	}
	w.done[node] = struct{}{}

	for _, s := range w.graph.Successors(node) {
		w.inDegree[s]--
		if w.inDegree[s] == 0 {
			w.ready <- s
		}
	}
}

// IsComplete reports whether every node in the graph has been marked done.
func (w *Walk) IsComplete() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.done) == w.graph.Size()
}

// Remaining returns the nodes not yet marked done, in insertion order.
func (w *Walk) Remaining() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []string
	for _, id := range w.graph.order {
		if _, reported := w.done[id]; !reported {
			out = append(out, id)
		}
	}
	return out
}

// TopologicalSort drives a fresh walk to completion on the calling
// goroutine, marking each yielded node done immediately, and returns the
// resulting linear order. A cyclic graph surfaces as a *TimeoutError.
func (g *Graph) TopologicalSort(opts ...WalkOption) ([]string, error) {
	w := g.Walk(opts...)
	order := make([]string, 0, g.Size())
	for {
		node, ok, err := w.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return order, nil
		}
		order = append(order, node)
		w.NodeDone(node)
	}
}
