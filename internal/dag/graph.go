package dag

// Adjacency declares one node together with the successors it must precede.
// It is the typed bulk-load input for Graph.Load.
type Adjacency struct {
	Node       string
	Successors []string
}

// Graph is a directed dependency graph keyed by node id. An edge u->v means
// u must be processed before v. The node table remembers insertion order so
// that walks seed their ready queue deterministically.
//
// A Graph is not safe for concurrent mutation: build it single-threaded,
// then treat it as read-only for the duration of any walk over it.
type Graph struct {
	successors map[string]map[string]struct{}
	order      []string
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{successors: make(map[string]map[string]struct{})}
}

// AddNode ensures id is present with an empty successor set. Adding an
// existing node is a no-op and never clears its edges.
func (g *Graph) AddNode(id string) {
	if _, ok := g.successors[id]; ok {
		return
	}
	g.successors[id] = make(map[string]struct{})
	g.order = append(g.order, id)
}

// AddEdge declares that u must be processed before v. Either endpoint is
// created if missing. The successor set has set semantics, so adding the
// same edge twice has no further effect.
func (g *Graph) AddEdge(u, v string) {
	g.AddNode(u)
	g.AddNode(v)
	g.successors[u][v] = struct{}{}
}

// Load resets the graph to empty and rebuilds it from the given adjacency
// list, preserving the order in which nodes are first mentioned.
func (g *Graph) Load(adj []Adjacency) {
	g.successors = make(map[string]map[string]struct{})
	g.order = nil
	for _, a := range adj {
		g.AddNode(a.Node)
		for _, s := range a.Successors {
			g.AddEdge(a.Node, s)
		}
	}
}

// Size returns the number of nodes in the graph.
func (g *Graph) Size() int {
	return len(g.order)
}

// Nodes returns all node ids in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Successors returns the direct dependents of id, in node-table insertion
// order. The result is empty for unknown nodes.
func (g *Graph) Successors(id string) []string {
	set, ok := g.successors[id]
	if !ok || len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for _, candidate := range g.order {
		if _, ok := set[candidate]; ok {
			out = append(out, candidate)
		}
	}
	return out
}

// inDegrees counts, for every node, its not-yet-completed direct
// prerequisites as implied by the current edge set.
func (g *Graph) inDegrees() map[string]int {
	degrees := make(map[string]int, len(g.order))
	for _, id := range g.order {
		degrees[id] = 0
	}
	for _, u := range g.order {
		for v := range g.successors[u] {
			degrees[v]++
		}
	}
	return degrees
}
