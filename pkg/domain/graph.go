package domain

import "sync"

// Edge is a directed connection between two nodes. SourceHandle disambiguates
// multiple outgoing edges of one node ("yes", "no", an option id, a function
// handle); empty or "main" means the single default exit.
type Edge struct {
	ID           string `json:"id" yaml:"id"`
	Source       string `json:"source" yaml:"source"`
	SourceHandle string `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty"`
	Target       string `json:"target" yaml:"target"`
}

// Default reports whether the edge is a single-exit ("main") edge.
func (e Edge) Default() bool {
	return e.SourceHandle == "" || e.SourceHandle == "main" || e.SourceHandle == DefaultHandle
}

// Variable is a named numeric value read and written by Function nodes.
type Variable struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// Graph is one complete questionnaire definition (a "chart instance").
// It is immutable during traversal: the engine mutates only TraversalState.
type Graph struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Nodes     []Node     `json:"nodes" yaml:"nodes"`
	Edges     []Edge     `json:"edges" yaml:"edges"`
	Variables []Variable `json:"variables,omitempty" yaml:"variables,omitempty"`

	// Flat indexed lookups, built lazily. Node and edge slices stay the
	// source of truth so (de)serialization never touches the indexes.
	indexOnce     sync.Once
	nodeByID      map[string]int
	edgesBySource map[string][]int
}

func (g *Graph) index() {
	g.indexOnce.Do(func() {
		g.nodeByID = make(map[string]int, len(g.Nodes))
		for i, n := range g.Nodes {
			g.nodeByID[n.ID] = i
		}
		g.edgesBySource = make(map[string][]int, len(g.Edges))
		for i, e := range g.Edges {
			g.edgesBySource[e.Source] = append(g.edgesBySource[e.Source], i)
		}
	})
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	g.index()
	i, ok := g.nodeByID[id]
	if !ok {
		return nil, false
	}
	return &g.Nodes[i], true
}

// EdgesFrom returns the outgoing edges of a node in definition order.
func (g *Graph) EdgesFrom(nodeID string) []Edge {
	g.index()
	idxs := g.edgesBySource[nodeID]
	if len(idxs) == 0 {
		return nil
	}
	out := make([]Edge, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, g.Edges[i])
	}
	return out
}

// StartNode returns the first Start node in definition order.
// Multiple Start nodes are tolerated by policy: first found wins.
func (g *Graph) StartNode() (*Node, bool) {
	g.index()
	for i := range g.Nodes {
		if g.Nodes[i].Kind == KindStart {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// VisualCount returns the number of user-facing question nodes.
// The session projection divides by it to compute progress percent.
func (g *Graph) VisualCount() int {
	count := 0
	for i := range g.Nodes {
		if g.Nodes[i].Kind.Visual() {
			count++
		}
	}
	return count
}

// LocalVariables returns a fresh name→value map seeded from the graph's
// variable definitions. Each session gets its own copy.
func (g *Graph) LocalVariables() map[string]float64 {
	vars := make(map[string]float64, len(g.Variables))
	for _, v := range g.Variables {
		vars[v.Name] = v.Value
	}
	return vars
}
