// Package graphcheck statically validates questionnaire graphs at import
// time. Traversal itself tolerates incomplete graphs (missing edges act as
// terminals); this check catches graphs that cannot work at all.
package graphcheck

import (
	"fmt"

	"github.com/verdanta/greenflow/pkg/domain"
)

// Result reports the outcome of a validation run.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validate checks that the graph has at least one Start node, at least one
// End node, and a directed path from a Start to an End. It also flags
// structural defects the importer may have let through: unknown node kinds,
// dangling edge endpoints, redirect Ends without a target.
func Validate(g *domain.Graph) Result {
	var errs []string

	starts := 0
	ends := 0
	for i := range g.Nodes {
		n := &g.Nodes[i]
		switch {
		case !n.Kind.Valid():
			errs = append(errs, fmt.Sprintf("node %q has unknown kind %q", n.ID, n.Kind))
		case n.Kind == domain.KindStart:
			starts++
		case n.Kind == domain.KindEnd:
			ends++
			if n.End != nil && n.End.Type == domain.EndRedirect && n.End.RedirectTarget == "" {
				errs = append(errs, fmt.Sprintf("end node %q redirects without a target graph", n.ID))
			}
		}
	}
	if starts == 0 {
		errs = append(errs, "graph has no start node")
	}
	if ends == 0 {
		errs = append(errs, "graph has no end node")
	}

	for _, e := range g.Edges {
		if _, ok := g.Node(e.Source); !ok {
			errs = append(errs, fmt.Sprintf("edge %q references unknown source node %q", e.ID, e.Source))
		}
		if _, ok := g.Node(e.Target); !ok {
			errs = append(errs, fmt.Sprintf("edge %q references unknown target node %q", e.ID, e.Target))
		}
	}

	if starts > 0 && ends > 0 && !pathToEnd(g) {
		errs = append(errs, "no path from start node to any end node")
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// pathToEnd runs a depth-first search from the start node. The visited set
// keeps cyclic graphs from looping the search forever.
func pathToEnd(g *domain.Graph) bool {
	start, ok := g.StartNode()
	if !ok {
		return false
	}

	visited := make(map[string]bool, len(g.Nodes))
	stack := []string{start.ID}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true

		node, ok := g.Node(id)
		if !ok {
			continue
		}
		if node.Kind == domain.KindEnd {
			return true
		}
		for _, e := range g.EdgesFrom(id) {
			if !visited[e.Target] {
				stack = append(stack, e.Target)
			}
		}
	}
	return false
}
