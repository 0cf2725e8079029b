package dsl

import (
	"fmt"

	"github.com/verdanta/greenflow/pkg/domain"
)

// Builder accumulates nodes and edges for one graph. Edge IDs are assigned
// automatically in creation order.
type Builder struct {
	id        string
	name      string
	nodes     []domain.Node
	edges     []domain.Edge
	variables []domain.Variable
	edgeSeq   int
}

// New creates a builder for a graph with the given name (also used as ID).
func New(name string) *Builder {
	return &Builder{id: name, name: name}
}

// Variable declares a graph-local variable with its initial value.
func (b *Builder) Variable(name string, value float64) *Builder {
	b.variables = append(b.variables, domain.Variable{Name: name, Value: value})
	return b
}

// Start adds the entry node with its single outgoing edge.
func (b *Builder) Start(id, to string) *Builder {
	b.nodes = append(b.nodes, domain.Node{ID: id, Kind: domain.KindStart})
	b.edge(id, "", to)
	return b
}

// YesNo adds a binary question. Empty targets leave the handle unwired,
// exercising the missing-edge-as-terminal policy.
func (b *Builder) YesNo(id, label, yesTo, noTo string) *Builder {
	b.nodes = append(b.nodes, domain.Node{ID: id, Kind: domain.KindYesNo, Label: label})
	b.edge(id, "yes", yesTo)
	b.edge(id, "no", noTo)
	return b
}

// SingleChoice adds a pick-one question. routes maps option IDs to targets;
// options without a route stay unwired.
func (b *Builder) SingleChoice(id, label string, options []domain.Option, routes map[string]string) *Builder {
	b.nodes = append(b.nodes, domain.Node{ID: id, Kind: domain.KindSingleChoice, Label: label, Options: options})
	for _, opt := range options {
		b.edge(id, opt.ID, routes[opt.ID])
	}
	return b
}

// MultipleChoice adds a pick-many question with a single default exit.
func (b *Builder) MultipleChoice(id, label string, options []domain.Option, to string) *Builder {
	b.nodes = append(b.nodes, domain.Node{ID: id, Kind: domain.KindMultipleChoice, Label: label, Options: options})
	b.edge(id, "", to)
	return b
}

// Weight adds a score multiplier with its single exit.
func (b *Builder) Weight(id string, factor float64, to string) *Builder {
	b.nodes = append(b.nodes, domain.Node{ID: id, Kind: domain.KindWeight, Factor: factor})
	b.edge(id, "", to)
	return b
}

// Function adds a function node. routes maps handle names to targets.
func (b *Builder) Function(id string, spec domain.FunctionSpec, routes map[string]string) *Builder {
	if len(spec.Handles) == 0 {
		spec.Handles = []string{domain.DefaultHandle}
	}
	b.nodes = append(b.nodes, domain.Node{ID: id, Kind: domain.KindFunction, Function: &spec})
	for handle, to := range routes {
		b.edge(id, handle, to)
	}
	return b
}

// End adds a terminal End node.
func (b *Builder) End(id string) *Builder {
	b.nodes = append(b.nodes, domain.Node{
		ID:   id,
		Kind: domain.KindEnd,
		End:  &domain.EndSpec{Type: domain.EndTerminal},
	})
	return b
}

// Redirect adds an End node that hands traversal off to another graph.
func (b *Builder) Redirect(id, targetGraph string) *Builder {
	b.nodes = append(b.nodes, domain.Node{
		ID:   id,
		Kind: domain.KindEnd,
		End:  &domain.EndSpec{Type: domain.EndRedirect, RedirectTarget: targetGraph},
	})
	return b
}

// Edge wires an explicit edge, for shapes the node helpers don't cover.
func (b *Builder) Edge(source, handle, target string) *Builder {
	b.edge(source, handle, target)
	return b
}

// Build assembles the graph.
func (b *Builder) Build() *domain.Graph {
	return &domain.Graph{
		ID:        b.id,
		Name:      b.name,
		Nodes:     b.nodes,
		Edges:     b.edges,
		Variables: b.variables,
	}
}

func (b *Builder) edge(source, handle, target string) {
	if target == "" {
		return
	}
	b.edgeSeq++
	b.edges = append(b.edges, domain.Edge{
		ID:           fmt.Sprintf("e%d", b.edgeSeq),
		Source:       source,
		SourceHandle: handle,
		Target:       target,
	})
}
