package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verdanta/greenflow/pkg/domain"
)

func TestNodeKind_Visual(t *testing.T) {
	visual := []domain.NodeKind{domain.KindYesNo, domain.KindSingleChoice, domain.KindMultipleChoice}
	hidden := []domain.NodeKind{domain.KindStart, domain.KindWeight, domain.KindFunction, domain.KindEnd}

	for _, k := range visual {
		assert.True(t, k.Visual(), "%s should be visual", k)
	}
	for _, k := range hidden {
		assert.False(t, k.Visual(), "%s should not be visual", k)
	}
}

func TestGraph_Lookups(t *testing.T) {
	g := &domain.Graph{
		ID:   "g",
		Name: "g",
		Nodes: []domain.Node{
			{ID: "s", Kind: domain.KindStart},
			{ID: "q", Kind: domain.KindYesNo},
			{ID: "e", Kind: domain.KindEnd},
		},
		Edges: []domain.Edge{
			{ID: "e1", Source: "s", Target: "q"},
			{ID: "e2", Source: "q", SourceHandle: "yes", Target: "e"},
			{ID: "e3", Source: "q", SourceHandle: "no", Target: "e"},
		},
	}

	n, ok := g.Node("q")
	assert.True(t, ok)
	assert.Equal(t, domain.KindYesNo, n.Kind)

	_, ok = g.Node("missing")
	assert.False(t, ok)

	edges := g.EdgesFrom("q")
	assert.Len(t, edges, 2)
	assert.Equal(t, "yes", edges[0].SourceHandle)

	start, ok := g.StartNode()
	assert.True(t, ok)
	assert.Equal(t, "s", start.ID)

	assert.Equal(t, 1, g.VisualCount())
}

func TestGraph_LocalVariablesCopies(t *testing.T) {
	g := &domain.Graph{
		Variables: []domain.Variable{{Name: "x", Value: 5}},
	}
	a := g.LocalVariables()
	a["x"] = 42
	b := g.LocalVariables()
	assert.Equal(t, 5.0, b["x"])
}

func TestTraversalState_Clone(t *testing.T) {
	s := domain.NewTraversalState("sess", "main", map[string]float64{"x": 1})
	s.History = append(s.History, domain.Visit{Graph: "main", NodeID: "q1"})

	c := s.Clone()
	c.Locals["x"] = 9
	c.History[0].NodeID = "other"

	assert.Equal(t, 1.0, s.Locals["x"])
	assert.Equal(t, "q1", s.History[0].NodeID)
}

func TestEdge_Default(t *testing.T) {
	assert.True(t, domain.Edge{}.Default())
	assert.True(t, domain.Edge{SourceHandle: "main"}.Default())
	assert.True(t, domain.Edge{SourceHandle: "default"}.Default())
	assert.False(t, domain.Edge{SourceHandle: "yes"}.Default())
}

func TestNode_OptionLookups(t *testing.T) {
	n := &domain.Node{
		Kind:    domain.KindSingleChoice,
		Options: []domain.Option{{ID: "a", Label: "Alpha"}, {ID: "b", Label: "Beta"}},
	}

	opt, ok := n.OptionByLabel("Beta")
	assert.True(t, ok)
	assert.Equal(t, "b", opt.ID)

	opt, ok = n.OptionByID("a")
	assert.True(t, ok)
	assert.Equal(t, "Alpha", opt.Label)

	_, ok = n.OptionByLabel("Gamma")
	assert.False(t, ok)
}
