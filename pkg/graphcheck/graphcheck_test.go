package graphcheck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verdanta/greenflow/pkg/domain"
	"github.com/verdanta/greenflow/pkg/dsl"
	"github.com/verdanta/greenflow/pkg/graphcheck"
)

func TestValidate_WellFormedGraph(t *testing.T) {
	g := dsl.New("main").
		Start("s", "q1").
		YesNo("q1", "Q1", "end1", "end1").
		End("end1").
		Build()

	res := graphcheck.Validate(g)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidate_MissingStart(t *testing.T) {
	g := dsl.New("main").
		YesNo("q1", "Q1", "end1", "").
		End("end1").
		Build()

	res := graphcheck.Validate(g)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "graph has no start node")
}

func TestValidate_MissingEnd(t *testing.T) {
	g := dsl.New("main").
		Start("s", "q1").
		YesNo("q1", "Q1", "", "").
		Build()

	res := graphcheck.Validate(g)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "graph has no end node")
}

func TestValidate_EndUnreachable(t *testing.T) {
	// End node exists but nothing points at it.
	g := dsl.New("main").
		Start("s", "q1").
		YesNo("q1", "Q1", "", "").
		End("end1").
		Build()

	res := graphcheck.Validate(g)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "no path from start node to any end node")
}

func TestValidate_CyclicGraphDoesNotHang(t *testing.T) {
	// q1 and q2 point at each other; an end exists off q2. The DFS visited
	// set must terminate and still find the path.
	g := dsl.New("main").
		Start("s", "q1").
		YesNo("q1", "Q1", "q2", "q2").
		YesNo("q2", "Q2", "q1", "end1").
		End("end1").
		Build()

	res := graphcheck.Validate(g)
	assert.True(t, res.Valid)
}

func TestValidate_DanglingEdge(t *testing.T) {
	g := dsl.New("main").
		Start("s", "q1").
		YesNo("q1", "Q1", "end1", "").
		End("end1").
		Edge("q1", "no", "ghost").
		Build()

	res := graphcheck.Validate(g)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "ghost")
}

func TestValidate_RedirectWithoutTarget(t *testing.T) {
	g := &domain.Graph{
		ID:   "main",
		Name: "main",
		Nodes: []domain.Node{
			{ID: "s", Kind: domain.KindStart},
			{ID: "e", Kind: domain.KindEnd, End: &domain.EndSpec{Type: domain.EndRedirect}},
		},
		Edges: []domain.Edge{{ID: "e1", Source: "s", Target: "e"}},
	}

	res := graphcheck.Validate(g)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "redirects without a target")
}

func TestValidate_UnknownKind(t *testing.T) {
	g := &domain.Graph{
		ID:   "main",
		Name: "main",
		Nodes: []domain.Node{
			{ID: "s", Kind: domain.KindStart},
			{ID: "x", Kind: "teleport"},
			{ID: "e", Kind: domain.KindEnd, End: &domain.EndSpec{Type: domain.EndTerminal}},
		},
		Edges: []domain.Edge{
			{ID: "e1", Source: "s", Target: "x"},
			{ID: "e2", Source: "x", Target: "e"},
		},
	}

	res := graphcheck.Validate(g)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "unknown kind")
}
