package runtime_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdanta/greenflow/internal/runtime"
	"github.com/verdanta/greenflow/pkg/domain"
	"github.com/verdanta/greenflow/pkg/dsl"
	"github.com/verdanta/greenflow/pkg/registry"
)

// functionGraph wires start -> q1 -> fn -> (routes), so the function node
// evaluates on the answer to q1.
func functionGraph(spec domain.FunctionSpec, routes map[string]string, vars map[string]float64) *dsl.Builder {
	b := dsl.New("main")
	for name, val := range vars {
		b.Variable(name, val)
	}
	return b.
		Start("s", "q1").
		YesNo("q1", "Q1", "fn", "").
		Function("fn", spec, routes).
		End("endBig").
		End("endDefault")
}

func startAndAnswer(t *testing.T, g *domain.Graph) (*runtime.Engine, *domain.TraversalState, *domain.Outcome) {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.Register(g))
	eng := runtime.NewEngine(reg, reg)

	state, _, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)
	state, outcome, err := eng.Advance(context.Background(), state, "yes")
	require.NoError(t, err)
	return eng, state, outcome
}

func TestFunction_IfBranchRoutesThroughHandle(t *testing.T) {
	// x=5, [if x>3 -> "big"], edge wired only on "big".
	spec := domain.FunctionSpec{
		Scope:    domain.ScopeLocal,
		Variable: "x",
		Sequences: []domain.Sequence{
			{Type: domain.SeqIf, Condition: domain.CmpGreater, Value: 3, HandleID: "big"},
		},
		Handles: []string{domain.DefaultHandle, "big"},
	}
	g := functionGraph(spec, map[string]string{"big": "endBig"}, map[string]float64{"x": 5}).Build()

	_, state, outcome := startAndAnswer(t, g)
	require.Equal(t, domain.OutcomeCompleted, outcome.Kind)
	assert.Equal(t, "endBig", state.CurrentNodeID)
}

func TestFunction_BranchDoesNotApplyChildOps(t *testing.T) {
	// The observed upstream behavior: a firing branch is pure routing, its
	// child operations never touch the variable.
	spec := domain.FunctionSpec{
		Scope:    domain.ScopeLocal,
		Variable: "x",
		Sequences: []domain.Sequence{
			{
				Type: domain.SeqIf, Condition: domain.CmpGreater, Value: 3, HandleID: "big",
				Children: []domain.Sequence{{Type: domain.SeqAdd, Value: 100}},
			},
		},
	}
	g := functionGraph(spec, map[string]string{"big": "endBig"}, map[string]float64{"x": 5}).Build()

	_, state, _ := startAndAnswer(t, g)
	assert.Equal(t, 5.0, state.Locals["x"], "branch children must not execute")
}

func TestFunction_BranchChildOpsOptIn(t *testing.T) {
	spec := domain.FunctionSpec{
		Scope:    domain.ScopeLocal,
		Variable: "x",
		Sequences: []domain.Sequence{
			{
				Type: domain.SeqIf, Condition: domain.CmpGreater, Value: 3, HandleID: "big",
				Children: []domain.Sequence{{Type: domain.SeqAdd, Value: 100}},
			},
		},
	}
	g := functionGraph(spec, map[string]string{"big": "endBig"}, map[string]float64{"x": 5}).Build()

	reg := registry.New()
	require.NoError(t, reg.Register(g))
	eng := runtime.NewEngine(reg, reg, runtime.WithBranchChildOps(true))

	state, _, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)
	state, _, err = eng.Advance(context.Background(), state, "yes")
	require.NoError(t, err)

	assert.Equal(t, 105.0, state.Locals["x"])
}

func TestFunction_ElseBranch(t *testing.T) {
	spec := domain.FunctionSpec{
		Scope:    domain.ScopeLocal,
		Variable: "x",
		Sequences: []domain.Sequence{
			{Type: domain.SeqIf, Condition: domain.CmpGreater, Value: 10, HandleID: "big"},
			{Type: domain.SeqElse, HandleID: "small"},
		},
	}
	g := functionGraph(spec, map[string]string{"big": "endBig", "small": "endDefault"}, map[string]float64{"x": 5}).Build()

	_, state, outcome := startAndAnswer(t, g)
	require.Equal(t, domain.OutcomeCompleted, outcome.Kind)
	assert.Equal(t, "endDefault", state.CurrentNodeID)
}

func TestFunction_OperationsApplyAndWriteBack(t *testing.T) {
	// x=10: add 5, multiply 2, subtract 4, divide 2 -> 13; no branch fires,
	// the result is written back and traversal takes the default handle.
	spec := domain.FunctionSpec{
		Scope:    domain.ScopeLocal,
		Variable: "x",
		Sequences: []domain.Sequence{
			{Type: domain.SeqAdd, Value: 5},
			{Type: domain.SeqMultiply, Value: 2},
			{Type: domain.SeqSubtract, Value: 4},
			{Type: domain.SeqDivide, Value: 2},
		},
	}
	g := functionGraph(spec, map[string]string{domain.DefaultHandle: "endDefault"}, map[string]float64{"x": 10}).Build()

	_, state, outcome := startAndAnswer(t, g)
	require.Equal(t, domain.OutcomeCompleted, outcome.Kind)
	assert.Equal(t, 13.0, state.Locals["x"])
	assert.Equal(t, "endDefault", state.CurrentNodeID)
}

func TestFunction_FalseIfWithoutElseContinues(t *testing.T) {
	spec := domain.FunctionSpec{
		Scope:    domain.ScopeLocal,
		Variable: "x",
		Sequences: []domain.Sequence{
			{Type: domain.SeqIf, Condition: domain.CmpGreater, Value: 100, HandleID: "big"},
			{Type: domain.SeqAdd, Value: 1},
		},
	}
	g := functionGraph(spec, map[string]string{domain.DefaultHandle: "endDefault"}, map[string]float64{"x": 5}).Build()

	_, state, _ := startAndAnswer(t, g)
	assert.Equal(t, 6.0, state.Locals["x"], "operations after a false if still run")
}

func TestFunction_DivisionByZeroFailsFast(t *testing.T) {
	spec := domain.FunctionSpec{
		Scope:    domain.ScopeLocal,
		Variable: "x",
		Sequences: []domain.Sequence{
			{Type: domain.SeqDivide, Value: 0},
		},
	}
	g := functionGraph(spec, nil, map[string]float64{"x": 5}).Build()

	reg := registry.New()
	require.NoError(t, reg.Register(g))
	eng := runtime.NewEngine(reg, reg)

	state, _, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)

	_, _, err = eng.Advance(context.Background(), state, "yes")
	require.ErrorIs(t, err, domain.ErrDivisionByZero)

	var fnErr *domain.FunctionError
	require.ErrorAs(t, err, &fnErr)
	assert.Equal(t, "fn", fnErr.NodeID)
}

func TestFunction_GlobalScopeReadsAndWritesRegistry(t *testing.T) {
	spec := domain.FunctionSpec{
		Scope:    domain.ScopeGlobal,
		Variable: "shared",
		Sequences: []domain.Sequence{
			{Type: domain.SeqAdd, Value: 2},
		},
	}
	g := functionGraph(spec, map[string]string{domain.DefaultHandle: "endDefault"}, nil).Build()

	reg := registry.New()
	require.NoError(t, reg.Register(g))
	reg.SetGlobal("shared", 40)
	eng := runtime.NewEngine(reg, reg)

	state, _, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)
	_, _, err = eng.Advance(context.Background(), state, "yes")
	require.NoError(t, err)

	assert.Equal(t, 42.0, reg.Global("shared"))
}

func TestFunction_EqualComparator(t *testing.T) {
	spec := domain.FunctionSpec{
		Scope:    domain.ScopeLocal,
		Variable: "x",
		Sequences: []domain.Sequence{
			{Type: domain.SeqIf, Condition: domain.CmpEqual, Value: 5, HandleID: "exact"},
		},
	}
	g := functionGraph(spec, map[string]string{"exact": "endBig"}, map[string]float64{"x": 5}).Build()

	_, state, _ := startAndAnswer(t, g)
	assert.Equal(t, "endBig", state.CurrentNodeID)
}

func TestFunction_UnmatchedHandleFallsBackToDefaultEdge(t *testing.T) {
	// Branch fires with handle "big" but only a default edge is wired.
	spec := domain.FunctionSpec{
		Scope:    domain.ScopeLocal,
		Variable: "x",
		Sequences: []domain.Sequence{
			{Type: domain.SeqIf, Condition: domain.CmpGreater, Value: 3, HandleID: "big"},
		},
	}
	g := functionGraph(spec, map[string]string{domain.DefaultHandle: "endDefault"}, map[string]float64{"x": 5}).Build()

	_, state, outcome := startAndAnswer(t, g)
	require.Equal(t, domain.OutcomeCompleted, outcome.Kind)
	assert.Equal(t, "endDefault", state.CurrentNodeID)
}
