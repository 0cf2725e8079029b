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

func newEngine(t *testing.T, graphs ...*domain.Graph) (*runtime.Engine, *registry.Registry) {
	t.Helper()
	reg := registry.New()
	for _, g := range graphs {
		require.NoError(t, reg.Register(g))
	}
	return runtime.NewEngine(reg, reg), reg
}

func TestStart_SimpleYesNo(t *testing.T) {
	g := dsl.New("main").
		Start("s", "q1").
		YesNo("q1", "Is the product recyclable?", "end1", "end2").
		End("end1").
		End("end2").
		Build()
	eng, _ := newEngine(t, g)

	state, outcome, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeQuestion, outcome.Kind)
	assert.Equal(t, "q1", outcome.Node.ID)
	assert.Equal(t, "Is the product recyclable?", outcome.Node.Label)
	assert.Equal(t, 1.0, state.Weight)

	state, outcome, err = eng.Advance(context.Background(), state, "yes")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeCompleted, outcome.Kind)
	assert.Equal(t, 1.0, outcome.FinalWeight)
	assert.Equal(t, domain.StatusCompleted, state.Status)
	assert.Equal(t, 100, state.Progress)
}

func TestStart_WeightBeforeFirstQuestion(t *testing.T) {
	g := dsl.New("main").
		Start("s", "w1").
		Weight("w1", 2.0, "q1").
		YesNo("q1", "Q1", "w2", "").
		Weight("w2", 3.0, "end1").
		End("end1").
		Build()
	eng, _ := newEngine(t, g)

	state, outcome, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeQuestion, outcome.Kind)
	assert.Equal(t, 2.0, state.Weight, "weight applies before the first question is shown")

	state, outcome, err = eng.Advance(context.Background(), state, "yes")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeCompleted, outcome.Kind)
	assert.Equal(t, 6.0, outcome.FinalWeight)
	assert.Equal(t, 6.0, state.Weight)
}

func TestAdvance_YesNoCaseInsensitive(t *testing.T) {
	g := dsl.New("main").
		Start("s", "q1").
		YesNo("q1", "Q1", "end1", "end2").
		End("end1").
		End("end2").
		Build()
	eng, _ := newEngine(t, g)

	state, _, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)

	_, outcome, err := eng.Advance(context.Background(), state, "YeS")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCompleted, outcome.Kind)
}

func TestAdvance_SingleChoiceMissingEdgeTerminates(t *testing.T) {
	opts := []domain.Option{{ID: "opt-a", Label: "A"}, {ID: "opt-b", Label: "B"}}
	g := dsl.New("main").
		Start("s", "w1").
		Weight("w1", 2.5, "q1").
		SingleChoice("q1", "Pick one", opts, map[string]string{"opt-a": "end1"}).
		End("end1").
		Build()
	eng, _ := newEngine(t, g)

	state, _, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)

	// Option B has no wired edge: graceful termination with the current
	// accumulator, not an error.
	_, outcome, err := eng.Advance(context.Background(), state, "B")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeCompleted, outcome.Kind)
	assert.Equal(t, 2.5, outcome.FinalWeight)
}

func TestAdvance_SingleChoiceByLabelAndID(t *testing.T) {
	opts := []domain.Option{{ID: "opt-a", Label: "Solar"}, {ID: "opt-b", Label: "Wind"}}
	g := dsl.New("main").
		Start("s", "q1").
		SingleChoice("q1", "Energy source?", opts, map[string]string{"opt-a": "end1", "opt-b": "end2"}).
		End("end1").
		End("end2").
		Build()
	eng, _ := newEngine(t, g)

	for _, answer := range []string{"Wind", "opt-b"} {
		state, _, err := eng.Start(context.Background(), "sess-"+answer, "main")
		require.NoError(t, err)

		state, outcome, err := eng.Advance(context.Background(), state, answer)
		require.NoError(t, err)
		require.Equal(t, domain.OutcomeCompleted, outcome.Kind, "answer %q", answer)
		assert.Equal(t, "end2", state.CurrentNodeID)
	}
}

func TestAdvance_MultipleChoiceDefaultEdge(t *testing.T) {
	opts := []domain.Option{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}}
	g := dsl.New("main").
		Start("s", "q1").
		MultipleChoice("q1", "Pick any", opts, "end1").
		End("end1").
		Build()
	eng, _ := newEngine(t, g)

	state, _, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)

	_, outcome, err := eng.Advance(context.Background(), state, []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCompleted, outcome.Kind)
}

func TestStart_NoStartNode(t *testing.T) {
	g := dsl.New("main").
		YesNo("q1", "Q1", "end1", "").
		End("end1").
		Build()
	eng, _ := newEngine(t, g)

	_, _, err := eng.Start(context.Background(), "sess-1", "main")
	assert.ErrorIs(t, err, domain.ErrNoStartNode)
}

func TestStart_UnknownGraph(t *testing.T) {
	eng, _ := newEngine(t)

	_, _, err := eng.Start(context.Background(), "sess-1", "missing")
	assert.ErrorIs(t, err, domain.ErrGraphNotFound)
}

func TestRun_CycleAmongNonVisualNodes(t *testing.T) {
	g := dsl.New("main").
		Start("s", "w1").
		Weight("w1", 2.0, "w2").
		Weight("w2", 3.0, "w1").
		End("end1").
		Build()
	eng, _ := newEngine(t, g)

	_, _, err := eng.Start(context.Background(), "sess-1", "main")
	require.Error(t, err)

	var cycleErr *domain.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Contains(t, cycleErr.Path, "w1")
	assert.Contains(t, cycleErr.Path, "w2")
}

func TestRun_DanglingEdgeTerminates(t *testing.T) {
	g := dsl.New("main").
		Start("s", "q1").
		YesNo("q1", "Q1", "ghost", "end1").
		End("end1").
		Build()
	eng, _ := newEngine(t, g)

	state, _, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)

	_, outcome, err := eng.Advance(context.Background(), state, "yes")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCompleted, outcome.Kind)
}

func TestRedirect_HappyPath(t *testing.T) {
	main := dsl.New("main").
		Start("s", "q1").
		YesNo("q1", "Q1", "jump", "end1").
		Redirect("jump", "followup").
		End("end1").
		Build()
	followup := dsl.New("followup").
		Start("s2", "w1").
		Weight("w1", 4.0, "q2").
		YesNo("q2", "Q2", "end2", "").
		End("end2").
		Build()
	eng, _ := newEngine(t, main, followup)

	state, _, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)

	state, outcome, err := eng.Advance(context.Background(), state, "yes")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeRedirected, outcome.Kind)
	assert.Equal(t, "followup", outcome.RedirectTarget)

	// The host follows the redirect; the accumulator carries over.
	state, outcome, err = eng.FollowRedirect(context.Background(), state, outcome.RedirectTarget)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeQuestion, outcome.Kind)
	assert.Equal(t, "q2", outcome.Node.ID)
	assert.Equal(t, "followup", state.Graph)
	assert.Equal(t, 4.0, state.Weight)

	_, outcome, err = eng.Advance(context.Background(), state, "yes")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeCompleted, outcome.Kind)
	assert.Equal(t, 4.0, outcome.FinalWeight)
}

func TestRedirect_TargetNotFound(t *testing.T) {
	main := dsl.New("main").
		Start("s", "q1").
		YesNo("q1", "Q1", "jump", "").
		Redirect("jump", "other").
		Build()
	eng, _ := newEngine(t, main)

	state, _, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)

	_, _, err = eng.Advance(context.Background(), state, "yes")
	assert.ErrorIs(t, err, domain.ErrRedirectTargetNotFound)
}

func TestRedirect_TargetWithoutStartNode(t *testing.T) {
	main := dsl.New("main").
		Start("s", "q1").
		YesNo("q1", "Q1", "jump", "").
		Redirect("jump", "broken").
		Build()
	broken := dsl.New("broken").
		End("end1").
		Build()
	eng, _ := newEngine(t, main, broken)

	state, _, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)

	_, _, err = eng.Advance(context.Background(), state, "yes")
	assert.ErrorIs(t, err, domain.ErrNoStartNodeInTarget)
}

func TestAdvance_Deterministic(t *testing.T) {
	g := dsl.New("main").
		Start("s", "q1").
		YesNo("q1", "Q1", "w1", "end1").
		Weight("w1", 2.0, "q2").
		YesNo("q2", "Q2", "end1", "end1").
		End("end1").
		Build()
	eng, _ := newEngine(t, g)

	base, _, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)

	first, firstOutcome, err := eng.Advance(context.Background(), base, "yes")
	require.NoError(t, err)
	second, secondOutcome, err := eng.Advance(context.Background(), base, "yes")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstOutcome, secondOutcome)
	assert.Equal(t, "q1", base.CurrentNodeID, "argument state must not be mutated")
}

func TestAdvance_CompletedSessionRejected(t *testing.T) {
	g := dsl.New("main").
		Start("s", "q1").
		YesNo("q1", "Q1", "end1", "end1").
		End("end1").
		Build()
	eng, _ := newEngine(t, g)

	state, _, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)
	state, _, err = eng.Advance(context.Background(), state, "yes")
	require.NoError(t, err)

	_, _, err = eng.Advance(context.Background(), state, "no")
	assert.ErrorIs(t, err, domain.ErrSessionCompleted)
}

func TestHooks_FireDuringTraversal(t *testing.T) {
	g := dsl.New("main").
		Start("s", "w1").
		Weight("w1", 2.0, "q1").
		YesNo("q1", "Q1", "end1", "").
		End("end1").
		Build()

	reg := registry.New()
	require.NoError(t, reg.Register(g))

	var questions, completions int
	var finalWeight float64
	eng := runtime.NewEngine(reg, reg, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnQuestion: func(graph string, node *domain.Node) { questions++ },
		OnComplete: func(graph string, w float64) { completions++; finalWeight = w },
	}))

	state, _, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)
	_, _, err = eng.Advance(context.Background(), state, "yes")
	require.NoError(t, err)

	assert.Equal(t, 1, questions)
	assert.Equal(t, 1, completions)
	assert.Equal(t, 2.0, finalWeight)
}

func TestHooks_VisitEachNodeOnce(t *testing.T) {
	g := dsl.New("main").
		Start("s", "w1").
		Weight("w1", 2.0, "q1").
		YesNo("q1", "Q1", "q2", "q2").
		YesNo("q2", "Q2", "end1", "end1").
		End("end1").
		Build()

	reg := registry.New()
	require.NoError(t, reg.Register(g))

	visits := map[string]int{}
	eng := runtime.NewEngine(reg, reg, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnVisit: func(graph string, node *domain.Node) { visits[node.ID]++ },
	}))

	state, _, err := eng.Start(context.Background(), "sess-1", "main")
	require.NoError(t, err)
	state, _, err = eng.Advance(context.Background(), state, "yes")
	require.NoError(t, err)
	_, _, err = eng.Advance(context.Background(), state, "no")
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"s": 1, "w1": 1, "q1": 1, "q2": 1, "end1": 1}, visits)
}
