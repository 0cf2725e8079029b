package importer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdanta/greenflow/internal/importer"
	"github.com/verdanta/greenflow/pkg/domain"
	"github.com/verdanta/greenflow/pkg/graphcheck"
)

const editorExportYAML = `
id: packaging
name: packaging
variables:
  - name: score
    value: 5
nodes:
  - id: start-1
    type: start
  - id: q1
    type: yesNo
    data:
      label: "Is the packaging recyclable?"
  - id: q2
    type: singleChoice
    data:
      label: "Primary material?"
      options:
        - id: opt-paper
          label: Paper
        - id: opt-plastic
          label: Plastic
  - id: w1
    type: weight
    data:
      weight: "2.5"
  - id: fn1
    type: function
    data:
      variableScope: local
      selectedVariable: score
      handles: [default, big]
      sequences:
        - type: if
          condition: ">"
          value: 3
          handleId: big
          children:
            - type: add
              value: 1
  - id: end-1
    type: end
    data:
      endType: end
  - id: end-2
    type: end
    data:
      endType: redirect
      redirectTarget: followup
edges:
  - id: e1
    source: start-1
    target: q1
  - id: e2
    source: q1
    sourceHandle: yes
    target: q2
  - id: e3
    source: q1
    sourceHandle: no
    target: end-1
  - id: e4
    source: q2
    sourceHandle: opt-paper
    target: w1
  - id: e5
    source: w1
    target: fn1
  - id: e6
    source: fn1
    sourceHandle: big
    target: end-2
  - id: e7
    source: fn1
    sourceHandle: default
    target: end-1
`

func TestParseYAML_FullEditorExport(t *testing.T) {
	g, err := importer.ParseYAML([]byte(editorExportYAML))
	require.NoError(t, err)

	assert.Equal(t, "packaging", g.Name)
	assert.Len(t, g.Nodes, 7)
	assert.Len(t, g.Edges, 7)

	q1, ok := g.Node("q1")
	require.True(t, ok)
	assert.Equal(t, domain.KindYesNo, q1.Kind)
	assert.Equal(t, "Is the packaging recyclable?", q1.Label)

	q2, ok := g.Node("q2")
	require.True(t, ok)
	require.Len(t, q2.Options, 2)
	assert.Equal(t, "opt-paper", q2.Options[0].ID)

	w1, ok := g.Node("w1")
	require.True(t, ok)
	assert.Equal(t, 2.5, w1.Factor, "string-typed editor numbers decode weakly")

	fn1, ok := g.Node("fn1")
	require.True(t, ok)
	require.NotNil(t, fn1.Function)
	assert.Equal(t, domain.ScopeLocal, fn1.Function.Scope)
	assert.Equal(t, "score", fn1.Function.Variable)
	require.Len(t, fn1.Function.Sequences, 1)
	seq := fn1.Function.Sequences[0]
	assert.Equal(t, domain.SeqIf, seq.Type)
	assert.Equal(t, domain.CmpGreater, seq.Condition)
	assert.Equal(t, "big", seq.HandleID)
	require.Len(t, seq.Children, 1)
	assert.Equal(t, domain.SeqAdd, seq.Children[0].Type)

	end2, ok := g.Node("end-2")
	require.True(t, ok)
	assert.Equal(t, domain.EndRedirect, end2.End.Type)
	assert.Equal(t, "followup", end2.End.RedirectTarget)

	assert.Equal(t, 5.0, g.LocalVariables()["score"])
	assert.True(t, graphcheck.Validate(g).Valid)
}

func TestParseJSON_MinimalExport(t *testing.T) {
	data := []byte(`{
		"id": "mini",
		"nodes": [
			{"id": "s", "type": "start"},
			{"id": "q", "type": "yesNo", "data": {"label": "Q?"}},
			{"id": "e", "type": "end"}
		],
		"edges": [
			{"source": "s", "target": "q"},
			{"source": "q", "sourceHandle": "yes", "target": "e"}
		]
	}`)

	g, err := importer.ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "mini", g.Name, "name falls back to id")
	assert.Equal(t, "e1", g.Edges[0].ID, "edge ids are assigned when absent")

	end, ok := g.Node("e")
	require.True(t, ok)
	assert.Equal(t, domain.EndTerminal, end.End.Type, "endType defaults to terminal")
}

func TestParse_WeightDefaultsToOne(t *testing.T) {
	g, err := importer.ParseYAML([]byte(`
id: g
nodes:
  - id: w
    type: weight
`))
	require.NoError(t, err)
	w, _ := g.Node("w")
	assert.Equal(t, 1.0, w.Factor)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown node type": `
id: g
nodes:
  - id: x
    type: teleport
`,
		"redirect without target": `
id: g
nodes:
  - id: e
    type: end
    data:
      endType: redirect
`,
		"edge without endpoints": `
id: g
edges:
  - id: e1
`,
		"missing graph identity": `
nodes: []
`,
	}

	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := importer.ParseYAML([]byte(src))
			assert.Error(t, err)
		})
	}
}
