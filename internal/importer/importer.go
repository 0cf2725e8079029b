// Package importer converts visual-editor graph exports into typed domain
// graphs. The editor ships nodes as generic "data" bags; everything here is
// about getting out of that shape and into the closed NodeKind union before
// the engine ever sees the graph.
package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/verdanta/greenflow/pkg/domain"
)

type rawGraph struct {
	ID        string        `yaml:"id" json:"id"`
	Name      string        `yaml:"name" json:"name"`
	Nodes     []rawNode     `yaml:"nodes" json:"nodes"`
	Edges     []rawEdge     `yaml:"edges" json:"edges"`
	Variables []rawVariable `yaml:"variables" json:"variables"`
}

type rawNode struct {
	ID   string         `yaml:"id" json:"id"`
	Type string         `yaml:"type" json:"type"`
	Kind string         `yaml:"kind" json:"kind"` // alias accepted
	Data map[string]any `yaml:"data" json:"data"`
}

type rawEdge struct {
	ID           string `yaml:"id" json:"id"`
	Source       string `yaml:"source" json:"source"`
	SourceHandle string `yaml:"sourceHandle" json:"sourceHandle"`
	Target       string `yaml:"target" json:"target"`
}

type rawVariable struct {
	Name  string  `yaml:"name" json:"name"`
	Value float64 `yaml:"value" json:"value"`
}

// Per-kind data bag shapes, decoded with mapstructure.
type choiceData struct {
	Label   string          `mapstructure:"label"`
	Options []domain.Option `mapstructure:"options"`
}

type weightData struct {
	Label  string   `mapstructure:"label"`
	Factor *float64 `mapstructure:"factor"`
	Weight *float64 `mapstructure:"weight"` // editor alias for factor
}

type functionData struct {
	Label     string        `mapstructure:"label"`
	Scope     string        `mapstructure:"variableScope"`
	Variable  string        `mapstructure:"selectedVariable"`
	Sequences []rawSequence `mapstructure:"sequences"`
	Handles   []string      `mapstructure:"handles"`
}

type rawSequence struct {
	Type      string        `mapstructure:"type"`
	Value     float64       `mapstructure:"value"`
	Condition string        `mapstructure:"condition"`
	HandleID  string        `mapstructure:"handleId"`
	Children  []rawSequence `mapstructure:"children"`
}

type endData struct {
	Label          string `mapstructure:"label"`
	EndType        string `mapstructure:"endType"`
	RedirectTarget string `mapstructure:"redirectTarget"`
}

// ParseYAML decodes a YAML editor export into a domain graph.
func ParseYAML(data []byte) (*domain.Graph, error) {
	var raw rawGraph
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse graph yaml: %w", err)
	}
	return fromRaw(raw)
}

// ParseJSON decodes a JSON editor export into a domain graph.
func ParseJSON(data []byte) (*domain.Graph, error) {
	var raw rawGraph
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse graph json: %w", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw rawGraph) (*domain.Graph, error) {
	g := &domain.Graph{
		ID:   raw.ID,
		Name: raw.Name,
	}
	if g.Name == "" {
		g.Name = g.ID
	}
	if g.ID == "" {
		g.ID = g.Name
	}
	if g.Name == "" {
		return nil, fmt.Errorf("graph export has neither id nor name")
	}

	for _, rn := range raw.Nodes {
		node, err := decodeNode(rn)
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, node)
	}

	for i, re := range raw.Edges {
		if re.Source == "" || re.Target == "" {
			return nil, fmt.Errorf("edge %d is missing source or target", i)
		}
		id := re.ID
		if id == "" {
			id = fmt.Sprintf("e%d", i+1)
		}
		g.Edges = append(g.Edges, domain.Edge{
			ID:           id,
			Source:       re.Source,
			SourceHandle: re.SourceHandle,
			Target:       re.Target,
		})
	}

	for _, rv := range raw.Variables {
		g.Variables = append(g.Variables, domain.Variable{Name: rv.Name, Value: rv.Value})
	}

	return g, nil
}

func decodeNode(rn rawNode) (domain.Node, error) {
	if rn.ID == "" {
		return domain.Node{}, fmt.Errorf("node export missing id")
	}

	kind, err := parseKind(rn)
	if err != nil {
		return domain.Node{}, err
	}

	node := domain.Node{ID: rn.ID, Kind: kind}

	switch kind {
	case domain.KindStart:
		// No payload.

	case domain.KindYesNo:
		var data choiceData
		if err := decodeData(rn, &data); err != nil {
			return domain.Node{}, err
		}
		node.Label = data.Label

	case domain.KindSingleChoice, domain.KindMultipleChoice:
		var data choiceData
		if err := decodeData(rn, &data); err != nil {
			return domain.Node{}, err
		}
		node.Label = data.Label
		node.Options = data.Options

	case domain.KindWeight:
		var data weightData
		if err := decodeData(rn, &data); err != nil {
			return domain.Node{}, err
		}
		node.Label = data.Label
		switch {
		case data.Factor != nil:
			node.Factor = *data.Factor
		case data.Weight != nil:
			node.Factor = *data.Weight
		default:
			node.Factor = 1.0
		}

	case domain.KindFunction:
		var data functionData
		if err := decodeData(rn, &data); err != nil {
			return domain.Node{}, err
		}
		node.Label = data.Label
		spec := &domain.FunctionSpec{
			Scope:    domain.VariableScope(strings.ToLower(data.Scope)),
			Variable: data.Variable,
			Handles:  data.Handles,
		}
		if spec.Scope == "" {
			spec.Scope = domain.ScopeLocal
		}
		if len(spec.Handles) == 0 {
			spec.Handles = []string{domain.DefaultHandle}
		}
		spec.Sequences = convertSequences(data.Sequences)
		node.Function = spec

	case domain.KindEnd:
		var data endData
		if err := decodeData(rn, &data); err != nil {
			return domain.Node{}, err
		}
		node.Label = data.Label
		end := &domain.EndSpec{Type: domain.EndType(data.EndType), RedirectTarget: data.RedirectTarget}
		if end.Type == "" {
			end.Type = domain.EndTerminal
		}
		if end.Type == domain.EndRedirect && end.RedirectTarget == "" {
			return domain.Node{}, fmt.Errorf("end node %q redirects without a target", rn.ID)
		}
		node.End = end
	}

	return node, nil
}

func parseKind(rn rawNode) (domain.NodeKind, error) {
	raw := rn.Type
	if raw == "" {
		raw = rn.Kind
	}

	switch strings.ToLower(raw) {
	case "start":
		return domain.KindStart, nil
	case "yesno", "yes_no", "yes-no":
		return domain.KindYesNo, nil
	case "singlechoice", "single_choice", "single-choice":
		return domain.KindSingleChoice, nil
	case "multiplechoice", "multiple_choice", "multiple-choice":
		return domain.KindMultipleChoice, nil
	case "weight":
		return domain.KindWeight, nil
	case "function":
		return domain.KindFunction, nil
	case "end":
		return domain.KindEnd, nil
	default:
		return "", fmt.Errorf("node %q has unknown type %q", rn.ID, raw)
	}
}

// decodeData maps the node's generic data bag onto a typed payload struct.
// Weak typing absorbs the editor's habit of exporting numbers as strings.
func decodeData(rn rawNode, target any) error {
	if rn.Data == nil {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("build decoder for node %q: %w", rn.ID, err)
	}
	if err := decoder.Decode(rn.Data); err != nil {
		return fmt.Errorf("decode data of node %q: %w", rn.ID, err)
	}
	return nil
}

func convertSequences(raws []rawSequence) []domain.Sequence {
	if len(raws) == 0 {
		return nil
	}
	out := make([]domain.Sequence, 0, len(raws))
	for _, r := range raws {
		out = append(out, domain.Sequence{
			Type:      domain.SequenceType(strings.ToLower(r.Type)),
			Value:     r.Value,
			Condition: domain.Comparator(r.Condition),
			HandleID:  r.HandleID,
			Children:  convertSequences(r.Children),
		})
	}
	return out
}
