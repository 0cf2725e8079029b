package domain

// NodeKind is the closed set of behavioral node types.
// The engine matches on it exhaustively; adding a kind is a compile-time
// visible change, not a runtime surprise hidden in a data bag.
type NodeKind string

const (
	// KindStart is the unique entry point of a graph (non-visual).
	KindStart NodeKind = "start"
	// KindYesNo asks a binary question; answers are the literals "yes"/"no".
	KindYesNo NodeKind = "yesNo"
	// KindSingleChoice asks the user to pick exactly one option.
	KindSingleChoice NodeKind = "singleChoice"
	// KindMultipleChoice asks the user to pick any number of options.
	KindMultipleChoice NodeKind = "multipleChoice"
	// KindWeight multiplies the session score accumulator (non-visual).
	KindWeight NodeKind = "weight"
	// KindFunction evaluates variable arithmetic and conditional routing (non-visual).
	KindFunction NodeKind = "function"
	// KindEnd terminates traversal or redirects into another graph.
	KindEnd NodeKind = "end"
)

// Visual reports whether the kind is rendered to the end user as a question.
// Start, Weight and Function nodes are passed through transparently.
func (k NodeKind) Visual() bool {
	switch k {
	case KindYesNo, KindSingleChoice, KindMultipleChoice:
		return true
	}
	return false
}

// Valid reports whether k is a known kind.
func (k NodeKind) Valid() bool {
	switch k {
	case KindStart, KindYesNo, KindSingleChoice, KindMultipleChoice,
		KindWeight, KindFunction, KindEnd:
		return true
	}
	return false
}

// Option is one selectable answer of a choice node.
type Option struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// EndType distinguishes terminal End nodes from cross-graph redirects.
type EndType string

const (
	EndTerminal EndType = "end"
	EndRedirect EndType = "redirect"
)

// EndSpec is the payload of an End node.
type EndSpec struct {
	Type EndType `json:"endType" yaml:"endType"`

	// RedirectTarget names the graph to hand traversal off to.
	// Required iff Type == EndRedirect.
	RedirectTarget string `json:"redirectTarget,omitempty" yaml:"redirectTarget,omitempty"`
}

// Node is a single step in a questionnaire graph. Kind selects which of the
// payload fields is meaningful; the rest stay at their zero value.
type Node struct {
	ID    string   `json:"id" yaml:"id"`
	Kind  NodeKind `json:"kind" yaml:"kind"`
	Label string   `json:"label,omitempty" yaml:"label,omitempty"`

	// Options is set for SingleChoice and MultipleChoice nodes.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`

	// Factor multiplies the weight accumulator (Weight nodes, default 1.0).
	Factor float64 `json:"factor,omitempty" yaml:"factor,omitempty"`

	// Function is set for Function nodes.
	Function *FunctionSpec `json:"function,omitempty" yaml:"function,omitempty"`

	// End is set for End nodes.
	End *EndSpec `json:"end,omitempty" yaml:"end,omitempty"`
}

// OptionByLabel returns the option whose label matches (exact, then
// case-insensitive fallback handled by the caller if needed).
func (n *Node) OptionByLabel(label string) (Option, bool) {
	for _, o := range n.Options {
		if o.Label == label {
			return o, true
		}
	}
	return Option{}, false
}

// OptionByID returns the option with the given id.
func (n *Node) OptionByID(id string) (Option, bool) {
	for _, o := range n.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
