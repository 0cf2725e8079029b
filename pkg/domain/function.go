package domain

// VariableScope selects which variable table a Function node reads and writes.
type VariableScope string

const (
	// ScopeLocal targets the owning graph's variables (copied into each session).
	ScopeLocal VariableScope = "local"
	// ScopeGlobal targets the registry-wide variable table shared by all graphs.
	ScopeGlobal VariableScope = "global"
)

// SequenceType is the operation discriminator inside a Function node.
type SequenceType string

const (
	SeqAdd      SequenceType = "add"
	SeqSubtract SequenceType = "subtract"
	SeqMultiply SequenceType = "multiply"
	SeqDivide   SequenceType = "divide"
	SeqIf       SequenceType = "if"
	SeqElse     SequenceType = "else"
)

// Comparator is the operator of a conditional block.
type Comparator string

const (
	CmpGreater Comparator = ">"
	CmpLess    Comparator = "<"
	CmpEqual   Comparator = "=="
)

// Sequence is one step of a Function node: either an arithmetic operation
// applied to the selected variable, or a conditional block that routes
// evaluation out through a named handle.
type Sequence struct {
	Type SequenceType `json:"type" yaml:"type"`

	// Value is the operand for arithmetic ops and the comparison value for if.
	Value float64 `json:"value,omitempty" yaml:"value,omitempty"`

	// Condition is set for if blocks.
	Condition Comparator `json:"condition,omitempty" yaml:"condition,omitempty"`

	// HandleID names the output port taken when an if/else block fires.
	HandleID string `json:"handleId,omitempty" yaml:"handleId,omitempty"`

	// Children are nested sequences of an if/else block.
	Children []Sequence `json:"children,omitempty" yaml:"children,omitempty"`
}

// DefaultHandle is the fall-through output port every Function node exposes.
const DefaultHandle = "default"

// FunctionSpec is the payload of a Function node.
type FunctionSpec struct {
	Scope     VariableScope `json:"variableScope" yaml:"variableScope"`
	Variable  string        `json:"selectedVariable" yaml:"selectedVariable"`
	Sequences []Sequence    `json:"sequences,omitempty" yaml:"sequences,omitempty"`

	// Handles lists the named output ports; always includes "default".
	Handles []string `json:"handles,omitempty" yaml:"handles,omitempty"`
}
