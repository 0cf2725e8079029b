package domain

// OutcomeKind discriminates what a traversal step produced.
type OutcomeKind string

const (
	// OutcomeQuestion means a visual node must be rendered to the user.
	OutcomeQuestion OutcomeKind = "question"
	// OutcomeCompleted means a terminal End node (or a missing edge) was
	// reached; FinalWeight carries the accumulated score.
	OutcomeCompleted OutcomeKind = "completed"
	// OutcomeRedirected means an End node handed traversal off to another
	// graph; the caller must start the named graph next.
	OutcomeRedirected OutcomeKind = "redirected"
)

// Outcome is the result of Start or Advance.
type Outcome struct {
	Kind OutcomeKind `json:"kind"`

	// Node is the question to render (Kind == OutcomeQuestion).
	Node *Node `json:"node,omitempty"`

	// Graph names the graph the node belongs to.
	Graph string `json:"graph,omitempty"`

	// FinalWeight is the accumulator at completion (Kind == OutcomeCompleted).
	FinalWeight float64 `json:"final_weight,omitempty"`

	// RedirectTarget names the next graph (Kind == OutcomeRedirected).
	RedirectTarget string `json:"redirect_target,omitempty"`
}

// Question builds a question outcome.
func Question(graph string, node *Node) *Outcome {
	return &Outcome{Kind: OutcomeQuestion, Graph: graph, Node: node}
}

// Completed builds a completion outcome with the final score.
func Completed(graph string, finalWeight float64) *Outcome {
	return &Outcome{Kind: OutcomeCompleted, Graph: graph, FinalWeight: finalWeight}
}

// Redirected builds a redirect outcome pointing at the target graph.
func Redirected(from, target string) *Outcome {
	return &Outcome{Kind: OutcomeRedirected, Graph: from, RedirectTarget: target}
}
