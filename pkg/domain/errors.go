package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Traversal errors are local to one session. They never corrupt the shared
// graph or registry; adapters translate them into user-facing messages.
var (
	// ErrNoStartNode is returned when a graph has no Start node.
	ErrNoStartNode = errors.New("graph has no start node")

	// ErrNoStartNodeInTarget is returned when a redirect target graph
	// exists but cannot be entered.
	ErrNoStartNodeInTarget = errors.New("redirect target graph has no start node")

	// ErrRedirectTargetNotFound is returned when an End node redirects to
	// a graph name the registry does not know.
	ErrRedirectTargetNotFound = errors.New("redirect target graph not found")

	// ErrGraphNotFound is returned by registries for unknown graph names.
	ErrGraphNotFound = errors.New("graph not found")

	// ErrDivisionByZero is returned when a Function node divides by zero.
	// The session fails fast rather than propagating NaN into the score.
	ErrDivisionByZero = errors.New("division by zero in function node")

	// ErrSessionNotFound is returned when a session ID is not in the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionCompleted is returned when Advance is called on a session
	// that already reached a terminal outcome.
	ErrSessionCompleted = errors.New("session already completed")
)

// CycleError is returned when the non-visual skip loop revisits a node:
// the graph would spin forever between Start/Weight/Function nodes.
type CycleError struct {
	Graph string
	Path  []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected in graph %q: %s", e.Graph, strings.Join(e.Path, " -> "))
}

// Is makes errors.Is(err, &CycleError{}) work for taxonomy checks.
func (e *CycleError) Is(target error) bool {
	_, ok := target.(*CycleError)
	return ok
}

// FunctionError wraps an evaluation failure inside a Function node with
// enough position to point the author at the broken sequence.
type FunctionError struct {
	Graph    string
	NodeID   string
	Sequence int
	Err      error
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("function node %q (graph %q) sequence %d: %v", e.NodeID, e.Graph, e.Sequence, e.Err)
}

func (e *FunctionError) Unwrap() error { return e.Err }
