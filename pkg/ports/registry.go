package ports

import "github.com/verdanta/greenflow/pkg/domain"

// GraphRegistry resolves questionnaire graphs by name. Redirect End nodes
// jump between graphs through it. Implementations must be safe for
// concurrent readers; graphs handed out are shared and must be treated as
// immutable.
type GraphRegistry interface {
	// Graph returns the named graph or domain.ErrGraphNotFound.
	Graph(name string) (*domain.Graph, error)

	// Names lists the registered graph names, sorted.
	Names() []string
}

// GlobalVariables is the one piece of cross-session shared mutable state:
// Function nodes with global scope read and write it. Implementations must
// serialize writes so concurrent sessions never lose updates.
type GlobalVariables interface {
	// Global returns the current value of a global variable (zero if unset).
	Global(name string) float64

	// SetGlobal stores a global variable value.
	SetGlobal(name string, value float64)
}
