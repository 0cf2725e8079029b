package domain

// LifecycleHooks lets hosts observe traversal without coupling the engine
// to any metrics or logging backend. All fields are optional; nil hooks
// are skipped. Hooks must not mutate their arguments.
type LifecycleHooks struct {
	// OnVisit fires once for every node the engine reaches, visual or not.
	OnVisit func(graph string, node *Node)

	// OnQuestion fires when a visual node is about to be presented.
	OnQuestion func(graph string, node *Node)

	// OnComplete fires when a session reaches a terminal outcome.
	OnComplete func(graph string, finalWeight float64)

	// OnRedirect fires when traversal hands off to another graph.
	OnRedirect func(from, target string)

	// OnError fires for traversal errors before they are returned.
	OnError func(graph string, err error)
}
