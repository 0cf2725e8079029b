package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/verdanta/greenflow/pkg/domain"
)

// run leaves `from` using the answer (visual nodes) or the node's own
// semantics (non-visual nodes), then keeps advancing through non-visual
// nodes until a question or terminal is produced. entered is true when
// `from` is newly reached (session start, redirect hand-off) rather than
// the question the caller is resuming from; it gates the OnVisit hook so
// every node fires it exactly once.
//
// Missing-edge policy: whenever no outgoing edge resolves, traversal ends
// as if a terminal End had been reached, keeping the accumulated weight.
// Incomplete graphs authored interactively terminate gracefully instead of
// erroring.
func (e *Engine) run(ctx context.Context, g *domain.Graph, st *domain.TraversalState, from *domain.Node, answer any, entered bool) (*domain.Outcome, error) {
	node := from
	if entered {
		e.visit(g.Name, node)
	}

	// Cycle guard over this advancement chain. Visual nodes reset the risk
	// (the user gets control back), so only non-visual hops are tracked.
	seen := make(map[string]bool)
	path := []string{}
	if !node.Kind.Visual() {
		seen[node.ID] = true
		path = append(path, node.ID)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if node.Kind == domain.KindEnd {
			return e.finish(g, st, node)
		}

		edge, err := e.resolveEdge(g, st, node, answer)
		if err != nil {
			e.fireError(g.Name, err)
			return nil, err
		}
		answer = nil // only the first hop consumes the user's answer

		if edge == nil {
			e.logger.Debug("no outgoing edge, terminating", "graph", g.Name, "node", node.ID)
			return e.complete(g, st, node.ID)
		}

		next, ok := g.Node(edge.Target)
		if !ok {
			// Dangling edge left behind by the editor. Same policy as a
			// missing edge: terminate with the current accumulator.
			e.logger.Debug("edge target missing, terminating", "graph", g.Name, "edge", edge.ID, "target", edge.Target)
			return e.complete(g, st, node.ID)
		}
		node = next
		e.visit(g.Name, node)

		if node.Kind.Visual() {
			st.CurrentNodeID = node.ID
			st.History = append(st.History, domain.Visit{Graph: g.Name, NodeID: node.ID})
			st.Progress = GraphProgress(g, st)
			if e.hooks.OnQuestion != nil {
				e.hooks.OnQuestion(g.Name, node)
			}
			return domain.Question(g.Name, node), nil
		}

		path = append(path, node.ID)
		if seen[node.ID] {
			err := &domain.CycleError{Graph: g.Name, Path: path}
			e.fireError(g.Name, err)
			return nil, err
		}
		seen[node.ID] = true
	}
}

// resolveEdge picks the outgoing edge for a node, applying the node's side
// effects (weight multiplication, function evaluation) on the way. A nil
// edge with nil error means "no next node".
func (e *Engine) resolveEdge(g *domain.Graph, st *domain.TraversalState, node *domain.Node, answer any) (*domain.Edge, error) {
	edges := g.EdgesFrom(node.ID)

	switch node.Kind {
	case domain.KindStart:
		// First outgoing edge, any handle.
		if len(edges) == 0 {
			return nil, nil
		}
		return &edges[0], nil

	case domain.KindYesNo:
		want := answerString(answer)
		for i := range edges {
			if strings.EqualFold(edges[i].SourceHandle, want) {
				return &edges[i], nil
			}
		}
		return nil, nil

	case domain.KindSingleChoice:
		opt, ok := matchOption(node, answerString(answer))
		if !ok {
			return nil, nil
		}
		for i := range edges {
			if edges[i].SourceHandle == opt.ID {
				return &edges[i], nil
			}
		}
		return nil, nil

	case domain.KindMultipleChoice:
		// Multi-select branching is not part of the authoring model yet:
		// only the single default edge advances, whatever was selected.
		return defaultEdge(edges), nil

	case domain.KindWeight:
		factor := node.Factor
		if factor == 0 {
			factor = 1.0 // unset factor, not an intentional zero
		}
		st.Weight *= factor
		e.logger.Debug("weight applied", "graph", g.Name, "node", node.ID, "factor", factor, "weight", st.Weight)
		return defaultEdge(edges), nil

	case domain.KindFunction:
		handle, err := e.evalFunction(g, st, node)
		if err != nil {
			return nil, err
		}
		for i := range edges {
			if edges[i].SourceHandle == handle {
				return &edges[i], nil
			}
		}
		// Fall back to the default handle's edge.
		for i := range edges {
			if edges[i].Default() {
				return &edges[i], nil
			}
		}
		return nil, nil

	case domain.KindEnd:
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown node kind %q on node %q", node.Kind, node.ID)
	}
}

// finish handles an End node: terminal completion or cross-graph redirect.
// Redirect targets are resolved eagerly so authoring errors surface here,
// not after the caller already committed to the hand-off.
func (e *Engine) finish(g *domain.Graph, st *domain.TraversalState, node *domain.Node) (*domain.Outcome, error) {
	if node.End != nil && node.End.Type == domain.EndRedirect {
		target := node.End.RedirectTarget
		targetGraph, err := e.registry.Graph(target)
		if err != nil {
			err := fmt.Errorf("%w: %q (from end node %q)", domain.ErrRedirectTargetNotFound, target, node.ID)
			e.fireError(g.Name, err)
			return nil, err
		}
		if _, ok := targetGraph.StartNode(); !ok {
			err := fmt.Errorf("%w: %q", domain.ErrNoStartNodeInTarget, target)
			e.fireError(g.Name, err)
			return nil, err
		}

		st.CurrentNodeID = node.ID
		e.logger.Debug("redirecting", "from", g.Name, "to", target)
		if e.hooks.OnRedirect != nil {
			e.hooks.OnRedirect(g.Name, target)
		}
		return domain.Redirected(g.Name, target), nil
	}

	return e.complete(g, st, node.ID)
}

// complete marks the session finished with the accumulated weight.
func (e *Engine) complete(g *domain.Graph, st *domain.TraversalState, nodeID string) (*domain.Outcome, error) {
	st.CurrentNodeID = nodeID
	st.Status = domain.StatusCompleted
	st.Progress = 100
	e.logger.Debug("session completed", "graph", g.Name, "session_id", st.SessionID, "final_weight", st.Weight)
	if e.hooks.OnComplete != nil {
		e.hooks.OnComplete(g.Name, st.Weight)
	}
	return domain.Completed(g.Name, st.Weight), nil
}

// matchOption finds the option the answer refers to, by label first and by
// id as a fallback (the editor sends labels, API clients may send ids).
func matchOption(node *domain.Node, answer string) (domain.Option, bool) {
	if opt, ok := node.OptionByLabel(answer); ok {
		return opt, true
	}
	return node.OptionByID(answer)
}

// defaultEdge returns the single-exit edge: a "main"/"default"/unhandled
// edge if present, otherwise the first edge.
func defaultEdge(edges []domain.Edge) *domain.Edge {
	for i := range edges {
		if edges[i].Default() {
			return &edges[i]
		}
	}
	if len(edges) > 0 {
		return &edges[0]
	}
	return nil
}

func answerString(answer any) string {
	switch v := answer.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
