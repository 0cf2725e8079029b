package runtime

import (
	"fmt"

	"github.com/verdanta/greenflow/pkg/domain"
)

// evalFunction evaluates a Function node's sequences against its selected
// variable and returns the output handle to route through.
//
// Semantics: sequences run top to bottom. Plain operations mutate the
// working value. An `if` block that fires returns its handle immediately;
// when it does not fire, an immediately following `else` returns its handle
// instead. Only when the whole list runs out without a branch is the working
// value written back to the variable scope, and "default" returned.
func (e *Engine) evalFunction(g *domain.Graph, st *domain.TraversalState, node *domain.Node) (string, error) {
	fs := node.Function
	if fs == nil {
		return domain.DefaultHandle, nil
	}

	cur := e.readVariable(fs, st)

	handle, result, branched, err := e.evalSequences(g, node, fs.Sequences, cur)
	if err != nil {
		return "", err
	}

	if branched {
		if e.applyBranchChildren {
			// Execute-then-route mode: the branch's child operations ran
			// and their result must survive the hand-off.
			e.writeVariable(fs, st, result)
		}
		e.logger.Debug("function branched", "graph", g.Name, "node", node.ID, "handle", handle)
		return handle, nil
	}

	e.writeVariable(fs, st, result)
	return domain.DefaultHandle, nil
}

func (e *Engine) evalSequences(g *domain.Graph, node *domain.Node, seqs []domain.Sequence, cur float64) (handle string, result float64, branched bool, err error) {
	for i, seq := range seqs {
		switch seq.Type {
		case domain.SeqIf:
			ok, cmpErr := compare(cur, seq.Condition, seq.Value)
			if cmpErr != nil {
				return "", 0, false, &domain.FunctionError{Graph: g.Name, NodeID: node.ID, Sequence: i, Err: cmpErr}
			}
			if ok {
				if e.applyBranchChildren {
					cur, err = e.applyOps(g, node, seq.Children, cur)
					if err != nil {
						return "", 0, false, err
					}
				}
				return seq.HandleID, cur, true, nil
			}
			// Condition false: a sibling else routes; otherwise evaluation
			// simply continues past the block.
			if i+1 < len(seqs) && seqs[i+1].Type == domain.SeqElse {
				els := seqs[i+1]
				if e.applyBranchChildren {
					cur, err = e.applyOps(g, node, els.Children, cur)
					if err != nil {
						return "", 0, false, err
					}
				}
				return els.HandleID, cur, true, nil
			}

		case domain.SeqElse:
			// Consumed by the preceding if; a dangling else is skipped.

		default:
			cur, err = applyOp(seq, cur)
			if err != nil {
				return "", 0, false, &domain.FunctionError{Graph: g.Name, NodeID: node.ID, Sequence: i, Err: err}
			}
		}
	}
	return "", cur, false, nil
}

// applyOps runs the plain operations of a branch body. Nested conditionals
// inside branch children do not route; they are skipped.
func (e *Engine) applyOps(g *domain.Graph, node *domain.Node, seqs []domain.Sequence, cur float64) (float64, error) {
	var err error
	for i, seq := range seqs {
		switch seq.Type {
		case domain.SeqIf, domain.SeqElse:
			continue
		default:
			cur, err = applyOp(seq, cur)
			if err != nil {
				return 0, &domain.FunctionError{Graph: g.Name, NodeID: node.ID, Sequence: i, Err: err}
			}
		}
	}
	return cur, nil
}

func applyOp(seq domain.Sequence, cur float64) (float64, error) {
	switch seq.Type {
	case domain.SeqAdd:
		return cur + seq.Value, nil
	case domain.SeqSubtract:
		return cur - seq.Value, nil
	case domain.SeqMultiply:
		return cur * seq.Value, nil
	case domain.SeqDivide:
		if seq.Value == 0 {
			return 0, domain.ErrDivisionByZero
		}
		return cur / seq.Value, nil
	default:
		return 0, fmt.Errorf("unknown sequence type %q", seq.Type)
	}
}

func compare(cur float64, op domain.Comparator, value float64) (bool, error) {
	switch op {
	case domain.CmpGreater:
		return cur > value, nil
	case domain.CmpLess:
		return cur < value, nil
	case domain.CmpEqual:
		return cur == value, nil
	default:
		return false, fmt.Errorf("unknown comparator %q", op)
	}
}

func (e *Engine) readVariable(fs *domain.FunctionSpec, st *domain.TraversalState) float64 {
	if fs.Scope == domain.ScopeGlobal {
		return e.globals.Global(fs.Variable)
	}
	return st.Locals[fs.Variable]
}

func (e *Engine) writeVariable(fs *domain.FunctionSpec, st *domain.TraversalState, value float64) {
	if fs.Variable == "" {
		return
	}
	if fs.Scope == domain.ScopeGlobal {
		e.globals.SetGlobal(fs.Variable, value)
		return
	}
	st.Locals[fs.Variable] = value
}
