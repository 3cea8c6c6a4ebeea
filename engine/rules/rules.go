// Package rules holds the closed condition/action vocabulary and the
// behavior tree interpreter that evaluates a tree against combat state.
package rules

import (
	"fmt"

	"github.com/nathoo/btarena/engine/resolve"
	"github.com/nathoo/btarena/engine/state"
	"github.com/nathoo/btarena/types"
)

// Decision is the result of one tree evaluation.
type Decision struct {
	Action types.ActionID
	OK     bool     // false when the tree produced no action
	Trace  []string // evaluation trace, one entry per visited node
}

// ResolveAction maps task parameter text to an action. Unknown names and
// malformed text resolve to no action.
func ResolveAction(text string) (types.ActionID, bool) {
	c, err := resolve.Call(text)
	if err != nil || c.Negate {
		return "", false
	}
	return ParseAction(c.Name)
}

// Execute walks the tree against the state and returns at most one action.
// It never mutates s.
func Execute(root *types.Node, s *types.CombatState, defs *state.Defs) Decision {
	x := &executor{s: s, defs: defs}
	action, ok := x.node(root)
	return Decision{Action: action, OK: ok, Trace: x.trace}
}

type executor struct {
	s     *types.CombatState
	defs  *state.Defs
	trace []string
}

func (x *executor) logf(format string, args ...any) {
	x.trace = append(x.trace, fmt.Sprintf(format, args...))
}

func (x *executor) node(n *types.Node) (types.ActionID, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case types.KindRoot:
		if len(n.Children) == 0 {
			return "", false
		}
		return x.node(n.Children[0])

	case types.KindSelector:
		x.logf("selector (line %d): trying %d children", n.Line, len(n.Children))
		for _, c := range n.Children {
			if a, ok := x.node(c); ok {
				x.logf("selector (line %d): child on line %d succeeded", n.Line, c.Line)
				return a, true
			}
		}
		x.logf("selector (line %d): all children failed", n.Line)
		return "", false

	case types.KindSequence:
		return x.sequence(n)

	case types.KindCondition:
		// A standalone condition never yields an action.
		x.logf("condition %s: %t (outside sequence)", n.Param, EvalText(n.Param, x.s, x.defs))
		return "", false

	case types.KindTask, types.KindAction:
		a, ok := ResolveAction(n.Param)
		if !ok {
			x.logf("task %s: unknown action", n.Param)
			return "", false
		}
		x.logf("task %s: %s", n.Param, a)
		return a, true

	default:
		x.logf("unknown node kind %q on line %d", n.Kind, n.Line)
		return "", false
	}
}

// sequence evaluates children in order. A false condition aborts the whole
// sequence before any later child is visited. A failing non-final child
// also aborts. The result is the last action produced.
func (x *executor) sequence(n *types.Node) (types.ActionID, bool) {
	x.logf("sequence (line %d): checking %d children", n.Line, len(n.Children))
	var result types.ActionID
	found := false
	for i, c := range n.Children {
		if c.Kind == types.KindCondition {
			if !EvalText(c.Param, x.s, x.defs) {
				x.logf("sequence (line %d): condition %s failed", n.Line, c.Param)
				return "", false
			}
			x.logf("sequence (line %d): condition %s passed", n.Line, c.Param)
			continue
		}
		a, ok := x.node(c)
		if ok {
			result, found = a, true
			continue
		}
		if i < len(n.Children)-1 {
			x.logf("sequence (line %d): child on line %d failed", n.Line, c.Line)
			return "", false
		}
	}
	return result, found
}
