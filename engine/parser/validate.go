package parser

import (
	"fmt"
	"strings"

	"github.com/nathoo/btarena/types"
)

// ValidationError collects every structural problem found by Validate.
type ValidationError struct {
	Problems []ParseError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Error()
	}
	return "invalid tree:\n  " + strings.Join(parts, "\n  ")
}

// Validate checks that a parsed tree is executable: root has exactly one
// child, every composite has children, and the last line of the tree is a
// task that closes the final fallback branch.
func Validate(root *types.Node) error {
	if root == nil {
		return &ValidationError{Problems: []ParseError{{Line: 1, Msg: "empty tree"}}}
	}

	var problems []ParseError
	add := func(line int, format string, args ...any) {
		problems = append(problems, ParseError{Line: line, Msg: fmt.Sprintf(format, args...)})
	}

	if root.Kind != types.KindRoot {
		add(root.Line, "top node is %s, want root", root.Kind)
	}
	if len(root.Children) != 1 {
		add(root.Line, "root must have exactly one child, has %d", len(root.Children))
	}

	var last *types.Node
	Walk(root, func(n *types.Node, depth int) {
		last = n
		switch n.Kind {
		case types.KindSelector, types.KindSequence:
			if len(n.Children) == 0 {
				add(n.Line, "%s has no children", n.Kind)
			}
		case types.KindCondition, types.KindTask, types.KindAction:
			if n.Param == "" {
				add(n.Line, "%s has no parameter", n.Kind)
			}
		}
	})

	if last != nil && last != root && last.Kind != types.KindTask && last.Kind != types.KindAction {
		add(last.Line, "final fallback branch must end in a task, found %s", last.Kind)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ParseAndValidate parses text and rejects trees that Validate refuses.
// This is the acceptance gate for externally generated trees.
func ParseAndValidate(text string) (*types.Node, error) {
	root, err := Parse(text)
	if err != nil {
		return nil, err
	}
	if err := Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}
