// Package parser converts behavior tree DSL text into a node tree and back.
//
// The format is line oriented. Each line is
//
//	<indent><kind>[ : <param>]
//
// where indent is four spaces per depth level. Line one must be "root :".
package parser

import (
	"fmt"
	"strings"

	"github.com/nathoo/btarena/types"
)

// IndentUnit is the number of spaces per depth level.
const IndentUnit = 4

var kinds = map[string]types.NodeKind{
	"root":      types.KindRoot,
	"selector":  types.KindSelector,
	"sequence":  types.KindSequence,
	"condition": types.KindCondition,
	"task":      types.KindTask,
	"action":    types.KindAction,
}

// ParseError is a structural error in DSL text.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// IsLeaf returns true for node kinds that cannot have children.
func IsLeaf(k types.NodeKind) bool {
	switch k {
	case types.KindCondition, types.KindTask, types.KindAction:
		return true
	default:
		return false
	}
}

type frame struct {
	depth int
	node  *types.Node
}

// Parse converts DSL text into a tree rooted at a root node.
func Parse(text string) (*types.Node, error) {
	var root *types.Node
	var stack []frame

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, raw := range lines {
		lineNo := i + 1

		// 1. Strip comments and skip blank lines.
		line := stripComment(raw)
		if strings.TrimSpace(line) == "" {
			continue
		}

		// 2. Measure indentation.
		body := strings.TrimLeft(line, " ")
		spaces := len(line) - len(body)
		if strings.HasPrefix(body, "\t") {
			return nil, &ParseError{Line: lineNo, Msg: "tab indentation is not allowed"}
		}
		if spaces%IndentUnit != 0 {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("indentation of %d spaces is not a multiple of %d", spaces, IndentUnit)}
		}
		depth := spaces / IndentUnit

		// 3. Split kind and parameter.
		kind, param, err := splitLine(body, lineNo)
		if err != nil {
			return nil, err
		}
		node := &types.Node{Kind: kind, Param: param, Line: lineNo}

		// 4. The first line establishes the root.
		if root == nil {
			if depth != 0 || kind != types.KindRoot {
				return nil, &ParseError{Line: lineNo, Msg: "first line must be \"root :\" at depth 0"}
			}
			root = node
			stack = append(stack, frame{depth: 0, node: node})
			continue
		}
		if kind == types.KindRoot {
			return nil, &ParseError{Line: lineNo, Msg: "root may only appear on the first line"}
		}
		if depth == 0 {
			return nil, &ParseError{Line: lineNo, Msg: "only one node may appear at depth 0"}
		}

		// 5. Pop to the parent.
		for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]
		if depth > parent.depth+1 {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("indentation jumps from depth %d to %d", parent.depth, depth)}
		}
		if IsLeaf(parent.node.Kind) {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("%s on line %d cannot have children", parent.node.Kind, parent.node.Line)}
		}

		// 6. Attach and push.
		parent.node.Children = append(parent.node.Children, node)
		stack = append(stack, frame{depth: depth, node: node})
	}

	if root == nil {
		return nil, &ParseError{Line: 1, Msg: "empty tree"}
	}
	return root, nil
}

// splitLine splits "kind : param" on the first colon.
func splitLine(body string, lineNo int) (types.NodeKind, string, error) {
	name, param := body, ""
	if idx := strings.Index(body, ":"); idx >= 0 {
		name, param = body[:idx], body[idx+1:]
	}
	name = strings.ToLower(strings.TrimSpace(name))
	kind, ok := kinds[name]
	if !ok {
		return "", "", &ParseError{Line: lineNo, Msg: fmt.Sprintf("unknown node kind %q", name)}
	}
	return kind, strings.TrimSpace(param), nil
}

// stripComment removes a trailing "# ..." comment.
func stripComment(line string) string {
	if idx := strings.Index(line, "#"); idx >= 0 {
		return strings.TrimRight(line[:idx], " \t")
	}
	return strings.TrimRight(line, " \t\r")
}

// Serialize renders a tree back into canonical DSL text.
func Serialize(root *types.Node) string {
	var b strings.Builder
	writeNode(&b, root, 0)
	return b.String()
}

func writeNode(b *strings.Builder, n *types.Node, depth int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat(" ", depth*IndentUnit))
	b.WriteString(string(n.Kind))
	b.WriteString(" :")
	if n.Param != "" {
		b.WriteString(" ")
		b.WriteString(n.Param)
	}
	b.WriteString("\n")
	for _, c := range n.Children {
		writeNode(b, c, depth+1)
	}
}

// Equal reports whether two trees have the same structure and parameters.
// Source line numbers are ignored.
func Equal(a, b *types.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Param != b.Param || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Walk visits every node in pre-order.
func Walk(root *types.Node, fn func(n *types.Node, depth int)) {
	var walk func(n *types.Node, depth int)
	walk = func(n *types.Node, depth int) {
		if n == nil {
			return
		}
		fn(n, depth)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
}
