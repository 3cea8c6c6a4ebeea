// Package resolve turns node parameter text such as "IsPlayerHPLow(30)" or
// "NOT HasScannedEnemy()" into a structured call.
package resolve

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/nathoo/btarena/types"
)

// SyntaxError indicates parameter text that is not a well-formed call.
type SyntaxError struct {
	Text   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed call %q: %s", e.Text, e.Reason)
}

// Call parses parameter text into a Call. Accepted forms:
//
//	Name
//	Name()
//	Name(arg)
//	NOT Name(arg)   !Name(arg)   Not(Name(arg))
//
// Nested negations toggle.
func Call(text string) (types.Call, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return types.Call{}, &SyntaxError{Text: text, Reason: "empty"}
	}

	// 1. Negation prefixes.
	if rest, ok := cutNot(s); ok {
		inner, err := Call(rest)
		if err != nil {
			return types.Call{}, err
		}
		inner.Negate = !inner.Negate
		return inner, nil
	}

	// 2. Name with optional argument list.
	open := strings.IndexByte(s, '(')
	if open < 0 {
		if !isIdent(s) {
			return types.Call{}, &SyntaxError{Text: text, Reason: "invalid name"}
		}
		return types.Call{Name: s}, nil
	}
	if !strings.HasSuffix(s, ")") {
		return types.Call{}, &SyntaxError{Text: text, Reason: "missing closing parenthesis"}
	}
	name := strings.TrimSpace(s[:open])
	if !isIdent(name) {
		return types.Call{}, &SyntaxError{Text: text, Reason: "invalid name"}
	}
	arg := strings.TrimSpace(s[open+1 : len(s)-1])

	// Not(X) wraps a whole call.
	if strings.EqualFold(name, "not") {
		inner, err := Call(arg)
		if err != nil {
			return types.Call{}, err
		}
		inner.Negate = !inner.Negate
		return inner, nil
	}

	return types.Call{Name: name, Arg: unquote(arg)}, nil
}

// cutNot strips a leading "NOT " or "!" prefix.
func cutNot(s string) (string, bool) {
	if strings.HasPrefix(s, "!") {
		return strings.TrimSpace(s[1:]), true
	}
	if len(s) > 4 && strings.EqualFold(s[:3], "not") && unicode.IsSpace(rune(s[3])) {
		return strings.TrimSpace(s[4:]), true
	}
	return "", false
}

// unquote trims surrounding single or double quotes from an argument.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// Normalize returns the canonical spelling for identifiers compared
// case-insensitively (element names, ailments, move names).
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
