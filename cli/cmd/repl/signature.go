package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// builtins maps each built-in callable to its parameter names.
var builtins = map[string][]string{
	"read":    {"prompt"},
	"empty":   {"value"},
	"size":    {"value"},
	"keys":    {"map"},
	"values":  {"map"},
	"print":   {"value"},
	"println": {"value"},
}

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall describes the innermost call whose argument list contains
// the cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed parenthesis before the
// cursor and the name immediately preceding it. Commas directly inside
// that parenthesis select the argument index; commas nested in brackets,
// braces or text literals do not count.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	type group struct {
		pos   int
		paren bool
		args  int
	}

	var (
		stack  []group
		inText bool
		escape bool
	)

	for i, r := range input[:cursor] {
		switch {
		case escape:
			escape = false
		case inText && r == '\\':
			escape = true
		case r == '"':
			inText = !inText
		case inText:
		case r == '(' || r == '[' || r == '{':
			stack = append(stack, group{pos: i, paren: r == '('})
		case r == ')' || r == ']' || r == '}':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case r == ',' && len(stack) > 0:
			stack[len(stack)-1].args++
		}
	}

	var call *group

	for i := len(stack) - 1; i >= 0 && call == nil; i-- {
		if stack[i].paren {
			call = &stack[i]
		}
	}

	if call == nil {
		return functionCall{}
	}

	start := call.pos
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '_' && r != '.' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		start -= size
	}

	name := input[start:call.pos]
	if name == "" {
		return functionCall{}
	}

	return functionCall{name: name, argIndex: call.args, inCall: true}
}

// signature returns the display signature of a built-in and its
// parameters, or "" if name is not a built-in.
func signature(name string) (string, []string) {
	params, ok := builtins[name]
	if !ok {
		return "", nil
	}

	return name + "(" + strings.Join(params, ", ") + ")", params
}

// renderSignatureHint renders name(params...) with the parameter at arg
// highlighted.
func renderSignatureHint(name string, params []string, arg int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == arg {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
