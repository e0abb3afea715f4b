package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes p as canonical source: one statement per line, bodies in
// braces indented by indent spaces, and parentheses only where precedence
// requires them. Formatting the parse of the output reproduces it.
func (p *Program) Format(ctx context.Context, w io.Writer, indent int) error {
	f := &formatter{indent: indent}
	f.commands(p.Root.Commands, 0)

	_, err := io.WriteString(w, f.sb.String())

	return err
}

// FormatJSON writes the syntax tree as JSON. An indent of zero writes it
// on a single line.
func (p *Program) FormatJSON(ctx context.Context, w io.Writer, indent int) error {
	enc := json.NewEncoder(w)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	return enc.Encode(p.ToMap())
}

// FormatYAML writes the syntax tree as YAML. An indent of zero selects
// flow style.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// Print writes an indented dump of the syntax tree: one node per line with
// its kind, line and scalar fields, children indented below it.
func (p *Program) Print(ctx context.Context, w io.Writer, indent int) error {
	var sb strings.Builder

	dumpNode(&sb, "", p.ToMap(), 0, max(indent, 1))

	_, err := io.WriteString(w, sb.String())

	return err
}

// childOrder lists node fields in the order they appear in source.
var childOrder = []string{
	"target", "base", "index", "subject", "cases", "key", "result",
	"default", "left", "right", "operand", "declarations", "init", "cond",
	"inc", "then", "else", "source", "value", "elements", "items",
	"commands", "body",
}

func dumpNode(sb *strings.Builder, label string, n map[string]any, depth, indent int) {
	var (
		head     []string
		scalars  []string
		children []string
	)

	switch label {
	case "":
	case "-":
		head = append(head, "-")
	default:
		head = append(head, label+":")
	}

	if name, ok := n["node"].(string); ok {
		head = append(head, fmt.Sprintf("%s @%v", name, n["line"]))
	}

	for k, v := range n {
		switch v.(type) {
		case map[string]any, []any:
			children = append(children, k)
		default:
			if k != "node" && k != "line" {
				scalars = append(scalars, k)
			}
		}
	}

	sort.Strings(scalars)

	for _, k := range scalars {
		head = append(head, fmt.Sprintf("%s=%v", k, n[k]))
	}

	sb.WriteString(strings.Repeat(" ", depth*indent))
	sb.WriteString(strings.Join(head, " "))
	sb.WriteByte('\n')

	slices.SortFunc(children, func(a, b string) int {
		return slices.Index(childOrder, a) - slices.Index(childOrder, b)
	})

	for _, k := range children {
		switch c := n[k].(type) {
		case map[string]any:
			dumpNode(sb, k, c, depth+1, indent)
		case []any:
			sb.WriteString(strings.Repeat(" ", (depth+1)*indent))
			fmt.Fprintf(sb, "%s: (%d)\n", k, len(c))

			for _, item := range c {
				switch x := item.(type) {
				case map[string]any:
					dumpNode(sb, "-", x, depth+2, indent)
				default:
					sb.WriteString(strings.Repeat(" ", (depth+2)*indent))
					fmt.Fprintf(sb, "- %v\n", x)
				}
			}
		}
	}
}

type formatter struct {
	sb     strings.Builder
	indent int
}

func (f *formatter) pad(depth int) {
	f.sb.WriteString(strings.Repeat(" ", depth*f.indent))
}

// commands writes cmds one per line. Nested blocks carry no scope and are
// flattened.
func (f *formatter) commands(cmds []Command, depth int) {
	for _, c := range cmds {
		if b, ok := c.(*BlocksCommand); ok {
			f.commands(b.Commands, depth)

			continue
		}

		f.pad(depth)
		f.command(c, depth)
		f.sb.WriteByte('\n')
	}
}

func (f *formatter) body(c Command, depth int) {
	f.sb.WriteString("{\n")

	if b, ok := c.(*BlocksCommand); ok {
		f.commands(b.Commands, depth+1)
	} else {
		f.commands([]Command{c}, depth+1)
	}

	f.pad(depth)
	f.sb.WriteByte('}')
}

func (f *formatter) command(c Command, depth int) {
	switch x := c.(type) {
	case *DeclarationType1Command, *DeclarationType2Command, *AssignCommand:
		f.clause(c)
		f.sb.WriteByte(';')

	case *PrintCommand:
		if x.Newline {
			f.sb.WriteString("println(")
		} else {
			f.sb.WriteString("print(")
		}

		f.expr(x.Value, 0)
		f.sb.WriteString(");")

	case *IfCommand:
		f.sb.WriteString("if (")
		f.expr(x.Cond, 0)
		f.sb.WriteString(") ")
		f.body(x.Then, depth)

		switch e := x.Else.(type) {
		case nil:
		case *IfCommand:
			f.sb.WriteString(" else ")
			f.command(e, depth)
		default:
			f.sb.WriteString(" else ")
			f.body(e, depth)
		}

	case *WhileCommand:
		f.sb.WriteString("while (")
		f.expr(x.Cond, 0)
		f.sb.WriteString(") ")
		f.body(x.Body, depth)

	case *ForCommand:
		f.sb.WriteString("for (")
		f.clauses(x.Init)
		f.sb.WriteString("; ")

		if x.Cond != nil {
			f.expr(x.Cond, 0)
		}

		f.sb.WriteString("; ")
		f.clauses(x.Inc)
		f.sb.WriteString(") ")
		f.body(x.Body, depth)

	case *ForeachCommand:
		f.sb.WriteString("foreach (")
		f.sb.WriteString(x.Var.Name)
		f.sb.WriteString(" in ")
		f.expr(x.Source, 0)
		f.sb.WriteString(") ")
		f.body(x.Body, depth)

	case *BlocksCommand:
		f.clauses(x)
	}
}

// clauses writes a for-loop clause list separated by commas.
func (f *formatter) clauses(c Command) {
	if c == nil {
		return
	}

	b, ok := c.(*BlocksCommand)
	if !ok {
		f.clause(c)

		return
	}

	for i, sub := range b.Commands {
		if i > 0 {
			f.sb.WriteString(", ")
		}

		f.clauses(sub)
	}
}

// clause writes a declaration or assignment without its terminator.
func (f *formatter) clause(c Command) {
	switch x := c.(type) {
	case *DeclarationType1Command:
		f.sb.WriteString("def ")

		for i, d := range x.Decls {
			if i > 0 {
				f.sb.WriteString(", ")
			}

			f.sb.WriteString(d.Var.Name)

			if d.Init != nil {
				f.sb.WriteString(" = ")
				f.expr(d.Init, 0)
			}
		}

	case *DeclarationType2Command:
		f.sb.WriteString("def (")

		for i, v := range x.Vars {
			if i > 0 {
				f.sb.WriteString(", ")
			}

			f.sb.WriteString(v.Name)
		}

		f.sb.WriteString(") = ")
		f.expr(x.Init, 0)

	case *AssignCommand:
		f.expr(x.Target, 0)
		f.sb.WriteString(" " + x.Op.String() + " ")
		f.expr(x.Value, 0)

	default:
		f.command(c, 0)
	}
}

// Precedence levels, loosest first.
const (
	precOr = iota + 1
	precRel
	precCast
	precAdd
	precMul
	precPow
	precUnary
	precPrimary
)

func precedence(e Expr) int {
	switch x := e.(type) {
	case *BinaryExpr:
		switch x.Op {
		case AndOp, OrOp:
			return precOr
		case AddOp, SubOp:
			return precAdd
		case MulOp, DivOp, ModOp:
			return precMul
		case PowerOp:
			return precPow
		default:
			return precRel
		}
	case *CastExpr:
		return precCast
	case *UnaryExpr:
		if x.Op.IsFunction() {
			return precPrimary
		}

		return precUnary
	default:
		return precPrimary
	}
}

// expr writes e, parenthesized if it binds looser than floor.
func (f *formatter) expr(e Expr, floor int) {
	p := precedence(e)
	if p < floor {
		f.sb.WriteByte('(')
		defer f.sb.WriteByte(')')
	}

	switch x := e.(type) {
	case *ConstExpr:
		f.value(x.Value)

	case *VariableExpr:
		f.sb.WriteString(x.Name)

	case *AccessExpr:
		f.expr(x.Base, precPrimary)

		if k, ok := x.Index.(*ConstExpr); ok {
			if t, ok := k.Value.(Text); ok && isName(string(t)) {
				f.sb.WriteString("." + string(t))

				return
			}
		}

		f.sb.WriteByte('[')
		f.expr(x.Index, 0)
		f.sb.WriteByte(']')

	case *ArrayExpr:
		f.sb.WriteByte('[')

		for i, el := range x.Elems {
			if i > 0 {
				f.sb.WriteString(", ")
			}

			f.expr(el, 0)
		}

		f.sb.WriteByte(']')

	case *MapExpr:
		if len(x.Items) == 0 {
			f.sb.WriteString("[:]")

			return
		}

		f.sb.WriteByte('[')

		for i, it := range x.Items {
			if i > 0 {
				f.sb.WriteString(", ")
			}

			f.sb.WriteString(it.Key + ": ")
			f.expr(it.Value, 0)
		}

		f.sb.WriteByte(']')

	case *SwitchExpr:
		f.sb.WriteString("switch (")
		f.expr(x.Subject, 0)
		f.sb.WriteString(") {")

		for _, c := range x.Cases {
			f.sb.WriteString(" case ")
			f.expr(c.Key, 0)
			f.sb.WriteString(" -> ")
			f.expr(c.Result, 0)
		}

		if x.Default != nil {
			f.sb.WriteString(" default -> ")
			f.expr(x.Default, 0)
		}

		f.sb.WriteString(" }")

	case *UnaryExpr:
		if x.Op.IsFunction() {
			f.sb.WriteString(x.Op.String() + "(")
			f.expr(x.Operand, 0)
			f.sb.WriteByte(')')

			return
		}

		f.sb.WriteString(x.Op.String())
		f.expr(x.Operand, precPrimary)

	case *BinaryExpr:
		f.expr(x.Left, p)
		f.sb.WriteString(" " + x.Op.String() + " ")
		f.expr(x.Right, p+1)

	case *CastExpr:
		f.expr(x.Operand, precAdd)
		f.sb.WriteString(" as " + x.Op.String())

	default:
		fmt.Fprintf(&f.sb, "<%T>", e)
	}
}

func (f *formatter) value(v Value) {
	switch x := orNull(v).(type) {
	case Text:
		f.sb.WriteString(quoteText(string(x)))
	case Number:
		if x < 0 {
			fmt.Fprintf(&f.sb, "(-%d)", -int64(x))

			return
		}

		f.sb.WriteString(x.String())
	default:
		f.sb.WriteString(x.String())
	}
}

// quoteText writes s with the escapes the lexer understands.
func quoteText(s string) string {
	var sb strings.Builder

	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}

// isName reports whether s lexes as a single name or reserved word.
func isName(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}

	return s != ""
}
