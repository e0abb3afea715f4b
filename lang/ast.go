package lang

import (
	"context"
	"strconv"
)

// Pos is the source line at which a node starts.
type Pos int

// Line returns the line number.
func (p Pos) Line() int { return int(p) }

// Node is implemented by every syntax tree node.
type Node interface {
	Line() int
}

// Expr is a node that produces a [Value].
type Expr interface {
	Node
	Eval(ctx context.Context, rt *Runtime) Value
	expr()
}

// Assignable is an [Expr] that can also be updated in place:
// [*VariableExpr] and [*AccessExpr].
type Assignable interface {
	Expr
	Set(ctx context.Context, rt *Runtime, v Value)
	slot(ctx context.Context, rt *Runtime) slot
}

// Command is a node executed for its effects.
type Command interface {
	Node
	Exec(ctx context.Context, rt *Runtime)
	command()
}

type (
	// ConstExpr is a literal scalar.
	ConstExpr struct {
		Value Value
		Pos
	}

	// VariableExpr names a binding in the environment.
	VariableExpr struct {
		Name string
		Pos
	}

	// AccessExpr indexes an array by number or a map by text, depending on
	// the runtime kind of Base.
	AccessExpr struct {
		Base  Expr
		Index Expr
		Pos
	}

	// ArrayExpr builds a new array from its element expressions.
	ArrayExpr struct {
		Elems []Expr
		Pos
	}

	// MapExpr builds a new map from literal keys.
	MapExpr struct {
		Items []MapItem
		Pos
	}

	MapItem struct {
		Value Expr
		Key   string
	}

	// SwitchExpr selects the result of the first case whose key equals the
	// subject, else Default, else null.
	SwitchExpr struct {
		Subject Expr
		Default Expr
		Cases   []CaseItem
		Pos
	}

	CaseItem struct {
		Key    Expr
		Result Expr
	}

	UnaryExpr struct {
		Operand Expr
		Op      UnaryOp
		Pos
	}

	BinaryExpr struct {
		Left  Expr
		Right Expr
		Op    BinaryOp
		Pos
	}

	CastExpr struct {
		Operand Expr
		Op      CastOp
		Pos
	}
)

func (*ConstExpr) expr()    {}
func (*VariableExpr) expr() {}
func (*AccessExpr) expr()   {}
func (*ArrayExpr) expr()    {}
func (*MapExpr) expr()      {}
func (*SwitchExpr) expr()   {}
func (*UnaryExpr) expr()    {}
func (*BinaryExpr) expr()   {}
func (*CastExpr) expr()     {}

type (
	// BlocksCommand runs its commands in order. It introduces no scope.
	BlocksCommand struct {
		Commands []Command
		Pos
	}

	// DeclarationType1Command binds each name to its initializer, or null.
	DeclarationType1Command struct {
		Decls []Declarator
		Pos
	}

	Declarator struct {
		Var  *VariableExpr
		Init Expr
	}

	// DeclarationType2Command destructures an array positionally.
	DeclarationType2Command struct {
		Vars []*VariableExpr
		Init Expr
		Pos
	}

	AssignCommand struct {
		Target Assignable
		Value  Expr
		Op     AssignOp
		Pos
	}

	PrintCommand struct {
		Value   Expr
		Newline bool
		Pos
	}

	IfCommand struct {
		Cond Expr
		Then Command
		Else Command
		Pos
	}

	WhileCommand struct {
		Cond Expr
		Body Command
		Pos
	}

	// ForCommand runs Init once, then Body and Inc while Cond holds. Any of
	// Init, Cond and Inc may be nil; a nil Cond always holds.
	ForCommand struct {
		Init Command
		Cond Expr
		Inc  Command
		Body Command
		Pos
	}

	// ForeachCommand binds Var to each element of a snapshot of Source.
	ForeachCommand struct {
		Var    *VariableExpr
		Source Expr
		Body   Command
		Pos
	}
)

func (*BlocksCommand) command()           {}
func (*DeclarationType1Command) command() {}
func (*DeclarationType2Command) command() {}
func (*AssignCommand) command()           {}
func (*PrintCommand) command()            {}
func (*IfCommand) command()               {}
func (*WhileCommand) command()            {}
func (*ForCommand) command()              {}
func (*ForeachCommand) command()          {}

// UnaryOp identifies a prefix operator or built-in function.
type UnaryOp int

const (
	NotOp UnaryOp = iota
	NegOp
	ReadOp
	EmptyOp
	SizeOp
	KeysOp
	ValuesOp
)

var unarySymbol = [...]string{
	NotOp:    "!",
	NegOp:    "-",
	ReadOp:   "read",
	EmptyOp:  "empty",
	SizeOp:   "size",
	KeysOp:   "keys",
	ValuesOp: "values",
}

func (op UnaryOp) String() string {
	if op >= 0 && int(op) < len(unarySymbol) {
		return unarySymbol[op]
	}

	return "UnaryOp(" + strconv.Itoa(int(op)) + ")"
}

// IsFunction reports whether op is written with call syntax.
func (op UnaryOp) IsFunction() bool { return op >= ReadOp }

// BinaryOp identifies an infix operator.
type BinaryOp int

const (
	AndOp BinaryOp = iota
	OrOp
	EqualOp
	NotEqualOp
	LowerThanOp
	LowerEqualOp
	GreaterThanOp
	GreaterEqualOp
	ContainsOp
	NotContainsOp
	AddOp
	SubOp
	MulOp
	DivOp
	ModOp
	PowerOp
)

var binarySymbol = [...]string{
	AndOp:          "&&",
	OrOp:           "||",
	EqualOp:        "==",
	NotEqualOp:     "!=",
	LowerThanOp:    "<",
	LowerEqualOp:   "<=",
	GreaterThanOp:  ">",
	GreaterEqualOp: ">=",
	ContainsOp:     "in",
	NotContainsOp:  "!in",
	AddOp:          "+",
	SubOp:          "-",
	MulOp:          "*",
	DivOp:          "/",
	ModOp:          "%",
	PowerOp:        "**",
}

func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binarySymbol) {
		return binarySymbol[op]
	}

	return "BinaryOp(" + strconv.Itoa(int(op)) + ")"
}

// CastOp identifies the target of an "as" conversion.
type CastOp int

const (
	ToBooleanOp CastOp = iota
	ToIntegerOp
	ToStringOp
)

func (op CastOp) String() string {
	switch op {
	case ToBooleanOp:
		return "Boolean"
	case ToIntegerOp:
		return "Integer"
	case ToStringOp:
		return "String"
	default:
		return "CastOp(" + strconv.Itoa(int(op)) + ")"
	}
}

// AssignOp identifies a plain or compound assignment.
type AssignOp int

const (
	StdOp AssignOp = iota
	AddAssignOp
	SubAssignOp
	MulAssignOp
	DivAssignOp
	ModAssignOp
	PowerAssignOp
)

var assignSymbol = [...]string{
	StdOp:         "=",
	AddAssignOp:   "+=",
	SubAssignOp:   "-=",
	MulAssignOp:   "*=",
	DivAssignOp:   "/=",
	ModAssignOp:   "%=",
	PowerAssignOp: "**=",
}

func (op AssignOp) String() string {
	if op >= 0 && int(op) < len(assignSymbol) {
		return assignSymbol[op]
	}

	return "AssignOp(" + strconv.Itoa(int(op)) + ")"
}

// Binary returns the operator a compound assignment combines with.
func (op AssignOp) Binary() (BinaryOp, bool) {
	switch op {
	case AddAssignOp:
		return AddOp, true
	case SubAssignOp:
		return SubOp, true
	case MulAssignOp:
		return MulOp, true
	case DivAssignOp:
		return DivOp, true
	case ModAssignOp:
		return ModOp, true
	case PowerAssignOp:
		return PowerOp, true
	default:
		return 0, false
	}
}
