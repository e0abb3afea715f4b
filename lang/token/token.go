// Package token defines the lexeme types exchanged between the lexer and
// the parser.
package token

import "strconv"

// Type classifies a lexeme.
type Type int

const (
	// Sentinels.
	InvalidToken Type = iota
	UnexpectedEOF
	EndOfFile

	// Symbols.
	Semicolon    // ;
	Comma        // ,
	Dot          // .
	Colon        // :
	Arrow        // ->
	OpenPar      // (
	ClosePar     // )
	OpenBra      // [
	CloseBra     // ]
	OpenCur      // {
	CloseCur     // }
	Assign       // =
	AssignAdd    // +=
	AssignSub    // -=
	AssignMul    // *=
	AssignDiv    // /=
	AssignMod    // %=
	AssignPower  // **=
	And          // &&
	Or           // ||
	Lower        // <
	Greater      // >
	LowerEqual   // <=
	GreaterEqual // >=
	Equals       // ==
	NotEquals    // !=
	Not          // !
	NotContains  // !in
	Add          // +
	Sub          // -
	Mul          // *
	Div          // /
	Mod          // %
	Power        // **

	// Keywords.
	Def
	Print
	Println
	If
	Else
	While
	For
	Foreach
	Contains // in
	As
	Boolean
	Integer
	String
	Null
	False
	True
	Read
	Empty
	Size
	Keys
	Values
	Switch
	Case
	Default

	// Literals.
	Name
	Number
	Text
)

var typeName = [...]string{
	InvalidToken:  "INVALID_TOKEN",
	UnexpectedEOF: "UNEXPECTED_EOF",
	EndOfFile:     "END_OF_FILE",
	Semicolon:     "SEMICOLON",
	Comma:         "COMMA",
	Dot:           "DOT",
	Colon:         "COLON",
	Arrow:         "ARROW",
	OpenPar:       "OPEN_PAR",
	ClosePar:      "CLOSE_PAR",
	OpenBra:       "OPEN_BRA",
	CloseBra:      "CLOSE_BRA",
	OpenCur:       "OPEN_CUR",
	CloseCur:      "CLOSE_CUR",
	Assign:        "ASSIGN",
	AssignAdd:     "ASSIGN_ADD",
	AssignSub:     "ASSIGN_SUB",
	AssignMul:     "ASSIGN_MUL",
	AssignDiv:     "ASSIGN_DIV",
	AssignMod:     "ASSIGN_MOD",
	AssignPower:   "ASSIGN_POWER",
	And:           "AND",
	Or:            "OR",
	Lower:         "LOWER",
	Greater:       "GREATER",
	LowerEqual:    "LOWER_EQUAL",
	GreaterEqual:  "GREATER_EQUAL",
	Equals:        "EQUALS",
	NotEquals:     "NOT_EQUALS",
	Not:           "NOT",
	NotContains:   "NOT_CONTAINS",
	Add:           "ADD",
	Sub:           "SUB",
	Mul:           "MUL",
	Div:           "DIV",
	Mod:           "MOD",
	Power:         "POWER",
	Def:           "DEF",
	Print:         "PRINT",
	Println:       "PRINTLN",
	If:            "IF",
	Else:          "ELSE",
	While:         "WHILE",
	For:           "FOR",
	Foreach:       "FOREACH",
	Contains:      "CONTAINS",
	As:            "AS",
	Boolean:       "BOOLEAN",
	Integer:       "INTEGER",
	String:        "STRING",
	Null:          "NULL",
	False:         "FALSE",
	True:          "TRUE",
	Read:          "READ",
	Empty:         "EMPTY",
	Size:          "SIZE",
	Keys:          "KEYS",
	Values:        "VALUES",
	Switch:        "SWITCH",
	Case:          "CASE",
	Default:       "DEFAULT",
	Name:          "NAME",
	Number:        "NUMBER",
	Text:          "TEXT",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeName) {
		return typeName[t]
	}

	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// IsKeyword reports whether t is a reserved word.
func (t Type) IsKeyword() bool { return Def <= t && t <= Default }

// keywords maps reserved words to their types.
var keywords = map[string]Type{
	"def":     Def,
	"print":   Print,
	"println": Println,
	"if":      If,
	"else":    Else,
	"while":   While,
	"for":     For,
	"foreach": Foreach,
	"in":      Contains,
	"as":      As,
	"Boolean": Boolean,
	"Integer": Integer,
	"String":  String,
	"null":    Null,
	"false":   False,
	"true":    True,
	"read":    Read,
	"empty":   Empty,
	"size":    Size,
	"keys":    Keys,
	"values":  Values,
	"switch":  Switch,
	"case":    Case,
	"default": Default,
}

// Lookup returns the keyword type for word, or [Name].
func Lookup(word string) Type {
	if t, ok := keywords[word]; ok {
		return t
	}

	return Name
}

// Keywords returns the reserved words in no particular order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}

	return words
}

// Lexeme is one token of source text.
type Lexeme struct {
	Text string
	Type Type
	Line int
}

func (l Lexeme) String() string {
	return strconv.Itoa(l.Line) + ":" + l.Type.String() + "(" + strconv.Quote(l.Text) + ")"
}

// IsSentinel reports whether l terminates or invalidates the stream.
func (l Lexeme) IsSentinel() bool {
	return l.Type == InvalidToken || l.Type == UnexpectedEOF || l.Type == EndOfFile
}
