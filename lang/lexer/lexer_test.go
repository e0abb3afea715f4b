package lexer

import (
	"testing"

	"github.com/ardnew/minilang/lang/token"
)

func types(lexemes []token.Lexeme) []token.Type {
	out := make([]token.Type, len(lexemes))
	for i, l := range lexemes {
		out[i] = l.Type
	}

	return out
}

func TestNextTypes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Type
	}{
		{
			name: "declaration",
			src:  `def a = 2, b;`,
			want: []token.Type{
				token.Def, token.Name, token.Assign, token.Number, token.Comma,
				token.Name, token.Semicolon, token.EndOfFile,
			},
		},
		{
			name: "compound operators",
			src:  `+= -= *= /= %= **= ** * -> - + / %`,
			want: []token.Type{
				token.AssignAdd, token.AssignSub, token.AssignMul, token.AssignDiv,
				token.AssignMod, token.AssignPower, token.Power, token.Mul,
				token.Arrow, token.Sub, token.Add, token.Div, token.Mod,
				token.EndOfFile,
			},
		},
		{
			name: "relational",
			src:  `< <= > >= == != && || ! in !in`,
			want: []token.Type{
				token.Lower, token.LowerEqual, token.Greater, token.GreaterEqual,
				token.Equals, token.NotEquals, token.And, token.Or, token.Not,
				token.Contains, token.NotContains, token.EndOfFile,
			},
		},
		{
			name: "not followed by name starting with in",
			src:  `!inside`,
			want: []token.Type{token.Not, token.Name, token.EndOfFile},
		},
		{
			name: "not followed by i",
			src:  `!i`,
			want: []token.Type{token.Not, token.Name, token.EndOfFile},
		},
		{
			name: "keywords and types",
			src:  `x as Boolean as Integer as String foreach switch case default`,
			want: []token.Type{
				token.Name, token.As, token.Boolean, token.As, token.Integer,
				token.As, token.String, token.Foreach, token.Switch, token.Case,
				token.Default, token.EndOfFile,
			},
		},
		{
			name: "struct literal",
			src:  `[k: 1, v: "x"] [:] []`,
			want: []token.Type{
				token.OpenBra, token.Name, token.Colon, token.Number, token.Comma,
				token.Name, token.Colon, token.Text, token.CloseBra,
				token.OpenBra, token.Colon, token.CloseBra,
				token.OpenBra, token.CloseBra, token.EndOfFile,
			},
		},
		{
			name: "comments",
			src:  "a // line\n/* block\n */ b",
			want: []token.Type{token.Name, token.Name, token.EndOfFile},
		},
		{
			name: "invalid character",
			src:  `a @ b`,
			want: []token.Type{token.Name, token.InvalidToken},
		},
		{
			name: "single ampersand",
			src:  `a & b`,
			want: []token.Type{token.Name, token.InvalidToken},
		},
		{
			name: "open block comment",
			src:  `a /* never closed`,
			want: []token.Type{token.Name, token.UnexpectedEOF},
		},
		{
			name: "open text",
			src:  `"abc`,
			want: []token.Type{token.UnexpectedEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types(FromString(tt.src).All())
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("lexeme %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTextEscapes(t *testing.T) {
	lex := FromString(`"a\tb\n\"q\"\\"`).Next()
	if lex.Type != token.Text {
		t.Fatalf("type = %v, want TEXT", lex.Type)
	}

	if want := "a\tb\n\"q\"\\"; lex.Text != want {
		t.Errorf("text = %q, want %q", lex.Text, want)
	}

	if bad := FromString(`"\q"`).Next(); bad.Type != token.InvalidToken {
		t.Errorf("unknown escape: type = %v, want INVALID_TOKEN", bad.Type)
	}
}

func TestLineNumbers(t *testing.T) {
	src := "def a\n\n= 1;\n/* x\ny */ println(a)"
	want := []int{1, 1, 3, 3, 3, 5, 5, 5, 5, 5}

	all := FromString(src).All()
	if len(all) != len(want) {
		t.Fatalf("got %d lexemes %v, want %d", len(all), all, len(want))
	}

	for i, l := range all {
		if l.Line != want[i] {
			t.Errorf("lexeme %d (%v): line %d, want %d", i, l, l.Line, want[i])
		}
	}
}

func TestEndOfFileRepeats(t *testing.T) {
	lx := FromString("x")
	lx.Next()

	for range 3 {
		if got := lx.Next().Type; got != token.EndOfFile {
			t.Fatalf("got %v, want END_OF_FILE", got)
		}
	}
}
