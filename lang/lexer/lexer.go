// Package lexer splits minilang source text into lexemes.
package lexer

import (
	"bufio"
	"io"
	"strings"

	"github.com/ardnew/minilang/lang/token"
)

const eof = -1

// Lexer produces lexemes from a rune stream, one per call to [Lexer.Next].
// Once the stream ends every call returns [token.EndOfFile].
type Lexer struct {
	src  io.RuneReader
	err  error
	back []rune
	line int
}

// New returns a Lexer reading from r.
func New(r io.Reader) *Lexer {
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}

	return &Lexer{src: rr, line: 1}
}

// FromString returns a Lexer reading src.
func FromString(src string) *Lexer { return New(strings.NewReader(src)) }

// Err returns the first read error other than [io.EOF].
func (lx *Lexer) Err() error { return lx.err }

// Line returns the current line number.
func (lx *Lexer) Line() int { return lx.line }

// All drains the lexer, including the terminating sentinel.
func (lx *Lexer) All() []token.Lexeme {
	var out []token.Lexeme

	for {
		lex := lx.Next()
		out = append(out, lex)

		if lex.IsSentinel() {
			return out
		}
	}
}

func (lx *Lexer) read() rune {
	var r rune

	if n := len(lx.back); n > 0 {
		r, lx.back = lx.back[n-1], lx.back[:n-1]
	} else {
		if lx.err != nil {
			return eof
		}

		var err error

		r, _, err = lx.src.ReadRune()
		if err != nil {
			if err != io.EOF {
				lx.err = err
			}

			return eof
		}
	}

	if r == '\n' {
		lx.line++
	}

	return r
}

// unread pushes r back so that the next read returns it.
func (lx *Lexer) unread(r rune) {
	if r == eof {
		return
	}

	if r == '\n' {
		lx.line--
	}

	lx.back = append(lx.back, r)
}

func (lx *Lexer) peek() rune {
	r := lx.read()
	lx.unread(r)

	return r
}

// accept consumes the next rune if it equals want.
func (lx *Lexer) accept(want rune) bool {
	r := lx.read()
	if r == want {
		return true
	}

	lx.unread(r)

	return false
}

func (lx *Lexer) emit(t token.Type, text string) token.Lexeme {
	return token.Lexeme{Text: text, Type: t, Line: lx.line}
}

// Next returns the next lexeme.
func (lx *Lexer) Next() token.Lexeme {
	r, ok := lx.skip()
	if !ok {
		return lx.emit(token.UnexpectedEOF, "")
	}

	switch {
	case r == eof:
		return lx.emit(token.EndOfFile, "")
	case isLetter(r):
		return lx.word(r)
	case isDigit(r):
		return lx.number(r)
	case r == '"':
		return lx.text()
	}

	return lx.symbol(r)
}

// skip discards whitespace and comments, returning the first significant
// rune. It reports false if a block comment is left open.
func (lx *Lexer) skip() (rune, bool) {
	for {
		r := lx.read()

		switch r {
		case ' ', '\t', '\r', '\n':
			continue

		case '/':
			switch {
			case lx.accept('/'):
				for r != '\n' && r != eof {
					r = lx.read()
				}

				continue

			case lx.accept('*'):
				if !lx.blockComment() {
					return eof, false
				}

				continue
			}
		}

		return r, true
	}
}

func (lx *Lexer) blockComment() bool {
	for {
		switch lx.read() {
		case eof:
			return false
		case '*':
			if lx.accept('/') {
				return true
			}
		}
	}
}

func (lx *Lexer) word(first rune) token.Lexeme {
	var sb strings.Builder

	sb.WriteRune(first)

	for {
		r := lx.read()
		if !isLetter(r) && !isDigit(r) {
			lx.unread(r)

			break
		}

		sb.WriteRune(r)
	}

	w := sb.String()

	return lx.emit(token.Lookup(w), w)
}

func (lx *Lexer) number(first rune) token.Lexeme {
	var sb strings.Builder

	sb.WriteRune(first)

	for isDigit(lx.peek()) {
		sb.WriteRune(lx.read())
	}

	return lx.emit(token.Number, sb.String())
}

// text scans a double-quoted literal; the lexeme carries the decoded content.
func (lx *Lexer) text() token.Lexeme {
	var sb strings.Builder

	line := lx.line

	for {
		r := lx.read()

		switch r {
		case eof:
			return token.Lexeme{Type: token.UnexpectedEOF, Line: line}

		case '\n':
			return token.Lexeme{Text: sb.String(), Type: token.InvalidToken, Line: line}

		case '"':
			return token.Lexeme{Text: sb.String(), Type: token.Text, Line: line}

		case '\\':
			e := lx.read()

			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '"', '\\':
				sb.WriteRune(e)
			case eof:
				return token.Lexeme{Type: token.UnexpectedEOF, Line: line}
			default:
				return token.Lexeme{Text: `\` + string(e), Type: token.InvalidToken, Line: line}
			}

		default:
			sb.WriteRune(r)
		}
	}
}

func (lx *Lexer) symbol(r rune) token.Lexeme {
	pick := func(next rune, long, short token.Type, longText, shortText string) token.Lexeme {
		if lx.accept(next) {
			return lx.emit(long, longText)
		}

		return lx.emit(short, shortText)
	}

	switch r {
	case ';':
		return lx.emit(token.Semicolon, ";")
	case ',':
		return lx.emit(token.Comma, ",")
	case '.':
		return lx.emit(token.Dot, ".")
	case ':':
		return lx.emit(token.Colon, ":")
	case '(':
		return lx.emit(token.OpenPar, "(")
	case ')':
		return lx.emit(token.ClosePar, ")")
	case '[':
		return lx.emit(token.OpenBra, "[")
	case ']':
		return lx.emit(token.CloseBra, "]")
	case '{':
		return lx.emit(token.OpenCur, "{")
	case '}':
		return lx.emit(token.CloseCur, "}")
	case '=':
		return pick('=', token.Equals, token.Assign, "==", "=")
	case '<':
		return pick('=', token.LowerEqual, token.Lower, "<=", "<")
	case '>':
		return pick('=', token.GreaterEqual, token.Greater, ">=", ">")
	case '+':
		return pick('=', token.AssignAdd, token.Add, "+=", "+")
	case '/':
		return pick('=', token.AssignDiv, token.Div, "/=", "/")
	case '%':
		return pick('=', token.AssignMod, token.Mod, "%=", "%")
	case '-':
		if lx.accept('>') {
			return lx.emit(token.Arrow, "->")
		}

		return pick('=', token.AssignSub, token.Sub, "-=", "-")
	case '*':
		if lx.accept('*') {
			return pick('=', token.AssignPower, token.Power, "**=", "**")
		}

		return pick('=', token.AssignMul, token.Mul, "*=", "*")
	case '&':
		if lx.accept('&') {
			return lx.emit(token.And, "&&")
		}

		return lx.emit(token.InvalidToken, "&")
	case '|':
		if lx.accept('|') {
			return lx.emit(token.Or, "||")
		}

		return lx.emit(token.InvalidToken, "|")
	case '!':
		if lx.accept('=') {
			return lx.emit(token.NotEquals, "!=")
		}

		if lx.notIn() {
			return lx.emit(token.NotContains, "!in")
		}

		return lx.emit(token.Not, "!")
	}

	return lx.emit(token.InvalidToken, string(r))
}

// notIn consumes "in" following '!' when it forms a complete word.
func (lx *Lexer) notIn() bool {
	i := lx.read()
	if i != 'i' {
		lx.unread(i)

		return false
	}

	n := lx.read()
	if n != 'n' {
		lx.unread(n)
		lx.unread(i)

		return false
	}

	if after := lx.peek(); isLetter(after) || isDigit(after) {
		lx.unread(n)
		lx.unread(i)

		return false
	}

	return true
}

func isLetter(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }
