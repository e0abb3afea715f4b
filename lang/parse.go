package lang

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ardnew/minilang/lang/lexer"
	"github.com/ardnew/minilang/lang/token"
	"github.com/ardnew/minilang/log"
)

// Source is a stream of lexemes. After the last lexeme it must keep
// returning [token.EndOfFile].
type Source interface {
	Next() token.Lexeme
}

// Program is a parsed script. Its tree is not modified after parsing, so a
// Program may be executed any number of times, against different runtimes.
type Program struct {
	Root *BlocksCommand
}

// Parse reads src to the end and builds a Program. The first grammar
// violation stops parsing and is returned as an *Error with its line.
func Parse(ctx context.Context, src Source, opts ...Option) (prog *Program, err error) {
	c := makeConfig(opts...)

	p := &parser{
		ctx:      ctx,
		src:      src,
		logger:   c.logger,
		maxDepth: c.maxDepth,
	}

	defer recoverAbort(&err)

	p.advance()

	root := p.parseCode()
	p.eat(token.EndOfFile)

	p.logger.DebugContext(ctx, "parsed",
		slog.Int("commands", len(root.Commands)),
		slog.Int("lines", p.previous.Line),
	)

	return &Program{Root: root}, nil
}

// ParseString parses source text.
func ParseString(ctx context.Context, src string, opts ...Option) (*Program, error) {
	return Parse(ctx, lexer.FromString(src), opts...)
}

// parser is a predictive recursive-descent parser over a single lexeme of
// lookahead. The only speculative decision, a NAME followed by COLON
// opening a map literal, is undone through a pushback buffer one lexeme
// deep.
type parser struct {
	ctx      context.Context
	src      Source
	logger   log.Logger
	queue    []token.Lexeme
	current  token.Lexeme
	previous token.Lexeme
	depth    int
	maxDepth int
}

// advance commits the current lexeme and moves to the next one, taking it
// from the pushback buffer when one was restored.
func (p *parser) advance() {
	p.previous = p.current

	if n := len(p.queue); n > 0 {
		p.current, p.queue = p.queue[n-1], p.queue[:n-1]
	} else {
		p.current = p.src.Next()
	}

	if p.logger.Enabled(p.ctx, log.LevelTrace) {
		p.logger.TraceContext(p.ctx, "lexeme",
			slog.String("type", p.current.Type.String()),
			slog.String("text", p.current.Text),
			slog.Int("line", p.current.Line),
		)
	}
}

// rollback undoes the last advance.
func (p *parser) rollback() {
	p.queue = append(p.queue, p.current)
	p.current = p.previous
}

// eat consumes the current lexeme, which must be of type t.
func (p *parser) eat(t token.Type) token.Lexeme {
	if p.current.Type != t {
		p.fail()
	}

	lex := p.current
	p.advance()

	return lex
}

func (p *parser) at(types ...token.Type) bool {
	for _, t := range types {
		if p.current.Type == t {
			return true
		}
	}

	return false
}

// fail reports the current lexeme as out of place.
func (p *parser) fail() {
	p.failWith(nil)
}

func (p *parser) failWith(cause error) {
	var e *Error

	switch p.current.Type {
	case token.InvalidToken:
		e = ErrInvalidLexeme.Detail("[%s]", p.current.Text)
	case token.UnexpectedEOF, token.EndOfFile:
		e = ErrUnexpectedEOF
	default:
		e = ErrUnexpectedLexeme.Detail("[%s]", p.current.Text)
	}

	if cause != nil {
		e = e.Wrap(cause)
	}

	raise(p.current.Line, e)
}

// nest guards recursion depth; the returned function restores it.
func (p *parser) nest() func() {
	p.depth++
	if p.depth > p.maxDepth {
		raise(p.current.Line, ErrMaxDepthExceeded.Detail("(%d)", p.maxDepth))
	}

	return func() { p.depth-- }
}

func (p *parser) line() Pos { return Pos(p.current.Line) }

// commandStart reports whether the current lexeme can begin a command.
func (p *parser) commandStart() bool {
	switch p.current.Type {
	case token.Def, token.Print, token.Println, token.If, token.While,
		token.For, token.Foreach:
		return true
	}

	return p.expressionStart()
}

func (p *parser) expressionStart() bool {
	switch p.current.Type {
	case token.Not, token.Sub, token.OpenPar, token.Null, token.False,
		token.True, token.Number, token.Text, token.Read, token.Empty,
		token.Size, token.Keys, token.Values, token.Switch, token.OpenBra,
		token.Name:
		return true
	}

	return false
}

// code ::= { cmd [';'] }
func (p *parser) parseCode() *BlocksCommand {
	blocks := &BlocksCommand{Pos: p.line()}

	for {
		for p.at(token.Semicolon) {
			p.advance()
		}

		if !p.commandStart() {
			return blocks
		}

		blocks.Commands = append(blocks.Commands, p.parseCmd())
	}
}

// cmd ::= decl | print | if | while | for | foreach | assign
func (p *parser) parseCmd() Command {
	switch p.current.Type {
	case token.Def:
		return p.parseDecl()
	case token.Print, token.Println:
		return p.parsePrint()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.For:
		return p.parseFor()
	case token.Foreach:
		return p.parseForeach()
	}

	if p.expressionStart() {
		return p.parseAssign()
	}

	p.fail()

	return nil
}

// decl ::= def ( name ['=' expr] {',' name ['=' expr]}
//
//	| '(' name {',' name} ')' '=' expr )
func (p *parser) parseDecl() Command {
	pos := p.line()
	p.eat(token.Def)

	if p.at(token.OpenPar) {
		return p.parseDeclType2(pos)
	}

	decl := &DeclarationType1Command{Pos: pos}

	for {
		d := Declarator{Var: p.parseName()}

		if p.at(token.Assign) {
			p.advance()
			d.Init = p.parseExpr()
		}

		decl.Decls = append(decl.Decls, d)

		if !p.at(token.Comma) {
			return decl
		}

		p.advance()
	}
}

func (p *parser) parseDeclType2(pos Pos) Command {
	decl := &DeclarationType2Command{Pos: pos}

	p.eat(token.OpenPar)

	decl.Vars = append(decl.Vars, p.parseName())

	for p.at(token.Comma) {
		p.advance()
		decl.Vars = append(decl.Vars, p.parseName())
	}

	p.eat(token.ClosePar)
	p.eat(token.Assign)

	decl.Init = p.parseExpr()

	return decl
}

// print ::= (print | println) '(' expr ')'
func (p *parser) parsePrint() Command {
	cmd := &PrintCommand{Pos: p.line(), Newline: p.at(token.Println)}

	p.advance()
	p.eat(token.OpenPar)
	cmd.Value = p.parseExpr()
	p.eat(token.ClosePar)

	return cmd
}

// if ::= if '(' expr ')' body [else body]
//
// An "else if" chain is parsed iteratively, so every link sits at the
// nesting depth of the first if.
func (p *parser) parseIf() Command {
	first := p.parseIfHead()

	for cur := first; p.at(token.Else); {
		p.advance()

		if !p.at(token.If) {
			cur.Else = p.parseBody()

			break
		}

		next := p.parseIfHead()
		cur.Else = next
		cur = next
	}

	return first
}

// parseIfHead parses everything of an if command before its else.
func (p *parser) parseIfHead() *IfCommand {
	cmd := &IfCommand{Pos: p.line()}

	p.eat(token.If)
	p.eat(token.OpenPar)
	cmd.Cond = p.parseExpr()
	p.eat(token.ClosePar)
	cmd.Then = p.parseBody()

	return cmd
}

// while ::= while '(' expr ')' body
func (p *parser) parseWhile() Command {
	cmd := &WhileCommand{Pos: p.line()}

	p.eat(token.While)
	p.eat(token.OpenPar)
	cmd.Cond = p.parseExpr()
	p.eat(token.ClosePar)
	cmd.Body = p.parseBody()

	return cmd
}

// for ::= for '(' [clauses] ';' [expr] ';' [clauses] ')' body
func (p *parser) parseFor() Command {
	cmd := &ForCommand{Pos: p.line()}

	p.eat(token.For)
	p.eat(token.OpenPar)

	if !p.at(token.Semicolon) {
		cmd.Init = p.parseClauses()
	}

	p.eat(token.Semicolon)

	if !p.at(token.Semicolon) {
		cmd.Cond = p.parseExpr()
	}

	p.eat(token.Semicolon)

	if !p.at(token.ClosePar) {
		cmd.Inc = p.parseClauses()
	}

	p.eat(token.ClosePar)
	cmd.Body = p.parseBody()

	return cmd
}

// clauses ::= (decl | assign) {',' (decl | assign)}
//
// A single clause is returned as is; several collapse into one Blocks.
func (p *parser) parseClauses() Command {
	blocks := &BlocksCommand{Pos: p.line()}

	for {
		if p.at(token.Def) {
			blocks.Commands = append(blocks.Commands, p.parseDecl())
		} else {
			blocks.Commands = append(blocks.Commands, p.parseAssign())
		}

		if !p.at(token.Comma) {
			break
		}

		p.advance()
	}

	if len(blocks.Commands) == 1 {
		return blocks.Commands[0]
	}

	return blocks
}

// foreach ::= foreach '(' [def] name in expr ')' body
func (p *parser) parseForeach() Command {
	cmd := &ForeachCommand{Pos: p.line()}

	p.eat(token.Foreach)
	p.eat(token.OpenPar)

	if p.at(token.Def) {
		p.advance()
	}

	cmd.Var = p.parseName()

	p.eat(token.Contains)
	cmd.Source = p.parseExpr()
	p.eat(token.ClosePar)
	cmd.Body = p.parseBody()

	return cmd
}

// body ::= cmd | '{' code '}'
func (p *parser) parseBody() Command {
	defer p.nest()()

	if !p.at(token.OpenCur) {
		return p.parseCmd()
	}

	p.advance()

	code := p.parseCode()

	p.eat(token.CloseCur)

	return code
}

// assign ::= expr op expr {op expr}
//
// A chain "t1 op1 t2 op2 e" becomes the sequence "t1 op1 t2; t2 op2 e",
// executed left to right. Every operand but the last must be assignable.
func (p *parser) parseAssign() Command {
	pos := p.line()
	lhs := p.parseExpr()

	var chain []Command

	for {
		op, ok := p.assignOp()
		if !ok {
			if chain == nil {
				p.fail()
			}

			break
		}

		target, ok := lhs.(Assignable)
		if !ok {
			p.failWith(ErrNotAssignable.At(lhs.Line()))
		}

		p.advance()

		rhs := p.parseExpr()
		chain = append(chain, &AssignCommand{
			Pos:    Pos(target.Line()),
			Target: target,
			Op:     op,
			Value:  rhs,
		})
		lhs = rhs
	}

	if len(chain) == 1 {
		return chain[0]
	}

	return &BlocksCommand{Pos: pos, Commands: chain}
}

func (p *parser) assignOp() (AssignOp, bool) {
	switch p.current.Type {
	case token.Assign:
		return StdOp, true
	case token.AssignAdd:
		return AddAssignOp, true
	case token.AssignSub:
		return SubAssignOp, true
	case token.AssignMul:
		return MulAssignOp, true
	case token.AssignDiv:
		return DivAssignOp, true
	case token.AssignMod:
		return ModAssignOp, true
	case token.AssignPower:
		return PowerAssignOp, true
	default:
		return 0, false
	}
}

// expr ::= rel { ('&&' | '||') rel }
func (p *parser) parseExpr() Expr {
	defer p.nest()()

	left := p.parseRel()

	for p.at(token.And, token.Or) {
		pos := p.line()
		op := AndOp

		if p.at(token.Or) {
			op = OrOp
		}

		p.advance()
		left = &BinaryExpr{Pos: pos, Op: op, Left: left, Right: p.parseRel()}
	}

	return left
}

var relOps = map[token.Type]BinaryOp{
	token.Lower:        LowerThanOp,
	token.Greater:      GreaterThanOp,
	token.LowerEqual:   LowerEqualOp,
	token.GreaterEqual: GreaterEqualOp,
	token.Equals:       EqualOp,
	token.NotEquals:    NotEqualOp,
	token.Contains:     ContainsOp,
	token.NotContains:  NotContainsOp,
}

// rel ::= cast { relop cast }
func (p *parser) parseRel() Expr {
	left := p.parseCast()

	for {
		op, ok := relOps[p.current.Type]
		if !ok {
			return left
		}

		pos := p.line()
		p.advance()
		left = &BinaryExpr{Pos: pos, Op: op, Left: left, Right: p.parseCast()}
	}
}

// cast ::= arith [as (Boolean | Integer | String)]
func (p *parser) parseCast() Expr {
	operand := p.parseArith()

	if !p.at(token.As) {
		return operand
	}

	pos := p.line()
	p.advance()

	var op CastOp

	switch p.current.Type {
	case token.Boolean:
		op = ToBooleanOp
	case token.Integer:
		op = ToIntegerOp
	case token.String:
		op = ToStringOp
	default:
		p.fail()
	}

	p.advance()

	return &CastExpr{Pos: pos, Op: op, Operand: operand}
}

// arith ::= term { ('+' | '-') term }
func (p *parser) parseArith() Expr {
	left := p.parseTerm()

	for p.at(token.Add, token.Sub) {
		pos := p.line()
		op := AddOp

		if p.at(token.Sub) {
			op = SubOp
		}

		p.advance()
		left = &BinaryExpr{Pos: pos, Op: op, Left: left, Right: p.parseTerm()}
	}

	return left
}

// term ::= power { ('*' | '/' | '%') power }
func (p *parser) parseTerm() Expr {
	left := p.parsePower()

	for p.at(token.Mul, token.Div, token.Mod) {
		pos := p.line()

		var op BinaryOp

		switch p.current.Type {
		case token.Mul:
			op = MulOp
		case token.Div:
			op = DivOp
		default:
			op = ModOp
		}

		p.advance()
		left = &BinaryExpr{Pos: pos, Op: op, Left: left, Right: p.parsePower()}
	}

	return left
}

// power ::= factor { '**' factor }
func (p *parser) parsePower() Expr {
	left := p.parseFactor()

	for p.at(token.Power) {
		pos := p.line()
		p.advance()
		left = &BinaryExpr{Pos: pos, Op: PowerOp, Left: left, Right: p.parseFactor()}
	}

	return left
}

// factor ::= ['!' | '-'] ( '(' expr ')' | rvalue )
func (p *parser) parseFactor() Expr {
	pos := p.line()

	var (
		op    UnaryOp
		unary bool
	)

	switch p.current.Type {
	case token.Not:
		op, unary = NotOp, true
		p.advance()
	case token.Sub:
		op, unary = NegOp, true
		p.advance()
	}

	var operand Expr

	if p.at(token.OpenPar) {
		p.advance()
		operand = p.parseExpr()
		p.eat(token.ClosePar)
	} else {
		operand = p.parseRvalue()
	}

	if !unary {
		return operand
	}

	return &UnaryExpr{Pos: pos, Op: op, Operand: operand}
}

// rvalue ::= const | function | switch | struct | lvalue
func (p *parser) parseRvalue() Expr {
	switch p.current.Type {
	case token.Null, token.False, token.True, token.Number, token.Text:
		return p.parseConst()
	case token.Read, token.Empty, token.Size, token.Keys, token.Values:
		return p.parseFunction()
	case token.Switch:
		return p.parseSwitch()
	case token.OpenBra:
		return p.parseStruct()
	case token.Name:
		return p.parseLvalue()
	}

	p.fail()

	return nil
}

// const ::= null | false | true | number | text
func (p *parser) parseConst() Expr {
	pos := p.line()
	lex := p.current

	var v Value

	switch lex.Type {
	case token.Null:
		v = Null{}
	case token.False:
		v = Boolean(false)
	case token.True:
		v = Boolean(true)
	case token.Number:
		n, err := strconv.ParseInt(lex.Text, 10, 32)
		if err != nil {
			raise(lex.Line, ErrInvalidLexeme.Detail("[%s]", lex.Text).Wrap(err))
		}

		v = Number(n)
	case token.Text:
		v = Text(lex.Text)
	default:
		p.fail()
	}

	p.advance()

	return &ConstExpr{Pos: pos, Value: v}
}

var functionOps = map[token.Type]UnaryOp{
	token.Read:   ReadOp,
	token.Empty:  EmptyOp,
	token.Size:   SizeOp,
	token.Keys:   KeysOp,
	token.Values: ValuesOp,
}

// function ::= (read | empty | size | keys | values) '(' expr ')'
func (p *parser) parseFunction() Expr {
	pos := p.line()

	op, ok := functionOps[p.current.Type]
	if !ok {
		p.fail()
	}

	p.advance()
	p.eat(token.OpenPar)
	operand := p.parseExpr()
	p.eat(token.ClosePar)

	return &UnaryExpr{Pos: pos, Op: op, Operand: operand}
}

// switch ::= switch '(' expr ')' '{' { case expr '->' expr } [default '->' expr] '}'
func (p *parser) parseSwitch() Expr {
	e := &SwitchExpr{Pos: p.line()}

	p.eat(token.Switch)
	p.eat(token.OpenPar)
	e.Subject = p.parseExpr()
	p.eat(token.ClosePar)
	p.eat(token.OpenCur)

	for p.at(token.Case) {
		p.advance()

		var c CaseItem

		c.Key = p.parseExpr()
		p.eat(token.Arrow)
		c.Result = p.parseExpr()

		e.Cases = append(e.Cases, c)
	}

	if p.at(token.Default) {
		p.advance()
		p.eat(token.Arrow)
		e.Default = p.parseExpr()
	}

	p.eat(token.CloseCur)

	return e
}

// struct ::= '[' [ ':' | expr {',' expr} | name ':' expr {',' name ':' expr} ] ']'
//
// A NAME directly followed by COLON opens a map; any other NAME is the
// start of the first array element, and the lexeme read past it is pushed
// back.
func (p *parser) parseStruct() Expr {
	pos := p.line()

	p.eat(token.OpenBra)

	switch p.current.Type {
	case token.CloseBra:
		p.advance()

		return &ArrayExpr{Pos: pos}

	case token.Colon:
		p.advance()
		p.eat(token.CloseBra)

		return &MapExpr{Pos: pos}

	case token.Name:
		p.advance()

		if p.at(token.Colon) {
			return p.parseMapItems(pos, p.previous.Text)
		}

		p.rollback()
	}

	arr := &ArrayExpr{Pos: pos}
	arr.Elems = append(arr.Elems, p.parseExpr())

	for p.at(token.Comma) {
		p.advance()
		arr.Elems = append(arr.Elems, p.parseExpr())
	}

	p.eat(token.CloseBra)

	return arr
}

// parseMapItems continues a map literal whose first key has been read and
// whose COLON is current.
func (p *parser) parseMapItems(pos Pos, key string) Expr {
	m := &MapExpr{Pos: pos}

	for {
		p.eat(token.Colon)
		m.Items = append(m.Items, MapItem{Key: key, Value: p.parseExpr()})

		if !p.at(token.Comma) {
			break
		}

		p.advance()
		key = p.eat(token.Name).Text
	}

	p.eat(token.CloseBra)

	return m
}

// lvalue ::= name { '.' name | '[' expr ']' }
func (p *parser) parseLvalue() Expr {
	var e Assignable = p.parseName()

	for {
		switch p.current.Type {
		case token.Dot:
			pos := p.line()
			p.advance()

			key := p.current
			if key.Type != token.Name && !key.Type.IsKeyword() {
				p.fail()
			}

			p.advance()
			e = &AccessExpr{
				Pos:   pos,
				Base:  e,
				Index: &ConstExpr{Pos: Pos(key.Line), Value: Text(key.Text)},
			}

		case token.OpenBra:
			pos := p.line()
			p.advance()
			index := p.parseExpr()
			p.eat(token.CloseBra)
			e = &AccessExpr{Pos: pos, Base: e, Index: index}

		default:
			return e
		}
	}
}

func (p *parser) parseName() *VariableExpr {
	lex := p.eat(token.Name)

	return &VariableExpr{Pos: Pos(lex.Line), Name: lex.Text}
}
