// Package lang parses and executes minilang, a small imperative scripting
// language with dynamically typed values.
//
// # Values
//
// Every value is one of null, a Boolean, a 32-bit signed Number, a Text,
// an Array or a Map. Arrays and maps are references: assigning one to a
// second name shares it, and mutation through either name is visible
// through both. The other kinds are copied.
//
// # Grammar
//
// Informal EBNF, in order of increasing precedence for expressions:
//
//	code     → { cmd [';'] }
//	cmd      → decl | print | if | while | for | foreach | assign
//	decl     → 'def' name ['=' expr] {',' name ['=' expr]}
//	         | 'def' '(' name {',' name} ')' '=' expr
//	print    → ('print' | 'println') '(' expr ')'
//	if       → 'if' '(' expr ')' body ['else' body]
//	while    → 'while' '(' expr ')' body
//	for      → 'for' '(' [clauses] ';' [expr] ';' [clauses] ')' body
//	foreach  → 'foreach' '(' ['def'] name 'in' expr ')' body
//	body     → cmd | '{' code '}'
//	assign   → expr op expr {op expr}      op: = += -= *= /= %= **=
//	expr     → rel {('&&' | '||') rel}
//	rel      → cast {('<' | '>' | '<=' | '>=' | '==' | '!=' | 'in' | '!in') cast}
//	cast     → arith ['as' ('Boolean' | 'Integer' | 'String')]
//	arith    → term {('+' | '-') term}
//	term     → power {('*' | '/' | '%') power}
//	power    → factor {'**' factor}
//	factor   → ['!' | '-'] ('(' expr ')' | rvalue)
//	rvalue   → const | function | switch | struct | lvalue
//	function → ('read' | 'empty' | 'size' | 'keys' | 'values') '(' expr ')'
//	switch   → 'switch' '(' expr ')' '{' {'case' expr '->' expr} ['default' '->' expr] '}'
//	struct   → '[' [':' | expr {',' expr} | name ':' expr {',' name ':' expr}] ']'
//	lvalue   → name {'.' name | '[' expr ']'}
//
// # Example
//
//	def total = 0, names = [:];
//	foreach (def n in [3, 4, 5]) {
//	    total += n;
//	}
//	names += [first: "ada"];
//	println(total);               // 12
//	println(names.first);         // ada
//	println(("4" as Integer) + 1) // 5
//
// # Semantics
//
// Only the Boolean true is truthy; conditions of any other kind, including
// null, are false. "&&" and "||" always evaluate both operands.
//
// "+" adds numbers and concatenates texts, arrays and maps, always into a
// new value. Element and entry assignment writes through to an existing
// index or key; writing past the end of an array or to a missing key is an
// error, so growth goes through "+=".
//
// A compound assignment whose target is null stores the right-hand value
// unchanged.
//
// # Errors
//
// Parsing and execution stop at the first error, which is returned as an
// [*Error] carrying the source line. [Error.Diagnostic] renders it as
// "NN: message".
package lang
