package lang

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"declare and add", "def a = 2, b = 3; println(a + b);", "5\n"},
		{"destructure", "def (x, y) = [1,2,3]; println(x); println(y);", "1\n2\n"},
		{"map size", "def m = [k:1]; println(size(m));", "1\n"},
		{"append array", "def arr = [1,2]; arr += [3]; println(size(arr));", "3\n"},
		{"switch", `def r = switch(2){ case 1 -> "a" case 2 -> "b" default -> "z" }; println(r);`, "b\n"},
		{"empty text", `def s = "" ; println(empty(s));`, "true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.src); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExec(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		input []string
		want  string
	}{
		{"print without newline", `print("a"); print(1); println(null)`, nil, "a1null\n"},
		{"unbound reads null", "println(nope)", nil, "null\n"},
		{"declare without init", "def a; println(a)", nil, "null\n"},
		{"destructure short", "def (a, b, c) = [1]; println([a, b, c])", nil, "[1, null, null]\n"},
		{"compound on null", "def x; x += 5; println(x)", nil, "5\n"},
		{"compound on unbound", "y -= 2; println(y)", nil, "2\n"},
		{"compound arithmetic", "def x = 7; x %= 4; x **= 3; x *= 2; x /= 9; println(x)", nil, "6\n"},
		{"text concat", `def s = "a"; s += "b"; println(s + "c")`, nil, "abc\n"},
		{"map merge", "def m = [a: 1]; m += [b: 2]; println(m)", nil, "{a=1, b=2}\n"},
		{"assign chain", "def a, b; a = b = 4; println([a, b])", nil, "[null, 4]\n"},
		{"chain compound", "def a = 1, b = 2; a += b *= 10; println([a, b])", nil, "[3, 20]\n"},
		{"if else", "if (1 < 2) println(\"y\") else println(\"n\")", nil, "y\n"},
		{"if non-boolean is false", "if (1) println(\"y\") else println(\"n\")", nil, "n\n"},
		{"while", "def i = 0; while (i < 3) { print(i); i += 1 } println(\"\")", nil, "012\n"},
		{"for", "for (def i = 0; i < 3; i += 1) print(i); println(\"\")", nil, "012\n"},
		{"for clauses", "for (def i = 0, j = 10; i < 2; i += 1, j -= 1) println([i, j])", nil, "[0, 10]\n[1, 9]\n"},
		{"foreach", "foreach (x in [1, \"a\", null]) println(x)", nil, "1\na\nnull\n"},
		{"foreach def", "foreach (def k in keys([b: 1, a: 2])) print(k); println(\"\")", nil, "ab\n"},
		{"foreach snapshot", "def a = [1, 2]; foreach (x in a) a += [x]; println(a)", nil, "[1, 2, 1, 2]\n"},
		{"foreach leaves binding", "foreach (x in [1, 2]) {} println(x)", nil, "2\n"},
		{"values", "println(values([b: 1, a: 2]))", nil, "[2, 1]\n"},
		{"access", "def m = [a: [1, [b: \"x\"]]]; println(m.a[1].b)", nil, "x\n"},
		{"access by text index", `def m = [k: 3]; println(m["k"])`, nil, "3\n"},
		{"access out of range", "def a = [1]; println([a[5], a[-1]])", nil, "[null, null]\n"},
		{"access absent key", "def m = [:]; println(m.x)", nil, "null\n"},
		{"element write", "def a = [1, 2]; a[1] = 9; println(a)", nil, "[1, 9]\n"},
		{"entry write", "def m = [k: 1]; m.k += 1; println(m)", nil, "{k=2}\n"},
		{"nested write", "def m = [a: [0]]; m.a[0] = \"z\"; println(m)", nil, "{a=[z]}\n"},
		{"aliasing", "def a = [1]; def b = a; b[0] = 2; println(a)", nil, "[2]\n"},
		{"scalar copy", "def a = 1; def b = a; b += 1; println([a, b])", nil, "[1, 2]\n"},
		{"plus copies", "def a = [1]; def b = a + []; b[0] = 2; println(a)", nil, "[1]\n"},
		{"self reference", "def a = [1]; a += [a]; println(a)", nil, "[1, [1]]\n"},
		{"cycle", "def a = [0]; a[0] = a; println(a)", nil, "[[...]]\n"},
		{"cyclic equality", "def a = [0]; a[0] = a; def b = [0]; b[0] = b; println([a == b, a != b])", nil, "[true, false]\n"},
		{"compound index evaluated once", `def a = [0, 0]; a[read("") as Integer] += 5; println(a)`, []string{"1"}, "[0, 5]\n"},
		{"compound key evaluated once", `def m = [k: 1]; m[read("")] *= 3; println(m)`, []string{"k"}, "{k=3}\n"},
		{"switch default", "println(switch (9) { case 1 -> 1 default -> 0 })", nil, "0\n"},
		{"switch no match", "println(switch (9) { case 1 -> 1 })", nil, "null\n"},
		{"switch deep equality", "println(switch ([1]) { case [1] -> \"eq\" })", nil, "eq\n"},
		{"switch lazy default", "println(switch (1) { case 1 -> 1 default -> 1 / 0 })", nil, "1\n"},
		{"switch first match", "println(switch (1) { case 1 -> \"a\" case 1 -> \"b\" })", nil, "a\n"},
		{"read", `def n = read("n? "); println((n as Integer) + 1)`, []string{"41"}, "n? 42\n"},
		{"read twice", `println(read("") + read(""))`, []string{"a", "b"}, "ab\n"},
		{"cast", `println([1 as Boolean, "" as Boolean, "12" as Integer, true as Integer, [1] as String])`, nil, "[true, false, 12, 1, [1]]\n"},
		{"contains", "println([2 in [1, 2], \"a\" in [a: 1], 3 !in [3]])", nil, "[true, true, false]\n"},
		{"eager logic", `def b = false && read("x") == "y"; println(b)`, []string{"y"}, "xfalse\n"},
		{"map literal order", "println([z: 1, a: 2, m: 3])", nil, "{a=2, m=3, z=1}\n"},
		{"duplicate map keys", "println([a: 1, a: 2])", nil, "{a=2}\n"},
		{"reserved key", "def m = [:]; println(m.if)", nil, "null\n"},
		{"comments", "// line\nprintln(1) /* block\n */ println(2)", nil, "1\n2\n"},
		{"escapes", `println("a\tb\"c\\")`, nil, "a\tb\"c\\\n"},
		{"wrap", "def n = 2147483647; n += 1; println(n)", nil, "-2147483648\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.src, tt.input...); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
		err  error
	}{
		{"division by zero", "def a = 0;\nprintln(1 / a)", "02: division by zero", ErrDivisionByZero},
		{"modulo by zero", "println(1 % 0)", "01: division by zero", ErrDivisionByZero},
		{"invalid operand", "println(1 + \"a\")", "01: invalid operand for +: Number and Text", ErrInvalidOperand},
		{"compare texts", `println("a" < "b")`, "01: invalid operand for <: Text and Text", ErrInvalidOperand},
		{"negate text", `println(-"a")`, "01: invalid operand for -: Text", ErrInvalidOperand},
		{"size of text", `println(size("abc"))`, "01: invalid operand for size: Text", ErrInvalidOperand},
		{"in text", `println("a" in "abc")`, "01: invalid operand for in: Text and Text", ErrInvalidOperand},
		{"not indexable", "def a = 1; println(a[0])", "01: value is not indexable (Number)", ErrNotIndexable},
		{"write not indexable", "def a = null; a.x = 1", "01: value is not indexable (Null)", ErrNotIndexable},
		{"array text index", `def a = [1]; println(a["0"])`, "01: invalid index for Array: Text", ErrInvalidIndex},
		{"map number index", "def m = [:]; println(m[0])", "01: invalid index for Map: Number", ErrInvalidIndex},
		{"write out of range", "def a = [1];\na[1] = 2", "02: index out of range [1] with length 1", ErrIndexRange},
		{"write negative", "def a = [1]; a[-1] = 2", "01: index out of range [-1] with length 1", ErrIndexRange},
		{"write missing key", "def m = [a: 1]; m.b = 2", `01: missing key "b"`, ErrMissingKey},
		{"destructure non-array", "def (a, b) = [k: 1]", "01: value is not an array (Map)", ErrNotArray},
		{"foreach non-array", "foreach (x in 3) println(x)", "01: value is not an array (Number)", ErrNotArray},
		{"cast array", "println([1] as Boolean)", "01: invalid cast from Array to Boolean", ErrInvalidCast},
		{"cast null integer", "println(null as Integer)", "01: invalid cast from Null to Integer", ErrInvalidCast},
		{"cast bad integer", `println("x1" as Integer)`, `01: invalid integer "x1"`, ErrInvalidInteger},
		{"read exhausted", `println(read("> "))`, "01: input exhausted", ErrInputExhausted},
		{"eager logic fails", "println(false && 1 / 0 == 0)", "01: division by zero", ErrDivisionByZero},
		{"compound mismatch", "def a = [1]; a += 1", "01: invalid operand for +: Array and Number", ErrInvalidOperand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.src)
			if !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want %v", err, tt.err)
			}

			if got := Diagnostic(err); got != tt.want {
				t.Errorf("diagnostic = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecStopsAtError(t *testing.T) {
	out, err := run(t, "println(1); println(1 / 0); println(2)")
	if err == nil {
		t.Fatal("expected error")
	}

	if out != "1\n" {
		t.Errorf("output = %q, want %q", out, "1\n")
	}
}

func TestReadPrompt(t *testing.T) {
	out, err := run(t, `def a = read("first"); println(a)`)
	if !errors.Is(err, ErrInputExhausted) {
		t.Fatalf("error = %v, want %v", err, ErrInputExhausted)
	}

	if out != "first" {
		t.Errorf("prompt = %q, want %q", out, "first")
	}
}

func TestRuntimeReuse(t *testing.T) {
	var out bytes.Buffer

	rt := NewRuntime(WithOutput(&out))

	for _, src := range []string{"def n = 1", "n += 1", "println(n)"} {
		if err := Exec(t.Context(), src, rt); err != nil {
			t.Fatalf("exec %q: %v", src, err)
		}
	}

	if got := out.String(); got != "2\n" {
		t.Errorf("got %q, want %q", got, "2\n")
	}

	scope, ok := rt.Environment().(*Scope)
	if !ok {
		t.Fatalf("environment is %T", rt.Environment())
	}

	if names := strings.Join(scope.Names(), ","); names != "n" {
		t.Errorf("names = %q, want %q", names, "n")
	}
}

func TestProgramReuse(t *testing.T) {
	prog := parse(t, "def a = [0]; a[0] += 1; println(a)")

	for range 2 {
		var out strings.Builder

		if err := prog.Run(t.Context(), WithOutput(&out)); err != nil {
			t.Fatal(err)
		}

		if got := out.String(); got != "[1]\n" {
			t.Errorf("got %q, want %q", got, "[1]\n")
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriteFailure(t *testing.T) {
	prog := parse(t, "\nprintln(1)")

	err := prog.Run(t.Context(), WithOutput(failingWriter{}))
	if !errors.Is(err, ErrWriteOutput) {
		t.Fatalf("error = %v, want %v", err, ErrWriteOutput)
	}

	if got := Diagnostic(err); got != "02: failed to write output: closed" {
		t.Errorf("diagnostic = %q", got)
	}
}

func TestLineReader(t *testing.T) {
	lr := NewLineReader(strings.NewReader("a\r\nb\nc"))

	for _, want := range []string{"a", "b", "c"} {
		got, err := lr.ReadLine()
		if err != nil {
			t.Fatal(err)
		}

		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}

	if _, err := lr.ReadLine(); err == nil {
		t.Error("expected EOF")
	}
}

type promptQueue struct {
	LineQueue
	prompts []string
}

func (q *promptQueue) Prompt(prompt string) (string, error) {
	q.prompts = append(q.prompts, prompt)

	return q.ReadLine()
}

func TestReadPrompter(t *testing.T) {
	in := &promptQueue{}
	in.Push("x")

	var out strings.Builder

	prog := parse(t, `println(read("name: "))`)
	if err := prog.Run(t.Context(), WithInput(in), WithOutput(&out)); err != nil {
		t.Fatal(err)
	}

	if out.String() != "x\n" {
		t.Errorf("output = %q, want %q", out.String(), "x\n")
	}

	if len(in.prompts) != 1 || in.prompts[0] != "name: " {
		t.Errorf("prompts = %q", in.prompts)
	}
}
