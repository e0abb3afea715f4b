package lang

import "context"

// must aborts at n's line if err is non-nil, else returns v.
func must(n Node, v Value, err error) Value {
	if err != nil {
		raise(n.Line(), err)
	}

	return v
}

func (e *ConstExpr) Eval(context.Context, *Runtime) Value { return orNull(e.Value) }

func (e *VariableExpr) Eval(_ context.Context, rt *Runtime) Value {
	return rt.lookup(e.Name)
}

func (e *VariableExpr) Set(_ context.Context, rt *Runtime, v Value) {
	rt.bind(e.Name, v)
}

// slot holds an assignment target whose subexpressions are already
// evaluated, so a compound assignment reads and writes the same place.
type slot struct {
	load  func() Value
	store func(Value)
}

func (e *VariableExpr) slot(_ context.Context, rt *Runtime) slot {
	return slot{
		load:  func() Value { return rt.lookup(e.Name) },
		store: func(v Value) { rt.bind(e.Name, v) },
	}
}

// Eval reads an element or entry. Out-of-range indexes and absent keys
// yield null.
func (e *AccessExpr) Eval(ctx context.Context, rt *Runtime) Value {
	return e.get(e.Base.Eval(ctx, rt), e.Index.Eval(ctx, rt))
}

// Set writes through to an existing element or entry. Writing past the end
// of an array or to an absent key is fatal; new elements and keys are added
// with "+".
func (e *AccessExpr) Set(ctx context.Context, rt *Runtime, v Value) {
	e.put(e.Base.Eval(ctx, rt), e.Index.Eval(ctx, rt), v)
}

func (e *AccessExpr) slot(ctx context.Context, rt *Runtime) slot {
	base := e.Base.Eval(ctx, rt)
	index := e.Index.Eval(ctx, rt)

	return slot{
		load:  func() Value { return e.get(base, index) },
		store: func(v Value) { e.put(base, index, v) },
	}
}

func (e *AccessExpr) get(base, index Value) Value {
	switch c := base.(type) {
	case *Array:
		return c.At(int(e.number(index)))

	case *Map:
		v, _ := c.Get(e.key(index))

		return v
	}

	raise(e.Line(), ErrNotIndexable.Detail("(%s)", base.Kind()))

	return nil
}

func (e *AccessExpr) put(base, index, v Value) {
	switch c := base.(type) {
	case *Array:
		i := e.number(index)
		if i < 0 || int(i) >= c.Len() {
			raise(e.Line(), ErrIndexRange.Detail("[%d] with length %d", i, c.Len()))
		}

		c.Elems[i] = orNull(v)

	case *Map:
		k := e.key(index)
		if _, ok := c.Entries[k]; !ok {
			raise(e.Line(), ErrMissingKey.Detail("%q", k))
		}

		c.Entries[k] = orNull(v)

	default:
		raise(e.Line(), ErrNotIndexable.Detail("(%s)", base.Kind()))
	}
}

func (e *AccessExpr) number(index Value) Number {
	n, ok := index.(Number)
	if !ok {
		raise(e.Line(), ErrInvalidIndex.Detail("for Array: %s", index.Kind()))
	}

	return n
}

func (e *AccessExpr) key(index Value) string {
	t, ok := index.(Text)
	if !ok {
		raise(e.Line(), ErrInvalidIndex.Detail("for Map: %s", index.Kind()))
	}

	return string(t)
}

func (e *ArrayExpr) Eval(ctx context.Context, rt *Runtime) Value {
	out := &Array{Elems: make([]Value, len(e.Elems))}
	for i, el := range e.Elems {
		out.Elems[i] = el.Eval(ctx, rt)
	}

	return out
}

func (e *MapExpr) Eval(ctx context.Context, rt *Runtime) Value {
	out := NewMap()
	for _, it := range e.Items {
		out.Put(it.Key, it.Value.Eval(ctx, rt))
	}

	return out
}

// Eval evaluates Subject once, then case keys in order until one matches.
// Results and Default are evaluated only when selected.
func (e *SwitchExpr) Eval(ctx context.Context, rt *Runtime) Value {
	subject := e.Subject.Eval(ctx, rt)

	for _, c := range e.Cases {
		if Equal(subject, c.Key.Eval(ctx, rt)) {
			return c.Result.Eval(ctx, rt)
		}
	}

	if e.Default != nil {
		return e.Default.Eval(ctx, rt)
	}

	return Null{}
}

func (e *UnaryExpr) Eval(ctx context.Context, rt *Runtime) Value {
	v := e.Operand.Eval(ctx, rt)

	if e.Op == ReadOp {
		return rt.prompt(e.Line(), Render(v))
	}

	out, err := Unary(e.Op, v)

	return must(e, out, err)
}

func (e *BinaryExpr) Eval(ctx context.Context, rt *Runtime) Value {
	l := e.Left.Eval(ctx, rt)
	r := e.Right.Eval(ctx, rt)

	out, err := Binary(e.Op, l, r)

	return must(e, out, err)
}

func (e *CastExpr) Eval(ctx context.Context, rt *Runtime) Value {
	out, err := Cast(e.Op, e.Operand.Eval(ctx, rt))

	return must(e, out, err)
}

func (c *BlocksCommand) Exec(ctx context.Context, rt *Runtime) {
	for _, cmd := range c.Commands {
		rt.trace(ctx, cmd)
		cmd.Exec(ctx, rt)
	}
}

func (c *DeclarationType1Command) Exec(ctx context.Context, rt *Runtime) {
	for _, d := range c.Decls {
		var v Value = Null{}
		if d.Init != nil {
			v = d.Init.Eval(ctx, rt)
		}

		d.Var.Set(ctx, rt, v)
	}
}

// Exec binds each name to the element at its position; names past the end
// of the array bind null.
func (c *DeclarationType2Command) Exec(ctx context.Context, rt *Runtime) {
	v := c.Init.Eval(ctx, rt)

	arr, ok := v.(*Array)
	if !ok {
		raise(c.Line(), ErrNotArray.Detail("(%s)", v.Kind()))
	}

	for i, name := range c.Vars {
		name.Set(ctx, rt, arr.At(i))
	}
}

// Exec stores the right-hand value. A compound operator combines it with
// the target's current value first, unless that value is null, in which
// case the right-hand value is stored as is. The target's base and index
// are evaluated once, before the right-hand side.
func (c *AssignCommand) Exec(ctx context.Context, rt *Runtime) {
	op, compound := c.Op.Binary()
	if !compound {
		c.Target.Set(ctx, rt, c.Value.Eval(ctx, rt))

		return
	}

	target := c.Target.slot(ctx, rt)
	cur := orNull(target.load())
	rhs := c.Value.Eval(ctx, rt)

	if cur.Kind() == KindNull {
		target.store(rhs)

		return
	}

	out, err := Binary(op, cur, rhs)
	target.store(must(c, out, err))
}

func (c *PrintCommand) Exec(ctx context.Context, rt *Runtime) {
	s := Render(c.Value.Eval(ctx, rt))
	if c.Newline {
		s += "\n"
	}

	rt.write(c.Line(), s)
}

func (c *IfCommand) Exec(ctx context.Context, rt *Runtime) {
	switch {
	case Truthy(c.Cond.Eval(ctx, rt)):
		c.Then.Exec(ctx, rt)
	case c.Else != nil:
		c.Else.Exec(ctx, rt)
	}
}

func (c *WhileCommand) Exec(ctx context.Context, rt *Runtime) {
	for Truthy(c.Cond.Eval(ctx, rt)) {
		c.Body.Exec(ctx, rt)
	}
}

func (c *ForCommand) Exec(ctx context.Context, rt *Runtime) {
	if c.Init != nil {
		c.Init.Exec(ctx, rt)
	}

	for c.Cond == nil || Truthy(c.Cond.Eval(ctx, rt)) {
		c.Body.Exec(ctx, rt)

		if c.Inc != nil {
			c.Inc.Exec(ctx, rt)
		}
	}
}

func (c *ForeachCommand) Exec(ctx context.Context, rt *Runtime) {
	v := c.Source.Eval(ctx, rt)

	arr, ok := v.(*Array)
	if !ok {
		raise(c.Line(), ErrNotArray.Detail("(%s)", v.Kind()))
	}

	for _, el := range arr.Clone().Elems {
		c.Var.Set(ctx, rt, el)
		c.Body.Exec(ctx, rt)
	}
}
