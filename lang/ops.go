package lang

import (
	"math"
	"strconv"
)

// Unary applies op to v. [ReadOp] performs I/O and is handled by
// [UnaryExpr]; passing it here is an error.
func Unary(op UnaryOp, v Value) (Value, error) {
	v = orNull(v)

	switch op {
	case NotOp:
		return Boolean(!Truthy(v)), nil

	case NegOp:
		if n, ok := v.(Number); ok {
			return -n, nil
		}

	case EmptyOp:
		switch x := v.(type) {
		case Text:
			return Boolean(len(x) == 0), nil
		case *Array:
			return Boolean(x.Len() == 0), nil
		case *Map:
			return Boolean(x.Len() == 0), nil
		}

	case SizeOp:
		switch x := v.(type) {
		case *Array:
			return Number(x.Len()), nil
		case *Map:
			return Number(x.Len()), nil
		}

	case KeysOp:
		if m, ok := v.(*Map); ok {
			keys := m.Keys()

			out := &Array{Elems: make([]Value, len(keys))}
			for i, k := range keys {
				out.Elems[i] = Text(k)
			}

			return out, nil
		}

	case ValuesOp:
		if m, ok := v.(*Map); ok {
			keys := m.Keys()

			out := &Array{Elems: make([]Value, len(keys))}
			for i, k := range keys {
				out.Elems[i] = m.Entries[k]
			}

			return out, nil
		}
	}

	return nil, ErrInvalidOperand.Detail("for %s: %s", op, v.Kind())
}

// Binary applies op to l and r. Both operands have already been evaluated;
// the logical operators do not short-circuit.
func Binary(op BinaryOp, l, r Value) (Value, error) {
	l, r = orNull(l), orNull(r)

	switch op {
	case AndOp:
		return Boolean(Truthy(l) && Truthy(r)), nil
	case OrOp:
		return Boolean(Truthy(l) || Truthy(r)), nil
	case EqualOp:
		return Boolean(Equal(l, r)), nil
	case NotEqualOp:
		return Boolean(!Equal(l, r)), nil
	case ContainsOp, NotContainsOp:
		return contains(op, l, r)
	case AddOp:
		return add(l, r)
	}

	x, xok := l.(Number)
	y, yok := r.(Number)

	if !xok || !yok {
		return nil, mismatch(op, l, r)
	}

	switch op {
	case LowerThanOp:
		return Boolean(x < y), nil
	case LowerEqualOp:
		return Boolean(x <= y), nil
	case GreaterThanOp:
		return Boolean(x > y), nil
	case GreaterEqualOp:
		return Boolean(x >= y), nil
	case SubOp:
		return x - y, nil
	case MulOp:
		return x * y, nil
	case DivOp:
		if y == 0 {
			return nil, ErrDivisionByZero
		}

		return x / y, nil
	case ModOp:
		if y == 0 {
			return nil, ErrDivisionByZero
		}

		return x % y, nil
	case PowerOp:
		return power(x, y), nil
	}

	return nil, mismatch(op, l, r)
}

func mismatch(op BinaryOp, l, r Value) *Error {
	return ErrInvalidOperand.Detail("for %s: %s and %s", op, l.Kind(), r.Kind())
}

// add implements "+" for numbers, texts, arrays and maps. Arrays and maps
// combine into a new value; neither operand is modified.
func add(l, r Value) (Value, error) {
	switch x := l.(type) {
	case Number:
		if y, ok := r.(Number); ok {
			return x + y, nil
		}

	case Text:
		if y, ok := r.(Text); ok {
			return x + y, nil
		}

	case *Array:
		if y, ok := r.(*Array); ok {
			out := &Array{Elems: make([]Value, 0, x.Len()+y.Len())}
			out.Elems = append(out.Elems, x.Elems...)
			out.Elems = append(out.Elems, y.Elems...)

			return out, nil
		}

	case *Map:
		if y, ok := r.(*Map); ok {
			out := x.Clone()
			for k, v := range y.Entries {
				out.Entries[k] = v
			}

			return out, nil
		}
	}

	return nil, mismatch(AddOp, l, r)
}

// contains tests array membership by value equality, or map key presence
// by the textual form of l.
func contains(op BinaryOp, l, r Value) (Value, error) {
	var found bool

	switch c := r.(type) {
	case *Array:
		for _, e := range c.Elems {
			if Equal(l, e) {
				found = true

				break
			}
		}

	case *Map:
		_, found = c.Entries[Render(l)]

	default:
		return nil, mismatch(op, l, r)
	}

	if op == NotContainsOp {
		found = !found
	}

	return Boolean(found), nil
}

// power computes x**y through float64 and truncates toward zero,
// saturating at the bounds of Number. Negative exponents therefore yield 0
// unless |x| is 1, and 0 raised to a negative power saturates.
func power(x, y Number) Number {
	f := math.Pow(float64(x), float64(y))

	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	default:
		return Number(f)
	}
}

// Cast converts v as directed by op.
func Cast(op CastOp, v Value) (Value, error) {
	v = orNull(v)

	switch op {
	case ToBooleanOp:
		switch x := v.(type) {
		case Null:
			return Boolean(false), nil
		case Boolean:
			return x, nil
		case Number:
			return Boolean(x != 0), nil
		case Text:
			return Boolean(len(x) > 0), nil
		}

	case ToIntegerOp:
		switch x := v.(type) {
		case Number:
			return x, nil
		case Boolean:
			if x {
				return Number(1), nil
			}

			return Number(0), nil
		case Text:
			n, err := strconv.ParseInt(string(x), 10, 32)
			if err != nil {
				return nil, ErrInvalidInteger.Detail("%q", string(x))
			}

			return Number(n), nil
		}

	case ToStringOp:
		return Text(Render(v)), nil
	}

	return nil, ErrInvalidCast.Detail("from %s to %s", v.Kind(), op)
}
