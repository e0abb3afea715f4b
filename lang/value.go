package lang

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the tag of a [Value].
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindNumber
	KindText
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindNumber:
		return "Number"
	case KindText:
		return "Text"
	case KindArray:
		return "Array"
	case KindMap:
		return "Map"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a runtime value. The implementations in this package are the
// only ones: [Null], [Boolean], [Number], [Text], [*Array] and [*Map].
//
// Scalars are Go values and are copied on assignment. Arrays and maps are
// pointers, so every binding, element or entry holding one observes
// mutations made through any other.
type Value interface {
	Kind() Kind
	String() string
	value()
}

type (
	// Null is the absent value.
	Null struct{}

	Boolean bool

	// Number is a 32-bit signed integer with wrapping arithmetic.
	Number int32

	Text string

	// Array is an ordered, mutable sequence.
	Array struct {
		Elems []Value
	}

	// Map associates text keys with values. Key order is not significant;
	// iteration helpers return keys sorted.
	Map struct {
		Entries map[string]Value
	}
)

func (Null) Kind() Kind    { return KindNull }
func (Boolean) Kind() Kind { return KindBoolean }
func (Number) Kind() Kind  { return KindNumber }
func (Text) Kind() Kind    { return KindText }
func (*Array) Kind() Kind  { return KindArray }
func (*Map) Kind() Kind    { return KindMap }

func (Null) value()    {}
func (Boolean) value() {}
func (Number) value()  {}
func (Text) value()    {}
func (*Array) value()  {}
func (*Map) value()    {}

func (Null) String() string      { return "null" }
func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }
func (n Number) String() string  { return strconv.FormatInt(int64(n), 10) }
func (t Text) String() string    { return string(t) }

func (a *Array) String() string {
	var sb strings.Builder

	render(&sb, a, nil)

	return sb.String()
}

func (m *Map) String() string {
	var sb strings.Builder

	render(&sb, m, nil)

	return sb.String()
}

// render writes v, printing containers already on the path as "[...]" or
// "{...}" so that self-referencing structures terminate.
func render(sb *strings.Builder, v Value, path []Value) {
	switch c := v.(type) {
	case *Array:
		if slices.Contains(path, Value(c)) {
			sb.WriteString("[...]")

			return
		}

		path = append(path, c)

		sb.WriteByte('[')

		for i, e := range c.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}

			render(sb, orNull(e), path)
		}

		sb.WriteByte(']')

	case *Map:
		if slices.Contains(path, Value(c)) {
			sb.WriteString("{...}")

			return
		}

		path = append(path, c)

		sb.WriteByte('{')

		for i, k := range c.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(k)
			sb.WriteByte('=')
			render(sb, orNull(c.Entries[k]), path)
		}

		sb.WriteByte('}')

	default:
		sb.WriteString(orNull(v).String())
	}
}

// NewArray returns an array holding elems.
func NewArray(elems ...Value) *Array {
	out := &Array{Elems: make([]Value, len(elems))}
	for i, e := range elems {
		out.Elems[i] = orNull(e)
	}

	return out
}

func (a *Array) Len() int { return len(a.Elems) }

// At returns the element at i, or Null when i is out of range.
func (a *Array) At(i int) Value {
	if i < 0 || i >= len(a.Elems) {
		return Null{}
	}

	return a.Elems[i]
}

// Clone returns a new array sharing a's elements.
func (a *Array) Clone() *Array { return &Array{Elems: slices.Clone(a.Elems)} }

// NewMap returns an empty map.
func NewMap() *Map { return &Map{Entries: map[string]Value{}} }

func (m *Map) Len() int { return len(m.Entries) }

// Get returns the value stored under key, or Null and false.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.Entries[key]
	if !ok {
		return Null{}, false
	}

	return v, true
}

// Put stores v under key, inserting the key if needed.
func (m *Map) Put(key string, v Value) {
	if m.Entries == nil {
		m.Entries = map[string]Value{}
	}

	m.Entries[key] = orNull(v)
}

// Keys returns the keys of m in sorted order.
func (m *Map) Keys() []string {
	return slices.Sorted(maps.Keys(m.Entries))
}

// Clone returns a new map sharing m's values.
func (m *Map) Clone() *Map {
	c := maps.Clone(m.Entries)
	if c == nil {
		c = map[string]Value{}
	}

	return &Map{Entries: c}
}

// Truthy reports whether v is the Boolean true. No other value is truthy;
// conversions from other kinds are explicit casts.
func Truthy(v Value) bool {
	b, ok := v.(Boolean)

	return ok && bool(b)
}

// Equal reports whether a and b have the same kind and content. Arrays and
// maps compare element-wise and entry-wise. A pair of containers met again
// while comparing its own contents is taken as equal, so cyclic values
// compare without recursing forever.
func Equal(a, b Value) bool { return equal(a, b, nil) }

// pair is two containers under comparison.
type pair struct{ a, b Value }

func equal(a, b Value, path []pair) bool {
	a, b = orNull(a), orNull(b)

	switch x := a.(type) {
	case Null:
		return b.Kind() == KindNull

	case Boolean, Number, Text:
		return a == b

	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}

		p := pair{x, y}
		if x == y || slices.Contains(path, p) {
			return true
		}

		path = append(path, p)

		for i := range x.Elems {
			if !equal(x.Elems[i], y.Elems[i], path) {
				return false
			}
		}

		return true

	case *Map:
		y, ok := b.(*Map)
		if !ok || len(x.Entries) != len(y.Entries) {
			return false
		}

		p := pair{x, y}
		if x == y || slices.Contains(path, p) {
			return true
		}

		path = append(path, p)

		for k, v := range x.Entries {
			w, ok := y.Entries[k]
			if !ok || !equal(v, w, path) {
				return false
			}
		}

		return true
	}

	return false
}

// Render returns the textual form of v, "null" for nil.
func Render(v Value) string { return orNull(v).String() }

func orNull(v Value) Value {
	if v == nil {
		return Null{}
	}

	return v
}
