package lang

import (
	"fmt"
	"math"
	"reflect"
)

// ToNative converts v into plain Go data: nil, bool, int, string, []any
// and map[string]any.
func ToNative(v Value) any {
	switch x := orNull(v).(type) {
	case Boolean:
		return bool(x)
	case Number:
		return int(x)
	case Text:
		return string(x)
	case *Array:
		out := make([]any, len(x.Elems))
		for i, e := range x.Elems {
			out[i] = ToNative(e)
		}

		return out
	case *Map:
		out := make(map[string]any, len(x.Entries))
		for k, e := range x.Entries {
			out[k] = ToNative(e)
		}

		return out
	default:
		return nil
	}
}

// FromNative converts Go data into a Value. Integers outside the range of
// [Number] saturate, floats truncate toward zero, slices and arrays become
// [*Array], maps with string keys become [*Map], and anything else is
// rendered with fmt into [Text].
func FromNative(a any) Value {
	switch x := a.(type) {
	case nil:
		return Null{}
	case Value:
		return x
	case bool:
		return Boolean(x)
	case string:
		return Text(x)
	case int:
		return clampInt(int64(x))
	case int8:
		return Number(x)
	case int16:
		return Number(x)
	case int32:
		return Number(x)
	case int64:
		return clampInt(x)
	case uint:
		return clampUint(uint64(x))
	case uint8:
		return Number(x)
	case uint16:
		return Number(x)
	case uint32:
		return clampUint(uint64(x))
	case uint64:
		return clampUint(x)
	case float32:
		return clampFloat(float64(x))
	case float64:
		return clampFloat(x)
	case []any:
		out := &Array{Elems: make([]Value, len(x))}
		for i, e := range x {
			out.Elems[i] = FromNative(e)
		}

		return out
	case map[string]any:
		out := NewMap()
		for k, e := range x {
			out.Put(k, FromNative(e))
		}

		return out
	}

	rv := reflect.ValueOf(a)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := &Array{Elems: make([]Value, rv.Len())}
		for i := range rv.Len() {
			out.Elems[i] = FromNative(rv.Index(i).Interface())
		}

		return out

	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			out := NewMap()
			for it := rv.MapRange(); it.Next(); {
				out.Put(it.Key().String(), FromNative(it.Value().Interface()))
			}

			return out
		}
	}

	return Text(fmt.Sprint(a))
}

func clampInt(n int64) Number {
	switch {
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < math.MinInt32:
		return math.MinInt32
	default:
		return Number(n)
	}
}

func clampUint(n uint64) Number {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}

	return Number(n)
}

func clampFloat(f float64) Number {
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

// ToMap converts the program into nested maps and slices suitable for
// JSON or YAML encoding.
func (p *Program) ToMap() map[string]any { return nodeMap(p.Root) }

func nodeMap(n Node) map[string]any {
	if n == nil || reflect.ValueOf(n).IsNil() {
		return nil
	}

	m := map[string]any{"node": nodeName(n), "line": n.Line()}

	switch x := n.(type) {
	case *ConstExpr:
		m["value"] = ToNative(x.Value)
		m["kind"] = orNull(x.Value).Kind().String()
	case *VariableExpr:
		m["name"] = x.Name
	case *AccessExpr:
		m["base"] = nodeMap(x.Base)
		m["index"] = nodeMap(x.Index)
	case *ArrayExpr:
		m["elements"] = nodeList(x.Elems)
	case *MapExpr:
		items := make([]any, len(x.Items))
		for i, it := range x.Items {
			items[i] = map[string]any{"key": it.Key, "value": nodeMap(it.Value)}
		}

		m["items"] = items
	case *SwitchExpr:
		cases := make([]any, len(x.Cases))
		for i, c := range x.Cases {
			cases[i] = map[string]any{"key": nodeMap(c.Key), "result": nodeMap(c.Result)}
		}

		m["subject"] = nodeMap(x.Subject)
		m["cases"] = cases

		if x.Default != nil {
			m["default"] = nodeMap(x.Default)
		}
	case *UnaryExpr:
		m["op"] = x.Op.String()
		m["operand"] = nodeMap(x.Operand)
	case *BinaryExpr:
		m["op"] = x.Op.String()
		m["left"] = nodeMap(x.Left)
		m["right"] = nodeMap(x.Right)
	case *CastExpr:
		m["op"] = x.Op.String()
		m["operand"] = nodeMap(x.Operand)
	case *BlocksCommand:
		m["commands"] = nodeList(x.Commands)
	case *DeclarationType1Command:
		decls := make([]any, len(x.Decls))
		for i, d := range x.Decls {
			decl := map[string]any{"name": d.Var.Name}
			if d.Init != nil {
				decl["init"] = nodeMap(d.Init)
			}

			decls[i] = decl
		}

		m["declarations"] = decls
	case *DeclarationType2Command:
		names := make([]any, len(x.Vars))
		for i, v := range x.Vars {
			names[i] = v.Name
		}

		m["names"] = names
		m["init"] = nodeMap(x.Init)
	case *AssignCommand:
		m["op"] = x.Op.String()
		m["target"] = nodeMap(x.Target)
		m["value"] = nodeMap(x.Value)
	case *PrintCommand:
		m["newline"] = x.Newline
		m["value"] = nodeMap(x.Value)
	case *IfCommand:
		m["cond"] = nodeMap(x.Cond)
		m["then"] = nodeMap(x.Then)

		if x.Else != nil {
			m["else"] = nodeMap(x.Else)
		}
	case *WhileCommand:
		m["cond"] = nodeMap(x.Cond)
		m["body"] = nodeMap(x.Body)
	case *ForCommand:
		if x.Init != nil {
			m["init"] = nodeMap(x.Init)
		}

		if x.Cond != nil {
			m["cond"] = nodeMap(x.Cond)
		}

		if x.Inc != nil {
			m["inc"] = nodeMap(x.Inc)
		}

		m["body"] = nodeMap(x.Body)
	case *ForeachCommand:
		m["var"] = x.Var.Name
		m["source"] = nodeMap(x.Source)
		m["body"] = nodeMap(x.Body)
	}

	return m
}

func nodeList[N Node](nodes []N) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = nodeMap(n)
	}

	return out
}
