// Package value defines the interpreter's runtime Value type together
// with Scope, the lexical binding store an Env value materializes. The
// two live in one package because they are mutually recursive — a Value
// can be an Env, and an Env is a Scope — the same way a tree-walking
// interpreter's Environment and its stored values are kept in one
// package rather than split across an import cycle.
package value

import "fmt"

// Kind discriminates the cases of Value (spec.md §3).
type Kind int

const (
	Int Kind = iota
	Float
	Bool
	String
	List
	None
	Env
	Func
	Native
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Bool:
		return "Bool"
	case String:
		return "String"
	case List:
		return "List"
	case None:
		return "None"
	case Env:
		return "Env"
	case Func:
		return "Func"
	case Native:
		return "NativeFunc"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// NativeTag names a pluggable built-in by tag (spec.md §4.5). The
// evaluator dispatches natives by tag; their implementations live in
// package builtin.
type NativeTag int

const (
	NLen NativeTag = iota
	NInt
	NFloat
	NString
	NAppend
	NSet
	NSlice
	NMathSin
	NMathCos
	NMathTan
	NThreadSpawn
)

var nativeNames = map[NativeTag]string{
	NLen: "len", NInt: "int", NFloat: "float", NString: "string",
	NAppend: "append", NSet: "set", NSlice: "slice",
	NMathSin: "math.sin", NMathCos: "math.cos", NMathTan: "math.tan",
	NThreadSpawn: "thread.spawn",
}

func (t NativeTag) String() string {
	if n, ok := nativeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Native(%d)", int(t))
}

// Overload is one (parameter names, body) pair of a Func value, keyed
// by arity in Func.Overloads. Body is an *ast.Node but ast cannot be
// imported here without creating a cycle (ast.Node's Literal field is a
// Value), so the body is carried as an opaque interface{} and type
// -asserted back to *ast.Node by package eval, which imports both.
type Overload struct {
	Params []string
	Body   interface{}
}

// Func is a named mapping from arity to overload; spec.md §3 invariant:
// every key in Overloads equals len(Overloads[key].Params).
type Func struct {
	Name      string
	Overloads map[int]*Overload
}

// DefineOverload inserts (params, body) under its arity, refusing to
// overwrite an already-occupied arity (spec.md §9).
func (f *Func) DefineOverload(params []string, body interface{}) error {
	if f.Overloads == nil {
		f.Overloads = map[int]*Overload{}
	}
	arity := len(params)
	if _, exists := f.Overloads[arity]; exists {
		return fmt.Errorf("arity %d already defined for function %q", arity, f.Name)
	}
	f.Overloads[arity] = &Overload{Params: params, Body: body}
	return nil
}

// ListValue is an ordered sequence of Values.
type ListValue struct {
	Elems []Value
}

// Value is the tagged union of runtime values (spec.md §3). Exactly one
// field group is meaningful for a given Kind; the rest are zero.
type Value struct {
	Kind Kind

	IntV    int64
	FloatV  float32
	BoolV   bool
	StringV string
	ListV   *ListValue
	EnvV    *Scope
	FuncV   *Func
	NativeV NativeTag
}

// IntVal builds an Int value.
func IntVal(v int64) Value { return Value{Kind: Int, IntV: v} }

// FloatVal builds a Float value.
func FloatVal(v float32) Value { return Value{Kind: Float, FloatV: v} }

// BoolVal builds a Bool value.
func BoolVal(v bool) Value { return Value{Kind: Bool, BoolV: v} }

// Str builds a String value.
func Str(v string) Value { return Value{Kind: String, StringV: v} }

// ListVal builds a List value from elements.
func ListVal(elems []Value) Value { return Value{Kind: List, ListV: &ListValue{Elems: elems}} }

// EnvVal builds an Env value wrapping a Scope.
func EnvVal(s *Scope) Value { return Value{Kind: Env, EnvV: s} }

// FuncVal builds a Func value.
func FuncVal(f *Func) Value { return Value{Kind: Func, FuncV: f} }

// NativeVal builds a NativeFunc value.
func NativeVal(tag NativeTag) Value { return Value{Kind: Native, NativeV: tag} }

// NoneVal is the canonical None value.
var NoneVal = Value{Kind: None}

// Truthy implements the ternary/if condition rule of spec.md §4.3:
// Float≠0, Int≠0, non-empty String, Bool as itself, None → false.
func (v Value) Truthy() bool {
	switch v.Kind {
	case Float:
		return v.FloatV != 0
	case Int:
		return v.IntV != 0
	case String:
		return len(v.StringV) != 0
	case Bool:
		return v.BoolV
	case None:
		return false
	default:
		return true
	}
}

// Equal implements structural equality over Values (spec.md §4.3, ==/!=).
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Int:
		return a.IntV == b.IntV
	case Float:
		return a.FloatV == b.FloatV
	case Bool:
		return a.BoolV == b.BoolV
	case String:
		return a.StringV == b.StringV
	case None:
		return true
	case List:
		if len(a.ListV.Elems) != len(b.ListV.Elems) {
			return false
		}
		for i := range a.ListV.Elems {
			if !Equal(a.ListV.Elems[i], b.ListV.Elems[i]) {
				return false
			}
		}
		return true
	case Env:
		return a.EnvV == b.EnvV
	case Func:
		return a.FuncV == b.FuncV
	case Native:
		return a.NativeV == b.NativeV
	default:
		return false
	}
}

// Text renders a Value the way print and println do (spec.md
// §4.3/§4.5); numbers as decimals, booleans as true/false, lists with
// their element printing, environments opaquely, None as "null" —
// following original_source/lib_functions/cast_ops.rs's `string` cast
// (a Rust `{:?}` debug dump stands in as a Go `%+v` dump for Env/List).
func (v Value) Text() string {
	switch v.Kind {
	case Int:
		return fmt.Sprintf("%d", v.IntV)
	case Float:
		return fmt.Sprintf("%g", v.FloatV)
	case Bool:
		if v.BoolV {
			return "true"
		}
		return "false"
	case String:
		return v.StringV
	case None:
		return "null"
	case List:
		parts := make([]string, len(v.ListV.Elems))
		for i, e := range v.ListV.Elems {
			parts[i] = e.Text()
		}
		return fmt.Sprintf("%v", parts)
	case Env:
		return fmt.Sprintf("%+v", v.EnvV.Snapshot().vars)
	case Func:
		return fmt.Sprintf("<func %s>", v.FuncV.Name)
	case Native:
		return fmt.Sprintf("<native %s>", v.NativeV)
	default:
		return ""
	}
}
