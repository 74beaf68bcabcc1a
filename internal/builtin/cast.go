// Package builtin implements the NativeFunc bodies the evaluator
// dispatches by tag: type casts, list operations, and math functions.
// Grounded on original_source/lib_functions/{cast_ops,list_ops,math}.rs;
// the thread.spawn primitive is implemented in package eval instead,
// since it must call back into the evaluator recursively (see
// SPEC_FULL.md §5.6).
package builtin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/vlang/internal/value"
)

// CastInt implements the `int(x)` cast (original cast_ops.rs::int):
// Float truncates, Int passes through, String is trimmed and parsed
// (failure yields None), Bool is 1/0, everything else is None.
func CastInt(v value.Value) value.Value {
	switch v.Kind {
	case value.Float:
		return value.IntVal(int64(v.FloatV))
	case value.Int:
		return v
	case value.String:
		n, err := strconv.ParseInt(strings.TrimSpace(v.StringV), 10, 64)
		if err != nil {
			return value.NoneVal
		}
		return value.IntVal(n)
	case value.Bool:
		if v.BoolV {
			return value.IntVal(1)
		}
		return value.IntVal(0)
	default:
		return value.NoneVal
	}
}

// CastFloat implements `float(x)`, by analogy with CastInt — the
// original language has no float() builtin, so this is a supplemented
// cast following the same per-kind shape.
func CastFloat(v value.Value) value.Value {
	switch v.Kind {
	case value.Float:
		return v
	case value.Int:
		return value.FloatVal(float32(v.IntV))
	case value.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.StringV), 32)
		if err != nil {
			return value.NoneVal
		}
		return value.FloatVal(float32(f))
	case value.Bool:
		if v.BoolV {
			return value.FloatVal(1)
		}
		return value.FloatVal(0)
	default:
		return value.NoneVal
	}
}

// CastString implements `string(x)` (original cast_ops.rs::string).
// Note this differs from Value.Text (used by print/println): casting a
// Func or NativeFunc to a string yields None here, where Text renders a
// placeholder — the original keeps the two deliberately distinct.
func CastString(v value.Value) value.Value {
	switch v.Kind {
	case value.Float:
		return value.Str(fmt.Sprintf("%g", v.FloatV))
	case value.Int:
		return value.Str(fmt.Sprintf("%d", v.IntV))
	case value.String:
		return v
	case value.Bool:
		if v.BoolV {
			return value.Str("true")
		}
		return value.Str("false")
	case value.Env:
		return value.Str(v.EnvV.String())
	case value.List:
		parts := make([]string, len(v.ListV.Elems))
		for i, e := range v.ListV.Elems {
			parts[i] = CastString(e).StringV
		}
		return value.Str(fmt.Sprintf("%v", parts))
	case value.None:
		return value.Str("null")
	default:
		return value.NoneVal
	}
}
