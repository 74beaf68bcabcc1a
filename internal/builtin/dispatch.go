package builtin

import (
	"github.com/viant/vlang/internal/langerr"
	"github.com/viant/vlang/internal/value"
)

// Dispatch runs every NativeFunc tag except NThreadSpawn, which the
// evaluator handles directly (it must recurse back into Eval).
func Dispatch(tag value.NativeTag, scope *value.Scope, args []value.Value, line int) (value.Value, error) {
	switch tag {
	case value.NInt:
		return castArg(args, line, CastInt)
	case value.NFloat:
		return castArg(args, line, CastFloat)
	case value.NString:
		return castArg(args, line, CastString)
	case value.NAppend:
		return Append(scope, args, line)
	case value.NSet:
		return Set(scope, args, line)
	case value.NLen:
		return Len(scope, args, line)
	case value.NSlice:
		return Slice(scope, args, line)
	case value.NMathSin:
		return Sin(args, line)
	case value.NMathCos:
		return Cos(args, line)
	case value.NMathTan:
		return Tan(args, line)
	default:
		return value.Value{}, langerr.New(langerr.Eval, langerr.ArityMismatch, line, "unsupported native function")
	}
}

func castArg(args []value.Value, line int, cast func(value.Value) value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, langerr.New(langerr.Eval, langerr.ArityMismatch, line, "cast expects 1 argument")
	}
	return cast(args[0]), nil
}
