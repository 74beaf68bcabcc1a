package builtin

import (
	"math"

	"github.com/viant/vlang/internal/langerr"
	"github.com/viant/vlang/internal/value"
)

// trig applies fn to an Int or Float argument (original math.rs::trig_op
// accepts either and always returns Float).
func trig(args []value.Value, line int, fn func(float64) float64) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, langerr.New(langerr.Eval, langerr.ArityMismatch, line, "math function expects 1 argument")
	}
	var angle float64
	switch args[0].Kind {
	case value.Int:
		angle = float64(args[0].IntV)
	case value.Float:
		angle = float64(args[0].FloatV)
	default:
		return value.Value{}, langerr.New(langerr.Eval, langerr.InvalidUnary, line, "math function requires an Int or Float argument")
	}
	return value.FloatVal(float32(fn(angle))), nil
}

// Sin implements math.sin (original math.rs::Math::do_func/Sin).
func Sin(args []value.Value, line int) (value.Value, error) { return trig(args, line, math.Sin) }

// Cos implements math.cos.
func Cos(args []value.Value, line int) (value.Value, error) { return trig(args, line, math.Cos) }

// Tan implements math.tan.
func Tan(args []value.Value, line int) (value.Value, error) { return trig(args, line, math.Tan) }
