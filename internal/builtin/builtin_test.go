package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/vlang/internal/value"
)

func TestCastInt(t *testing.T) {
	assert.Equal(t, value.IntVal(3), CastInt(value.FloatVal(3.9)))
	assert.Equal(t, value.IntVal(3), CastInt(value.IntVal(3)))
	assert.Equal(t, value.IntVal(42), CastInt(value.Str(" 42 ")))
	assert.Equal(t, value.NoneVal, CastInt(value.Str("nope")))
	assert.Equal(t, value.IntVal(1), CastInt(value.BoolVal(true)))
	assert.Equal(t, value.NoneVal, CastInt(value.NoneVal))
}

func TestCastFloat(t *testing.T) {
	assert.Equal(t, value.FloatVal(3), CastFloat(value.IntVal(3)))
	assert.Equal(t, value.FloatVal(1.5), CastFloat(value.Str("1.5")))
	assert.Equal(t, value.NoneVal, CastFloat(value.Str("nope")))
}

func TestCastString(t *testing.T) {
	assert.Equal(t, value.Str("3"), CastString(value.IntVal(3)))
	assert.Equal(t, value.Str("true"), CastString(value.BoolVal(true)))
	assert.Equal(t, value.Str("null"), CastString(value.NoneVal))
	assert.Equal(t, value.NoneVal, CastString(value.FuncVal(&value.Func{Name: "f"})))
}

func TestListTargetResolvesReservedKey(t *testing.T) {
	scope := value.New(nil)
	scope.DefineList("xs", []value.Value{value.IntVal(1), value.IntVal(2)}, value.NAppend, value.NSet, value.NLen, value.NSlice)

	v, err := Append(scope, []value.Value{value.IntVal(3)}, 1)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(v.ListV.Elems))

	n, err := Len(scope, nil, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n.IntV)

	s, err := Set(scope, []value.Value{value.IntVal(0), value.IntVal(99)}, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(99), s.ListV.Elems[0].IntV)

	sl, err := Slice(scope, []value.Value{value.IntVal(1), value.IntVal(3)}, 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(sl.ListV.Elems))
}

func TestListTargetWithoutBoundListErrors(t *testing.T) {
	scope := value.New(nil)
	_, err := Len(scope, nil, 1)
	assert.Error(t, err)
}

func TestTrigFunctions(t *testing.T) {
	v, err := Sin(nil, 1)
	assert.Error(t, err)
	v, err = Sin([]value.Value{value.IntVal(0)}, 1)
	assert.NoError(t, err)
	assert.Equal(t, float32(0), v.FloatV)
}

func TestDispatchRoutesByTag(t *testing.T) {
	v, err := Dispatch(value.NInt, nil, []value.Value{value.FloatVal(4.2)}, 1)
	assert.NoError(t, err)
	assert.Equal(t, value.IntVal(4), v)
}
